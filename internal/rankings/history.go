// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package rankings

import (
	"sort"
	"strings"
	"time"

	"github.com/poloboard/poloboard/internal/logging"
)

// HistoryRow is one (team, date, rank) observation in a ranking timeline.
// Rows are built per request, serialized, and discarded; only the response
// cache ever retains them.
type HistoryRow struct {
	TeamName string `json:"team_name"`
	Date     string `json:"date"` // YYYY-MM-DD
	Rank     Rank   `json:"rank"`
}

// SplitTeams parses a caller-supplied comma-separated team list, trimming
// whitespace and dropping empties. An empty input is a valid empty list.
func SplitTeams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var teams []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			teams = append(teams, trimmed)
		}
	}
	return teams
}

// QueryHistory returns the ranking timeline for the requested teams over
// [start, end] inclusive, sorted by (date ascending, team ascending).
//
// Date groups with unparsable labels are skipped; a single malformed label
// should not take down the rest of the dataset. Teams absent from the
// range simply contribute no rows.
func QueryHistory(ds Dataset, teams []string, start, end time.Time) []HistoryRow {
	if len(teams) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(teams))
	for _, team := range teams {
		wanted[team] = true
	}

	var rows []HistoryRow
	for label, records := range ds {
		groupDate, err := ParseGroupLabel(label)
		if err != nil {
			logging.Warn().Str("label", label).Msg("Skipping date group with malformed label")
			continue
		}
		if groupDate.Before(start) || groupDate.After(end) {
			continue
		}

		date := groupDate.Format("2006-01-02")
		for _, record := range records {
			if wanted[record.TeamName] {
				rows = append(rows, HistoryRow{
					TeamName: record.TeamName,
					Date:     date,
					Rank:     record.Ranking,
				})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].TeamName < rows[j].TeamName
	})
	return rows
}
