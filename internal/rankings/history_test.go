// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package rankings

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSplitTeams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "Stanford", []string{"Stanford"}},
		{"multiple", "Stanford,UCLA,USC", []string{"Stanford", "UCLA", "USC"}},
		{"whitespace", " Stanford , UCLA ", []string{"Stanford", "UCLA"}},
		{"empty", "", nil},
		{"only commas", ",,,", nil},
		{"trailing comma", "Stanford,", []string{"Stanford"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTeams(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitTeams(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SplitTeams(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestQueryHistoryFilter(t *testing.T) {
	ds := Dataset{
		"01/05/2023": {{TeamName: "A", Ranking: 1}},
		"01/10/2023": {{TeamName: "B", Ranking: 2}},
	}

	rows := QueryHistory(ds, []string{"A"}, date("2023-01-01"), date("2023-01-07"))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.TeamName != "A" || row.Date != "2023-01-05" || row.Rank != 1 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestQueryHistoryOrdering(t *testing.T) {
	ds := Dataset{
		"01/10/2023": {{TeamName: "B", Ranking: 2}},
		"01/05/2023": {{TeamName: "A", Ranking: 1}},
	}

	rows := QueryHistory(ds, []string{"A", "B"}, date("2023-01-01"), date("2023-01-31"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Date != "2023-01-05" || rows[1].Date != "2023-01-10" {
		t.Errorf("rows not sorted by date: %+v", rows)
	}
}

func TestQueryHistorySortsByTeamWithinDate(t *testing.T) {
	ds := Dataset{
		"03/01/2023": {
			{TeamName: "Zebra", Ranking: 2},
			{TeamName: "Alpha", Ranking: 1},
		},
	}

	rows := QueryHistory(ds, []string{"Zebra", "Alpha"}, date("2023-02-01"), date("2023-04-01"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].TeamName != "Alpha" || rows[1].TeamName != "Zebra" {
		t.Errorf("rows not sorted by team within date: %+v", rows)
	}
}

func TestQueryHistoryInclusiveBounds(t *testing.T) {
	ds := Dataset{
		"01/01/2023": {{TeamName: "A", Ranking: 1}},
		"01/31/2023": {{TeamName: "A", Ranking: 3}},
		"02/01/2023": {{TeamName: "A", Ranking: 4}},
	}

	rows := QueryHistory(ds, []string{"A"}, date("2023-01-01"), date("2023-01-31"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (both boundary dates included): %+v", len(rows), rows)
	}
}

func TestQueryHistoryEmptyTeamList(t *testing.T) {
	ds := Dataset{
		"01/05/2023": {{TeamName: "A", Ranking: 1}},
	}

	rows := QueryHistory(ds, nil, date("2023-01-01"), date("2023-12-31"))
	if len(rows) != 0 {
		t.Errorf("got %d rows for empty team list, want 0", len(rows))
	}
}

func TestQueryHistoryUnknownTeam(t *testing.T) {
	ds := Dataset{
		"01/05/2023": {{TeamName: "A", Ranking: 1}},
	}

	rows := QueryHistory(ds, []string{"Nonexistent"}, date("2023-01-01"), date("2023-12-31"))
	if len(rows) != 0 {
		t.Errorf("got %d rows for unknown team, want 0", len(rows))
	}
}

func TestQueryHistorySkipsMalformedLabels(t *testing.T) {
	ds := Dataset{
		"garbage":    {{TeamName: "A", Ranking: 9}},
		"01/05/2023": {{TeamName: "A", Ranking: 1}},
	}

	rows := QueryHistory(ds, []string{"A"}, date("2023-01-01"), date("2023-12-31"))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (malformed group skipped)", len(rows))
	}
	if rows[0].Rank != 1 {
		t.Errorf("row came from the malformed group: %+v", rows[0])
	}
}

func TestQueryHistorySuffixedLabels(t *testing.T) {
	ds := Dataset{
		"01/05/2023":   {{TeamName: "A", Ranking: 1}},
		"01/05/2023-B": {{TeamName: "A", Ranking: 2}},
	}

	rows := QueryHistory(ds, []string{"A"}, date("2023-01-01"), date("2023-01-31"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (suffixed group shares the date)", len(rows))
	}
	// Same date, same team: both rows survive with the shared date.
	for _, row := range rows {
		if row.Date != "2023-01-05" {
			t.Errorf("row date = %s, want 2023-01-05", row.Date)
		}
	}
}

func TestQueryHistoryUnrankedRows(t *testing.T) {
	ds := Dataset{
		"01/05/2023": {{TeamName: "A", Ranking: Unranked}},
	}

	rows := QueryHistory(ds, []string{"A"}, date("2023-01-01"), date("2023-01-31"))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Rank != Unranked {
		t.Errorf("rank = %d, want Unranked", rows[0].Rank)
	}
}
