// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Package rankings loads the static ranking datasets and answers
// team-history queries against them.
//
// A dataset is a JSON object keyed by date-group label. Labels are
// slash-separated month/day/year, optionally followed by a hyphen and a
// disambiguating suffix ("1/5/2023-B") that is ignored for date
// comparison. Each group holds the teams ranked as of that date.
//
// Datasets are loaded once at startup and never mutated afterwards, so
// they are shared across request handlers without locking.
package rankings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Unranked marks a team that appears in a date group without a numeric rank.
const Unranked Rank = -1

// Rank is a ranking position: a positive integer, or Unranked.
// In the source JSON it is either a number or the string "unranked".
type Rank int

// UnmarshalJSON accepts a JSON number or a string label. Any non-numeric
// label maps to Unranked, matching the source files which only ever use
// "unranked".
func (r *Rank) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Rank(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("rank must be a number or string: %w", err)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*r = Rank(n)
		return nil
	}
	*r = Unranked
	return nil
}

// MarshalJSON emits the numeric rank, or "unranked" for the sentinel.
func (r Rank) MarshalJSON() ([]byte, error) {
	if r == Unranked {
		return json.Marshal("unranked")
	}
	return json.Marshal(int(r))
}

// String returns the rank label as used in matrix headers.
func (r Rank) String() string {
	if r == Unranked {
		return "unranked"
	}
	return strconv.Itoa(int(r))
}

// Record is one team's entry within a date group.
type Record struct {
	TeamName string `json:"team_name"`
	Ranking  Rank   `json:"ranking"`
}

// Dataset maps date-group labels to the teams ranked as of that date.
type Dataset map[string][]Record

// Load reads and parses a ranking dataset from a JSON file.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rankings file %s: %w", path, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse rankings file %s: %w", path, err)
	}
	return ds, nil
}

// groupLabelLayout parses date-group labels like "1/5/2023". Single-digit
// months and days are the norm in the source files.
const groupLabelLayout = "1/2/2006"

// ParseGroupLabel extracts the calendar date from a date-group label,
// ignoring any "-suffix" disambiguator.
func ParseGroupLabel(label string) (time.Time, error) {
	datePart, _, _ := strings.Cut(label, "-")
	return time.Parse(groupLabelLayout, strings.TrimSpace(datePart))
}

// BuildRankOrder returns the fixed header sequence for a sport's matrix:
// "1" through maxRank, then "unranked".
func BuildRankOrder(maxRank int) []string {
	order := make([]string, 0, maxRank+1)
	for i := 1; i <= maxRank; i++ {
		order = append(order, strconv.Itoa(i))
	}
	return append(order, "unranked")
}
