// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package rankings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

func TestRankUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Rank
	}{
		{"numeric", `5`, 5},
		{"numeric string", `"12"`, 12},
		{"unranked", `"unranked"`, Unranked},
		{"other label", `"n/a"`, Unranked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Rank
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if r != tt.want {
				t.Errorf("got %d, want %d", r, tt.want)
			}
		})
	}

	var r Rank
	if err := json.Unmarshal([]byte(`{"bad":true}`), &r); err == nil {
		t.Error("expected error for non-scalar rank")
	}
}

func TestRankMarshal(t *testing.T) {
	got, err := json.Marshal(Rank(7))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "7" {
		t.Errorf("Marshal(7) = %s, want 7", got)
	}

	got, err = json.Marshal(Unranked)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `"unranked"` {
		t.Errorf("Marshal(Unranked) = %s, want \"unranked\"", got)
	}
}

func TestParseGroupLabel(t *testing.T) {
	tests := []struct {
		label   string
		want    string
		wantErr bool
	}{
		{"1/5/2023", "2023-01-05", false},
		{"12/31/2023", "2023-12-31", false},
		{"1/5/2023-B", "2023-01-05", false},
		{" 2/9/2022 ", "2022-02-09", false},
		{"not-a-date", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseGroupLabel(tt.label)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseGroupLabel(%q): expected error", tt.label)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseGroupLabel(%q): %v", tt.label, err)
			continue
		}
		if formatted := got.Format("2006-01-02"); formatted != tt.want {
			t.Errorf("ParseGroupLabel(%q) = %s, want %s", tt.label, formatted, tt.want)
		}
	}
}

func TestBuildRankOrder(t *testing.T) {
	order := BuildRankOrder(3)
	want := []string{"1", "2", "3", "unranked"}
	if len(order) != len(want) {
		t.Fatalf("len = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rankings.json")
	content := `{
		"1/5/2023": [
			{"team_name": "Stanford", "ranking": 1},
			{"team_name": "UCLA", "ranking": "unranked"}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	records := ds["1/5/2023"]
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].TeamName != "Stanford" || records[0].Ranking != 1 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Ranking != Unranked {
		t.Errorf("UCLA ranking = %d, want Unranked", records[1].Ranking)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
