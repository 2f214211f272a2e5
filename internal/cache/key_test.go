// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package cache

import "testing"

func TestDeriveKeyDeterministic(t *testing.T) {
	first := DeriveKey("matches", "3", "9")
	second := DeriveKey("matches", "3", "9")
	if first != second {
		t.Errorf("same inputs produced different keys: %s vs %s", first, second)
	}
}

func TestDeriveKeyOrderSensitive(t *testing.T) {
	if DeriveKey("matches", "3", "9") == DeriveKey("matches", "9", "3") {
		t.Error("swapped parts should produce different keys")
	}
}

func TestDeriveKeyNamespacePartitions(t *testing.T) {
	if DeriveKey("matrix", "mwp") == DeriveKey("rankings", "mwp") {
		t.Error("same parts under different namespaces should not collide")
	}
}

func TestDeriveKeyNoConcatenationAmbiguity(t *testing.T) {
	// ("ab","c") vs ("a","bc") would collide under naive concatenation.
	if DeriveKey("ns", "ab", "c") == DeriveKey("ns", "a", "bc") {
		t.Error("part boundaries must be unambiguous")
	}
}

func TestDeriveKeyFixedWidth(t *testing.T) {
	cases := [][]string{
		{},
		{"mwp"},
		{"mwp", "Stanford,UCLA", "2023-01-01", "2023-12-31"},
	}
	for _, parts := range cases {
		key := DeriveKey("rankings", parts...)
		if len(key) != 32 {
			t.Errorf("DeriveKey(%v) length = %d, want 32", parts, len(key))
		}
	}
}
