// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Package models defines the response payloads served by the API.
package models

import (
	"github.com/poloboard/poloboard/internal/rankings"
	"github.com/poloboard/poloboard/internal/store"
)

// Matrix is the full ranking matrix for one sport: the static header
// ordering plus the unfiltered probability and delimiter rows. Rows are
// not joined server-side; clients correlate them by their key fields.
type Matrix struct {
	Headers   []string         `json:"headers"`
	ProbData  []store.Document `json:"probData"`
	DelimData []store.Document `json:"delimData"`
}

// Matches is the match list for one (rowRank, colRank) cell of the matrix.
type Matches struct {
	Matches []interface{} `json:"matches"`
	Count   int           `json:"count"`
	RowRank string        `json:"rowRank"`
	ColRank string        `json:"colRank"`
}

// DateRange echoes the requested ranking-history bounds.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// History is a ranking-history timeline for a set of teams.
type History struct {
	Data      []rankings.HistoryRow `json:"data"`
	Count     int                   `json:"count"`
	Teams     []string              `json:"teams"`
	DateRange DateRange             `json:"dateRange"`
}

// Health is the liveness payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Uptime  string `json:"uptime"`
}

// CacheInfo describes the response cache for operators. Keys holds either
// the key list or a summary string when there are too many to list.
type CacheInfo struct {
	Size       int         `json:"size"`
	Capacity   int         `json:"capacity"`
	TTLSeconds int         `json:"ttlSeconds"`
	Keys       interface{} `json:"keys"`
}

// CacheClear reports the outcome of a cache flush.
type CacheClear struct {
	Cleared bool `json:"cleared"`
	Size    int  `json:"size"`
}

// Error is the uniform error envelope.
type Error struct {
	Error string `json:"error"`
}
