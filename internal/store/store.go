// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Package store is the document database collaborator. It exposes the two
// query shapes the API needs: fetch every document in a collection, and
// fetch the single aggregate matches document. Internal Mongo identifiers
// are projected out of every result.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Collection names used by the ranking pipeline.
const (
	CollectionProbabilities = "Probabilities"
	CollectionDelim         = "Delim"
	CollectionMatches       = "matches"
	CollectionWins          = "wins"
)

// Document is a schemaless database document.
type Document = map[string]interface{}

// Client is the database interface consumed by request handlers.
// The production implementation is Mongo (optionally wrapped in a Breaker);
// tests substitute fakes.
type Client interface {
	// FindAll returns every document in the collection, without _id.
	FindAll(ctx context.Context, database, collection string) ([]Document, error)

	// FindMatches returns the single aggregate document holding all
	// pairwise match lists for the sport's database, without _id.
	FindMatches(ctx context.Context, database string) (Document, error)
}

// ErrRankKeyNotFound reports a composite match key absent from the
// aggregate matches document.
var ErrRankKeyNotFound = errors.New("rank key not found in matches document")

// ErrUnavailable reports that the database could not be reached or a
// query failed outright.
var ErrUnavailable = errors.New("document store unavailable")

// Unavailable wraps err as an ErrUnavailable with context.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
