// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/poloboard/poloboard/internal/cache"
	"github.com/poloboard/poloboard/internal/config"
	"github.com/poloboard/poloboard/internal/rankings"
	"github.com/poloboard/poloboard/internal/store"
)

// fakeStore serves canned collection and match data for handler tests.
type fakeStore struct {
	collections      map[string][]store.Document
	matches          store.Document
	err              error
	findAllCalls     int
	findMatchesCalls int
}

func (f *fakeStore) FindAll(_ context.Context, _, collection string) ([]store.Document, error) {
	f.findAllCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.collections[collection], nil
}

func (f *fakeStore) FindMatches(_ context.Context, _ string) (store.Document, error) {
	f.findMatchesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Sports: map[string]config.SportConfig{
			"mwp": {Database: "WPTable", RankingsFile: "unused.json", MaxRank: 20},
		},
	}
}

func testDataset() rankings.Dataset {
	return rankings.Dataset{
		"1/5/2023": {
			{TeamName: "Stanford", Ranking: 1},
			{TeamName: "UCLA", Ranking: 2},
		},
		"1/10/2023": {
			{TeamName: "Stanford", Ranking: 2},
			{TeamName: "UCLA", Ranking: 1},
		},
	}
}

func newTestServer(t *testing.T, db store.Client) (*httptest.Server, *Handler) {
	t.Helper()
	c := cache.New(100, time.Hour)
	h := NewHandler(testConfig(), c, db, map[string]rankings.Dataset{"mwp": testDataset()})
	srv := httptest.NewServer(NewRouter(h, NewChiMiddleware(nil)))
	t.Cleanup(srv.Close)
	return srv, h
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestMatrixSuccess(t *testing.T) {
	fake := &fakeStore{
		collections: map[string][]store.Document{
			store.CollectionProbabilities: {{"team": "Stanford", "1": 0.8}},
			store.CollectionDelim:         {{"team": "Stanford", "1": "2-1"}},
		},
	}
	srv, _ := newTestServer(t, fake)

	resp, err := http.Get(srv.URL + "/matrix/mwp")
	if err != nil {
		t.Fatalf("GET /matrix/mwp: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600, s-maxage=3600, stale-while-revalidate=7200" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("missing ETag on success response")
	}

	var body struct {
		Headers   []string                 `json:"headers"`
		ProbData  []map[string]interface{} `json:"probData"`
		DelimData []map[string]interface{} `json:"delimData"`
	}
	decodeBody(t, resp, &body)

	if len(body.Headers) != 21 {
		t.Errorf("got %d headers, want 21", len(body.Headers))
	}
	if body.Headers[0] != "1" || body.Headers[20] != "unranked" {
		t.Errorf("unexpected header order: %v", body.Headers)
	}
	if len(body.ProbData) != 1 || len(body.DelimData) != 1 {
		t.Errorf("collection data not passed through: %+v", body)
	}
}

func TestMatrixServedFromCache(t *testing.T) {
	fake := &fakeStore{
		collections: map[string][]store.Document{
			store.CollectionProbabilities: {{"team": "Stanford"}},
			store.CollectionDelim:         {{"team": "Stanford"}},
		},
	}
	srv, _ := newTestServer(t, fake)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/matrix/mwp")
		if err != nil {
			t.Fatalf("GET /matrix/mwp: %v", err)
		}
		resp.Body.Close()
	}

	// One request loads both collections; repeats hit the cache.
	if fake.findAllCalls != 2 {
		t.Errorf("store queried %d times, want 2", fake.findAllCalls)
	}
}

func TestMatrixErrorNotCached(t *testing.T) {
	fake := &fakeStore{err: errors.New("connection refused")}
	srv, _ := newTestServer(t, fake)

	resp, err := http.Get(srv.URL + "/matrix/mwp")
	if err != nil {
		t.Fatalf("GET /matrix/mwp: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "" {
		t.Errorf("error response carries Cache-Control %q", cc)
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		t.Errorf("error response carries ETag %q", etag)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error == "" {
		t.Error("error response missing error field")
	}

	// Recovery: once the store is healthy the endpoint recomputes
	// instead of serving a cached failure.
	fake.err = nil
	fake.collections = map[string][]store.Document{
		store.CollectionProbabilities: {{"team": "Stanford"}},
		store.CollectionDelim:         {},
	}
	resp2, err := http.Get(srv.URL + "/matrix/mwp")
	if err != nil {
		t.Fatalf("GET /matrix/mwp after recovery: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("status after recovery = %d, want 200", resp2.StatusCode)
	}
}

func TestMatchesLookupIsDirectional(t *testing.T) {
	fake := &fakeStore{
		matches: store.Document{
			"2_8": []interface{}{
				map[string]interface{}{"winner": "Stanford", "score": "12-8"},
			},
		},
	}
	srv, _ := newTestServer(t, fake)

	// Ranks 3 vs 9 map to document key "2_8".
	resp, err := http.Get(srv.URL + "/matches/mwp/3/9")
	if err != nil {
		t.Fatalf("GET /matches/mwp/3/9: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Matches []interface{} `json:"matches"`
		Count   int           `json:"count"`
		RowRank string        `json:"rowRank"`
		ColRank string        `json:"colRank"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 1 || body.RowRank != "3" || body.ColRank != "9" {
		t.Errorf("unexpected body: %+v", body)
	}

	// The mirrored cell "8_2" is absent and must not be substituted.
	resp2, err := http.Get(srv.URL + "/matches/mwp/9/3")
	if err != nil {
		t.Fatalf("GET /matches/mwp/9/3: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusInternalServerError {
		t.Errorf("mirrored lookup status = %d, want 500", resp2.StatusCode)
	}
}

func TestMatchesRejectsNonIntegerRanks(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{matches: store.Document{}})

	for _, path := range []string{"/matches/mwp/abc/9", "/matches/mwp/3/xyz", "/matches/mwp/0/9"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", path, resp.StatusCode)
		}
	}
}

func TestRankingsHistory(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/rankings/mwp/Stanford/2023-01-01/2023-01-07")
	if err != nil {
		t.Fatalf("GET /rankings: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			TeamName string `json:"team_name"`
			Date     string `json:"date"`
		} `json:"data"`
		Count     int      `json:"count"`
		Teams     []string `json:"teams"`
		DateRange struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"dateRange"`
	}
	decodeBody(t, resp, &body)

	if body.Count != 1 || len(body.Data) != 1 {
		t.Fatalf("count = %d, data = %+v", body.Count, body.Data)
	}
	if body.Data[0].TeamName != "Stanford" || body.Data[0].Date != "2023-01-05" {
		t.Errorf("unexpected row: %+v", body.Data[0])
	}
	if len(body.Teams) != 1 || body.Teams[0] != "Stanford" {
		t.Errorf("teams = %v", body.Teams)
	}
	if body.DateRange.Start != "2023-01-01" || body.DateRange.End != "2023-01-07" {
		t.Errorf("dateRange = %+v", body.DateRange)
	}
}

func TestRankingsRejectsBadDates(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	for _, path := range []string{
		"/rankings/mwp/Stanford/01-05-2023/2023-01-07",
		"/rankings/mwp/Stanford/2023-01-01/not-a-date",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", path, resp.StatusCode)
		}
	}
}

func TestUnknownSport(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	for _, path := range []string{
		"/matrix/curling",
		"/matches/curling/1/2",
		"/rankings/curling/Stanford/2023-01-01/2023-01-07",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("GET %s status = %d, want 500", path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if body.Uptime == "" {
		t.Error("missing uptime")
	}
}

func TestCacheInfoListsKeysWhenSmall(t *testing.T) {
	srv, h := newTestServer(t, &fakeStore{})
	h.cache.Put("k1", 1)
	h.cache.Put("k2", 2)

	resp, err := http.Get(srv.URL + "/cache/info")
	if err != nil {
		t.Fatalf("GET /cache/info: %v", err)
	}

	var body struct {
		Size       int         `json:"size"`
		Capacity   int         `json:"capacity"`
		TTLSeconds int         `json:"ttlSeconds"`
		Keys       interface{} `json:"keys"`
	}
	decodeBody(t, resp, &body)

	if body.Size != 2 || body.Capacity != 100 || body.TTLSeconds != 3600 {
		t.Errorf("unexpected cache info: %+v", body)
	}
	keys, ok := body.Keys.([]interface{})
	if !ok {
		t.Fatalf("keys = %T, want list", body.Keys)
	}
	if len(keys) != 2 {
		t.Errorf("got %d keys, want 2", len(keys))
	}
}

func TestCacheInfoElidesKeysWhenLarge(t *testing.T) {
	srv, h := newTestServer(t, &fakeStore{})
	for i := 0; i < keyListLimit; i++ {
		h.cache.Put(fmt.Sprintf("key-%02d", i), i)
	}

	resp, err := http.Get(srv.URL + "/cache/info")
	if err != nil {
		t.Fatalf("GET /cache/info: %v", err)
	}

	var body struct {
		Size int         `json:"size"`
		Keys interface{} `json:"keys"`
	}
	decodeBody(t, resp, &body)

	summary, ok := body.Keys.(string)
	if !ok {
		t.Fatalf("keys = %T, want summary string", body.Keys)
	}
	if summary != "20 keys (too many to list)" {
		t.Errorf("summary = %q", summary)
	}
}

func TestCacheClearReportsPriorSize(t *testing.T) {
	srv, h := newTestServer(t, &fakeStore{})
	h.cache.Put("a", 1)
	h.cache.Put("b", 2)
	h.cache.Put("c", 3)

	resp, err := http.Post(srv.URL+"/cache/clear", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /cache/clear: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Cleared bool `json:"cleared"`
		Size    int  `json:"size"`
	}
	decodeBody(t, resp, &body)
	if !body.Cleared || body.Size != 3 {
		t.Errorf("body = %+v, want cleared with prior size 3", body)
	}
	if h.cache.Len() != 0 {
		t.Errorf("cache still holds %d entries", h.cache.Len())
	}
}
