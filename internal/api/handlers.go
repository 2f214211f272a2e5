// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/poloboard/poloboard/internal/cache"
	"github.com/poloboard/poloboard/internal/config"
	"github.com/poloboard/poloboard/internal/logging"
	"github.com/poloboard/poloboard/internal/models"
	"github.com/poloboard/poloboard/internal/rankings"
	"github.com/poloboard/poloboard/internal/store"
)

// dateLayout is the wire format for ranking-history date bounds.
const dateLayout = "2006-01-02"

// keyListLimit is the cache-info threshold above which individual keys
// are summarized instead of listed.
const keyListLimit = 20

// sport bundles everything needed to serve one sport: its Mongo
// database, the static rank ordering of the matrix axes, and the
// in-memory ranking dataset loaded at startup.
type sport struct {
	database  string
	rankOrder []string
	dataset   rankings.Dataset
}

// Handler serves all API endpoints. Collaborators are injected so tests
// can substitute the store and cache freely.
type Handler struct {
	cache     *cache.Store
	db        store.Client
	sports    map[string]sport
	startTime time.Time
}

// NewHandler builds a Handler from configuration, a response cache, a
// document store client, and the per-sport ranking datasets.
func NewHandler(cfg *config.Config, c *cache.Store, db store.Client, datasets map[string]rankings.Dataset) *Handler {
	sports := make(map[string]sport, len(cfg.Sports))
	for name, sc := range cfg.Sports {
		sports[name] = sport{
			database:  sc.Database,
			rankOrder: rankings.BuildRankOrder(sc.MaxRank),
			dataset:   datasets[name],
		}
	}
	return &Handler{
		cache:     c,
		db:        db,
		sports:    sports,
		startTime: time.Now(),
	}
}

// sportFor resolves a sport path parameter against the configured table.
func (h *Handler) sportFor(name string) (sport, bool) {
	s, ok := h.sports[name]
	return s, ok
}

// Matrix handles GET /matrix/{sport}: the full ranking matrix as header
// order plus the raw probability and delimiter collections.
func (h *Handler) Matrix(w http.ResponseWriter, r *http.Request) {
	sportName := chi.URLParam(r, "sport")
	sp, ok := h.sportFor(sportName)
	if !ok {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("unknown sport: %s", sportName), nil)
		return
	}

	key := cache.DeriveKey("matrix", sportName)
	if cached, ok := h.cache.Get(key); ok {
		h.respondJSON(w, http.StatusOK, cached)
		return
	}

	probData, err := h.db.FindAll(r.Context(), sp.database, store.CollectionProbabilities)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load probability data", err)
		return
	}
	delimData, err := h.db.FindAll(r.Context(), sp.database, store.CollectionDelim)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load delimiter data", err)
		return
	}

	payload := models.Matrix{
		Headers:   sp.rankOrder,
		ProbData:  probData,
		DelimData: delimData,
	}
	h.cache.Put(key, payload)
	h.respondJSON(w, http.StatusOK, payload)
}

// Matches handles GET /matches/{sport}/{rowRank}/{colRank}: the match
// list for one cell of the matrix. Ranks are the 1-based labels shown on
// the matrix axes; the aggregate document keys cells as
// "{row-1}_{col-1}" and is consulted in that one direction only, so a
// request for the mirrored cell must name it explicitly.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	sportName := chi.URLParam(r, "sport")
	rowRank := chi.URLParam(r, "rowRank")
	colRank := chi.URLParam(r, "colRank")

	sp, ok := h.sportFor(sportName)
	if !ok {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("unknown sport: %s", sportName), nil)
		return
	}

	row, err := strconv.Atoi(rowRank)
	if err != nil || row < 1 {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("invalid row rank: %s", rowRank), err)
		return
	}
	col, err := strconv.Atoi(colRank)
	if err != nil || col < 1 {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("invalid column rank: %s", colRank), err)
		return
	}

	key := cache.DeriveKey("matches", sportName, rowRank, colRank)
	if cached, ok := h.cache.Get(key); ok {
		h.respondJSON(w, http.StatusOK, cached)
		return
	}

	doc, err := h.db.FindMatches(r.Context(), sp.database)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load match data", err)
		return
	}

	matchKey := fmt.Sprintf("%d_%d", row-1, col-1)
	cell, ok := doc[matchKey]
	if !ok {
		err := fmt.Errorf("%w: %s", store.ErrRankKeyNotFound, matchKey)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("no matches recorded for ranks %s vs %s", rowRank, colRank), err)
		return
	}

	matchList, ok := cell.([]interface{})
	if !ok {
		respondError(w, http.StatusInternalServerError, "malformed match data", fmt.Errorf("cell %s is %T, not a list", matchKey, cell))
		return
	}

	payload := models.Matches{
		Matches: matchList,
		Count:   len(matchList),
		RowRank: rowRank,
		ColRank: colRank,
	}
	h.cache.Put(key, payload)
	h.respondJSON(w, http.StatusOK, payload)
}

// Rankings handles GET /rankings/{sport}/{teamNames}/{startDate}/{endDate}:
// the ranking history of the named teams over an inclusive date range.
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	sportName := chi.URLParam(r, "sport")
	teamNames := chi.URLParam(r, "teamNames")
	startDate := chi.URLParam(r, "startDate")
	endDate := chi.URLParam(r, "endDate")

	sp, ok := h.sportFor(sportName)
	if !ok {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("unknown sport: %s", sportName), nil)
		return
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("invalid start date: %s (want YYYY-MM-DD)", startDate), err)
		return
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("invalid end date: %s (want YYYY-MM-DD)", endDate), err)
		return
	}

	key := cache.DeriveKey("rankings", sportName, teamNames, startDate, endDate)
	if cached, ok := h.cache.Get(key); ok {
		h.respondJSON(w, http.StatusOK, cached)
		return
	}

	teams := rankings.SplitTeams(teamNames)
	rows := rankings.QueryHistory(sp.dataset, teams, start, end)
	if rows == nil {
		rows = []rankings.HistoryRow{}
	}
	if teams == nil {
		teams = []string{}
	}

	payload := models.History{
		Data:  rows,
		Count: len(rows),
		Teams: teams,
		DateRange: models.DateRange{
			Start: startDate,
			End:   endDate,
		},
	}
	h.cache.Put(key, payload)
	h.respondJSON(w, http.StatusOK, payload)
}

// Health handles GET /health. Always 200; this reports process
// liveness, not collaborator reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, models.Health{
		Status:  "healthy",
		Message: "water polo stats API is running",
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// CacheInfo handles GET /cache/info: operator view of the response
// cache. Key lists are summarized once they get long.
func (h *Handler) CacheInfo(w http.ResponseWriter, r *http.Request) {
	size := h.cache.Len()

	var keys interface{}
	if size >= keyListLimit {
		keys = fmt.Sprintf("%d keys (too many to list)", size)
	} else {
		list := h.cache.Keys()
		sort.Strings(list)
		keys = list
	}

	h.respondJSON(w, http.StatusOK, models.CacheInfo{
		Size:       size,
		Capacity:   h.cache.Capacity(),
		TTLSeconds: int(h.cache.TTL().Seconds()),
		Keys:       keys,
	})
}

// CacheClear handles POST /cache/clear: flushes the response cache and
// reports how many entries were dropped.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	prior := h.cache.Clear()
	logging.Info().Int("entries", prior).Msg("Response cache cleared")

	h.respondJSON(w, http.StatusOK, models.CacheClear{
		Cleared: true,
		Size:    prior,
	})
}
