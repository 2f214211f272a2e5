// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/poloboard/poloboard/internal/logging"
	"github.com/poloboard/poloboard/internal/models"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// This includes newlines, carriage returns, tabs, and other control characters that could
// allow attackers to forge log entries or corrupt log files.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		// Replace control characters (0x00-0x1F and 0x7F) with a safe representation
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// cacheControlValue builds the Cache-Control header for successful
// responses. The upstream ranking data changes at most daily, so shared
// caches may serve entries for the full TTL and revalidate stale copies
// for twice that.
func cacheControlValue(ttl time.Duration) string {
	secs := int(ttl.Seconds())
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d, stale-while-revalidate=%d", secs, secs, 2*secs)
}

// respondJSON sends a successful JSON response with cache headers and an ETag.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControlValue(h.cache.TTL()))
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response. Error responses carry no cache
// headers so intermediaries never store a failure.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		// Sanitize error output to prevent log injection attacks
		logging.Error().Str("error", sanitizeLogValue(err.Error())).Msg(sanitizeLogValue(message))
	}

	w.Header().Set("Content-Type", "application/json")

	data, merr := json.Marshal(models.Error{Error: message})
	if merr != nil {
		logging.Error().Err(merr).Msg("Failed to marshal error response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, werr := w.Write(data); werr != nil {
		logging.Error().Err(werr).Msg("Failed to write error response")
	}
}
