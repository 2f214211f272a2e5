// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package services

import (
	"context"
	"time"

	"github.com/poloboard/poloboard/internal/logging"
)

// Sweepable is the slice of the cache store the sweeper needs.
type Sweepable interface {
	Sweep() int
}

// CacheSweeperService periodically reclaims expired cache entries.
// Expiry-on-read keeps reads correct without it; the sweeper only
// bounds how long dead entries occupy memory between reads.
type CacheSweeperService struct {
	cache    Sweepable
	interval time.Duration
	name     string
}

// NewCacheSweeperService wraps a cache store as a supervised service.
func NewCacheSweeperService(cache Sweepable, interval time.Duration) *CacheSweeperService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheSweeperService{
		cache:    cache,
		interval: interval,
		name:     "cache-sweeper",
	}
}

// Serve implements suture.Service.
func (s *CacheSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.cache.Sweep(); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Swept expired cache entries")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *CacheSweeperService) String() string {
	return s.name
}
