// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Command server runs the Poloboard API: ranking matrices, pairwise
// match histories, and team ranking timelines for water polo.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/poloboard/poloboard/internal/api"
	"github.com/poloboard/poloboard/internal/cache"
	"github.com/poloboard/poloboard/internal/config"
	"github.com/poloboard/poloboard/internal/logging"
	"github.com/poloboard/poloboard/internal/rankings"
	"github.com/poloboard/poloboard/internal/store"
	"github.com/poloboard/poloboard/internal/supervisor"
	"github.com/poloboard/poloboard/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "poloboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("connect to document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Failed to close MongoDB connection")
		}
	}()
	db := store.NewBreaker(mongoClient)

	datasets := make(map[string]rankings.Dataset, len(cfg.Sports))
	for name, sport := range cfg.Sports {
		ds, err := rankings.Load(sport.RankingsFile)
		if err != nil {
			return fmt.Errorf("load %s ranking dataset: %w", name, err)
		}
		datasets[name] = ds
		logging.Info().
			Str("sport", name).
			Str("file", sport.RankingsFile).
			Int("date_groups", len(ds)).
			Msg("Ranking dataset loaded")
	}

	responseCache := cache.New(cfg.Cache.MaxSize, cfg.Cache.TTL)

	handler := api.NewHandler(cfg, responseCache, db, datasets)
	middleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, middleware),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)

	tree.Add(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Cache.SweepInterval > 0 {
		tree.Add(services.NewCacheSweeperService(responseCache, cfg.Cache.SweepInterval))
	}

	logging.Info().
		Str("addr", server.Addr).
		Int("cache_capacity", cfg.Cache.MaxSize).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting Poloboard API")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
