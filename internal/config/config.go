// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Package config defines the application configuration and its layered
// loader (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig           `koanf:"server"`
	Mongo    MongoConfig            `koanf:"mongo"`
	Cache    CacheConfig            `koanf:"cache"`
	Security SecurityConfig         `koanf:"security"`
	Logging  LoggingConfig          `koanf:"logging"`
	Sports   map[string]SportConfig `koanf:"sports"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// TTL is how long a cached response stays servable.
	TTL time.Duration `koanf:"ttl"`
	// MaxSize bounds the number of cached responses.
	MaxSize int `koanf:"max_size"`
	// SweepInterval is how often the background sweeper reclaims expired
	// entries. Zero disables the sweeper; lazy expiry still applies.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SportConfig describes one sport's data sources.
type SportConfig struct {
	// Database is the Mongo database holding this sport's collections.
	Database string `koanf:"database"`
	// RankingsFile is the static JSON ranking dataset loaded at startup.
	RankingsFile string `koanf:"rankings_file"`
	// MaxRank is the highest numeric rank in this sport's matrix.
	MaxRank int `koanf:"max_rank"`
}

// defaultConfig returns a Config with built-in defaults. The cache
// defaults (one hour TTL, 100 entries) match the daily cadence of the
// upstream ranking updates.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://127.0.0.1:27017",
			ConnectTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			TTL:           time.Hour,
			MaxSize:       100,
			SweepInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Sports: map[string]SportConfig{
			"mwp": {
				Database:     "WPTable",
				RankingsFile: "data/mens_rankings.json",
				MaxRank:      20,
			},
			"wwp": {
				Database:     "WWP",
				RankingsFile: "data/womens_rankings.json",
				MaxRank:      25,
			},
		},
	}
}

// Validate rejects configurations that cannot produce a working server.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri must not be empty")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache.max_size must be positive, got %d", c.Cache.MaxSize)
	}
	if len(c.Sports) == 0 {
		return fmt.Errorf("at least one sport must be configured")
	}
	for name, sport := range c.Sports {
		if sport.Database == "" {
			return fmt.Errorf("sports.%s.database must not be empty", name)
		}
		if sport.RankingsFile == "" {
			return fmt.Errorf("sports.%s.rankings_file must not be empty", name)
		}
		if sport.MaxRank <= 0 {
			return fmt.Errorf("sports.%s.max_rank must be positive, got %d", name, sport.MaxRank)
		}
	}
	return nil
}
