// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package store

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/poloboard/poloboard/internal/logging"
	"github.com/poloboard/poloboard/internal/metrics"
)

// Breaker wraps a Client with circuit breaker protection so a struggling
// database fails fast instead of queueing up slow requests behind it.
//
// The breaker uses real time for its interval and timeout calculations;
// unit tests should exercise the wrapped client directly.
type Breaker struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[interface{}]
	name  string
}

// NewBreaker wraps client in a circuit breaker.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewBreaker(client Client) *Breaker {
	cbName := "mongo"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Breaker{inner: client, cb: cb, name: cbName}
}

// execute runs fn through the breaker and records the outcome.
func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, Unavailable("circuit open", err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// FindAll delegates to the wrapped client with breaker protection.
func (b *Breaker) FindAll(ctx context.Context, database, collection string) ([]Document, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.FindAll(ctx, database, collection)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Document), nil
}

// FindMatches delegates to the wrapped client with breaker protection.
func (b *Breaker) FindMatches(ctx context.Context, database string) (Document, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.FindMatches(ctx, database)
	})
	if err != nil {
		return nil, err
	}
	return result.(Document), nil
}

// stateToFloat converts circuit breaker state to a numeric metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a log label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
