// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

// BreakerSettings tunes the circuit around the sheet fetcher.
type BreakerSettings struct {
	Name string
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
	// Interval resets the closed-state counts.
	Interval time.Duration
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// MinRequests and FailureRatio decide when a closed circuit trips.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings trips after 3 transient failures out of at least 5
// attempts. Syncs are minutes apart, so the thresholds are far lower than
// for a chatty API client.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "sheets-api",
		MaxRequests:  1,
		Interval:     10 * time.Minute,
		Timeout:      time.Minute,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// Breaker guards a Fetcher with a circuit breaker. Only transient failures
// count against the circuit: a 404 or rejected credentials will not get
// better by backing off, and must stay visible as what they are.
type Breaker struct {
	next Fetcher
	cb   *gobreaker.CircuitBreaker[[][]string]
	name string
}

// NewBreaker wraps next.
func NewBreaker(next Fetcher, s BreakerSettings) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[][]string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransient(err)
		},
	})

	return &Breaker{next: next, cb: cb, name: s.Name}
}

// Fetch calls the wrapped fetcher unless the circuit is open. Requests
// rejected by the circuit fail as transient SourceUnavailable errors.
// NotConfigured and permanent failures never trip the circuit.
func (b *Breaker) Fetch(ctx context.Context) ([][]string, error) {
	rows, err := b.cb.Execute(func() ([][]string, error) {
		return b.next.Fetch(ctx)
	})
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return rows, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Ctx(ctx).Warn().Str("breaker", b.name).Msg("Sheet fetch rejected by open circuit")
		return nil, unavailable(0, false, fmt.Errorf("circuit %s: %w", b.name, err))
	}

	if !errors.Is(err, models.ErrNotConfigured) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	}
	return nil, err
}

// State reports the current circuit state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}

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
