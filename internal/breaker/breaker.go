// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package breaker wraps sony/gobreaker with Khaboki's logging and metrics.
//
// Both upstreams (the scrape backend and the Gemini API) go through a
// Breaker so a dead dependency fails fast instead of tying up a request
// for the full timeout. A Breaker never retries.
package breaker

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/metrics"
)

// Config tunes a Breaker.
type Config struct {
	Name string

	// MaxRequests may pass while half-open.
	MaxRequests uint32

	// Interval clears counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MinRequests and FailureRatio decide when to open.
	MinRequests  uint32
	FailureRatio float64

	// IsSuccessful classifies errors that should not count as failures,
	// such as a well-formed error reply from a healthy upstream.
	IsSuccessful func(err error) bool
}

// DefaultConfig opens after 60% failures over at least 10 requests, waits
// two minutes, then lets 3 probes through.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker is a named circuit breaker.
type Breaker struct {
	cb           *gobreaker.CircuitBreaker[any]
	name         string
	isSuccessful func(err error) bool
}

// New creates a Breaker and resets its gauges.
func New(cfg Config) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				logging.Warn().
					Str("breaker", cfg.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: cfg.IsSuccessful,
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings), name: cfg.Name, isSuccessful: cfg.IsSuccessful}
}

// Name returns the breaker name.
func (b *Breaker) Name() string { return b.name }

// State returns closed, half-open or open.
func (b *Breaker) State() string { return stateToString(b.cb.State()) }

// Execute runs fn unless the circuit is open.
//
// Request metrics follow the breaker's own accounting: an error that
// IsSuccessful accepts is recorded as a success, as gobreaker counts it.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err != nil && IsRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("breaker", b.name).Msg("request rejected by open circuit")
		return nil, err
	case err != nil && (b.isSuccessful == nil || !b.isSuccessful(err)):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Do runs fn through b and restores its static result type.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.Execute(func() (any, error) { return fn() })
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %s: unexpected result type %T", b.name, result)
	}
	return typed, nil
}

// IsRejected reports whether err came from an open or saturated breaker
// rather than from the wrapped call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
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
