// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package docindex

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/metrics"
)

// BreakerSettings tunes the circuit breaker around index requests.
type BreakerSettings struct {
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state counter reset
	Timeout      time.Duration // open duration before half-open
	MinRequests  uint32        // sample size before the ratio applies
	FailureRatio float64
}

// DefaultBreakerSettings trips at 60% failures over at least 10 requests
// and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// breakerStates maps gobreaker states to their log name and gauge value.
var breakerStates = map[gobreaker.State]struct {
	name  string
	gauge float64
}{
	gobreaker.StateClosed:   {"closed", 0},
	gobreaker.StateHalfOpen: {"half-open", 1},
	gobreaker.StateOpen:     {"open", 2},
}

func stateName(s gobreaker.State) string {
	if st, ok := breakerStates[s]; ok {
		return st.name
	}
	return "unknown"
}

// breaker guards index searches and mirrors its state into metrics.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[[]Product]
	name string
}

func newBreaker(name string, s BreakerSettings) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStates[gobreaker.StateClosed].gauge)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return &breaker{name: name, cb: gobreaker.NewCircuitBreaker[[]Product](gobreaker.Settings{
		Name:         name,
		MaxRequests:  s.MaxRequests,
		Interval:     s.Interval,
		Timeout:      s.Timeout,
		ReadyToTrip:  tripAt(name, s.MinRequests, s.FailureRatio),
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, ErrRejected) },
		OnStateChange: func(name string, from, to gobreaker.State) {
			f, t := stateName(from), stateName(to)
			logging.Info().Str("breaker", name).Str("from", f).Str("to", t).Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStates[to].gauge)
			metrics.CircuitBreakerTransitions.WithLabelValues(name, f, t).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})}
}

// tripAt opens the circuit once at least minRequests were seen and the
// failure share reaches ratio. ErrRejected responses count as successes.
func tripAt(name string, minRequests uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		if c.Requests < minRequests {
			return false
		}
		got := float64(c.TotalFailures) / float64(c.Requests)
		if got < ratio {
			return false
		}
		logging.Warn().
			Str("breaker", name).
			Uint32("failures", c.TotalFailures).
			Float64("failure_rate", got*100).
			Msg("Opening circuit breaker")
		return true
	}
}

// execute runs fn under the breaker. Calls refused by an open or
// saturated breaker fail with ErrUnavailable.
func (b *breaker) execute(fn func() ([]Product, error)) ([]Product, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		b.observe("success", 0)
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("breaker", b.name).Msg("Circuit breaker rejected request")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		b.observe("failure", b.cb.Counts().ConsecutiveFailures)
		return nil, err
	}
}

func (b *breaker) observe(outcome string, consecutive uint32) {
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, outcome).Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(consecutive))
}

// State returns "closed", "half-open" or "open".
func (b *breaker) State() string {
	return stateName(b.cb.State())
}
