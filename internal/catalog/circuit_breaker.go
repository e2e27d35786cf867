// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Ensure CircuitBreakerClient implements Client
var _ Client = (*CircuitBreakerClient)(nil)

// CircuitBreakerClient wraps a Client with the circuit breaker pattern.
// While the circuit is open every call fails fast with gobreaker.ErrOpenState,
// which the feed treats like any other query failure.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker) for its
// interval and timeout calculations. Tests exercise tripping through request
// counts, not through waiting out the timeout.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with a breaker named name.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client Client, name string) *CircuitBreakerClient {
	if name == "" {
		name = "jellyfin-api"
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
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
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening catalog circuit")
			}

			return shouldTrip
		},

		// Superseded sessions cancel their queries and a missing item is an
		// answer, not an outage; neither should count toward tripping.
		IsSuccessful: isBreakerSuccess,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   name,
	}
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrNotFound)
}

// execute wraps a catalog call with circuit breaker protection
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult asserts the breaker's untyped result back to T.
func castResult[T any](result interface{}, op string) (T, error) {
	v, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("circuit breaker: unexpected result type for %s", op)
	}
	return v, nil
}

// Ping tests connectivity with circuit breaker protection
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// CurrentUser resolves the feed user with circuit breaker protection
func (cbc *CircuitBreakerClient) CurrentUser(ctx context.Context) (*models.User, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.CurrentUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	return castResult[*models.User](result, "CurrentUser")
}

// GetUserViews lists libraries with circuit breaker protection
func (cbc *CircuitBreakerClient) GetUserViews(ctx context.Context, userID string) ([]models.Library, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetUserViews(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return castResult[[]models.Library](result, "GetUserViews")
}

// GetItems runs an item query with circuit breaker protection
func (cbc *CircuitBreakerClient) GetItems(ctx context.Context, q ItemQuery) ([]models.MediaItem, error) {
	return cbc.items("GetItems", func() ([]models.MediaItem, error) {
		return cbc.client.GetItems(ctx, q)
	})
}

// GetResumeItems lists resumable items with circuit breaker protection
func (cbc *CircuitBreakerClient) GetResumeItems(ctx context.Context, userID string, limit int) ([]models.MediaItem, error) {
	return cbc.items("GetResumeItems", func() ([]models.MediaItem, error) {
		return cbc.client.GetResumeItems(ctx, userID, limit)
	})
}

// GetNextUp lists next-up episodes with circuit breaker protection
func (cbc *CircuitBreakerClient) GetNextUp(ctx context.Context, q NextUpQuery) ([]models.MediaItem, error) {
	return cbc.items("GetNextUp", func() ([]models.MediaItem, error) {
		return cbc.client.GetNextUp(ctx, q)
	})
}

// GetLatest lists recently added items with circuit breaker protection
func (cbc *CircuitBreakerClient) GetLatest(ctx context.Context, userID, parentID string, limit int) ([]models.MediaItem, error) {
	return cbc.items("GetLatest", func() ([]models.MediaItem, error) {
		return cbc.client.GetLatest(ctx, userID, parentID, limit)
	})
}

// GetPrograms lists live programs with circuit breaker protection
func (cbc *CircuitBreakerClient) GetPrograms(ctx context.Context, q ProgramQuery) ([]models.MediaItem, error) {
	return cbc.items("GetPrograms", func() ([]models.MediaItem, error) {
		return cbc.client.GetPrograms(ctx, q)
	})
}

// SetPlayed writes the played flag with circuit breaker protection
func (cbc *CircuitBreakerClient) SetPlayed(ctx context.Context, userID, itemID string, played bool) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.SetPlayed(ctx, userID, itemID, played)
	})
	return err
}

// SetFavorite writes the favorite flag with circuit breaker protection
func (cbc *CircuitBreakerClient) SetFavorite(ctx context.Context, userID, itemID string, favorite bool) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.SetFavorite(ctx, userID, itemID, favorite)
	})
	return err
}

func (cbc *CircuitBreakerClient) items(op string, fn func() ([]models.MediaItem, error)) ([]models.MediaItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return castResult[[]models.MediaItem](result, op)
}

// State returns the current circuit breaker state
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// Counts returns the current circuit breaker counts
func (cbc *CircuitBreakerClient) Counts() gobreaker.Counts {
	return cbc.cb.Counts()
}

// Name returns the circuit breaker name
func (cbc *CircuitBreakerClient) Name() string {
	return cbc.name
}

// stateToFloat converts a circuit breaker state to a gauge value
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

// stateToString converts a circuit breaker state to a label value
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
