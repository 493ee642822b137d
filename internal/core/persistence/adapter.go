// Package persistence emulates a request/response API over a durable
// key-value store. Reads and writes happen when a call is issued; only the
// delivery of the outcome is delayed.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
)

// ErrMalformed reports stored content that cannot be decoded.
var ErrMalformed = errors.New("malformed stored value")

// Adapter wraps a KVStore with JSON serialization and simulated latency.
type Adapter struct {
	store   ports.KVStore
	latency time.Duration
	log     zerolog.Logger
}

// NewAdapter returns an Adapter over store. latency is the delay of a Request
// that does not name its own; a negative value is treated as zero.
func NewAdapter(store ports.KVStore, latency time.Duration, log zerolog.Logger) *Adapter {
	if latency < 0 {
		latency = 0
	}
	return &Adapter{store: store, latency: latency, log: log}
}

// Decode loads key into dst. It returns false when the key is absent and
// ErrMalformed when the stored content does not decode.
func (a *Adapter) Decode(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("read %s: %w: %v", key, ErrMalformed, err)
	}
	return true, nil
}

// Read is Decode with malformed content degraded to "absent". Only store
// failures are returned as errors.
func (a *Adapter) Read(ctx context.Context, key string, dst any) (bool, error) {
	found, err := a.Decode(ctx, key, dst)
	if errors.Is(err, ErrMalformed) {
		a.log.Warn().Err(err).Str("key", key).Msg("discarding malformed stored value")
		return false, nil
	}
	return found, err
}

// Write serializes value and replaces whatever was stored under key.
func (a *Adapter) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Request runs op now and settles with its outcome. Expected failures (any
// *APIError other than unavailable, and form errors) reject at once. Success
// and storage failures are delivered after delay, or after the adapter's
// latency when delay is zero.
func Request[T any](a *Adapter, delay time.Duration, status int, message string, op func() (T, error)) *async.Future[T] {
	if delay == 0 {
		delay = a.latency
	}
	data, err := op()
	if err != nil {
		if expected(err) {
			return async.Rejected[T](err)
		}
		a.log.Error().Err(err).Msg("emulated request failed")
		return async.After(delay, domain.APIResponse[T]{}, error(domain.AsAPIError(err)))
	}
	return async.After(delay, domain.APIResponse[T]{Status: status, Data: data, Message: message}, nil)
}

func expected(err error) bool {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind != domain.KindUnavailable
	}
	return errors.Is(err, domain.ErrValidation)
}
