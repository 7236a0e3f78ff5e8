// Package provider defines the shared capability both upstream answer
// services implement, so the orchestrator's fallback policy stays uniform.
package provider

import (
	"context"
	"errors"
)

var (
	ErrUnconfigured      = errors.New("PROVIDER_UNCONFIGURED")
	ErrUnreachable       = errors.New("PROVIDER_UNREACHABLE")
	ErrMalformedResponse = errors.New("PROVIDER_MALFORMED_RESPONSE")
)

// Provider turns an utterance into spoken answer text.
//
// Implementations classify every failure into one of the three sentinel
// errors above: a missing API key never issues a network call and returns
// ErrUnconfigured; transport failures, timeouts, and non-success statuses are
// ErrUnreachable; a success status with an unexpected body shape is
// ErrMalformedResponse. Failures are returned as the structured errors from
// internal/common/errors wrapping the matching sentinel, so callers can use
// errors.Is for classification and still see the provider name in logs.
type Provider interface {
	Name() string
	Answer(ctx context.Context, utterance string) (string, error)
}
