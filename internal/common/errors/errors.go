// Package errors provides the standardized error taxonomy for the webhook
// pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedInboundBody ErrorCode = "MALFORMED_INBOUND_BODY"
	ErrCodeUnauthorizedRequest  ErrorCode = "UNAUTHORIZED_REQUEST"

	ErrCodeProviderUnconfigured      ErrorCode = "PROVIDER_UNCONFIGURED"
	ErrCodeProviderUnreachable       ErrorCode = "PROVIDER_UNREACHABLE"
	ErrCodeProviderMalformedResponse ErrorCode = "PROVIDER_MALFORMED_RESPONSE"

	ErrCodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Err       error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// NewMalformedInboundBodyError covers bodies that cannot be parsed as an
// Alexa request at all. Not retryable: the caller sent garbage.
func NewMalformedInboundBodyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInboundBody,
		Message:   "inbound body is not a parseable Alexa request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedRequestError covers signature-gate failures and skill-id
// mismatches, both decided before any provider contact.
func NewUnauthorizedRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorizedRequest,
		Message:   "request failed inbound verification",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// The provider constructors wrap a cause so callers can classify failures
// with errors.Is against the provider package sentinels.
func NewProviderUnconfiguredError(provider string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnconfigured,
		Message:   "answer provider has no API key configured",
		Retryable: false,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
}

func NewProviderUnreachableError(provider, details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnreachable,
		Message:   "answer provider call failed",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
}

func NewProviderMalformedResponseError(provider, details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderMalformedResponse,
		Message:   "answer provider returned an unexpected response shape",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
}

// CodeOf maps any error to its ErrorCode. StandardErrors carry their own
// code; everything else is UNKNOWN_ERROR.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeUnknown
}
