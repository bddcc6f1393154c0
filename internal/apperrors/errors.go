// Package apperrors defines the error kinds the API reports to clients.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s %s", e.Message, e.Fields[0].Field, e.Fields[0].Message)
}

func Validation(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

type AuthenticationError struct{ Message string }

func (e *AuthenticationError) Error() string { return e.Message }

type AuthorizationError struct{ Message string }

func (e *AuthorizationError) Error() string { return e.Message }

type NotFoundError struct{ Resource string }

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) *NotFoundError { return &NotFoundError{Resource: resource} }

// ConflictError signals a write against a stale version.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type UpstreamKind string

const (
	UpstreamUnavailable UpstreamKind = "unavailable"
	UpstreamTimeout     UpstreamKind = "timeout"
	UpstreamMalformed   UpstreamKind = "malformed"
	UpstreamRateLimited UpstreamKind = "rate_limited"
)

// UpstreamError is a failure of the hosted AI provider.
type UpstreamError struct {
	Kind      UpstreamKind
	Retryable bool
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upstream %s", e.Kind)
	}
	return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(kind UpstreamKind, err error) *UpstreamError {
	retryable := kind != UpstreamMalformed
	return &UpstreamError{Kind: kind, Retryable: retryable, Err: err}
}

// ErrAINotConfigured is returned when no provider API key is set.
var ErrAINotConfigured = &UpstreamError{Kind: UpstreamUnavailable, Err: errors.New("AI provider is not configured")}

// Response is the client-facing rendering of an error.
type Response struct {
	Status    int
	Message   string
	Fields    []FieldError
	Retryable bool
}

// Classify maps err onto a status code and a message safe to show clients.
func Classify(err error) Response {
	var (
		validationErr *ValidationError
		authnErr      *AuthenticationError
		authzErr      *AuthorizationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		upstreamErr   *UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		return Response{Status: http.StatusBadRequest, Message: validationErr.Message, Fields: validationErr.Fields}
	case errors.As(err, &authnErr):
		return Response{Status: http.StatusUnauthorized, Message: authnErr.Message}
	case errors.As(err, &authzErr):
		return Response{Status: http.StatusForbidden, Message: authzErr.Message}
	case errors.As(err, &notFoundErr):
		return Response{Status: http.StatusNotFound, Message: notFoundErr.Error()}
	case errors.As(err, &conflictErr):
		return Response{Status: http.StatusConflict, Message: conflictErr.Message}
	case errors.As(err, &upstreamErr):
		return classifyUpstream(upstreamErr)
	}

	return Response{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

func classifyUpstream(e *UpstreamError) Response {
	switch e.Kind {
	case UpstreamTimeout:
		return Response{Status: http.StatusGatewayTimeout, Message: "AI service timed out", Retryable: true}
	case UpstreamRateLimited:
		return Response{Status: http.StatusTooManyRequests, Message: "AI service is busy, try again shortly", Retryable: true}
	case UpstreamMalformed:
		return Response{Status: http.StatusBadGateway, Message: "AI service returned an invalid response", Retryable: false}
	default:
		return Response{Status: http.StatusServiceUnavailable, Message: "AI service is unavailable", Retryable: e.Retryable}
	}
}
