package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"validation", Validation("bad", FieldError{Field: "title", Message: "is required"}), http.StatusBadRequest, false},
		{"authentication", &AuthenticationError{Message: "no token"}, http.StatusUnauthorized, false},
		{"authorization", &AuthorizationError{Message: "nope"}, http.StatusForbidden, false},
		{"not found wrapped", fmt.Errorf("lookup: %w", NotFound("Job posting")), http.StatusNotFound, false},
		{"conflict", &ConflictError{Message: "stale"}, http.StatusConflict, false},
		{"timeout", Upstream(UpstreamTimeout, errors.New("deadline")), http.StatusGatewayTimeout, true},
		{"rate limited", Upstream(UpstreamRateLimited, nil), http.StatusTooManyRequests, true},
		{"malformed", Upstream(UpstreamMalformed, errors.New("json")), http.StatusBadGateway, false},
		{"not configured", ErrAINotConfigured, http.StatusServiceUnavailable, false},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Classify(tt.err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.retryable, resp.Retryable)
		})
	}
}

func TestClassifyDoesNotLeakInternalErrors(t *testing.T) {
	resp := Classify(errors.New("pq: password authentication failed for user postgres"))
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validation("Validation failed", FieldError{Field: "type", Message: "must be one of"})
	assert.Contains(t, err.Error(), "type")
	assert.Len(t, err.Fields, 1)
}
