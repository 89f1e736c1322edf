package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIs(t *testing.T) {
	err := New(CodeConflict, "donation is not available")
	assert.True(t, Is(err, CodeConflict))
	assert.False(t, Is(err, CodeNotFound))
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, "donation is not available", MessageOf(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "redis publish failed")

	require.True(t, Is(err, CodeUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsSeesThroughWrapping(t *testing.T) {
	inner := New(CodeExpired, "claim window closed")
	outer := fmt.Errorf("confirm pickup: %w", inner)

	assert.True(t, Is(outer, CodeExpired))
	assert.Equal(t, CodeExpired, CodeOf(outer))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:       http.StatusNotFound,
		CodeForbidden:      http.StatusForbidden,
		CodeConflict:       http.StatusConflict,
		CodeDuplicateClaim: http.StatusConflict,
		CodeInvalidCode:    http.StatusUnprocessableEntity,
		CodeExpired:        http.StatusGone,
		CodeInvalidInput:   http.StatusBadRequest,
		CodeBadRequest:     http.StatusBadRequest,
		CodeUnauthorized:   http.StatusUnauthorized,
		CodeTimeout:        http.StatusGatewayTimeout,
		CodeUnavailable:    http.StatusServiceUnavailable,
		CodeInternal:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
