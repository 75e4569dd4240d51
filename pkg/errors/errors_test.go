package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Standard error for testing
var errStd = errors.New("standard error")

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		message  string
		expected string
	}{
		{
			name:     "Create InvalidInput error",
			errType:  ErrInvalidInput,
			message:  "invalid input",
			expected: "invalid input",
		},
		{
			name:     "Create PriceNotFound error",
			errType:  ErrPriceNotFound,
			message:  "price not found",
			expected: "price not found",
		},
		{
			name:     "Create error with empty message",
			errType:  ErrUnknown,
			message:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.errType, tt.message)
			assert.Equal(t, tt.expected, err.Error())
			assert.Equal(t, tt.errType, GetType(err))
		})
	}
}

func TestNewf(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "Format simple string",
			errType:  ErrUpstreamFailed,
			format:   "upstream returned status %d",
			args:     []interface{}{502},
			expected: "upstream returned status 502",
		},
		{
			name:     "Format with multiple args",
			errType:  ErrSystem,
			format:   "failed to connect to %s:%d",
			args:     []interface{}{"localhost", 8080},
			expected: "failed to connect to localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Newf(tt.errType, tt.format, tt.args...)
			assert.Equal(t, tt.expected, err.Error())
			assert.Equal(t, tt.errType, GetType(err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(errStd, ErrStorageFailed, "failed to append observation")

	assert.Equal(t, "failed to append observation: standard error", err.Error())
	assert.Equal(t, ErrStorageFailed, GetType(err))
	assert.Equal(t, errStd, Cause(err))
	assert.ErrorIs(t, err, errStd)
}

func TestIs(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{
			name:    "Matching type",
			err:     New(ErrPriceNotFound, "price not found"),
			errType: ErrPriceNotFound,
			want:    true,
		},
		{
			name:    "Non-matching type",
			err:     New(ErrPriceNotFound, "price not found"),
			errType: ErrUpstreamFailed,
			want:    false,
		},
		{
			name:    "Wrapped AppError keeps outermost type",
			err:     Wrap(New(ErrPriceNotFound, "price not found"), ErrInternal, "compare failed"),
			errType: ErrInternal,
			want:    true,
		},
		{
			name:    "Standard error is never a typed error",
			err:     errStd,
			errType: ErrUnknown,
			want:    false,
		},
		{
			name:    "Nil error",
			err:     nil,
			errType: ErrUnknown,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.errType))
		})
	}
}

func TestRootCause(t *testing.T) {
	inner := errors.New("connection refused")
	mid := Wrap(inner, ErrSystem, "query failed")
	outer := Wrap(mid, ErrStorageFailed, "failed to list watch requests")

	assert.Equal(t, inner, RootCause(outer))
	assert.Equal(t, errStd, RootCause(errStd))
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrUnknown, GetType(nil))
	assert.Equal(t, ErrUnknown, GetType(errStd))
	assert.Equal(t, ErrConfiguration, GetType(New(ErrConfiguration, "missing credentials")))
}
