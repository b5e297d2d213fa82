package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsSentinel(t *testing.T) {
	wrapped := Wrapf(ErrMalformedField, "token %q", "heading")

	assert.Contains(t, wrapped.Error(), "heading")
	assert.Contains(t, wrapped.Error(), "malformed field definition")
	assert.True(t, Is(wrapped, ErrMalformedField))
	assert.False(t, Is(wrapped, ErrUnsupportedFieldSpec))
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrUnsupportedFieldSpec, "use name:type[:width[.precision]]")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use name:type[:width[.precision]]", hints[0])
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"malformed field", Wrap(ErrMalformedField, "fields"), true},
		{"bad destination", ErrInvalidDestination, true},
		{"bad mode", Wrap(ErrUnsupportedMode, "open"), true},
		{"closed", ErrClosed, false},
		{"format", Wrap(ErrUnsupportedFormat, "open"), false},
		{"plain", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConfigError(tt.err))
		})
	}
}
