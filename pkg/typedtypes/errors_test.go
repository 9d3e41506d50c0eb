package typedtypes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"argument", NewArgumentError("unknown type", "type", "foo"), ErrArgument, true},
		{"validation", NewValidationError("bad value"), ErrValidation, true},
		{"conversion", NewConversionError("bad int"), ErrConversion, true},
		{"type system", NewTypeSystemError("duplicate"), ErrTypeSystem, true},
		{"not found", NewNotFoundError("missing"), ErrNotFound, true},
		{"kind mismatch", NewArgumentError("x"), ErrValidation, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", NewNotFoundError("x")), ErrNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestError_WrapChainsKinds(t *testing.T) {
	err := NewValidationError("Could not convert value", "type", "integer").
		Wrap(NewConversionError("invalid syntax"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrConversion))
	assert.False(t, errors.Is(err, ErrArgument))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestError_Rendering(t *testing.T) {
	err := NewArgumentError("Could not find value for keyword argument", "argument", "arg2")
	assert.Equal(t, "ArgumentError: Could not find value for keyword argument (argument=arg2)", err.Error())

	wrapped := NewValidationError("bad").Wrap(errors.New("cause"))
	assert.Equal(t, "ValidationError: bad: cause", wrapped.Error())
}

func TestError_Params(t *testing.T) {
	err := NewValidationError("value is negative", "argument", "arg1", "arg_value", int64(-15))

	v, ok := err.Param("arg_value")
	require.True(t, ok)
	assert.Equal(t, int64(-15), v)

	_, ok = err.Param("missing")
	assert.False(t, ok)

	assert.Equal(t, []any{"kind", "ValidationError", "argument", "arg1", "arg_value", int64(-15)}, err.Keyvals())
}

func TestError_OddKeyvalsArePadded(t *testing.T) {
	err := NewArgumentError("odd", "lonely")
	assert.Len(t, err.Params, 2)
	assert.Equal(t, 0, int(KindOf(errors.New("plain"))))
}
