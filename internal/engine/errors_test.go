package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/grid"
)

func TestRuntimeError_Format(t *testing.T) {
	err := NewInvalidArgumentError("batch", "step count %d is negative", -4)
	assert.Equal(t, "INVALID_ARGUMENT: batch: step count -4 is negative", err.Error())

	bare := &RuntimeError{Code: ErrCodeDimensionMismatch, Message: "boom"}
	assert.Equal(t, "DIMENSION_MISMATCH: boom", bare.Error())
}

func TestRuntimeError_WrappedMatching(t *testing.T) {
	be := &grid.BoundsError{Addr: grid.Addr{Row: 9, Col: 1}, Rows: 3, Cols: 3}
	err := fmt.Errorf("edit: %w", NewOutOfBoundsError("toggle", be))

	assert.True(t, IsOutOfBounds(err))
	assert.False(t, IsInvalidArgument(err))
	assert.False(t, IsDimensionMismatch(err))

	var unwrapped *grid.BoundsError
	require.ErrorAs(t, err, &unwrapped)
	assert.Equal(t, 9, unwrapped.Addr.Row)
}

func TestRuntimeError_NotRuntime(t *testing.T) {
	assert.False(t, IsOutOfBounds(fmt.Errorf("plain")))
	assert.False(t, IsInvalidArgument(nil))
}
