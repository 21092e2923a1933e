package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/hexlife/internal/grid"
)

// RuntimeError represents an error detected by an engine operation.
//
// Runtime errors include:
//   - Out of bounds: toggle or access with an invalid row/col
//   - Invalid argument: negative step count, bad probability, bad dimensions
//   - Dimension mismatch: a grid of the wrong shape fed back into a step
//
// Out of bounds and invalid argument are returned to the caller and are
// recoverable. Dimension mismatch is a programming error and is raised with
// panic.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Op names the engine operation that failed.
	Op string

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeOutOfBounds indicates a cell address outside the grid.
	ErrCodeOutOfBounds RuntimeErrorCode = "OUT_OF_BOUNDS"

	// ErrCodeInvalidArgument indicates a caller-supplied value outside its domain.
	ErrCodeInvalidArgument RuntimeErrorCode = "INVALID_ARGUMENT"

	// ErrCodeDimensionMismatch indicates grids of different shapes were combined.
	ErrCodeDimensionMismatch RuntimeErrorCode = "DIMENSION_MISMATCH"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsOutOfBounds returns true if the error is an out-of-bounds error.
// Uses errors.As to handle wrapped errors.
func IsOutOfBounds(err error) bool {
	return hasCode(err, ErrCodeOutOfBounds)
}

// IsInvalidArgument returns true if the error is an invalid-argument error.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

// IsDimensionMismatch returns true if the error is a dimension mismatch.
func IsDimensionMismatch(err error) bool {
	return hasCode(err, ErrCodeDimensionMismatch)
}

// NewOutOfBoundsError wraps a grid bounds error.
func NewOutOfBoundsError(op string, be *grid.BoundsError) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeOutOfBounds,
		Op:      op,
		Message: be.Error(),
		Details: map[string]string{
			"row":  fmt.Sprintf("%d", be.Addr.Row),
			"col":  fmt.Sprintf("%d", be.Addr.Col),
			"rows": fmt.Sprintf("%d", be.Rows),
			"cols": fmt.Sprintf("%d", be.Cols),
		},
		Err: be,
	}
}

// NewInvalidArgumentError creates a RuntimeError for a rejected argument.
func NewInvalidArgumentError(op, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidArgument,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

func newDimensionMismatch(op string, dst, src *grid.Grid) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDimensionMismatch,
		Op:      op,
		Message: fmt.Sprintf("destination %dx%d does not match source %dx%d", dst.Rows(), dst.Cols(), src.Rows(), src.Cols()),
	}
}
