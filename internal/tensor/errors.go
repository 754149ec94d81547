package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShape is returned for malformed tensor dimensions: wrong rank,
// non-positive sizes, or operands whose shapes cannot be combined.
var ErrInvalidShape = errors.New("invalid shape")

// ShapeError describes an operation that received incompatible operand shapes.
// It unwraps to ErrInvalidShape.
type ShapeError struct {
	Op     string  // Operation name (e.g., "matmul", "add")
	Shapes []Shape // Operand shapes, in argument order
	Detail string  // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = fmt.Sprint([]int(s))
	}
	msg := fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidShape, strings.Join(parts, " vs "))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns ErrInvalidShape so callers can match with errors.Is.
func (e *ShapeError) Unwrap() error {
	return ErrInvalidShape
}
