// SPDX-License-Identifier: MIT

package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrShape indicates that a vector does not match the operator dimension,
	// or that the callback returned a vector of unexpected length.
	ErrShape = errors.New("operator: shape mismatch")

	// ErrNilFunc indicates that a nil callback was supplied.
	ErrNilFunc = errors.New("operator: nil function")

	// ErrNoTranspose is returned by ApplyTranspose when the operator is neither
	// symmetric nor equipped with a transpose callback.
	ErrNoTranspose = errors.New("operator: transpose not available")

	// ErrBadShape is returned when requested dimensions are invalid (<= 0) or
	// when backing data does not fit the declared shape.
	ErrBadShape = errors.New("operator: invalid shape")

	// ErrOutOfRange indicates an index outside the valid bounds of a Dense or
	// Sparse operator.
	ErrOutOfRange = errors.New("operator: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("operator: NaN or Inf encountered")
)

// ShapeError describes a dimension mismatch between an operator and a vector.
// It matches ErrShape via errors.Is.
type ShapeError struct {
	Op       string // operation that detected the mismatch
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("operator: %s: shape mismatch: expected length %d, got %d", e.Op, e.Expected, e.Actual)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// shapeErrorf builds a *ShapeError for op.
func shapeErrorf(op string, expected, actual int) error {
	return &ShapeError{Op: op, Expected: expected, Actual: actual}
}
