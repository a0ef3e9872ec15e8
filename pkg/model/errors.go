package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDimensionMismatch reports an input whose length differs from a
	// neuron's weight count.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidShape reports layer widths that are not positive or do not chain.
	ErrInvalidShape = errors.New("invalid network shape")
)

// DimensionError carries the expected and actual input widths.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %d input dimensions not compatible with %d weight dimensions",
		ErrDimensionMismatch, e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

func shapef(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidShape, format, args...)
}
