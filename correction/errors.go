package correction

import (
	"errors"
	"fmt"
)

// ErrInvalidInput wraps every input-validation failure: mismatched grid
// lengths, non-positive cutoffs or tolerances, out-of-range axes.
var ErrInvalidInput = errors.New("correction: invalid input")

// NumericalInstabilityError reports a non-negligible imaginary component
// surfacing from the inverse transform of the model potential. It aborts
// the affected axis; a real potential reconstructed from a symmetric
// reciprocal-space model should have imaginary residuals at machine noise,
// so anything above the tolerance signals a broken setup.
type NumericalInstabilityError struct {
	// Axis is the lattice axis whose alignment failed.
	Axis int
	// MaxImag is the largest imaginary magnitude observed.
	MaxImag float64
	// Tol is the tolerance that was exceeded.
	Tol float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("correction: imaginary part %g of model potential on axis %d exceeds tolerance %g",
		e.MaxImag, e.Axis, e.Tol)
}
