package correction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dielectric is the screening constant of the bulk. Tensor input is
// reduced to the mean of its diagonal; the correction treats screening as
// isotropic, so this is an approximation, not a tensor treatment.
type Dielectric struct {
	eff float64
}

// ScalarDielectric wraps an isotropic dielectric constant.
func ScalarDielectric(v float64) Dielectric {
	return Dielectric{eff: v}
}

// TensorDielectric reduces a 3x3 dielectric tensor to its trace-averaged
// scalar.
func TensorDielectric(m mat.Matrix) (Dielectric, error) {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return Dielectric{}, fmt.Errorf("%w: dielectric tensor must be 3x3, got %dx%d", ErrInvalidInput, r, c)
	}
	return Dielectric{eff: mat.Trace(m) / 3}, nil
}

// Effective returns the scalar dielectric constant used by the correction.
func (d Dielectric) Effective() float64 { return d.eff }
