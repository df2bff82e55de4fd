// Package qmodel implements the model charge distribution used by the
// finite-size defect corrections: a normalized Gaussian optionally mixed
// with an exponential tail for delocalized charge states (Freysoldt 2011).
package qmodel

import (
	"fmt"
	"math"
)

// Model is the reciprocal-space representation of the model charge density
//
//	rho(r) = q [ x exp(-r/gamma) + (1-x) exp(-r^2/beta^2) ]
//
// without normalization constants. It is stateless: both evaluation methods
// are pure functions of the squared wavevector magnitude.
type Model struct {
	beta    float64
	expnorm float64
	gamma   float64

	beta2  float64
	gamma2 float64
	limit0 float64
}

// New constructs a Model.
//
//   - beta is the Gaussian decay constant. 1 bohr suits localized charges;
//     around 2 bohr is more sensible for delocalized ones (e.g. diamond).
//   - expnorm is the weight of the exponential tail in [0, 1]. 0 means a
//     pure Gaussian; delocalized charges are typically fit around 0.54-0.6.
//   - gamma is the exponential decay constant, required when expnorm > 0.
func New(beta, expnorm, gamma float64) (*Model, error) {
	if beta <= 0 {
		return nil, fmt.Errorf("qmodel.New: beta must be positive, got %v", beta)
	}
	if expnorm < 0 || expnorm > 1 {
		return nil, fmt.Errorf("qmodel.New: expnorm must be in [0, 1], got %v", expnorm)
	}
	if expnorm > 0 && gamma == 0 {
		return nil, fmt.Errorf("qmodel.New: exponential decay constant required when expnorm > 0")
	}
	m := &Model{
		beta:    beta,
		expnorm: expnorm,
		gamma:   gamma,
		beta2:   beta * beta,
		gamma2:  gamma * gamma,
	}
	m.limit0 = -2*m.gamma2*m.expnorm - 0.25*m.beta2*(1-m.expnorm)
	return m, nil
}

// Default returns the standard narrow Gaussian (beta = 1, no tail).
func Default() *Model {
	m, err := New(1.0, 0.0, 1.0)
	if err != nil {
		panic(err) // unreachable for fixed valid parameters
	}
	return m
}

// RhoRec evaluates the reciprocal-space charge density at squared
// wavevector magnitude g2. The g2 = 0 point must be handled by the caller
// through RhoRecLimit0; RhoRec itself is only defined for g2 > 0 in the
// expressions that divide by g2 downstream.
func (m *Model) RhoRec(g2 float64) float64 {
	return m.expnorm/math.Sqrt(1+m.gamma2*g2) +
		(1-m.expnorm)*math.Exp(-0.25*m.beta2*g2)
}

// RhoRecLimit0 is the analytic expansion coefficient of RhoRec near g = 0:
//
//	rhoRec(g->0) -> 1 + RhoRecLimit0 * g^2
//
// It is precomputed at construction and stands in for the g = 0 term of the
// lattice sums.
func (m *Model) RhoRecLimit0() float64 {
	return m.limit0
}
