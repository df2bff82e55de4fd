// Package slab implements the alignment search used by the 2D (slab)
// variant of the finite-size correction: a bisection over a charge-shift
// parameter that flattens the asymptotic vacuum slopes of a 1D potential
// profile. The profile itself comes from an external electrostatics tool
// behind the Runner boundary; this package owns only the search logic and
// the boundary's input/output contract.
package slab

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// ErrToolUnavailable reports that the delegated slab-alignment executable
// cannot be reached. Runner implementations return it (possibly wrapped)
// so callers can distinguish a missing tool from a failed evaluation.
var ErrToolUnavailable = errors.New("slab: alignment tool unavailable")

// Profile is a 1D potential-vs-position profile spanning the cell along
// the slab normal. Z is in bohr, V in eV.
type Profile struct {
	Z []float64
	V []float64
}

// Runner evaluates the potential profile for a trial charge shift along
// the slab normal. Implementations wrap the external tool; they are
// synchronous, and process-level timeout handling belongs to the caller.
type Runner interface {
	Profile(shift float64) (Profile, error)
}

// Optimizer searches for the shift that flattens both vacuum-region
// slopes of the profile, yielding the slab alignment constant.
type Optimizer struct {
	// Q is the defect charge state; its sign orients the bracket search.
	Q float64
	// Runner supplies profiles for trial shifts.
	Runner Runner
	// MaxIter bounds the search. Zero selects 1000.
	MaxIter int
	// ThresholdSlope is the largest vacuum slope accepted as flat. Zero
	// selects 1e-3.
	ThresholdSlope float64
	// ThresholdC is the largest accepted disagreement between the two
	// fitted intercepts. Zero selects 1e-3.
	ThresholdC float64
	// EdgeWidth is the extent (bohr) of the vacuum segment fitted at
	// each cell boundary. Zero selects 2 bohr.
	EdgeWidth float64
	// Logger receives search progress; nil disables logging.
	Logger *zap.Logger
}

// Result is the terminal state of the alignment search.
type Result struct {
	// Shift is the charge shift reached by the search.
	Shift float64
	// Align is the averaged intercept of the two vacuum fits, the slab
	// alignment constant (eV).
	Align float64
	// Converged is false when the iteration budget ran out; Shift and
	// Align are then the best available estimates and must not be
	// presented as a valid alignment without that caveat.
	Converged bool
	// Iterations counts profile evaluations.
	Iterations int
	// Slopes and Intercepts hold the final bottom/top vacuum fits.
	Slopes     [2]float64
	Intercepts [2]float64
}

const nudge = 0.01 // shift step when the two slopes disagree in sign

func (o *Optimizer) normalize() error {
	if o.Runner == nil {
		return fmt.Errorf("slab: Optimizer.Runner is required")
	}
	if o.MaxIter == 0 {
		o.MaxIter = 1000
	}
	if o.ThresholdSlope == 0 {
		o.ThresholdSlope = 1e-3
	}
	if o.ThresholdC == 0 {
		o.ThresholdC = 1e-3
	}
	if o.EdgeWidth == 0 {
		o.EdgeWidth = 2.0
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// Optimize runs the bisection search. The bracket [smin, smax] starts
// unbounded; each iteration fits straight lines through the bottom and top
// vacuum segments of the profile and either accepts the shift (both slopes
// flat, intercepts agreeing), nudges it when the slopes disagree in sign,
// or moves the bracket in the direction indicated by sign(q)*(m1+m2).
func (o Optimizer) Optimize() (Result, error) {
	if err := o.normalize(); err != nil {
		return Result{}, err
	}
	log := o.Logger

	smin, smax := math.Inf(-1), math.Inf(1)
	shift := 0.0
	right := true

	var res Result
	for iter := 0; iter < o.MaxIter; iter++ {
		p, err := o.Runner.Profile(shift)
		if err != nil {
			return Result{}, fmt.Errorf("slab: profile at shift %v: %w", shift, err)
		}
		m1, c1, m2, c2, err := o.fitVacuum(p)
		if err != nil {
			return Result{}, err
		}

		res = Result{
			Shift:      shift,
			Align:      (c1 + c2) / 2,
			Iterations: iter + 1,
			Slopes:     [2]float64{m1, m2},
			Intercepts: [2]float64{c1, c2},
		}
		log.Debug("slab alignment step",
			zap.Float64("shift", shift),
			zap.Float64("slope_bottom", m1), zap.Float64("slope_top", m2),
			zap.Float64("intercept_bottom", c1), zap.Float64("intercept_top", c2))

		switch {
		case math.Abs(m1) < o.ThresholdSlope && math.Abs(m2) < o.ThresholdSlope && math.Abs(c1-c2) < o.ThresholdC:
			res.Converged = true
			log.Info("slab alignment converged",
				zap.Float64("shift", shift), zap.Float64("align_ev", res.Align))
			return res, nil
		case m1*m2 < 0:
			// Ambiguous bracket: slopes disagree in sign, so the
			// direction is undetermined. Nudge and retry.
			if right {
				shift += nudge
			} else {
				shift -= nudge
			}
		case (m1+m2)*sign(o.Q) > 0:
			smin = shift
			if math.IsInf(smax, 1) {
				shift += 1.0
			} else {
				shift = (smin + smax) / 2
			}
			right = true
		case (m1+m2)*sign(o.Q) < 0:
			smax = shift
			if math.IsInf(smin, -1) {
				shift -= 1.0
			} else {
				shift = (smin + smax) / 2
			}
			right = false
		}
	}

	log.Warn("slab alignment did not converge within iteration budget",
		zap.Int("max_iter", o.MaxIter), zap.Float64("last_shift", res.Shift))
	return res, nil
}

// fitVacuum fits linear regressions to the vacuum segments within
// EdgeWidth of the bottom and top cell boundaries and returns
// (slope, intercept) for each.
func (o *Optimizer) fitVacuum(p Profile) (m1, c1, m2, c2 float64, err error) {
	n := len(p.Z)
	if n < 4 || len(p.V) != n {
		return 0, 0, 0, 0, fmt.Errorf("slab: profile needs matching Z/V with at least 4 points, got %d/%d", n, len(p.V))
	}
	z1 := n
	for i, z := range p.Z {
		if z > o.EdgeWidth {
			z1 = i
			break
		}
	}
	z2 := n
	top := p.Z[n-1] - o.EdgeWidth
	for i, z := range p.Z {
		if z > top {
			z2 = i
			break
		}
	}
	if z1 < 2 || n-z2 < 2 {
		return 0, 0, 0, 0, fmt.Errorf("slab: fewer than 2 profile points within %v bohr of a boundary", o.EdgeWidth)
	}
	c1, m1 = stat.LinearRegression(p.Z[:z1], p.V[:z1], nil, false)
	c2, m2 = stat.LinearRegression(p.Z[z2:], p.V[z2:], nil, false)
	return m1, c1, m2, c2, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
