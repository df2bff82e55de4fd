// Package numeric holds the small numerical helpers shared by the
// correction terms: cutoff convergence and window statistics.
package numeric

import (
	"iter"
	"math"
)

// Step is one evaluation of a cutoff-dependent quantity during a
// convergence sweep.
type Step struct {
	// Cutoff is the cutoff the function was evaluated at.
	Cutoff float64
	// Value is the function value at Cutoff.
	Value float64
	// Converged reports whether Value agrees with the previous step
	// within the sweep tolerance.
	Converged bool
}

// Result is the terminal state of a convergence sweep.
type Result struct {
	// Value is the last computed function value.
	Value float64
	// Cutoff is the cutoff Value was computed at.
	Cutoff float64
	// Converged is false when the ceiling was reached before two
	// consecutive values agreed within tolerance. The Value is still the
	// best available estimate and must not be discarded; callers decide
	// how to surface the shortfall.
	Converged bool
	// Evals counts the function evaluations performed.
	Evals int
}

// Steps evaluates f at initial, initial+step, ... up to the max cutoff and
// yields each evaluation together with its convergence state. The sequence
// is bounded: it ends either at the first converged step or at the ceiling.
// Convergence is the absolute agreement |f(c_n) - f(c_n-1)| <= tol.
func Steps(f func(cutoff float64) float64, initial, step, tol, max float64) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		prev := math.NaN()
		for c := initial; c <= max; c += step {
			v := f(c)
			s := Step{Cutoff: c, Value: v}
			if !math.IsNaN(prev) && math.Abs(v-prev) <= tol {
				s.Converged = true
			}
			if !yield(s) || s.Converged {
				return
			}
			prev = v
		}
	}
}

// Converge runs a cutoff sweep to completion and returns its terminal
// state. A constant function converges at the second evaluation, returning
// the constant; a sweep that exhausts the ceiling returns the last value
// with Converged set to false.
func Converge(f func(cutoff float64) float64, initial, step, tol, max float64) Result {
	var r Result
	for s := range Steps(f, initial, step, tol, max) {
		r.Value = s.Value
		r.Cutoff = s.Cutoff
		r.Converged = s.Converged
		r.Evals++
	}
	return r
}
