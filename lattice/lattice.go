// Package lattice provides the immutable real-space cell description the
// corrections operate on: three basis vectors in angstrom, their volume,
// and the associated reciprocal basis (2*pi convention).
package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lattice is a 3x3 real-space basis (rows are the lattice vectors a1, a2,
// a3, in angstrom) with its derived volume and reciprocal basis. It is
// immutable once constructed.
type Lattice struct {
	basis      [3][3]float64
	reciprocal [3][3]float64
	volume     float64
}

// New constructs a Lattice from three row basis vectors in angstrom. The
// basis must span a non-degenerate cell.
func New(basis [3][3]float64) (Lattice, error) {
	a := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, basis[i][j])
		}
	}
	det := mat.Det(a)
	if det == 0 || math.IsNaN(det) {
		return Lattice{}, fmt.Errorf("lattice.New: basis vectors are degenerate")
	}

	// Reciprocal basis: B = 2*pi * (A^-1)^T, rows b1, b2, b3.
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Lattice{}, fmt.Errorf("lattice.New: %w", err)
	}
	l := Lattice{basis: basis, volume: math.Abs(det)}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			l.reciprocal[i][j] = 2 * math.Pi * inv.At(j, i)
		}
	}
	return l, nil
}

// Cubic returns the cubic lattice with edge a angstrom.
func Cubic(a float64) (Lattice, error) {
	return New([3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
}

// Basis returns the row basis vectors in angstrom.
func (l Lattice) Basis() [3][3]float64 { return l.basis }

// Volume returns the cell volume in cubic angstrom.
func (l Lattice) Volume() float64 { return l.volume }

// ABC returns the lengths of the three basis vectors in angstrom.
func (l Lattice) ABC() [3]float64 {
	var abc [3]float64
	for i := 0; i < 3; i++ {
		abc[i] = norm(l.basis[i])
	}
	return abc
}

// Reciprocal returns the row reciprocal basis vectors in 1/angstrom
// (2*pi convention).
func (l Lattice) Reciprocal() [3][3]float64 { return l.reciprocal }

// ReciprocalABC returns the lengths of the reciprocal basis vectors in
// 1/angstrom.
func (l Lattice) ReciprocalABC() [3]float64 {
	var abc [3]float64
	for i := 0; i < 3; i++ {
		abc[i] = norm(l.reciprocal[i])
	}
	return abc
}

// Cartesian converts fractional coordinates to cartesian angstrom.
func (l Lattice) Cartesian(frac [3]float64) [3]float64 {
	var c [3]float64
	for j := 0; j < 3; j++ {
		c[j] = frac[0]*l.basis[0][j] + frac[1]*l.basis[1][j] + frac[2]*l.basis[2][j]
	}
	return c
}

// BasisBohr returns the row basis vectors converted by the given scale
// factor, typically units.AngToBohr for atomic-unit lattice sums.
func (l Lattice) BasisBohr(angToBohr float64) [3][3]float64 {
	var b [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = l.basis[i][j] * angToBohr
		}
	}
	return b
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
