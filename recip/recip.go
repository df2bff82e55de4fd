// Package recip enumerates the reciprocal lattice vectors entering the
// periodic-image sums. Enumeration is lazy, deterministic and exhaustive:
// integer triples over the minimal bounding box of the cutoff sphere,
// filtered by norm, with the zero vector excluded.
package recip

import (
	"iter"
	"math"

	"defectcorr/units"
)

// Vectors yields every nonzero reciprocal lattice vector g = i*b1 + j*b2 +
// k*b3 with |g| < EVToK(encut). The real-space basis vectors a1, a2, a3
// are expected in bohr; the reciprocal basis is derived with the 2*pi
// convention so the yielded vectors are in 1/bohr.
func Vectors(a1, a2, a3 [3]float64, encut float64) iter.Seq[[3]float64] {
	vol := dot(a1, cross(a2, a3))
	b1 := scale(cross(a2, a3), 2*math.Pi/vol)
	b2 := scale(cross(a3, a1), 2*math.Pi/vol)
	b3 := scale(cross(a1, a2), 2*math.Pi/vol)

	gcut := units.EVToK(encut)
	imax := int(math.Ceil(gcut / norm(b1)))
	jmax := int(math.Ceil(gcut / norm(b2)))
	kmax := int(math.Ceil(gcut / norm(b3)))

	return func(yield func([3]float64) bool) {
		for i := -imax; i <= imax; i++ {
			for j := -jmax; j <= jmax; j++ {
				for k := -kmax; k <= kmax; k++ {
					if i == 0 && j == 0 && k == 0 {
						continue
					}
					g := [3]float64{
						float64(i)*b1[0] + float64(j)*b2[0] + float64(k)*b3[0],
						float64(i)*b1[1] + float64(j)*b2[1] + float64(k)*b3[1],
						float64(i)*b1[2] + float64(j)*b2[2] + float64(k)*b3[2],
					}
					if norm(g) < gcut {
						if !yield(g) {
							return
						}
					}
				}
			}
		}
	}
}

// SquaredNorms yields the squared magnitudes |g|^2 (1/bohr^2) of the
// vectors produced by Vectors, the form consumed by the lattice sums.
func SquaredNorms(a1, a2, a3 [3]float64, encut float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for g := range Vectors(a1, a2, a3, encut) {
			if !yield(dot(g, g)) {
				return
			}
		}
	}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func scale(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
