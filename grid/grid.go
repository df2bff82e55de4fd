// Package grid represents the 3D scalar potential fields produced by a
// periodic electronic-structure calculation, reduced here to the two views
// the corrections need: the 1D coordinate grid along a lattice axis and the
// planar average of the field along that axis.
package grid

import (
	"fmt"

	"defectcorr/lattice"
)

// Volumetric is a scalar field sampled on a regular nx*ny*nz grid spanning
// one period of the cell. Values are stored row-major with the last axis
// fastest: index = (i*ny + j)*nz + k. The field is immutable once built.
type Volumetric struct {
	lat  lattice.Lattice
	dims [3]int
	data []float64
}

// New constructs a Volumetric from a flattened row-major value slice.
func New(lat lattice.Lattice, dims [3]int, data []float64) (*Volumetric, error) {
	for axis, n := range dims {
		if n < 2 {
			return nil, fmt.Errorf("grid.New: axis %d needs at least 2 points, got %d", axis, n)
		}
	}
	if want := dims[0] * dims[1] * dims[2]; len(data) != want {
		return nil, fmt.Errorf("grid.New: got %d values, dims %v need %d", len(data), dims, want)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Volumetric{lat: lat, dims: dims, data: cp}, nil
}

// Lattice returns the cell the grid spans.
func (v *Volumetric) Lattice() lattice.Lattice { return v.lat }

// Dims returns the number of grid points along each axis.
func (v *Volumetric) Dims() [3]int { return v.dims }

// At returns the value at grid point (i, j, k).
func (v *Volumetric) At(i, j, k int) float64 {
	return v.data[(i*v.dims[1]+j)*v.dims[2]+k]
}

// AxisGrid returns the cartesian positions (angstrom) of the grid planes
// along the given axis: x_i = i * |a_axis| / n.
func (v *Volumetric) AxisGrid(axis int) []float64 {
	n := v.dims[axis]
	length := v.lat.ABC()[axis]
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * length / float64(n)
	}
	return xs
}

// AverageAlongAxis returns the planar average of the field along the given
// axis: the mean over the two perpendicular directions for each plane.
func (v *Volumetric) AverageAlongAxis(axis int) []float64 {
	n := v.dims[axis]
	out := make([]float64, n)
	planePoints := float64(v.dims[0] * v.dims[1] * v.dims[2] / n)
	for i := 0; i < v.dims[0]; i++ {
		for j := 0; j < v.dims[1]; j++ {
			for k := 0; k < v.dims[2]; k++ {
				switch axis {
				case 0:
					out[i] += v.At(i, j, k)
				case 1:
					out[j] += v.At(i, j, k)
				default:
					out[k] += v.At(i, j, k)
				}
			}
		}
	}
	for i := range out {
		out[i] /= planePoints
	}
	return out
}

// SameShape reports whether two grids share axis lengths on every axis.
func SameShape(a, b *Volumetric) bool {
	return a.dims == b.dims
}
