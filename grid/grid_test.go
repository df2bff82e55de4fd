package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defectcorr/grid"
	"defectcorr/lattice"
)

func mustCubic(t *testing.T, a float64) lattice.Lattice {
	t.Helper()
	l, err := lattice.Cubic(a)
	require.NoError(t, err)
	return l
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	l := mustCubic(t, 10)

	_, err := grid.New(l, [3]int{2, 2, 2}, make([]float64, 7))
	require.Error(t, err)

	_, err = grid.New(l, [3]int{1, 4, 4}, make([]float64, 16))
	require.Error(t, err)

	g, err := grid.New(l, [3]int{2, 3, 4}, make([]float64, 24))
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 3, 4}, g.Dims())
}

func TestAxisGrid(t *testing.T) {
	t.Parallel()

	g, err := grid.New(mustCubic(t, 10), [3]int{4, 5, 2}, make([]float64, 40))
	require.NoError(t, err)

	xs := g.AxisGrid(0)
	require.Len(t, xs, 4)
	assert.InDeltaSlice(t, []float64{0, 2.5, 5, 7.5}, xs, 1e-12)

	ys := g.AxisGrid(1)
	require.Len(t, ys, 5)
	assert.InDelta(t, 2.0, ys[1], 1e-12)
}

func TestAverageAlongAxis(t *testing.T) {
	t.Parallel()

	// Field varying only along z: value = k.
	dims := [3]int{3, 3, 4}
	data := make([]float64, 36)
	idx := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				data[idx] = float64(k)
				idx++
			}
		}
	}
	g, err := grid.New(mustCubic(t, 10), dims, data)
	require.NoError(t, err)

	avgZ := g.AverageAlongAxis(2)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3}, avgZ, 1e-12)

	// Averaged perpendicular to the variation, every plane sees the same
	// mean of 0..3.
	avgX := g.AverageAlongAxis(0)
	assert.InDeltaSlice(t, []float64{1.5, 1.5, 1.5}, avgX, 1e-12)
}

func TestSameShape(t *testing.T) {
	t.Parallel()

	l := mustCubic(t, 10)
	a, err := grid.New(l, [3]int{2, 2, 2}, make([]float64, 8))
	require.NoError(t, err)
	b, err := grid.New(l, [3]int{2, 2, 2}, make([]float64, 8))
	require.NoError(t, err)
	c, err := grid.New(l, [3]int{2, 2, 3}, make([]float64, 12))
	require.NoError(t, err)

	assert.True(t, grid.SameShape(a, b))
	assert.False(t, grid.SameShape(a, c))
}
