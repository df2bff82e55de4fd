package lattice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defectcorr/lattice"
)

func TestCubic(t *testing.T) {
	t.Parallel()

	l, err := lattice.Cubic(10)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, l.Volume(), 1e-9)
	assert.Equal(t, [3]float64{10, 10, 10}, l.ABC())

	// Reciprocal of a cubic cell is cubic with edge 2*pi/a.
	want := 2 * math.Pi / 10
	for i, b := range l.Reciprocal() {
		for j, v := range b {
			if i == j {
				assert.InDelta(t, want, v, 1e-12)
			} else {
				assert.InDelta(t, 0, v, 1e-12)
			}
		}
	}
	for _, g := range l.ReciprocalABC() {
		assert.InDelta(t, want, g, 1e-12)
	}
}

func TestTriclinic(t *testing.T) {
	t.Parallel()

	basis := [3][3]float64{
		{5.0, 0.0, 0.0},
		{1.2, 4.8, 0.0},
		{0.7, 0.9, 6.1},
	}
	l, err := lattice.New(basis)
	require.NoError(t, err)

	// Volume equals |det| = 5.0 * 4.8 * 6.1 for a lower-triangular basis.
	assert.InDelta(t, 5.0*4.8*6.1, l.Volume(), 1e-9)

	// a_i . b_j = 2*pi*delta_ij defines the reciprocal basis.
	rec := l.Reciprocal()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := 0.0
			for k := 0; k < 3; k++ {
				dot += basis[i][k] * rec[j][k]
			}
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			assert.InDelta(t, want, dot, 1e-9, "a%d . b%d", i+1, j+1)
		}
	}
}

func TestDegenerateBasis(t *testing.T) {
	t.Parallel()

	_, err := lattice.New([3][3]float64{
		{1, 0, 0},
		{2, 0, 0},
		{0, 0, 1},
	})
	require.Error(t, err)
}

func TestCartesian(t *testing.T) {
	t.Parallel()

	l, err := lattice.New([3][3]float64{
		{4, 0, 0},
		{0, 5, 0},
		{1, 0, 6},
	})
	require.NoError(t, err)

	c := l.Cartesian([3]float64{0.5, 0.2, 1.0})
	assert.InDelta(t, 0.5*4+1, c[0], 1e-12)
	assert.InDelta(t, 0.2*5, c[1], 1e-12)
	assert.InDelta(t, 6.0, c[2], 1e-12)
}
