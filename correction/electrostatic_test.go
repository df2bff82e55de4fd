package correction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"defectcorr/correction"
	"defectcorr/lattice"
)

func mustCubic(t *testing.T, a float64) lattice.Lattice {
	t.Helper()
	l, err := lattice.Cubic(a)
	require.NoError(t, err)
	return l
}

func TestElectrostaticReferenceScenario(t *testing.T) {
	t.Parallel()

	// 10 angstrom cubic cell, q = -1, eps = 10, default charge model,
	// 520 eV ceiling. Both sweeps converge at 20 eV.
	in := correction.ElectrostaticInput{
		Lattice:      mustCubic(t, 10),
		Q:            -1,
		Dielectric:   correction.ScalarDielectric(10),
		EnergyCutoff: 520,
		Logger:       zap.NewNop(),
	}
	res, err := correction.Electrostatic(in)
	require.NoError(t, err)

	assert.True(t, res.IsolatedConverged)
	assert.True(t, res.PeriodicConverged)
	assert.InDelta(t, 0.204198, res.Energy, 1e-4)

	// Deterministic across repeated runs.
	again, err := correction.Electrostatic(in)
	require.NoError(t, err)
	assert.Equal(t, res.Energy, again.Energy)
}

func TestElectrostaticZeroCharge(t *testing.T) {
	t.Parallel()

	res, err := correction.Electrostatic(correction.ElectrostaticInput{
		Lattice:    mustCubic(t, 10),
		Q:          0,
		Dielectric: correction.ScalarDielectric(10),
	})
	require.NoError(t, err)
	assert.Zero(t, res.Energy)
}

func TestElectrostaticStableBeyondConvergence(t *testing.T) {
	t.Parallel()

	base := correction.ElectrostaticInput{
		Lattice:    mustCubic(t, 10),
		Q:          -1,
		Dielectric: correction.ScalarDielectric(10),
	}

	at := func(cutoff float64) float64 {
		in := base
		in.EnergyCutoff = cutoff
		res, err := correction.Electrostatic(in)
		require.NoError(t, err)
		return res.Energy
	}

	// Once converged, widening the ceiling changes nothing beyond tol.
	assert.InDelta(t, at(100), at(520), 1e-4)
	assert.InDelta(t, at(520), at(1000), 1e-4)
}

func TestElectrostaticTensorDielectric(t *testing.T) {
	t.Parallel()

	tensor, err := correction.TensorDielectric(mat.NewDense(3, 3, []float64{
		12, 0.3, 0,
		0.3, 10, 0,
		0, 0, 8,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, tensor.Effective(), 1e-12)

	scalar, err := correction.Electrostatic(correction.ElectrostaticInput{
		Lattice:    mustCubic(t, 10),
		Q:          -1,
		Dielectric: correction.ScalarDielectric(10),
	})
	require.NoError(t, err)
	viaTensor, err := correction.Electrostatic(correction.ElectrostaticInput{
		Lattice:    mustCubic(t, 10),
		Q:          -1,
		Dielectric: tensor,
	})
	require.NoError(t, err)
	assert.Equal(t, scalar.Energy, viaTensor.Energy)
}

func TestElectrostaticValidation(t *testing.T) {
	t.Parallel()

	lat := mustCubic(t, 10)

	_, err := correction.Electrostatic(correction.ElectrostaticInput{
		Lattice:      lat,
		Q:            -1,
		Dielectric:   correction.ScalarDielectric(10),
		EnergyCutoff: -5,
	})
	assert.ErrorIs(t, err, correction.ErrInvalidInput)

	_, err = correction.Electrostatic(correction.ElectrostaticInput{
		Lattice:    lat,
		Q:          -1,
		Dielectric: correction.ScalarDielectric(0),
	})
	assert.ErrorIs(t, err, correction.ErrInvalidInput)

	_, err = correction.Electrostatic(correction.ElectrostaticInput{
		Q:          -1,
		Dielectric: correction.ScalarDielectric(10),
	})
	assert.ErrorIs(t, err, correction.ErrInvalidInput)

	_, err = correction.TensorDielectric(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	assert.ErrorIs(t, err, correction.ErrInvalidInput)
}
