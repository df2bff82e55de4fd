package qmodel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defectcorr/qmodel"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                 string
		beta, expnorm, gamma float64
		wantErr              bool
	}{
		{name: "default gaussian", beta: 1, expnorm: 0, gamma: 1},
		{name: "delocalized mix", beta: 2, expnorm: 0.55, gamma: 1.5},
		{name: "zero beta", beta: 0, expnorm: 0, gamma: 1, wantErr: true},
		{name: "expnorm above one", beta: 1, expnorm: 1.5, gamma: 1, wantErr: true},
		{name: "negative expnorm", beta: 1, expnorm: -0.1, gamma: 1, wantErr: true},
		{name: "tail without gamma", beta: 1, expnorm: 0.5, gamma: 0, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := qmodel.New(tc.beta, tc.expnorm, tc.gamma)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, m)
		})
	}
}

func TestRhoRecDefault(t *testing.T) {
	t.Parallel()

	m := qmodel.Default()

	// Pure Gaussian: rhoRec(g2) = exp(-g2/4).
	for _, g2 := range []float64{1e-6, 0.5, 1, 4, 25} {
		assert.InDelta(t, math.Exp(-0.25*g2), m.RhoRec(g2), 1e-12)
	}

	// Normalized: the small-g2 expansion approaches the total charge
	// fraction of 1, with curvature RhoRecLimit0.
	assert.InDelta(t, -0.25, m.RhoRecLimit0(), 1e-12)
	g2 := 1e-4
	assert.InDelta(t, 1+m.RhoRecLimit0()*g2, m.RhoRec(g2), 1e-8)
}

func TestRhoRecWithTail(t *testing.T) {
	t.Parallel()

	m, err := qmodel.New(1.0, 0.6, 2.0)
	require.NoError(t, err)

	// Small-g2 limit still matches the analytic expansion coefficient.
	want := -2*4.0*0.6 - 0.25*1.0*0.4
	assert.InDelta(t, want, m.RhoRecLimit0(), 1e-12)
	g2 := 1e-5
	assert.InDelta(t, 1+m.RhoRecLimit0()*g2, m.RhoRec(g2), 1e-8)

	// Smooth and decreasing toward zero at large g2.
	prev := m.RhoRec(0.01)
	for _, g2 := range []float64{0.1, 1, 10, 100} {
		cur := m.RhoRec(g2)
		assert.Less(t, cur, prev)
		prev = cur
	}
	assert.InDelta(t, 0, m.RhoRec(1e6), 1e-2)
}
