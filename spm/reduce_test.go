package spm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewParticleModelArguments(t *testing.T) {
	{
		_, err := NewParticleModel(1, 5.e-06)
		assert.Error(t, err)
	}
	{
		_, err := NewParticleModel(6, 0)
		assert.Error(t, err)
	}
	{
		pm, err := NewParticleModel(6, 5.e-06)
		require.NoError(t, err)
		assert.Equal(t, 6, pm.N)
		assert.Equal(t, 5, len(pm.XInner))
		r, c := pm.A.Dims()
		assert.Equal(t, 5, r)
		assert.Equal(t, 5, c)
	}
}

func TestParticleModelUniformSteadyState(t *testing.T) {
	// A uniform concentration c0 with zero surface flux is an exact
	// steady state of the reduced system, and every recovery operator
	// must reproduce c0.
	var (
		R       = 5.e-06
		c0      = 20000.
		D       = 3.9e-14
		pm, err = NewParticleModel(6, R)
	)
	require.NoError(t, err)

	u := make([]float64, pm.N-1)
	for k := range u {
		u[k] = c0 * R * pm.XInner[k]
	}
	uSurf := pm.SurfaceValue(u, 0, D)
	assert.True(t, near(uSurf, c0*R))
	assert.True(t, near(pm.SurfaceConcentration(u, 0, D), c0))
	assert.True(t, near(pm.CentreConcentration(u, uSurf), c0))
	assert.True(t, near(pm.MeanConcentration(u, uSurf), c0))
	for k := range u {
		assert.True(t, near(pm.InnerConcentration(u, k), c0))
	}

	// derivative vanishes relative to the magnitude of the operator terms
	dudt := make([]float64, pm.N-1)
	pm.Derivative(dudt, u, D, 0)
	var scale float64
	for j := 0; j < pm.N-1; j++ {
		for k := 0; k < pm.N-1; k++ {
			scale = math.Max(scale, math.Abs(pm.A.At(j, k)))
		}
	}
	scale *= D * c0 * R
	for j := range dudt {
		assert.Less(t, math.Abs(dudt[j]), 1.e-10*scale)
	}
}

func TestParticleModelSpectrum(t *testing.T) {
	// The reduced diffusion operator must be stable: no eigenvalue with a
	// positive real part beyond round-off of the largest magnitude. One
	// near-zero mode carries the conserved total content.
	pm, err := NewParticleModel(8, 5.e-06)
	require.NoError(t, err)

	var eig mat.Eigen
	require.True(t, eig.Factorize(pm.A, mat.EigenNone))
	vals := eig.Values(nil)
	var maxMag float64
	for _, v := range vals {
		maxMag = math.Max(maxMag, math.Abs(real(v)))
	}
	for _, v := range vals {
		assert.Less(t, real(v), 1.e-10*maxMag)
	}
}

func TestParticleModelFluxDirection(t *testing.T) {
	// A positive molar flux q drains the particle: starting uniform, the
	// mean concentration must decrease at rate 3q/R.
	var (
		R       = 8.5e-06
		c0      = 25000.
		D       = 1.e-13
		q       = 1.e-05
		pm, err = NewParticleModel(6, R)
	)
	require.NoError(t, err)

	u := make([]float64, pm.N-1)
	for k := range u {
		u[k] = c0 * R * pm.XInner[k]
	}
	dudt := make([]float64, pm.N-1)
	pm.Derivative(dudt, u, D, q)

	// advance one tiny explicit Euler step and difference the means;
	// the surface map is affine, so this recovers the semi-discrete rate
	dt := 1.e-03
	u1 := make([]float64, len(u))
	for k := range u {
		u1[k] = u[k] + dt*dudt[k]
	}
	var (
		m0 = pm.MeanConcentration(u, pm.SurfaceValue(u, q, D))
		m1 = pm.MeanConcentration(u1, pm.SurfaceValue(u1, q, D))
	)
	rate := (m1 - m0) / dt
	expect := -3 * q / R
	assert.InEpsilon(t, expect, rate, 1.e-03)
}
