package spm

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/voltsim/gospm/chebyshev"
)

/*
ParticleModel is the reduced spherical diffusion model of one electrode
particle, discretized by Chebyshev collocation of the transformed variable
u(r) = r*c(r), which obeys du/dt = D d2u/dr2 on the mirrored domain
r in [-R, R].

The reduction happens once, at construction:

 1. u is odd in r and vanishes at the centre node, so the mirrored half of
    the 2N+1 collocation nodes is folded away: each differentiation matrix
    column k is replaced by column k minus the exchange-permuted column
    2N-k, leaving NxN operators on the non-negative nodes.
 2. The surface value u(R) is eliminated analytically from the flux
    boundary condition D dc/dr = -q at r = R, which in u reads
    [D1row0·u] - u0 = -R^2 q / D. Solving for u0 gives an affine map from
    the inner values and the instantaneous flux q.
 3. Substituting u0 into the folded diffusion operator yields the
    (N-1)-state system du/dt = D(T)*A*u + B*q. The R^2/D factor carried by
    u0 cancels against the D/R^2 diffusion prefactor, so B needs no
    diffusivity scaling.
 4. The centre concentration lim u/r is the first-derivative row at the
    centre node of the unfolded operator, folded by the same symmetry.

The matrices depend only on N and the particle radius; the instantaneous
diffusivity enters at evaluation time.
*/
type ParticleModel struct {
	N      int
	Radius float64

	// XInner holds the collocation coordinates x_1..x_{N-1} in (0,1);
	// physical inner-node radii are Radius*XInner.
	XInner []float64

	A *mat.Dense // (N-1)x(N-1); du/dt = D*A*u + B*q
	B []float64

	// u(R) = surfRow·u + surfFlux*q/D
	surfRow  []float64
	surfFlux float64

	// c(0) = centreSurf*u(R) + centreInner·u
	centreSurf  float64
	centreInner []float64

	// volume average: cbar = quadSurf*u(R) + quadInner·u
	quadSurf  float64
	quadInner []float64
}

// NewParticleModel builds the reduced diffusion operators for a particle
// of the given radius at truncation order N. N must be at least 2 so that
// an inner node remains after the surface and centre are eliminated.
func NewParticleModel(N int, radius float64) (pm *ParticleModel, err error) {
	if N < 2 {
		return nil, fmt.Errorf("spm: truncation order must be at least 2, got %d", N)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("spm: particle radius must be positive, got %g", radius)
	}
	var (
		M = 2 * N
	)
	X, D1, D2, err := chebyshev.DiffMatrices(M)
	if err != nil {
		return nil, err
	}

	// exchange (anti-diagonal) permutation pairing node k with node M-k
	flipDOK := sparse.NewDOK(N, N)
	for i := 0; i < N; i++ {
		flipDOK.Set(i, N-1-i, 1)
	}
	flip := flipDOK.ToCSR()

	fold := func(D *mat.Dense) *mat.Dense {
		var (
			kept     = mat.DenseCopyOf(D.Slice(0, N, 0, N))
			mirrored = mat.NewDense(N, N, nil)
		)
		mirrored.Mul(D.Slice(0, N, N+1, M+1), flip)
		kept.Sub(kept, mirrored)
		return kept
	}
	f1 := fold(D1)
	f2 := fold(D2)

	beta := 1 - f1.At(0, 0)
	if math.Abs(beta) < 1.e-12 {
		return nil, fmt.Errorf("spm: degenerate discretization at N = %d: surface boundary coefficient vanishes", N)
	}

	pm = &ParticleModel{
		N:           N,
		Radius:      radius,
		XInner:      append([]float64(nil), X[1:N]...),
		B:           make([]float64, N-1),
		surfRow:     make([]float64, N-1),
		surfFlux:    radius * radius / beta,
		centreInner: make([]float64, N-1),
		quadInner:   make([]float64, N-1),
	}
	for k := 1; k < N; k++ {
		pm.surfRow[k-1] = f1.At(0, k) / beta
	}

	// A = [f2_inner + f2_col0 (x) f1_row0/beta] / R^2, B = f2_col0/beta
	R2 := radius * radius
	pm.A = mat.NewDense(N-1, N-1, nil)
	for j := 1; j < N; j++ {
		col0 := f2.At(j, 0)
		for k := 1; k < N; k++ {
			pm.A.Set(j-1, k-1, (f2.At(j, k)+col0*f1.At(0, k)/beta)/R2)
		}
		pm.B[j-1] = col0 / beta
	}

	// centre-node recovery from the unfolded first-derivative row
	g0 := D1.At(N, 0) - D1.At(N, M)
	pm.centreSurf = g0 / radius
	for k := 1; k < N; k++ {
		pm.centreInner[k-1] = (D1.At(N, k) - D1.At(N, M-k)) / radius
	}

	// Clenshaw-Curtis volume averaging over the half domain:
	// cbar = (3/R^3) integral of c r^2 dr = (3/R) sum w_j x_j u_j
	W, err := chebyshev.ClenshawCurtis(M)
	if err != nil {
		return nil, err
	}
	pm.quadSurf = 3 / radius * W[0] * X[0]
	for k := 1; k < N; k++ {
		pm.quadInner[k-1] = 3 / radius * W[k] * X[k]
	}
	return pm, nil
}

// SurfaceValue recovers the transformed surface value u(R) from the
// reduced state, the molar flux q and the instantaneous diffusivity.
func (pm *ParticleModel) SurfaceValue(u []float64, flux, diffusivity float64) float64 {
	u0 := pm.surfFlux * flux / diffusivity
	for k, v := range pm.surfRow {
		u0 += v * u[k]
	}
	return u0
}

// SurfaceConcentration is u(R)/R.
func (pm *ParticleModel) SurfaceConcentration(u []float64, flux, diffusivity float64) float64 {
	return pm.SurfaceValue(u, flux, diffusivity) / pm.Radius
}

// CentreConcentration recovers c(0) from the reduced state and the
// already-recovered surface value.
func (pm *ParticleModel) CentreConcentration(u []float64, uSurf float64) float64 {
	c := pm.centreSurf * uSurf
	for k, v := range pm.centreInner {
		c += v * u[k]
	}
	return c
}

// InnerConcentration is the physical concentration u_k/r_k at inner node
// k, k in [0, N-2], ordered from just below the surface towards the
// centre.
func (pm *ParticleModel) InnerConcentration(u []float64, k int) float64 {
	return u[k] / (pm.Radius * pm.XInner[k])
}

// Profile assembles the full radial concentration profile, ordered from
// the surface through the inner nodes to the centre.
func (pm *ParticleModel) Profile(u []float64, uSurf float64) []float64 {
	prof := make([]float64, pm.N+1)
	prof[0] = uSurf / pm.Radius
	for k := range u {
		prof[k+1] = pm.InnerConcentration(u, k)
	}
	prof[pm.N] = pm.CentreConcentration(u, uSurf)
	return prof
}

// MeanConcentration is the volume-averaged concentration of the particle.
func (pm *ParticleModel) MeanConcentration(u []float64, uSurf float64) float64 {
	c := pm.quadSurf * uSurf
	for k, v := range pm.quadInner {
		c += v * u[k]
	}
	return c
}

// Derivative writes D*A*u + B*flux into dst.
func (pm *ParticleModel) Derivative(dst, u []float64, diffusivity, flux float64) {
	n := pm.N - 1
	for j := 0; j < n; j++ {
		var acc float64
		for k := 0; k < n; k++ {
			acc += pm.A.At(j, k) * u[k]
		}
		dst[j] = diffusivity*acc + pm.B[j]*flux
	}
}
