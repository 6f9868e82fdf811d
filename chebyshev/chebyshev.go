package chebyshev

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
Chebyshev-Gauss-Lobatto collocation operators on [-1,1].

Nodes are placed trigonometrically and the differentiation matrices are
built from the Chebyshev polynomial Vandermonde matrices, D = Vx * V^-1,
rather than by divided differences. The basis values and their derivatives
come from the differentiated three-term recurrence, so the construction
stays well conditioned at the orders used here and reproduces derivatives
of polynomials up to degree M to round-off.
*/

// GaussLobatto returns the M+1 Chebyshev-Gauss-Lobatto nodes
// X[j] = cos(j*pi/M), ordered strictly decreasing from 1 to -1 and
// symmetric about zero.
func GaussLobatto(M int) (X []float64, err error) {
	if M < 1 {
		err = fmt.Errorf("chebyshev: order must be at least 1, got %d", M)
		return
	}
	X = make([]float64, M+1)
	for j := 0; j <= M; j++ {
		X[j] = math.Cos(float64(j) * math.Pi / float64(M))
	}
	// Exact endpoint and midpoint values, cos() leaves residual round-off
	X[0] = 1
	X[M] = -1
	if M%2 == 0 {
		X[M/2] = 0
	}
	return
}

// Vandermonde evaluates the Chebyshev basis T_0..T_M and its first and
// second derivatives at the given nodes. Row i of V holds T_k(X[i]).
func Vandermonde(X []float64) (V, Vx, Vxx *mat.Dense) {
	var (
		Np = len(X)
		M  = Np - 1
	)
	V = mat.NewDense(Np, M+1, nil)
	Vx = mat.NewDense(Np, M+1, nil)
	Vxx = mat.NewDense(Np, M+1, nil)
	for i, x := range X {
		// T_{k+1} = 2x T_k - T_{k-1}, differentiated once and twice
		var tm1, t, dm1, d, sm1, s float64
		t = 1
		V.Set(i, 0, 1)
		if M >= 1 {
			tm1, t = t, x
			dm1, d = d, 1
			sm1, s = s, 0
			V.Set(i, 1, t)
			Vx.Set(i, 1, d)
		}
		for k := 2; k <= M; k++ {
			tk := 2*x*t - tm1
			dk := 2*t + 2*x*d - dm1
			sk := 4*d + 2*x*s - sm1
			tm1, t = t, tk
			dm1, d = d, dk
			sm1, s = s, sk
			V.Set(i, k, t)
			Vx.Set(i, k, d)
			Vxx.Set(i, k, s)
		}
	}
	return
}

// DiffMatrices returns the dense first and second derivative collocation
// matrices for the Gauss-Lobatto nodes of order M.
func DiffMatrices(M int) (X []float64, D1, D2 *mat.Dense, err error) {
	if X, err = GaussLobatto(M); err != nil {
		return
	}
	V, Vx, Vxx := Vandermonde(X)
	if D1, err = rightDivide(Vx, V); err != nil {
		err = fmt.Errorf("chebyshev: first derivative operator: %v", err)
		return
	}
	if D2, err = rightDivide(Vxx, V); err != nil {
		err = fmt.Errorf("chebyshev: second derivative operator: %v", err)
		return
	}
	return
}

// rightDivide computes A * B^-1 by solving B' X' = A' for X.
func rightDivide(A, B *mat.Dense) (R *mat.Dense, err error) {
	var Rt mat.Dense
	if err = Rt.Solve(B.T(), A.T()); err != nil {
		return
	}
	nr, nc := A.Dims()
	R = mat.NewDense(nr, nc, nil)
	R.Copy(Rt.T())
	return
}

// ClenshawCurtis returns quadrature weights W such that
// sum(W[j]*f(X[j])) approximates the integral of f over [-1,1] at the
// Gauss-Lobatto nodes of order M, exactly for polynomials of degree < M.
func ClenshawCurtis(M int) (W []float64, err error) {
	if M < 1 {
		err = fmt.Errorf("chebyshev: order must be at least 1, got %d", M)
		return
	}
	W = make([]float64, M+1)
	if M == 1 {
		W[0], W[1] = 1, 1
		return
	}
	fM := float64(M)
	var end float64
	if M%2 == 0 {
		end = 1 / (fM*fM - 1)
	} else {
		end = 1 / (fM * fM)
	}
	W[0], W[M] = end, end
	for j := 1; j < M; j++ {
		theta := float64(j) * math.Pi / fM
		v := 1.0
		for k := 1; k <= (M-1)/2; k++ {
			fk := float64(k)
			v -= 2 * math.Cos(2*fk*theta) / (4*fk*fk - 1)
		}
		if M%2 == 0 {
			// k = M/2 term enters with half weight
			v -= math.Cos(fM*theta) / (fM*fM - 1)
		}
		W[j] = 2 * v / fM
	}
	return
}
