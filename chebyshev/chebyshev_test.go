package chebyshev

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussLobatto(t *testing.T) {
	{
		_, err := GaussLobatto(0)
		assert.Error(t, err)
	}
	{
		X, err := GaussLobatto(12)
		require.NoError(t, err)
		assert.Equal(t, 13, len(X))
		assert.Equal(t, 1., X[0])
		assert.Equal(t, -1., X[12])
		assert.Equal(t, 0., X[6])
		// strictly decreasing and symmetric about zero
		for j := 1; j < len(X); j++ {
			assert.Less(t, X[j], X[j-1])
		}
		for j := range X {
			assert.True(t, near(X[j], -X[12-j]))
		}
	}
}

func TestDiffMatricesPolynomialExactness(t *testing.T) {
	// D1 and D2 must reproduce derivatives of any polynomial of degree <= M
	// to round-off. Check the hardest case, x^M, plus a mixed polynomial.
	for _, M := range []int{1, 2, 5, 8, 12, 16} {
		X, D1, D2, err := DiffMatrices(M)
		require.NoError(t, err)
		fM := float64(M)
		for j, x := range X {
			var d1, d2 float64
			for k, xk := range X {
				p := math.Pow(xk, fM)
				d1 += D1.At(j, k) * p
				d2 += D2.At(j, k) * p
			}
			want1 := fM * math.Pow(x, fM-1)
			want2 := fM * (fM - 1) * math.Pow(x, fM-2)
			if M == 1 {
				want2 = 0
			}
			assert.InDelta(t, want1, d1, 1.e-10*math.Max(1, math.Abs(want1)))
			assert.InDelta(t, want2, d2, 1.e-9*math.Max(1, math.Abs(want2)))
		}
	}
	{
		// p(x) = 3x^3 - 2x + 1 at M = 6
		X, D1, D2, err := DiffMatrices(6)
		require.NoError(t, err)
		p := func(x float64) float64 { return 3*x*x*x - 2*x + 1 }
		for j, x := range X {
			var d1, d2 float64
			for k, xk := range X {
				d1 += D1.At(j, k) * p(xk)
				d2 += D2.At(j, k) * p(xk)
			}
			assert.True(t, near(d1, 9*x*x-2))
			assert.True(t, near(d2, 18*x))
		}
	}
}

func TestDiffMatrixRowSums(t *testing.T) {
	// Derivative of a constant is zero: every row must sum to zero.
	_, D1, D2, err := DiffMatrices(10)
	require.NoError(t, err)
	for j := 0; j < 11; j++ {
		var s1, s2 float64
		for k := 0; k < 11; k++ {
			s1 += D1.At(j, k)
			s2 += D2.At(j, k)
		}
		assert.InDelta(t, 0, s1, 1.e-10)
		assert.InDelta(t, 0, s2, 1.e-9)
	}
}

func TestClenshawCurtis(t *testing.T) {
	{
		_, err := ClenshawCurtis(0)
		assert.Error(t, err)
	}
	for _, M := range []int{4, 7, 12} {
		X, err := GaussLobatto(M)
		require.NoError(t, err)
		W, err := ClenshawCurtis(M)
		require.NoError(t, err)
		quad := func(f func(float64) float64) (s float64) {
			for j := range X {
				s += W[j] * f(X[j])
			}
			return
		}
		assert.True(t, near(quad(func(x float64) float64 { return 1 }), 2))
		assert.InDelta(t, 0, quad(func(x float64) float64 { return x }), 1.e-12)
		assert.True(t, near(quad(func(x float64) float64 { return x * x }), 2./3))
	}
	{
		// smooth non-polynomial integrand converges spectrally
		X, _ := GaussLobatto(16)
		W, _ := ClenshawCurtis(16)
		var s float64
		for j := range X {
			s += W[j] * math.Cos(X[j])
		}
		assert.InDelta(t, 2*math.Sin(1), s, 1.e-12)
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(1, math.Abs(a)) {
		l = true
	}
	return
}
