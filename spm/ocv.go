package spm

import (
	"fmt"
	"math"
)

// OCV supplies the open-circuit potential of an electrode as a function of
// surface stoichiometry and temperature, together with its entropic
// coefficient dU/dT. Implementations are configuration collaborators; the
// dynamics never assume a particular fit.
type OCV interface {
	Eval(theta, T float64) (U, dUdT float64, err error)
}

// OCVFunc adapts a plain function to the OCV interface.
type OCVFunc func(theta, T float64) (float64, float64, error)

func (f OCVFunc) Eval(theta, T float64) (float64, float64, error) { return f(theta, T) }

// Fits below are referenced to 298.15 K; the first-order temperature
// correction U(theta,T) = Uref + (T - Tref)*dU/dT is applied in Eval.
const ocvRefTemperature = 298.15

// GraphiteOCV returns the empirical fit for a graphite (MCMB) negative
// electrode, with the rational-polynomial entropic coefficient.
func GraphiteOCV() OCV {
	return OCVFunc(func(theta, T float64) (float64, float64, error) {
		if theta <= 0 || theta >= 1 {
			return 0, 0, fmt.Errorf("graphite OCP: stoichiometry %g outside (0,1)", theta)
		}
		U := 0.7222 + 0.1387*theta + 0.029*math.Sqrt(theta) -
			0.0172/theta + 0.0019/math.Pow(theta, 1.5) +
			0.2808*math.Exp(0.90-15*theta) -
			0.7984*math.Exp(0.4465*theta-0.4108)
		num := 0.005269056 + 3.299265709*theta - 91.79325798*p2(theta) +
			1004.911008*p3(theta) - 5812.278127*p4(theta) +
			19329.7549*p5(theta) - 37147.8947*p6(theta) +
			38379.18127*p7(theta) - 16515.05308*p8(theta)
		den := 1 - 48.09287227*theta + 1017.234804*p2(theta) -
			10481.80419*p3(theta) + 59431.3*p4(theta) -
			195881.6488*p5(theta) + 374577.3152*p6(theta) -
			385821.1607*p7(theta) + 165705.8597*p8(theta)
		dUdT := 0.001 * num / den
		return U + (T-ocvRefTemperature)*dUdT, dUdT, nil
	})
}

// LCOOCV returns the empirical fit for a LiCoO2 positive electrode.
// The entropic coefficient is a smooth cubic valid over the cycled
// stoichiometry range; the published rational fit is ill-conditioned near
// theta = 0.5 and unusable inside an ODE right-hand side.
func LCOOCV() OCV {
	return OCVFunc(func(theta, T float64) (float64, float64, error) {
		if theta <= 0 || theta >= 1 {
			return 0, 0, fmt.Errorf("LCO OCP: stoichiometry %g outside (0,1)", theta)
		}
		U := 4.04596 + math.Exp(-42.30027*theta+16.56714) -
			0.04880*math.Atan(50.01833*theta-26.48897) -
			0.05447*math.Atan(18.99678*theta-12.32362) -
			math.Exp(78.24095*theta-78.68074)
		dUdT := 0.005738703523 - 0.02073822541*theta +
			0.02361994771*p2(theta) - 0.009392554216*p3(theta)
		return U + (T-ocvRefTemperature)*dUdT, dUdT, nil
	})
}

func p2(x float64) float64 { return x * x }
func p3(x float64) float64 { return x * x * x }
func p4(x float64) float64 { y := x * x; return y * y }
func p5(x float64) float64 { y := x * x; return y * y * x }
func p6(x float64) float64 { y := x * x; return y * y * y }
func p7(x float64) float64 { y := x * x; return y * y * y * x }
func p8(x float64) float64 { y := x * x; y = y * y; return y * y }
