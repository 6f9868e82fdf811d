package spm

import "math"

// CurrentProfile supplies the applied cell current in amperes at any time
// within the simulated interval. Positive current discharges the cell:
// it delithiates the anode and lithiates the cathode.
type CurrentProfile interface {
	Current(t float64) float64
}

// CurrentFunc adapts a plain function to CurrentProfile.
type CurrentFunc func(t float64) float64

func (f CurrentFunc) Current(t float64) float64 { return f(t) }

// ConstantCurrent applies a fixed current for all time.
type ConstantCurrent float64

func (c ConstantCurrent) Current(float64) float64 { return float64(c) }

// CRate converts a C-rate to a constant current using the nominal
// capacity in Ah: 1C empties the nominal capacity in one hour.
func CRate(rate, capacityAh float64) ConstantCurrent {
	return ConstantCurrent(rate * capacityAh)
}

// PulseCurrent applies Amplitude for the first OnTime seconds of every
// Period, and zero for the remainder.
type PulseCurrent struct {
	Amplitude float64
	OnTime    float64
	Period    float64
}

func (p PulseCurrent) Current(t float64) float64 {
	if p.Period <= 0 {
		if t < p.OnTime {
			return p.Amplitude
		}
		return 0
	}
	if math.Mod(t, p.Period) < p.OnTime {
		return p.Amplitude
	}
	return 0
}
