package spm

import (
	"math"

	"github.com/voltsim/gospm/ode"
)

// TerminalVoltageEvents builds the pair of terminal events that stop
// integration when the cell voltage reaches either cutoff: the lower
// cutoff is detected on falling voltage, the upper on rising voltage.
// A state the model cannot evaluate maps to NaN, which never registers
// as a crossing; the integrator surfaces the evaluation error through
// the right-hand side instead.
func TerminalVoltageEvents(m *Model) []ode.Event {
	voltage := func(t float64, y []float64) float64 {
		v, err := m.Voltage(t, y)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	return []ode.Event{
		{
			G:         func(t float64, y []float64) float64 { return voltage(t, y) - m.Par.VMin },
			Direction: -1,
			Terminal:  true,
		},
		{
			G:         func(t float64, y []float64) float64 { return voltage(t, y) - m.Par.VMax },
			Direction: +1,
			Terminal:  true,
		},
	}
}
