package spm

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/voltsim/gospm/ode"
)

// SimulationConfig collects the run-level settings on top of the cell
// parameters: discretization order, time span, sampling and solver
// tolerances.
type SimulationConfig struct {
	Order              int     // collocation truncation order per particle
	FinalTime          float64 // s
	SampleInterval     float64 // s
	InitialSOC         float64
	InitialTemperature float64 // K; 0 means the ambient temperature
	Solver             ode.Config
}

// DefaultSimulationConfig covers a one-hour run sampled every ten
// seconds at order six.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Order:          6,
		FinalTime:      3600,
		SampleInterval: 10,
		InitialSOC:     1,
		Solver:         ode.DefaultConfig(),
	}
}

func (sc *SimulationConfig) validate() error {
	if sc.Order < 2 {
		return fmt.Errorf("spm: collocation order must be at least 2, got %d", sc.Order)
	}
	if sc.FinalTime <= 0 {
		return fmt.Errorf("spm: final time must be positive, got %g", sc.FinalTime)
	}
	if sc.SampleInterval <= 0 || sc.SampleInterval > sc.FinalTime {
		return fmt.Errorf("spm: sample interval must lie in (0, final time], got %g", sc.SampleInterval)
	}
	return nil
}

// SimulationResult bundles the post-processed series with the raw
// solver outcome.
type SimulationResult struct {
	Series     *ResultSeries
	Terminated bool // an end-of-window voltage cutoff stopped the run
	Stats      ode.Statistics
}

// Simulator drives a cell model through one simulation: initial state,
// adaptive integration with voltage cutoffs, post-processing.
type Simulator struct {
	Model  *Model
	Config SimulationConfig
	Log    zerolog.Logger
}

// NewSimulator builds a simulator with a no-op logger. Assign Log to get
// progress output.
func NewSimulator(m *Model, cfg SimulationConfig) *Simulator {
	return &Simulator{Model: m, Config: cfg, Log: zerolog.Nop()}
}

// Run integrates the model and recovers the result series. A voltage
// cutoff inside the time window ends the run normally with Terminated
// set; a DomainError from the model aborts it.
func (s *Simulator) Run() (res *SimulationResult, err error) {
	if err = s.Config.validate(); err != nil {
		return nil, err
	}
	m := s.Model
	T0 := s.Config.InitialTemperature
	if T0 == 0 {
		T0 = m.Par.AmbientTemperature
	}
	y0, err := m.InitialStateFromSOC(s.Config.InitialSOC, T0)
	if err != nil {
		return nil, err
	}
	ts := sampleTimes(s.Config.FinalTime, s.Config.SampleInterval)

	s.Log.Info().
		Str("cell", m.Par.Title).
		Int("order", s.Config.Order).
		Float64("t_final", s.Config.FinalTime).
		Float64("soc0", s.Config.InitialSOC).
		Float64("T0", T0).
		Msg("starting simulation")

	solver := ode.NewDopri5(s.Config.Solver)
	sol, err := solver.Integrate(m.RHS, y0, ts, TerminalVoltageEvents(m)...)
	if err != nil {
		return nil, err
	}
	series, err := m.PostProcess(sol.T, sol.Y)
	if err != nil {
		return nil, err
	}
	res = &SimulationResult{
		Series:     series,
		Terminated: sol.Terminated,
		Stats:      sol.Stats,
	}

	last := series.Len() - 1
	s.Log.Info().
		Float64("t_end", series.Time[last]).
		Float64("voltage", series.Voltage[last]).
		Float64("temperature", series.Temperature[last]).
		Bool("cutoff", sol.Terminated).
		Int("steps", sol.Stats.Steps).
		Int("rejected", sol.Stats.Rejected).
		Msg("simulation finished")
	return res, nil
}

// sampleTimes spans [0, tf] at the given interval, always including tf.
func sampleTimes(tf, dt float64) []float64 {
	n := int(tf / dt)
	ts := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		ts = append(ts, float64(i)*dt)
	}
	if ts[len(ts)-1] < tf {
		ts = append(ts, tf)
	}
	return ts
}
