package spm

import (
	"fmt"
	"math"
)

/*
Model couples the two reduced particle models with Butler-Volmer reaction
kinetics and a lumped thermal balance.

The state vector is laid out as

	[ anode u_1..u_{N-1} | cathode u_1..u_{N-1} | T ]

where u are the transformed inner-node concentrations of each particle
and T is the cell temperature in kelvin.
*/
type Model struct {
	Par     *Parameters
	Anode   *ParticleModel
	Cathode *ParticleModel

	Profile    CurrentProfile
	AnodeOCV   OCV
	CathodeOCV OCV

	jScaleAnode   float64 // molar flux per ampere of applied current
	jScaleCathode float64
}

// OperatingPoint collects the instantaneous electrochemical quantities
// evaluated at one state. It is what the right-hand side computes
// internally and what post-processing reports per sample.
type OperatingPoint struct {
	Time    float64
	Current float64

	// surface stoichiometries
	ThetaAnode   float64
	ThetaCathode float64

	EtaAnode   float64 // reaction overpotentials, V
	EtaCathode float64

	UAnode   float64 // open-circuit potentials at the surface, V
	UCathode float64

	Voltage     float64
	Temperature float64

	HeatIrreversible float64 // W
	HeatReversible   float64
	HeatLoss         float64
}

// NewModel assembles a cell model at truncation order N from validated
// parameters, a current profile and the two electrode OCP correlations.
func NewModel(par *Parameters, N int, profile CurrentProfile, anode, cathode OCV) (m *Model, err error) {
	if err = par.Validate(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("spm: current profile is required")
	}
	if anode == nil || cathode == nil {
		return nil, fmt.Errorf("spm: both electrode OCV correlations are required")
	}
	pa, err := NewParticleModel(N, par.Anode.ParticleRadius)
	if err != nil {
		return nil, err
	}
	pc, err := NewParticleModel(N, par.Cathode.ParticleRadius)
	if err != nil {
		return nil, err
	}
	m = &Model{
		Par:        par,
		Anode:      pa,
		Cathode:    pc,
		Profile:    profile,
		AnodeOCV:   anode,
		CathodeOCV: cathode,
	}
	// Per-electrode molar flux for unit applied current: discharge
	// (positive current) delithiates the anode and lithiates the cathode.
	m.jScaleAnode = 1 / (Faraday * par.Anode.SpecificArea() * par.ElectrodeArea * par.Anode.Thickness)
	m.jScaleCathode = -1 / (Faraday * par.Cathode.SpecificArea() * par.ElectrodeArea * par.Cathode.Thickness)
	return m, nil
}

// Dimension is the length of the state vector.
func (m *Model) Dimension() int {
	return (m.Anode.N - 1) + (m.Cathode.N - 1) + 1
}

func (m *Model) split(y []float64) (ua, uc []float64, T float64) {
	na := m.Anode.N - 1
	nc := m.Cathode.N - 1
	return y[:na], y[na : na+nc], y[na+nc]
}

// electrodeSurface evaluates the surface stoichiometry of one electrode.
func electrodeSurface(pm *ParticleModel, ep *ElectrodeParameters, u []float64, flux, T, Tref float64) (theta float64) {
	cs := pm.SurfaceConcentration(u, flux, ep.DiffusivityAt(T, Tref))
	return cs / ep.MaxConcentration
}

// overpotential evaluates the Butler-Volmer reaction overpotential for a
// symmetric charge-transfer reaction at molar flux j.
func overpotential(ep *ElectrodeParameters, theta, j, ce, T, Tref float64) (eta float64, err error) {
	cs := theta * ep.MaxConcentration
	i0 := Faraday * ep.RateConstantAt(T, Tref) * math.Sqrt(ce*cs*(ep.MaxConcentration-cs))
	if i0 <= 0 || math.IsNaN(i0) {
		return 0, fmt.Errorf("spm: exchange current density vanished at stoichiometry %g", theta)
	}
	return 2 * GasConstant * T / Faraday * math.Asinh(Faraday*j/(2*i0)), nil
}

// Evaluate computes the operating point at one state without advancing
// it. It fails with a DomainError when a surface stoichiometry leaves
// (0,1).
func (m *Model) Evaluate(t float64, y []float64) (op OperatingPoint, err error) {
	var (
		ua, uc, T = m.split(y)
		par       = m.Par
		I         = m.Profile.Current(t)
		ja        = I * m.jScaleAnode
		jc        = I * m.jScaleCathode
	)
	op = OperatingPoint{Time: t, Current: I, Temperature: T}

	op.ThetaAnode = electrodeSurface(m.Anode, &par.Anode, ua, ja, T, par.ReferenceTemperature)
	if !validStoich(op.ThetaAnode) {
		return op, &DomainError{Electrode: "anode", Quantity: "surface stoichiometry", Value: op.ThetaAnode}
	}
	op.ThetaCathode = electrodeSurface(m.Cathode, &par.Cathode, uc, jc, T, par.ReferenceTemperature)
	if !validStoich(op.ThetaCathode) {
		return op, &DomainError{Electrode: "cathode", Quantity: "surface stoichiometry", Value: op.ThetaCathode}
	}

	var dUa, dUc float64
	if op.UAnode, dUa, err = m.AnodeOCV.Eval(op.ThetaAnode, T); err != nil {
		return op, err
	}
	if op.UCathode, dUc, err = m.CathodeOCV.Eval(op.ThetaCathode, T); err != nil {
		return op, err
	}
	if op.EtaAnode, err = overpotential(&par.Anode, op.ThetaAnode, ja, par.ElectrolyteConcentration, T, par.ReferenceTemperature); err != nil {
		return op, err
	}
	if op.EtaCathode, err = overpotential(&par.Cathode, op.ThetaCathode, jc, par.ElectrolyteConcentration, T, par.ReferenceTemperature); err != nil {
		return op, err
	}

	op.Voltage = op.UCathode + op.EtaCathode - op.UAnode - op.EtaAnode - par.ContactResistance*I/par.ElectrodeArea

	op.HeatIrreversible = -I*(op.EtaCathode-op.EtaAnode) + I*I*par.ContactResistance/par.ElectrodeArea
	op.HeatReversible = -I * T * (dUc - dUa)
	op.HeatLoss = par.HeatTransferCoefficient * par.CoolingArea * (T - par.AmbientTemperature)
	return op, nil
}

// RHS is the coupled right-hand side, with the signature required by the
// integrator.
func (m *Model) RHS(t float64, y, dydt []float64) (err error) {
	op, err := m.Evaluate(t, y)
	if err != nil {
		return err
	}
	var (
		ua, uc, T   = m.split(y)
		dua, duc, _ = m.split(dydt)
		par         = m.Par
		ja          = op.Current * m.jScaleAnode
		jc          = op.Current * m.jScaleCathode
	)
	m.Anode.Derivative(dua, ua, par.Anode.DiffusivityAt(T, par.ReferenceTemperature), ja)
	m.Cathode.Derivative(duc, uc, par.Cathode.DiffusivityAt(T, par.ReferenceTemperature), jc)
	dydt[len(dydt)-1] = (op.HeatIrreversible + op.HeatReversible - op.HeatLoss) / (par.CellMass * par.SpecificHeat)
	return nil
}

// Voltage evaluates the terminal voltage at one state.
func (m *Model) Voltage(t float64, y []float64) (v float64, err error) {
	op, err := m.Evaluate(t, y)
	if err != nil {
		return 0, err
	}
	return op.Voltage, nil
}
