package spm

import "fmt"

// InitialState builds a state vector for uniform particle concentrations
// at the given stoichiometries and temperature.
func (m *Model) InitialState(thetaAnode, thetaCathode, T float64) (y []float64, err error) {
	if !validStoich(thetaAnode) {
		return nil, &DomainError{Electrode: "anode", Quantity: "initial stoichiometry", Value: thetaAnode}
	}
	if !validStoich(thetaCathode) {
		return nil, &DomainError{Electrode: "cathode", Quantity: "initial stoichiometry", Value: thetaCathode}
	}
	if T <= 0 {
		return nil, fmt.Errorf("spm: initial temperature must be positive, got %g", T)
	}
	y = make([]float64, m.Dimension())
	ua, uc, _ := m.split(y)
	for k := range ua {
		ua[k] = thetaAnode * m.Par.Anode.MaxConcentration * m.Anode.Radius * m.Anode.XInner[k]
	}
	for k := range uc {
		uc[k] = thetaCathode * m.Par.Cathode.MaxConcentration * m.Cathode.Radius * m.Cathode.XInner[k]
	}
	y[len(y)-1] = T
	return y, nil
}

// InitialStateFromSOC maps a state of charge in [0,1] linearly onto each
// electrode's stoichiometry window.
func (m *Model) InitialStateFromSOC(soc, T float64) (y []float64, err error) {
	if soc < 0 || soc > 1 {
		return nil, fmt.Errorf("spm: state of charge must lie in [0,1], got %g", soc)
	}
	var (
		a  = &m.Par.Anode
		c  = &m.Par.Cathode
		ta = a.Stoich0 + soc*(a.Stoich100-a.Stoich0)
		tc = c.Stoich0 + soc*(c.Stoich100-c.Stoich0)
	)
	return m.InitialState(ta, tc, T)
}
