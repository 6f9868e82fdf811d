package spm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T, profile CurrentProfile) *Model {
	t.Helper()
	m, err := NewModel(DefaultParameters(), 6, profile, GraphiteOCV(), LCOOCV())
	require.NoError(t, err)
	return m
}

func TestNewModelArguments(t *testing.T) {
	par := DefaultParameters()
	{
		_, err := NewModel(par, 6, nil, GraphiteOCV(), LCOOCV())
		assert.Error(t, err)
	}
	{
		_, err := NewModel(par, 6, ConstantCurrent(0), nil, LCOOCV())
		assert.Error(t, err)
	}
	{
		_, err := NewModel(par, 1, ConstantCurrent(0), GraphiteOCV(), LCOOCV())
		assert.Error(t, err)
	}
	{
		bad := DefaultParameters()
		bad.Anode.ParticleRadius = -1
		_, err := NewModel(bad, 6, ConstantCurrent(0), GraphiteOCV(), LCOOCV())
		assert.Error(t, err)
	}
}

func TestInitialState(t *testing.T) {
	m := testModel(t, ConstantCurrent(0))
	{
		_, err := m.InitialState(1.2, 0.5, 298.15)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "anode", de.Electrode)
	}
	{
		_, err := m.InitialState(0.5, 0, 298.15)
		assert.Error(t, err)
	}
	{
		_, err := m.InitialStateFromSOC(1.5, 298.15)
		assert.Error(t, err)
	}
	{
		y, err := m.InitialStateFromSOC(1, 298.15)
		require.NoError(t, err)
		assert.Equal(t, m.Dimension(), len(y))
		assert.Equal(t, 298.15, y[len(y)-1])

		// fully charged means the 100% stoichiometries at every node
		op, err := m.Evaluate(0, y)
		require.NoError(t, err)
		assert.True(t, near(op.ThetaAnode, m.Par.Anode.Stoich100))
		assert.True(t, near(op.ThetaCathode, m.Par.Cathode.Stoich100))
	}
}

func TestZeroCurrentEquilibrium(t *testing.T) {
	// At rest the cell is in exact equilibrium: no overpotentials, no
	// heat generation at ambient temperature, vanishing state derivative.
	m := testModel(t, ConstantCurrent(0))
	y, err := m.InitialStateFromSOC(0.5, m.Par.AmbientTemperature)
	require.NoError(t, err)

	op, err := m.Evaluate(0, y)
	require.NoError(t, err)
	assert.Equal(t, 0., op.EtaAnode)
	assert.Equal(t, 0., op.EtaCathode)
	assert.Equal(t, 0., op.HeatIrreversible)
	assert.Equal(t, 0., op.HeatReversible)
	assert.Equal(t, 0., op.HeatLoss)
	assert.True(t, near(op.Voltage, op.UCathode-op.UAnode))
	assert.Greater(t, op.Voltage, m.Par.VMin)
	assert.Less(t, op.Voltage, m.Par.VMax)

	dydt := make([]float64, m.Dimension())
	require.NoError(t, m.RHS(0, y, dydt))
	uScale := m.Par.Anode.MaxConcentration * m.Anode.Radius
	for _, d := range dydt {
		assert.Less(t, math.Abs(d), 1.e-08*uScale)
	}
}

func TestDischargeSignConventions(t *testing.T) {
	// Positive current discharges: the anode delithiates, the cathode
	// lithiates, the terminal voltage drops below rest and irreversible
	// heat is generated.
	m := testModel(t, CRate(1, DefaultParameters().NominalCapacity))
	y, err := m.InitialStateFromSOC(0.8, m.Par.AmbientTemperature)
	require.NoError(t, err)

	rest := testModel(t, ConstantCurrent(0))
	yr, err := rest.InitialStateFromSOC(0.8, m.Par.AmbientTemperature)
	require.NoError(t, err)
	opRest, err := rest.Evaluate(0, yr)
	require.NoError(t, err)

	op, err := m.Evaluate(0, y)
	require.NoError(t, err)
	assert.Greater(t, op.Current, 0.)
	assert.Less(t, op.EtaCathode, 0.)
	assert.Greater(t, op.EtaAnode, 0.)
	assert.Less(t, op.Voltage, opRest.Voltage)
	assert.Greater(t, op.HeatIrreversible, 0.)

	dydt := make([]float64, m.Dimension())
	require.NoError(t, m.RHS(0, y, dydt))
	// mean content moves out of the anode and into the cathode
	na := m.Anode.N - 1
	var anodeMean, cathodeMean float64
	for k := 0; k < na; k++ {
		anodeMean += m.Anode.quadInner[k] * dydt[k]
		cathodeMean += m.Cathode.quadInner[k] * dydt[na+k]
	}
	assert.Less(t, anodeMean, 0.)
	assert.Greater(t, cathodeMean, 0.)
}

func TestChargeOverpotentialSigns(t *testing.T) {
	m := testModel(t, CRate(-1, DefaultParameters().NominalCapacity))
	y, err := m.InitialStateFromSOC(0.5, m.Par.AmbientTemperature)
	require.NoError(t, err)
	op, err := m.Evaluate(0, y)
	require.NoError(t, err)
	assert.Less(t, op.Current, 0.)
	assert.Less(t, op.EtaAnode, 0.)
	assert.Greater(t, op.EtaCathode, 0.)
	assert.Greater(t, op.HeatIrreversible, 0.)
}

func TestParametersValidate(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())

	check := func(mutate func(p *Parameters)) {
		p := DefaultParameters()
		mutate(p)
		assert.Error(t, p.Validate())
	}
	check(func(p *Parameters) { p.Anode.Diffusivity = 0 })
	check(func(p *Parameters) { p.Cathode.MaxConcentration = -1 })
	check(func(p *Parameters) { p.Anode.Stoich100 = 1.5 })
	check(func(p *Parameters) { p.ElectrodeArea = 0 })
	check(func(p *Parameters) { p.VMin, p.VMax = 4.2, 3.0 })
	check(func(p *Parameters) { p.CellMass = 0 })
	check(func(p *Parameters) { p.SpecificHeat = -10 })
	check(func(p *Parameters) { p.AmbientTemperature = 0 })
}

func TestParametersParse(t *testing.T) {
	var p Parameters
	err := p.Parse([]byte(`
Title: test cell
Anode:
  ParticleRadius: 5.0e-06
  Diffusivity: 3.9e-14
ElectrodeArea: 0.1
VMin: 3.0
VMax: 4.2
`))
	require.NoError(t, err)
	assert.Equal(t, "test cell", p.Title)
	assert.Equal(t, 5.e-06, p.Anode.ParticleRadius)
	assert.Equal(t, 3.9e-14, p.Anode.Diffusivity)
	assert.Equal(t, 0.1, p.ElectrodeArea)

	assert.Error(t, p.Parse([]byte("Title: [unterminated")))
}

func TestArrheniusScaling(t *testing.T) {
	e := &ElectrodeParameters{Diffusivity: 1.e-14, DiffusivityEa: 30000}
	assert.True(t, near(e.DiffusivityAt(298.15, 298.15), 1.e-14))
	assert.Greater(t, e.DiffusivityAt(318.15, 298.15), 1.e-14)
	assert.Less(t, e.DiffusivityAt(278.15, 298.15), 1.e-14)
}

func TestOCVCorrelations(t *testing.T) {
	for _, tc := range []struct {
		name     string
		ocv      OCV
		lo, hi   float64 // admissible potential window over the grid
		from, to float64 // stoichiometry grid
	}{
		{"graphite", GraphiteOCV(), 0.0, 1.5, 0.05, 0.9},
		{"lco", LCOOCV(), 3.0, 4.5, 0.45, 0.95},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prev := math.Inf(1)
			for i := 0; i <= 20; i++ {
				th := tc.from + (tc.to-tc.from)*float64(i)/20
				U, dUdT, err := tc.ocv.Eval(th, 298.15)
				require.NoError(t, err)
				assert.Greater(t, U, tc.lo)
				assert.Less(t, U, tc.hi)
				assert.Less(t, U, prev) // strictly decreasing
				assert.Less(t, math.Abs(dUdT), 1.e-03)
				prev = U

				// linear temperature correction about the reference
				U2, _, err := tc.ocv.Eval(th, 318.15)
				require.NoError(t, err)
				assert.True(t, near(U2, U+20*dUdT))
			}
		})
	}

	_, _, err := GraphiteOCV().Eval(0, 298.15)
	assert.Error(t, err)
	_, _, err = LCOOCV().Eval(1, 298.15)
	assert.Error(t, err)
}

func TestCurrentProfiles(t *testing.T) {
	assert.Equal(t, 2.3, CRate(1, 2.3).Current(0))
	assert.Equal(t, -4.6, CRate(-2, 2.3).Current(100))
	assert.Equal(t, 1.5, ConstantCurrent(1.5).Current(7))

	p := PulseCurrent{Amplitude: 2, OnTime: 10, Period: 30}
	assert.Equal(t, 2., p.Current(5))
	assert.Equal(t, 0., p.Current(15))
	assert.Equal(t, 2., p.Current(35))
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(1, math.Abs(a)) {
		l = true
	}
	return
}
