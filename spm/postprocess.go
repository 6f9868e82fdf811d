package spm

// ResultSeries holds the per-sample quantities recovered from a solution
// trajectory. All slices share one length and index.
type ResultSeries struct {
	Time        []float64
	Current     []float64
	Voltage     []float64
	Temperature []float64
	SOC         []float64

	ThetaAnode   []float64 // surface stoichiometries
	ThetaCathode []float64
	EtaAnode     []float64
	EtaCathode   []float64
	UAnode       []float64
	UCathode     []float64

	MeanAnode     []float64 // volume-averaged concentrations, mol/m^3
	MeanCathode   []float64
	CentreAnode   []float64 // particle-centre concentrations, mol/m^3
	CentreCathode []float64

	// radial concentration profiles per sample, ordered surface through
	// inner nodes to centre, length N+1 per electrode
	ProfileAnode   [][]float64
	ProfileCathode [][]float64

	HeatIrreversible []float64 // W
	HeatReversible   []float64
	HeatLoss         []float64
}

// Len is the number of samples in the series.
func (rs *ResultSeries) Len() int { return len(rs.Time) }

func (rs *ResultSeries) grow(n int) {
	rs.Time = make([]float64, 0, n)
	rs.Current = make([]float64, 0, n)
	rs.Voltage = make([]float64, 0, n)
	rs.Temperature = make([]float64, 0, n)
	rs.SOC = make([]float64, 0, n)
	rs.ThetaAnode = make([]float64, 0, n)
	rs.ThetaCathode = make([]float64, 0, n)
	rs.EtaAnode = make([]float64, 0, n)
	rs.EtaCathode = make([]float64, 0, n)
	rs.UAnode = make([]float64, 0, n)
	rs.UCathode = make([]float64, 0, n)
	rs.MeanAnode = make([]float64, 0, n)
	rs.MeanCathode = make([]float64, 0, n)
	rs.CentreAnode = make([]float64, 0, n)
	rs.CentreCathode = make([]float64, 0, n)
	rs.ProfileAnode = make([][]float64, 0, n)
	rs.ProfileCathode = make([][]float64, 0, n)
	rs.HeatIrreversible = make([]float64, 0, n)
	rs.HeatReversible = make([]float64, 0, n)
	rs.HeatLoss = make([]float64, 0, n)
}

// PostProcess re-evaluates the operating point and the concentration
// recoveries at every stored sample of a trajectory. The state of charge
// is the anode's volume-averaged stoichiometry mapped through its
// stoichiometry window.
func (m *Model) PostProcess(T []float64, Y [][]float64) (rs *ResultSeries, err error) {
	rs = &ResultSeries{}
	rs.grow(len(T))
	par := m.Par
	for i, t := range T {
		op, err := m.Evaluate(t, Y[i])
		if err != nil {
			return nil, err
		}
		var (
			ua, uc, temp = m.split(Y[i])
			ja           = op.Current * m.jScaleAnode
			jc           = op.Current * m.jScaleCathode
			uaSurf       = m.Anode.SurfaceValue(ua, ja, par.Anode.DiffusivityAt(temp, par.ReferenceTemperature))
			ucSurf       = m.Cathode.SurfaceValue(uc, jc, par.Cathode.DiffusivityAt(temp, par.ReferenceTemperature))
			meanA        = m.Anode.MeanConcentration(ua, uaSurf)
			meanC        = m.Cathode.MeanConcentration(uc, ucSurf)
		)
		soc := (meanA/par.Anode.MaxConcentration - par.Anode.Stoich0) /
			(par.Anode.Stoich100 - par.Anode.Stoich0)

		rs.Time = append(rs.Time, t)
		rs.Current = append(rs.Current, op.Current)
		rs.Voltage = append(rs.Voltage, op.Voltage)
		rs.Temperature = append(rs.Temperature, op.Temperature)
		rs.SOC = append(rs.SOC, soc)
		rs.ThetaAnode = append(rs.ThetaAnode, op.ThetaAnode)
		rs.ThetaCathode = append(rs.ThetaCathode, op.ThetaCathode)
		rs.EtaAnode = append(rs.EtaAnode, op.EtaAnode)
		rs.EtaCathode = append(rs.EtaCathode, op.EtaCathode)
		rs.UAnode = append(rs.UAnode, op.UAnode)
		rs.UCathode = append(rs.UCathode, op.UCathode)
		rs.MeanAnode = append(rs.MeanAnode, meanA)
		rs.MeanCathode = append(rs.MeanCathode, meanC)
		rs.CentreAnode = append(rs.CentreAnode, m.Anode.CentreConcentration(ua, uaSurf))
		rs.CentreCathode = append(rs.CentreCathode, m.Cathode.CentreConcentration(uc, ucSurf))
		rs.ProfileAnode = append(rs.ProfileAnode, m.Anode.Profile(ua, uaSurf))
		rs.ProfileCathode = append(rs.ProfileCathode, m.Cathode.Profile(uc, ucSurf))
		rs.HeatIrreversible = append(rs.HeatIrreversible, op.HeatIrreversible)
		rs.HeatReversible = append(rs.HeatReversible, op.HeatReversible)
		rs.HeatLoss = append(rs.HeatLoss, op.HeatLoss)
	}
	return rs, nil
}
