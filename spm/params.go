package spm

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
)

// Physical constants.
const (
	Faraday     = 96485.33212 // C/mol
	GasConstant = 8.314462618 // J/(mol K)
)

// ElectrodeParameters holds the physical, geometric and kinetic constants
// of one electrode. Diffusivity and RateConstant are referenced to
// Parameters.ReferenceTemperature and scaled by Arrhenius factors when the
// matching activation energy is non-zero.
type ElectrodeParameters struct {
	ParticleRadius       float64 `yaml:"ParticleRadius"`       // m
	Diffusivity          float64 `yaml:"Diffusivity"`          // m^2/s at reference T
	DiffusivityEa        float64 `yaml:"DiffusivityEa"`        // J/mol, 0 disables scaling
	MaxConcentration     float64 `yaml:"MaxConcentration"`     // mol/m^3
	Stoich0              float64 `yaml:"Stoich0"`              // stoichiometry at 0% SOC
	Stoich100            float64 `yaml:"Stoich100"`            // stoichiometry at 100% SOC
	ActiveVolumeFraction float64 `yaml:"ActiveVolumeFraction"` // dimensionless
	Thickness            float64 `yaml:"Thickness"`            // m
	RateConstant         float64 `yaml:"RateConstant"`         // m^2.5/(mol^0.5 s) at reference T
	RateConstantEa       float64 `yaml:"RateConstantEa"`       // J/mol, 0 disables scaling
}

// SpecificArea is the interfacial area per unit electrode volume, 3*eps/R
// for spherical particles.
func (e *ElectrodeParameters) SpecificArea() float64 {
	return 3 * e.ActiveVolumeFraction / e.ParticleRadius
}

// DiffusivityAt returns the solid diffusivity at temperature T.
func (e *ElectrodeParameters) DiffusivityAt(T, Tref float64) float64 {
	return arrhenius(e.Diffusivity, e.DiffusivityEa, T, Tref)
}

// RateConstantAt returns the reaction rate constant at temperature T.
func (e *ElectrodeParameters) RateConstantAt(T, Tref float64) float64 {
	return arrhenius(e.RateConstant, e.RateConstantEa, T, Tref)
}

func arrhenius(ref, Ea, T, Tref float64) float64 {
	if Ea == 0 {
		return ref
	}
	return ref * math.Exp(Ea/GasConstant*(1/Tref-1/T))
}

// Parameters is the full immutable configuration of a cell. Construct it
// once, Validate it, and pass it by pointer; nothing in the simulation
// mutates it.
type Parameters struct {
	Title   string              `yaml:"Title"`
	Anode   ElectrodeParameters `yaml:"Anode"`
	Cathode ElectrodeParameters `yaml:"Cathode"`

	ElectrodeArea            float64 `yaml:"ElectrodeArea"`            // m^2
	ElectrolyteConcentration float64 `yaml:"ElectrolyteConcentration"` // mol/m^3
	ContactResistance        float64 `yaml:"ContactResistance"`        // ohm m^2
	NominalCapacity          float64 `yaml:"NominalCapacity"`          // Ah
	VMin                     float64 `yaml:"VMin"`                     // V
	VMax                     float64 `yaml:"VMax"`                     // V

	ReferenceTemperature    float64 `yaml:"ReferenceTemperature"`    // K
	AmbientTemperature      float64 `yaml:"AmbientTemperature"`      // K
	CellMass                float64 `yaml:"CellMass"`                // kg
	SpecificHeat            float64 `yaml:"SpecificHeat"`            // J/(kg K)
	HeatTransferCoefficient float64 `yaml:"HeatTransferCoefficient"` // W/(m^2 K)
	CoolingArea             float64 `yaml:"CoolingArea"`             // m^2
}

func (p *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, p)
}

func (p *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", p.Title)
	fmt.Printf("%8.3f\t\t= NominalCapacity [Ah]\n", p.NominalCapacity)
	fmt.Printf("[%4.2f, %4.2f]\t= Voltage window [V]\n", p.VMin, p.VMax)
	fmt.Printf("%8.2f\t\t= AmbientTemperature [K]\n", p.AmbientTemperature)
	fmt.Printf("%8.2e\t\t= Anode Ds [m^2/s], %8.2e = Cathode Ds [m^2/s]\n",
		p.Anode.Diffusivity, p.Cathode.Diffusivity)
}

// Validate checks every field the simulation reads and fails before any
// time stepping can start.
func (p *Parameters) Validate() error {
	type check struct {
		name string
		ok   bool
	}
	electrode := func(label string, e *ElectrodeParameters) []check {
		return []check{
			{label + " particle radius", e.ParticleRadius > 0},
			{label + " diffusivity", e.Diffusivity > 0},
			{label + " max concentration", e.MaxConcentration > 0},
			{label + " active volume fraction", e.ActiveVolumeFraction > 0 && e.ActiveVolumeFraction < 1},
			{label + " thickness", e.Thickness > 0},
			{label + " rate constant", e.RateConstant > 0},
			{label + " stoichiometry window", validStoich(e.Stoich0) && validStoich(e.Stoich100) && e.Stoich0 != e.Stoich100},
		}
	}
	checks := append(electrode("anode", &p.Anode), electrode("cathode", &p.Cathode)...)
	checks = append(checks,
		check{"electrode area", p.ElectrodeArea > 0},
		check{"electrolyte concentration", p.ElectrolyteConcentration > 0},
		check{"contact resistance", p.ContactResistance >= 0},
		check{"nominal capacity", p.NominalCapacity > 0},
		check{"voltage window", p.VMin > 0 && p.VMax > p.VMin},
		check{"reference temperature", p.ReferenceTemperature > 0},
		check{"ambient temperature", p.AmbientTemperature > 0},
		check{"cell mass", p.CellMass > 0},
		check{"specific heat", p.SpecificHeat > 0},
		check{"heat transfer coefficient", p.HeatTransferCoefficient >= 0},
		check{"cooling area", p.CoolingArea >= 0},
	)
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("spm: invalid parameter: %s", c.name)
		}
	}
	return nil
}

func validStoich(th float64) bool { return th > 0 && th < 1 }

// DefaultParameters returns a graphite | LCO cell parameterization in the
// style of the Doyle-Fuller-Newman cell, sized as a small cylindrical cell.
func DefaultParameters() *Parameters {
	return &Parameters{
		Title: "Graphite/LCO 2.3 Ah cell",
		Anode: ElectrodeParameters{
			ParticleRadius:       5.0e-6,
			Diffusivity:          3.9e-14,
			DiffusivityEa:        35000,
			MaxConcentration:     30555,
			Stoich0:              0.03,
			Stoich100:            0.75,
			ActiveVolumeFraction: 0.58,
			Thickness:            73.5e-6,
			RateConstant:         1.764e-11,
			RateConstantEa:       20000,
		},
		Cathode: ElectrodeParameters{
			ParticleRadius:       8.5e-6,
			Diffusivity:          1.0e-13,
			DiffusivityEa:        29000,
			MaxConcentration:     51555,
			Stoich0:              0.95,
			Stoich100:            0.45,
			ActiveVolumeFraction: 0.50,
			Thickness:            70.0e-6,
			RateConstant:         6.67e-11,
			RateConstantEa:       30000,
		},
		ElectrodeArea:            0.0982,
		ElectrolyteConcentration: 1000,
		ContactResistance:        2.0e-3,
		NominalCapacity:          2.3,
		VMin:                     3.0,
		VMax:                     4.2,
		ReferenceTemperature:     298.15,
		AmbientTemperature:       298.15,
		CellMass:                 0.045,
		SpecificHeat:             825,
		HeatTransferCoefficient:  10,
		CoolingArea:              4.18e-3,
	}
}
