package spm

import "fmt"

// DomainError reports a physical quantity leaving its admissible range
// during simulation, for example a surface stoichiometry outside (0,1).
// Integration stops when one occurs; the driver reports it to the caller.
type DomainError struct {
	Electrode string
	Quantity  string
	Value     float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("spm: %s %s out of range: %g", e.Electrode, e.Quantity, e.Value)
}
