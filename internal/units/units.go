// Package units provides shared constants and validation for the angular
// units used by lensing parameters, plus conversions between them.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit constants
const (
	ThetaE = "thetaE"
	Mas    = "mas"
	Deg    = "deg"
	Rad    = "rad"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{ThetaE, Mas, Deg, Rad}

// ErrNoThetaE reports a conversion into or out of Einstein radii on a
// quantity with no Einstein radius attached.
var ErrNoThetaE = errors.New("thetaE is not known")

// ErrUnknownUnit reports a unit outside ValidUnits.
var ErrUnknownUnit = errors.New("unknown angular unit")

// Conversion factors to the milliarcsecond pivot.
const (
	masPerDeg = 3.6e6
	masPerRad = masPerDeg * 180 / math.Pi
)

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidUnitsString returns a comma-separated string of valid units for error messages
func ValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Quantity is an angular value tagged with its unit. Quantities measured in
// Einstein radii can only leave that unit when an Einstein radius (itself in
// mas) is attached via WithThetaE.
type Quantity struct {
	Value float64
	Unit  string

	thetaEMas float64
	hasThetaE bool
}

// New builds a Quantity after validating the unit.
func New(value float64, unit string) (Quantity, error) {
	if !IsValid(unit) {
		return Quantity{}, fmt.Errorf("%w %q (valid: %s)", ErrUnknownUnit, unit, ValidUnitsString())
	}
	return Quantity{Value: value, Unit: unit}, nil
}

// WithThetaE returns a copy carrying the Einstein radius in mas, enabling
// conversions between thetaE and absolute angular units.
func (q Quantity) WithThetaE(thetaEMas float64) Quantity {
	q.thetaEMas = thetaEMas
	q.hasThetaE = true
	return q
}

// To converts the quantity to the target unit. Conversions pivot through
// milliarcseconds.
func (q Quantity) To(unit string) (Quantity, error) {
	if !IsValid(unit) {
		return Quantity{}, fmt.Errorf("%w %q (valid: %s)", ErrUnknownUnit, unit, ValidUnitsString())
	}
	if unit == q.Unit {
		return q, nil
	}

	mas, err := q.masValue()
	if err != nil {
		return Quantity{}, err
	}

	out := q
	out.Unit = unit
	switch unit {
	case Mas:
		out.Value = mas
	case Deg:
		out.Value = mas / masPerDeg
	case Rad:
		out.Value = mas / masPerRad
	case ThetaE:
		if !q.hasThetaE {
			return Quantity{}, ErrNoThetaE
		}
		out.Value = mas / q.thetaEMas
	}
	return out, nil
}

func (q Quantity) masValue() (float64, error) {
	switch q.Unit {
	case Mas:
		return q.Value, nil
	case Deg:
		return q.Value * masPerDeg, nil
	case Rad:
		return q.Value * masPerRad, nil
	case ThetaE:
		if !q.hasThetaE {
			return 0, ErrNoThetaE
		}
		return q.Value * q.thetaEMas, nil
	}
	return 0, fmt.Errorf("%w %q (valid: %s)", ErrUnknownUnit, q.Unit, ValidUnitsString())
}

// MasValue returns the quantity in milliarcseconds.
func (q Quantity) MasValue() (float64, error) {
	return q.masValue()
}

// DegValue returns the quantity in degrees.
func (q Quantity) DegValue() (float64, error) {
	c, err := q.To(Deg)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

// RadValue returns the quantity in radians.
func (q Quantity) RadValue() (float64, error) {
	c, err := q.To(Rad)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

// ThetaEValue returns the quantity in Einstein radii.
func (q Quantity) ThetaEValue() (float64, error) {
	c, err := q.To(ThetaE)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

// String renders the quantity with its unit.
func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}
