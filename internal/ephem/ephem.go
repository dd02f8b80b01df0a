// Package ephem provides solar-system ephemeris lookups behind a narrow
// interface so that conversion code never hardcodes a particular source.
package ephem

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Earth is the only body the built-in analytic source knows about.
const Earth = "earth"

// ErrUnknownBody reports a body name the source cannot resolve.
var ErrUnknownBody = errors.New("unknown ephemeris body")

// Source supplies equatorial state vectors for solar-system bodies.
// Positions are in AU, velocities in AU/day, epochs are absolute Julian
// Dates on the TDB scale. Implementations must be deterministic: the same
// (body, epoch) query always yields the same state.
type Source interface {
	PositionVelocity(body string, jdTDB float64) (pos, vel r3.Vec, err error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(body string, jdTDB float64) (r3.Vec, r3.Vec, error)

// PositionVelocity calls f.
func (f SourceFunc) PositionVelocity(body string, jdTDB float64) (r3.Vec, r3.Vec, error) {
	return f(body, jdTDB)
}

// Static returns the same state vector for every epoch. It exists for tests
// that need a fully controlled ephemeris.
type Static struct {
	Pos r3.Vec // AU
	Vel r3.Vec // AU/day
}

// PositionVelocity returns the configured state for Earth and rejects any
// other body.
func (s Static) PositionVelocity(body string, jdTDB float64) (r3.Vec, r3.Vec, error) {
	if !strings.EqualFold(body, Earth) {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: %q", ErrUnknownBody, body)
	}
	return s.Pos, s.Vel, nil
}
