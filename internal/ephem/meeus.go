package ephem

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
	"gonum.org/v1/gonum/spatial/r3"
)

// velocityStep is the half-width in days of the symmetric difference used to
// derive Earth's velocity from positions.
const velocityStep = 0.25

// Meeus is an analytic Earth ephemeris built on the solar theory from the
// meeus package. The Sun's geometric longitude and radius vector give the
// Earth's heliocentric ecliptic position, which is rotated into the
// equatorial frame by the mean obliquity of date. Velocity comes from a
// symmetric finite difference of position.
//
// Positions are heliocentric rather than barycentric and the equinox is of
// date rather than J2000, both sub-percent effects on the projected parallax
// signal. A JPL-grade Source can be substituted where that matters.
type Meeus struct{}

// PositionVelocity returns Earth's state at jdTDB.
func (m Meeus) PositionVelocity(body string, jdTDB float64) (r3.Vec, r3.Vec, error) {
	if !strings.EqualFold(body, Earth) {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: %q", ErrUnknownBody, body)
	}
	pos := earthEquatorial(jdTDB)
	ahead := earthEquatorial(jdTDB + velocityStep)
	behind := earthEquatorial(jdTDB - velocityStep)
	vel := r3.Scale(1/(2*velocityStep), r3.Sub(ahead, behind))
	return pos, vel, nil
}

// earthEquatorial computes Earth's heliocentric position in equatorial
// rectangular coordinates (AU) at the given JD(TDB).
func earthEquatorial(jd float64) r3.Vec {
	T := base.J2000Century(jd)
	lonSun, _ := solar.True(T)
	radius := solar.Radius(T)

	// The Earth sits opposite the Sun's geocentric longitude, at zero
	// ecliptic latitude in this approximation.
	lonEarth := lonSun.Rad() + math.Pi

	obliquity := nutation.MeanObliquity(jd)
	sinEps, cosEps := obliquity.Sin(), obliquity.Cos()

	sinLon, cosLon := math.Sincos(lonEarth)
	return r3.Vec{
		X: radius * cosLon,
		Y: radius * sinLon * cosEps,
		Z: radius * sinLon * sinEps,
	}
}
