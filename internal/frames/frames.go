// Package frames converts point-lens microlensing parameters between
// heliocentric and geocentric-projected reference frames and between the
// sign conventions in common use for them.
//
// Conversions need an ephemeris; see NewProjector. Everything else in the
// package is pure computation.
package frames

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// AUPerDayToKmS converts velocities from AU/day to km/s.
const AUPerDayToKmS = 1731.45683

var (
	// ErrBadFrame reports a reference frame outside {helio, geo}.
	ErrBadFrame = errors.New("frame must be helio or geo")
	// ErrBadMuRel reports a proper-motion convention outside {SL, LS}.
	ErrBadMuRel = errors.New("murel convention must be SL or LS")
	// ErrBadBasis reports a u0 sign basis outside {EN, tb}.
	ErrBadBasis = errors.New("coordinate basis must be EN or tb")
	// ErrNotFinite reports a NaN or infinite numeric input.
	ErrNotFinite = errors.New("value must be finite")
	// ErrBadTE reports a non-positive Einstein crossing time.
	ErrBadTE = errors.New("tE must be positive")
	// ErrZeroPiE reports a zero-length parallax vector, which has no direction.
	ErrZeroPiE = errors.New("parallax vector has zero length")
	// ErrZeroMuRel reports a zero relative proper motion, which defines no
	// along-track axis.
	ErrZeroMuRel = errors.New("relative proper motion vector is zero")
	// ErrPolarTarget reports a target at a celestial pole, where the
	// East/North sky basis is undefined.
	ErrPolarTarget = errors.New("sky basis undefined at the celestial pole")
	// ErrNotOrthonormal reports a derived rotation matrix that failed its
	// orthonormality check.
	ErrNotOrthonormal = errors.New("rotation matrix is not orthonormal")
)

// Frame identifies the reference frame a parameter set is expressed in.
type Frame string

const (
	// Helio marks parameters tied to the Sun's rest frame.
	Helio Frame = "helio"
	// Geo marks parameters projected into Earth's frame at a fixed
	// reference epoch t0par.
	Geo Frame = "geo"
)

// Valid reports whether f is a known frame.
func (f Frame) Valid() bool {
	return f == Helio || f == Geo
}

// Other returns the opposite frame.
func (f Frame) Other() Frame {
	if f == Helio {
		return Geo
	}
	return Helio
}

// ParseFrame reads a frame name case-insensitively.
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Helio), "heliocentric":
		return Helio, nil
	case string(Geo), "geocentric":
		return Geo, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrBadFrame)
}

// MuRel identifies the direction convention of the lens-source relative
// proper motion that the parallax vector follows.
type MuRel string

const (
	// SourceLens is the source-minus-lens convention.
	SourceLens MuRel = "SL"
	// LensSource is the lens-minus-source convention.
	LensSource MuRel = "LS"
)

// Valid reports whether m is a known convention.
func (m MuRel) Valid() bool {
	return m == SourceLens || m == LensSource
}

// ParseMuRel reads a proper-motion convention case-insensitively.
func ParseMuRel(s string) (MuRel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SourceLens):
		return SourceLens, nil
	case string(LensSource):
		return LensSource, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrBadMuRel)
}

// Basis identifies the coordinate basis that fixes the sign of u0.
type Basis string

const (
	// EastNorth signs u0 by the East/North decomposition of the impact
	// vector.
	EastNorth Basis = "EN"
	// TauBeta signs u0 by the cross product of the trajectory direction
	// with the impact vector.
	TauBeta Basis = "tb"
)

// Valid reports whether b is a known basis.
func (b Basis) Valid() bool {
	return b == EastNorth || b == TauBeta
}

// ParseBasis reads a u0 sign basis, tolerating case variations.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return EastNorth, nil
	case "tb":
		return TauBeta, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrBadBasis)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
