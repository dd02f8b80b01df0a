package frames

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// Target is an event's sky position (ICRS).
type Target struct {
	RA  unit.Angle
	Dec unit.Angle
}

// NewTarget builds a Target from decimal degrees.
func NewTarget(raDeg, decDeg float64) (Target, error) {
	if !isFinite(raDeg) || !isFinite(decDeg) {
		return Target{}, fmt.Errorf("target (%v, %v): %w", raDeg, decDeg, ErrNotFinite)
	}
	if decDeg < -90 || decDeg > 90 {
		return Target{}, fmt.Errorf("dec %v outside [-90, 90]", decDeg)
	}
	return Target{RA: unit.AngleFromDeg(raDeg), Dec: unit.AngleFromDeg(decDeg)}, nil
}

// ParseTarget builds a Target from string coordinates. Sexagesimal right
// ascension ("17:45:40") is read as hours, sexagesimal declination
// ("-29:00:12") as degrees with the sign applying to all components. Plain
// decimal strings are degrees for both.
func ParseTarget(ra, dec string) (Target, error) {
	raDeg, err := ParseRA(ra)
	if err != nil {
		return Target{}, err
	}
	decDeg, err := ParseDec(dec)
	if err != nil {
		return Target{}, err
	}
	return NewTarget(raDeg, decDeg)
}

// TargetFrom accepts the loosely typed coordinate values found in JSON
// payloads: strings go through ParseTarget, numbers are decimal degrees.
func TargetFrom(ra, dec any) (Target, error) {
	raDeg, err := coordValue(ra, ParseRA)
	if err != nil {
		return Target{}, fmt.Errorf("ra: %w", err)
	}
	decDeg, err := coordValue(dec, ParseDec)
	if err != nil {
		return Target{}, fmt.Errorf("dec: %w", err)
	}
	return NewTarget(raDeg, decDeg)
}

func coordValue(v any, parse func(string) (float64, error)) (float64, error) {
	switch x := v.(type) {
	case string:
		return parse(x)
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case nil:
		return 0, fmt.Errorf("coordinate missing")
	default:
		return 0, fmt.Errorf("coordinate has unsupported type %T", v)
	}
}

// ParseRA reads a right ascension string into decimal degrees. Sexagesimal
// forms are hours; plain decimals are degrees.
func ParseRA(s string) (float64, error) {
	if isSexagesimal(s) {
		hours, err := parseSexagesimal(s)
		if err != nil {
			return 0, fmt.Errorf("ra %q: %w", s, err)
		}
		return hours * 15, nil
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("ra %q: %w", s, err)
	}
	return deg, nil
}

// ParseDec reads a declination string into decimal degrees.
func ParseDec(s string) (float64, error) {
	if isSexagesimal(s) {
		deg, err := parseSexagesimal(s)
		if err != nil {
			return 0, fmt.Errorf("dec %q: %w", s, err)
		}
		return deg, nil
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("dec %q: %w", s, err)
	}
	return deg, nil
}

func isSexagesimal(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsRune(s, ':') {
		return true
	}
	return len(strings.Fields(s)) > 1
}

func parseSexagesimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || unicode.IsSpace(r)
	})
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("expected 1-3 sexagesimal components, got %d", len(parts))
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("component %q: %w", p, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("component %q: sign belongs on the leading component", p)
		}
		vals[i] = v
	}

	x := vals[0] + vals[1]/60 + vals[2]/3600
	if neg {
		x = -x
	}
	return x, nil
}

// Direction returns the unit vector toward the target in equatorial
// coordinates.
func (t Target) Direction() r3.Vec {
	sinDec, cosDec := t.Dec.Sincos()
	sinRA, cosRA := t.RA.Sincos()
	return r3.Vec{X: cosDec * cosRA, Y: cosDec * sinRA, Z: sinDec}
}

// Basis returns the East and North unit vectors spanning the plane of the
// sky at the target. East is the celestial pole crossed with the line of
// sight; North completes the right-handed triad.
func (t Target) Basis() (east, north r3.Vec, err error) {
	dir := t.Direction()
	pole := r3.Vec{Z: 1}
	e := r3.Cross(pole, dir)
	if r3.Norm(e) < 1e-12 {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("target dec %.6f: %w", t.Dec.Deg(), ErrPolarTarget)
	}
	east = r3.Unit(e)
	north = r3.Unit(r3.Cross(dir, east))
	return east, north, nil
}

// String renders the target for logs.
func (t Target) String() string {
	return fmt.Sprintf("ra=%.6f dec=%.6f", t.RA.Deg(), t.Dec.Deg())
}
