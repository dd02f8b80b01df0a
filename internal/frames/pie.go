package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ConvertPiETE converts the parallax vector (piEE, piEN) and Einstein time
// tE from the given frame to the opposite one, using Earth's projected
// velocity at the reference epoch t0par. Inputs follow the source-minus-lens
// convention. The parallax magnitude is preserved exactly; only direction
// and tE change.
func (p *Projector) ConvertPiETE(tgt Target, t0par, piEE, piEN, tE float64, from Frame) (piEEOut, piENOut, tEOut float64, err error) {
	if !from.Valid() {
		return 0, 0, 0, fmt.Errorf("in_frame %q: %w", from, ErrBadFrame)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"t0par", t0par}, {"piEE", piEE}, {"piEN", piEN}, {"tE", tE}} {
		if !isFinite(v.val) {
			return 0, 0, 0, fmt.Errorf("%s = %v: %w", v.name, v.val, ErrNotFinite)
		}
	}
	if tE <= 0 {
		return 0, 0, 0, fmt.Errorf("tE = %v: %w", tE, ErrBadTE)
	}

	piE := math.Hypot(piEE, piEN)
	if piE == 0 {
		return 0, 0, 0, ErrZeroPiE
	}

	// Transverse velocity of the lens projected to the observer plane,
	// recovered from the parallax direction and crossing time.
	scale := AUPerDayToKmS / (tE * piE * piE)
	vtIn := r2.Vec{X: piEE * scale, Y: piEN * scale}

	vEarth, err := p.EarthVelocity(tgt, t0par)
	if err != nil {
		return 0, 0, 0, err
	}

	var vtOut r2.Vec
	if from == Helio {
		vtOut = r2.Sub(r2.Scale(-1, vtIn), vEarth)
	} else {
		vtOut = r2.Add(r2.Scale(-1, vtIn), vEarth)
	}

	normIn := r2.Norm(vtIn)
	normOut := r2.Norm(vtOut)
	hat := r2.Scale(-1/normOut, vtOut)

	return piE * hat.X, piE * hat.Y, tE * normIn / normOut, nil
}

// HelioToGeoPiE converts a heliocentric parallax vector and Einstein time to
// the geocentric-projected frame fixed at t0par.
func (p *Projector) HelioToGeoPiE(tgt Target, t0par, piEE, piEN, tE float64) (float64, float64, float64, error) {
	return p.ConvertPiETE(tgt, t0par, piEE, piEN, tE, Helio)
}

// GeoToHelioPiE converts a geocentric-projected parallax vector and Einstein
// time to the heliocentric frame.
func (p *Projector) GeoToHelioPiE(tgt Target, t0par, piEE, piEN, tE float64) (float64, float64, float64, error) {
	return p.ConvertPiETE(tgt, t0par, piEE, piEN, tE, Geo)
}
