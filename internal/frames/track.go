package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TrackPoint is one sample of the source position relative to the lens,
// decomposed on the sky plane in Einstein radii.
type TrackPoint struct {
	MJD   float64 `json:"mjd"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// SourceTrack samples the rectilinear source path relative to the lens in
// the (East, North) plane, in Einstein radii, at the given epochs. The path
// is the one the parameter set describes in its own frame: impact vector
// u0*u0hat at t0, moving along the relative proper motion direction. murel
// and basis name the conventions the parameters are signed in.
func SourceTrack(in Params, murel MuRel, basis Basis, epochs []float64) ([]TrackPoint, error) {
	if !murel.Valid() {
		return nil, fmt.Errorf("murel %q: %w", murel, ErrBadMuRel)
	}
	if !basis.Valid() {
		return nil, fmt.Errorf("basis %q: %w", basis, ErrBadBasis)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"t0", in.T0}, {"u0", in.U0}, {"tE", in.TE}, {"piEE", in.PiEE}, {"piEN", in.PiEN}} {
		if !isFinite(v.val) {
			return nil, fmt.Errorf("%s = %v: %w", v.name, v.val, ErrNotFinite)
		}
	}

	// Normalize to the source-minus-lens convention so the source always
	// advances along +tauhat.
	piEE, piEN := in.PiEE, in.PiEN
	if murel == LensSource {
		piEE, piEN = -piEE, -piEN
	}
	piE := math.Hypot(piEE, piEN)
	if piE == 0 {
		return nil, ErrZeroPiE
	}
	tauhat := r2.Vec{X: piEE / piE, Y: piEN / piE}
	u0hat := u0HatInput(basis, in.U0, piEE, piEN, tauhat)
	u0 := math.Abs(in.U0)

	pts := make([]TrackPoint, len(epochs))
	for i, t := range epochs {
		tau := (t - in.T0) / in.TE
		pts[i] = TrackPoint{
			MJD:   t,
			East:  u0*u0hat.X + tau*tauhat.X,
			North: u0*u0hat.Y + tau*tauhat.Y,
		}
	}
	return pts, nil
}

// SeparationAt returns the lens-source separation |u| at epoch t for the
// rectilinear path. Sign conventions square away: |u| depends only on the
// impact parameter magnitude and the elapsed Einstein times.
func SeparationAt(in Params, t float64) float64 {
	return math.Hypot(in.U0, (t-in.T0)/in.TE)
}

// Magnification returns the point-source point-lens magnification at
// separation u (Einstein radii).
func Magnification(u float64) float64 {
	u2 := u * u
	return (u2 + 2) / (u * math.Sqrt(u2+4))
}

// SampleEpochs returns n epochs evenly spanning t0 ± span*tE, endpoints
// included. n below two collapses to the single epoch t0.
func SampleEpochs(t0, tE, span float64, n int) []float64 {
	if n < 2 {
		return []float64{t0}
	}
	lo := t0 - span*tE
	step := 2 * span * tE / float64(n-1)
	epochs := make([]float64, n)
	for i := range epochs {
		epochs[i] = lo + float64(i)*step
	}
	return epochs
}
