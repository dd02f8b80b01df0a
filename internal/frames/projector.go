package frames

import (
	"fmt"

	"github.com/microlens-data/ulens/internal/ephem"
	"github.com/microlens-data/ulens/internal/timeutil"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Projector projects ephemeris states onto a target's sky plane and runs the
// frame conversions that need them. The zero value is not usable; construct
// with NewProjector.
type Projector struct {
	src ephem.Source
}

// NewProjector binds a Projector to an ephemeris source. A nil src selects
// the built-in analytic Earth ephemeris.
func NewProjector(src ephem.Source) *Projector {
	if src == nil {
		src = ephem.Meeus{}
	}
	return &Projector{src: src}
}

// ParallaxVector returns Earth's position projected onto the target's
// (East, North) sky basis at each epoch, in AU. Vec.X is the East component
// and Vec.Y the North component. Epochs are MJD(TDB); results preserve the
// input order.
func (p *Projector) ParallaxVector(tgt Target, mjds ...float64) ([]r2.Vec, error) {
	east, north, err := tgt.Basis()
	if err != nil {
		return nil, err
	}
	out := make([]r2.Vec, len(mjds))
	for i, mjd := range mjds {
		pos, _, err := p.src.PositionVelocity(ephem.Earth, timeutil.MJDToJD(mjd))
		if err != nil {
			return nil, fmt.Errorf("earth position at mjd %.6f: %w", mjd, err)
		}
		out[i] = r2.Vec{X: r3.Dot(pos, east), Y: r3.Dot(pos, north)}
	}
	return out, nil
}

// EarthVelocity returns Earth's velocity projected onto the target's
// (East, North) sky basis at one epoch, in km/s.
func (p *Projector) EarthVelocity(tgt Target, mjd float64) (r2.Vec, error) {
	east, north, err := tgt.Basis()
	if err != nil {
		return r2.Vec{}, err
	}
	_, vel, err := p.src.PositionVelocity(ephem.Earth, timeutil.MJDToJD(mjd))
	if err != nil {
		return r2.Vec{}, fmt.Errorf("earth velocity at mjd %.6f: %w", mjd, err)
	}
	kms := r3.Scale(AUPerDayToKmS, vel)
	return r2.Vec{X: r3.Dot(kms, east), Y: r3.Dot(kms, north)}, nil
}
