package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Params is one PSPL parameter set: peak time t0 (MJD), signed impact
// parameter u0 (Einstein radii), Einstein crossing time tE (days), and the
// parallax vector components piEE/piEN (East/North).
type Params struct {
	T0   float64 `json:"t0"`
	U0   float64 `json:"u0"`
	TE   float64 `json:"tE"`
	PiEE float64 `json:"piEE"`
	PiEN float64 `json:"piEN"`
}

// Conventions pins down how a conversion's inputs and outputs are signed:
// the frame the inputs live in, the proper-motion direction convention on
// each side, and the basis fixing the sign of u0 on each side.
type Conventions struct {
	Frame    Frame `json:"in_frame"`
	MuRelIn  MuRel `json:"murel_in"`
	MuRelOut MuRel `json:"murel_out"`
	CoordIn  Basis `json:"coord_in"`
	CoordOut Basis `json:"coord_out"`
}

// DefaultConventions mirrors the most common usage: heliocentric SL inputs
// in the East/North basis converted to LS outputs in the tau/beta basis.
func DefaultConventions() Conventions {
	return Conventions{
		Frame:    Helio,
		MuRelIn:  SourceLens,
		MuRelOut: LensSource,
		CoordIn:  EastNorth,
		CoordOut: TauBeta,
	}
}

func (c Conventions) validate() error {
	if !c.Frame.Valid() {
		return fmt.Errorf("in_frame %q: %w", c.Frame, ErrBadFrame)
	}
	if !c.MuRelIn.Valid() {
		return fmt.Errorf("murel_in %q: %w", c.MuRelIn, ErrBadMuRel)
	}
	if !c.MuRelOut.Valid() {
		return fmt.Errorf("murel_out %q: %w", c.MuRelOut, ErrBadMuRel)
	}
	if !c.CoordIn.Valid() {
		return fmt.Errorf("coord_in %q: %w", c.CoordIn, ErrBadBasis)
	}
	if !c.CoordOut.Valid() {
		return fmt.Errorf("coord_out %q: %w", c.CoordOut, ErrBadBasis)
	}
	return nil
}

// ConvertTrajectory converts a full PSPL parameter set from conv.Frame to
// the opposite frame, honoring the requested sign conventions on both
// sides. t0par is the reference epoch of the geocentric projection.
func (p *Projector) ConvertTrajectory(tgt Target, t0par float64, in Params, conv Conventions) (Params, error) {
	if err := conv.validate(); err != nil {
		return Params{}, err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"t0par", t0par}, {"t0", in.T0}, {"u0", in.U0}, {"tE", in.TE}, {"piEE", in.PiEE}, {"piEN", in.PiEN}} {
		if !isFinite(v.val) {
			return Params{}, fmt.Errorf("%s = %v: %w", v.name, v.val, ErrNotFinite)
		}
	}

	// Work internally in the source-minus-lens convention.
	piEE, piEN := in.PiEE, in.PiEN
	if conv.MuRelIn == LensSource {
		piEE, piEN = -piEE, -piEN
	}

	piEEOut, piENOut, tEOut, err := p.ConvertPiETE(tgt, t0par, piEE, piEN, in.TE, conv.Frame)
	if err != nil {
		return Params{}, err
	}

	piE := math.Hypot(piEE, piEN)
	tauIn := r2.Vec{X: piEE / piE, Y: piEN / piE}
	tauOut := r2.Vec{X: piEEOut / piE, Y: piENOut / piE}

	u0hatIn := u0HatInput(conv.CoordIn, in.U0, piEE, piEN, tauIn)

	t0Out, u0vecOut, err := p.convertU0T0(tgt, t0par, in.T0, in.U0, in.TE, tEOut, piE, tauIn, u0hatIn, tauOut, conv.Frame)
	if err != nil {
		return Params{}, err
	}

	u0Out := math.Hypot(u0vecOut.X, u0vecOut.Y)
	if u0vecOut.X < 0 {
		u0Out = -u0Out
	}
	if conv.CoordOut == TauBeta {
		u0Out = math.Hypot(u0vecOut.X, u0vecOut.Y)
		if r2.Cross(tauOut, u0vecOut) < 0 {
			u0Out = -u0Out
		}
	}

	if conv.MuRelOut == LensSource {
		piEEOut, piENOut = -piEEOut, -piENOut
	}

	return Params{T0: t0Out, U0: u0Out, TE: tEOut, PiEE: piEEOut, PiEN: piENOut}, nil
}

// u0HatInput resolves the unit impact vector implied by the signed u0 under
// the given basis convention. The vector is perpendicular to the trajectory
// direction tau; the basis decides which of the two perpendiculars.
func u0HatInput(basis Basis, u0, piEE, piEN float64, tau r2.Vec) r2.Vec {
	plus := r2.Vec{X: tau.Y, Y: -tau.X}
	minus := r2.Vec{X: -tau.Y, Y: tau.X}

	if basis == EastNorth {
		switch s := u0 * piEN; {
		case s < 0:
			return minus
		case s > 0:
			return plus
		default:
			if u0*piEE > 0 {
				return minus
			}
			return plus
		}
	}

	// tau/beta basis
	if u0 > 0 {
		return plus
	}
	return minus
}

// convertU0T0 maps the impact vector and peak time across frames given the
// already-converted trajectory directions and Einstein times.
func (p *Projector) convertU0T0(tgt Target, t0par, t0In, u0In, tEIn, tEOut, piE float64, tauIn, u0hatIn, tauOut r2.Vec, from Frame) (float64, r2.Vec, error) {
	pars, err := p.ParallaxVector(tgt, t0par)
	if err != nil {
		return 0, r2.Vec{}, err
	}
	par := pars[0]
	u0vecIn := r2.Scale(math.Abs(u0In), u0hatIn)

	var t0Out float64
	var u0vecOut r2.Vec
	switch from {
	case Helio:
		dpdt := r2.Scale(1/piE, r2.Sub(r2.Scale(1/tEIn, tauIn), r2.Scale(1/tEOut, tauOut)))
		vec := r2.Sub(u0vecIn, r2.Add(r2.Scale(piE, par), r2.Scale((t0In-t0par)*piE, dpdt)))
		t0Out = t0In - tEOut*r2.Dot(tauOut, vec)
		u0vecOut = r2.Add(u0vecIn, r2.Scale((t0par-t0In)/tEIn, tauIn))
		u0vecOut = r2.Sub(u0vecOut, r2.Scale((t0par-t0Out)/tEOut, tauOut))
		u0vecOut = r2.Sub(u0vecOut, r2.Scale(piE, par))
	case Geo:
		dpdt := r2.Scale(1/piE, r2.Sub(r2.Scale(1/tEOut, tauOut), r2.Scale(1/tEIn, tauIn)))
		vec := r2.Add(u0vecIn, r2.Add(r2.Scale(piE, par), r2.Scale((t0In-t0par)*piE, dpdt)))
		t0Out = t0In - tEOut*r2.Dot(tauOut, vec)
		u0vecOut = r2.Add(u0vecIn, r2.Scale((t0par-t0In)/tEIn, tauIn))
		u0vecOut = r2.Sub(u0vecOut, r2.Scale((t0par-t0Out)/tEOut, tauOut))
		u0vecOut = r2.Add(u0vecOut, r2.Scale(piE, par))
	default:
		return 0, r2.Vec{}, fmt.Errorf("in_frame %q: %w", from, ErrBadFrame)
	}
	return t0Out, u0vecOut, nil
}
