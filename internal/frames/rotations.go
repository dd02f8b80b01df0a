package frames

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// orthoTol is the per-element tolerance for the orthonormality check on
// derived rotation matrices.
const orthoTol = 1e-10

// Diag carries the angles behind a derived lens-frame rotation, for
// reporting alongside the matrix.
type Diag struct {
	PhiMuDeg  float64 `json:"phi_mu_deg"`
	AlphaDeg  float64 `json:"alpha_deg"`
	PhiEstDeg float64 `json:"phi_est_deg"`
}

// RotationXYToTU returns the 2x2 matrix mapping lens-frame (x, y) offsets to
// trajectory (t, u) coordinates: a rotation by alphaDeg with the u axis
// flipped when sgn is -1.
func RotationXYToTU(alphaDeg, sgn float64) (*mat.Dense, error) {
	if !isFinite(alphaDeg) {
		return nil, fmt.Errorf("alpha %v: %w", alphaDeg, ErrNotFinite)
	}
	if sgn != 1 && sgn != -1 {
		return nil, fmt.Errorf("sgn must be +1 or -1, got %v", sgn)
	}
	sa, ca := math.Sincos(alphaDeg * math.Pi / 180)
	return mat.NewDense(2, 2, []float64{
		ca, sa,
		-sgn * sa, sgn * ca,
	}), nil
}

// RotationTUToXY returns the inverse mapping, from (t, u) back to (x, y).
func RotationTUToXY(alphaDeg, sgn float64) (*mat.Dense, error) {
	r, err := RotationXYToTU(alphaDeg, sgn)
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err := inv.Inverse(r); err != nil {
		return nil, fmt.Errorf("invert trajectory rotation: %w", err)
	}
	return &inv, nil
}

// RotationXYToNE maps lens-frame (x, y) offsets to observer-frame
// (North, East) coordinates. The along-track axis comes from the relative
// proper motion (muRelE, muRelN); alphaDeg and sgn fix the lens-frame
// orientation as in RotationXYToTU. Row 0 of the result is the North
// component.
func RotationXYToNE(muRelE, muRelN, alphaDeg, sgn float64) (*mat.Dense, Diag, error) {
	if !isFinite(muRelE) || !isFinite(muRelN) {
		return nil, Diag{}, fmt.Errorf("mu_rel (%v, %v): %w", muRelE, muRelN, ErrNotFinite)
	}
	if muRelE == 0 && muRelN == 0 {
		return nil, Diag{}, ErrZeroMuRel
	}

	norm := math.Hypot(muRelN, muRelE)
	hatT := [2]float64{muRelN / norm, muRelE / norm}
	hatU := [2]float64{-sgn * hatT[1], sgn * hatT[0]}

	// Columns are the along-track and cross-track unit vectors in (N, E).
	tuToNE := mat.NewDense(2, 2, []float64{
		hatT[0], hatU[0],
		hatT[1], hatU[1],
	})
	xyToTU, err := RotationXYToTU(alphaDeg, sgn)
	if err != nil {
		return nil, Diag{}, err
	}

	var r mat.Dense
	r.Mul(tuToNE, xyToTU)
	if !orthonormal(&r) {
		return nil, Diag{}, fmt.Errorf("lens to NE rotation: %w", ErrNotOrthonormal)
	}

	diag := Diag{
		PhiMuDeg:  math.Atan2(muRelE, muRelN) * 180 / math.Pi,
		AlphaDeg:  alphaDeg,
		PhiEstDeg: math.Atan2(r.At(0, 1), r.At(0, 0)) * 180 / math.Pi,
	}
	return &r, diag, nil
}

// RotationNEToXY returns the inverse of RotationXYToNE with the same
// diagnostics.
func RotationNEToXY(muRelE, muRelN, alphaDeg, sgn float64) (*mat.Dense, Diag, error) {
	r, diag, err := RotationXYToNE(muRelE, muRelN, alphaDeg, sgn)
	if err != nil {
		return nil, Diag{}, err
	}
	var inv mat.Dense
	if err := inv.Inverse(r); err != nil {
		return nil, Diag{}, fmt.Errorf("invert NE rotation: %w", err)
	}
	return &inv, diag, nil
}

func orthonormal(m *mat.Dense) bool {
	var prod mat.Dense
	prod.Mul(m, m.T())
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if !scalar.EqualWithinAbs(prod.At(i, j), want, orthoTol) {
				return false
			}
		}
	}
	return true
}
