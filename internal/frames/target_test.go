package frames

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestParseRA(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"sexagesimal hours", "17:45:40", 266.41666666666669, false},
		{"space separated", "17 45 40", 266.41666666666669, false},
		{"two components", "17:45", 266.25, false},
		{"decimal degrees", "266.4166667", 266.4166667, false},
		{"zero", "0:0:0", 0, false},
		{"empty", "", 0, true},
		{"too many components", "1:2:3:4", 0, true},
		{"sign inside component", "17:-45:40", 0, true},
		{"garbage", "seventeen", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRA(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRA(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRA(%q) unexpected error: %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseRA(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"sexagesimal degrees", "-29:00:12.3", -(29 + 12.3/3600), false},
		{"positive with plus", "+29:30:00", 29.5, false},
		{"decimal degrees", "-29.0", -29.0, false},
		{"space separated", "-29 00 12.3", -(29 + 12.3/3600), false},
		{"bare integer", "45", 45, false},
		{"garbage", "south", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDec(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDec(%q) unexpected error: %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseDec(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewTarget(t *testing.T) {
	tests := []struct {
		name    string
		ra, dec float64
		wantErr error
	}{
		{"galactic bulge", 266.4166667, -29.0, nil},
		{"equator", 0, 0, nil},
		{"dec too high", 10, 90.5, nil},
		{"nan ra", math.NaN(), 0, ErrNotFinite},
		{"inf dec", 0, math.Inf(1), ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTarget(tt.ra, tt.dec)
			switch {
			case tt.name == "dec too high":
				if err == nil {
					t.Fatal("expected range error for dec > 90")
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTargetFrom(t *testing.T) {
	got, err := TargetFrom("17:45:40", -29.0)
	if err != nil {
		t.Fatalf("TargetFrom: %v", err)
	}
	if math.Abs(got.RA.Deg()-266.41666666666669) > 1e-9 {
		t.Errorf("RA = %v, want 266.41667", got.RA.Deg())
	}
	if math.Abs(got.Dec.Deg()+29) > 1e-9 {
		t.Errorf("Dec = %v, want -29", got.Dec.Deg())
	}

	if _, err := TargetFrom(nil, -29.0); err == nil {
		t.Error("expected error for missing ra")
	}
	if _, err := TargetFrom(true, -29.0); err == nil {
		t.Error("expected error for unsupported ra type")
	}
	if _, err := TargetFrom(266.4, "not-a-dec"); err == nil {
		t.Error("expected error for unparseable dec")
	}
}

func TestTargetDirection(t *testing.T) {
	tests := []struct {
		name    string
		ra, dec float64
		want    r3.Vec
	}{
		{"vernal equinox", 0, 0, r3.Vec{X: 1}},
		{"ra 90", 90, 0, r3.Vec{Y: 1}},
		{"north pole", 0, 90, r3.Vec{Z: 1}},
		{"bulge", 266.41666666666669, -29, r3.Vec{
			X: -0.054663908955069035,
			Y: -0.87290978295259947,
			Z: -0.48480962024633706,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, err := NewTarget(tt.ra, tt.dec)
			if err != nil {
				t.Fatalf("NewTarget: %v", err)
			}
			got := tgt.Direction()
			if math.Abs(got.X-tt.want.X) > 1e-12 ||
				math.Abs(got.Y-tt.want.Y) > 1e-12 ||
				math.Abs(got.Z-tt.want.Z) > 1e-12 {
				t.Errorf("Direction() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTargetBasis(t *testing.T) {
	coords := []struct{ ra, dec float64 }{
		{0, 0}, {90, 0}, {266.4166667, -29}, {120, 60}, {300, -75}, {10, 89},
	}

	for _, c := range coords {
		tgt, err := NewTarget(c.ra, c.dec)
		if err != nil {
			t.Fatalf("NewTarget(%v, %v): %v", c.ra, c.dec, err)
		}
		east, north, err := tgt.Basis()
		if err != nil {
			t.Fatalf("Basis(%v, %v): %v", c.ra, c.dec, err)
		}

		if d := math.Abs(r3.Norm(east) - 1); d > 1e-12 {
			t.Errorf("(%v, %v): |east| off unity by %v", c.ra, c.dec, d)
		}
		if d := math.Abs(r3.Norm(north) - 1); d > 1e-12 {
			t.Errorf("(%v, %v): |north| off unity by %v", c.ra, c.dec, d)
		}
		if d := math.Abs(r3.Dot(east, north)); d > 1e-12 {
			t.Errorf("(%v, %v): east.north = %v, want 0", c.ra, c.dec, d)
		}
		// east x north must reproduce the line of sight (right-handed triad)
		dir := tgt.Direction()
		cross := r3.Cross(east, north)
		if r3.Norm(r3.Sub(cross, dir)) > 1e-12 {
			t.Errorf("(%v, %v): east x north = %+v, want %+v", c.ra, c.dec, cross, dir)
		}
		// east has no polar component by construction
		if math.Abs(east.Z) > 1e-12 {
			t.Errorf("(%v, %v): east.Z = %v, want 0", c.ra, c.dec, east.Z)
		}
	}
}

func TestTargetBasisAtPole(t *testing.T) {
	for _, dec := range []float64{90, -90} {
		tgt, err := NewTarget(0, dec)
		if err != nil {
			t.Fatalf("NewTarget: %v", err)
		}
		if _, _, err := tgt.Basis(); !errors.Is(err, ErrPolarTarget) {
			t.Errorf("dec %v: error = %v, want ErrPolarTarget", dec, err)
		}
	}
}

func TestParseFrame(t *testing.T) {
	tests := []struct {
		in      string
		want    Frame
		wantErr bool
	}{
		{"helio", Helio, false},
		{"HELIO", Helio, false},
		{"heliocentric", Helio, false},
		{" geo ", Geo, false},
		{"geocentric", Geo, false},
		{"barycentric", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFrame(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadFrame) {
				t.Errorf("ParseFrame(%q) error = %v, want ErrBadFrame", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFrame(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if Helio.Other() != Geo || Geo.Other() != Helio {
		t.Error("Other() should swap frames")
	}
}

func TestParseMuRelAndBasis(t *testing.T) {
	if got, err := ParseMuRel("sl"); err != nil || got != SourceLens {
		t.Errorf("ParseMuRel(sl) = %v, %v", got, err)
	}
	if got, err := ParseMuRel("LS"); err != nil || got != LensSource {
		t.Errorf("ParseMuRel(LS) = %v, %v", got, err)
	}
	if _, err := ParseMuRel("XY"); !errors.Is(err, ErrBadMuRel) {
		t.Errorf("ParseMuRel(XY) error = %v, want ErrBadMuRel", err)
	}

	if got, err := ParseBasis("EN"); err != nil || got != EastNorth {
		t.Errorf("ParseBasis(EN) = %v, %v", got, err)
	}
	if got, err := ParseBasis("TB"); err != nil || got != TauBeta {
		t.Errorf("ParseBasis(TB) = %v, %v", got, err)
	}
	if _, err := ParseBasis("polar"); !errors.Is(err, ErrBadBasis) {
		t.Errorf("ParseBasis(polar) error = %v, want ErrBadBasis", err)
	}
}
