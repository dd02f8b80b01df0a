package frames

import (
	"errors"
	"math"
	"testing"

	"github.com/microlens-data/ulens/internal/ephem"
	"gonum.org/v1/gonum/spatial/r3"
)

// staticProjector wires the fixed-state ephemeris used for hand-checked
// conversions: par = (0.3, 0.7) AU and vEarth = (5.19437049, -3.46291366)
// km/s when projected for a target on the equator at ra 0.
func staticProjector() *Projector {
	return NewProjector(ephem.Static{
		Pos: r3.Vec{X: 0.1, Y: 0.3, Z: 0.7},
		Vel: r3.Vec{Y: 0.003, Z: -0.002},
	})
}

func TestConvertPiETEGolden(t *testing.T) {
	prj := staticProjector()
	tgt := equatorTarget(t)

	tests := []struct {
		name             string
		from             Frame
		piEE, piEN, tE   float64
		wantE, wantN     float64
		wantTE           float64
	}{
		{
			name: "helio to geo small piE",
			from: Helio, piEE: 0.12, piEN: 0.08, tE: 28,
			wantE: 0.12105840072132504, wantN: 0.07838918047023509,
			wantTE: 27.841586666445728,
		},
		{
			name: "geo to helio small piE",
			from: Geo, piEE: 0.12, piEN: 0.08, tE: 28,
			wantE: 0.11890788478912841, wantN: 0.081614428473005707,
			wantTE: 28.155111541507644,
		},
		{
			name: "helio to geo large piE",
			from: Helio, piEE: 1.2, piEN: 0.8, tE: 28,
			wantE: 1.2914009178074748, wantN: 0.64209319377019691,
			wantTE: 26.302974932065652,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotE, gotN, gotTE, err := prj.ConvertPiETE(tgt, 60000.0, tt.piEE, tt.piEN, tt.tE, tt.from)
			if err != nil {
				t.Fatalf("ConvertPiETE: %v", err)
			}
			if math.Abs(gotE-tt.wantE) > 1e-9 {
				t.Errorf("piEE = %.12g, want %.12g", gotE, tt.wantE)
			}
			if math.Abs(gotN-tt.wantN) > 1e-9 {
				t.Errorf("piEN = %.12g, want %.12g", gotN, tt.wantN)
			}
			if math.Abs(gotTE-tt.wantTE) > 1e-9 {
				t.Errorf("tE = %.12g, want %.12g", gotTE, tt.wantTE)
			}
			// The conversion only rotates the parallax vector.
			if d := math.Abs(math.Hypot(gotE, gotN) - math.Hypot(tt.piEE, tt.piEN)); d > 1e-12 {
				t.Errorf("piE magnitude drifted by %v", d)
			}
		})
	}
}

func TestConvertPiETEColinear(t *testing.T) {
	// Earth velocity along the trajectory only rescales tE; the direction
	// is untouched.
	prj := NewProjector(ephem.Static{Vel: r3.Vec{Y: 10.0 / AUPerDayToKmS}})
	tgt := equatorTarget(t)

	gotE, gotN, gotTE, err := prj.ConvertPiETE(tgt, 60000.0, 1.0, 0, 100, Helio)
	if err != nil {
		t.Fatalf("ConvertPiETE: %v", err)
	}
	if math.Abs(gotE-1.0) > 1e-9 || math.Abs(gotN) > 1e-12 {
		t.Errorf("piE = (%v, %v), want (1, 0)", gotE, gotN)
	}
	if math.Abs(gotTE-63.389500100574537) > 1e-6 {
		t.Errorf("tE = %v, want 63.3895", gotTE)
	}
}

func TestConvertPiETEZeroEarthVelocity(t *testing.T) {
	// With no Earth motion the two frames coincide.
	prj := NewProjector(ephem.Static{Pos: r3.Vec{X: 1}})
	tgt := equatorTarget(t)

	gotE, gotN, gotTE, err := prj.ConvertPiETE(tgt, 60000.0, 0.12, -0.08, 28, Helio)
	if err != nil {
		t.Fatalf("ConvertPiETE: %v", err)
	}
	if math.Abs(gotE-0.12) > 1e-12 || math.Abs(gotN+0.08) > 1e-12 || math.Abs(gotTE-28) > 1e-12 {
		t.Errorf("got (%v, %v, %v), want inputs unchanged", gotE, gotN, gotTE)
	}
}

func TestConvertPiETERoundTrip(t *testing.T) {
	// Bulge event with the analytic ephemeris, converted out and back.
	tgt, err := ParseTarget("17:45:40", "-29.0")
	if err != nil {
		t.Fatalf("ParseTarget: %v", err)
	}
	prj := NewProjector(nil)
	const (
		t0par = 60000.0
		piEE  = 0.12
		piEN  = -0.08
		tE    = 28.0
	)

	geoE, geoN, geoTE, err := prj.HelioToGeoPiE(tgt, t0par, piEE, piEN, tE)
	if err != nil {
		t.Fatalf("HelioToGeoPiE: %v", err)
	}
	backE, backN, backTE, err := prj.GeoToHelioPiE(tgt, t0par, geoE, geoN, geoTE)
	if err != nil {
		t.Fatalf("GeoToHelioPiE: %v", err)
	}

	if math.Abs(backE-piEE) > 1e-8 {
		t.Errorf("piEE round trip drifted: %v", backE-piEE)
	}
	if math.Abs(backN-piEN) > 1e-8 {
		t.Errorf("piEN round trip drifted: %v", backN-piEN)
	}
	if math.Abs(backTE-tE)/tE > 1e-9 {
		t.Errorf("tE round trip drifted: got %v, want %v", backTE, tE)
	}
	if d := math.Abs(math.Hypot(geoE, geoN) - math.Hypot(piEE, piEN)); d > 1e-12 {
		t.Errorf("piE magnitude drifted by %v in forward leg", d)
	}
}

func TestConvertPiETEErrors(t *testing.T) {
	prj := staticProjector()
	tgt := equatorTarget(t)

	tests := []struct {
		name           string
		piEE, piEN, tE float64
		from           Frame
		wantErr        error
	}{
		{"zero piE", 0, 0, 28, Helio, ErrZeroPiE},
		{"bad frame", 0.1, 0.1, 28, Frame("barycentric"), ErrBadFrame},
		{"nan piEE", math.NaN(), 0.1, 28, Helio, ErrNotFinite},
		{"inf piEN", 0.1, math.Inf(-1), 28, Helio, ErrNotFinite},
		{"nan tE", 0.1, 0.1, math.NaN(), Helio, ErrNotFinite},
		{"zero tE", 0.1, 0.1, 0, Helio, ErrBadTE},
		{"negative tE", 0.1, 0.1, -5, Helio, ErrBadTE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := prj.ConvertPiETE(tgt, 60000.0, tt.piEE, tt.piEN, tt.tE, tt.from)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
