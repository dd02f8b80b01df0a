package frames

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/microlens-data/ulens/internal/ephem"
	"gonum.org/v1/gonum/spatial/r3"
)

// equatorTarget looks along +X so that the sky basis is exactly
// east=(0,1,0), north=(0,0,1) and projections read off vector components.
func equatorTarget(t *testing.T) Target {
	t.Helper()
	tgt, err := NewTarget(0, 0)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	return tgt
}

func TestParallaxVectorStaticSource(t *testing.T) {
	prj := NewProjector(ephem.Static{Pos: r3.Vec{X: 0.1, Y: 0.3, Z: 0.7}})
	tgt := equatorTarget(t)

	vecs, err := prj.ParallaxVector(tgt, 60000.0, 60010.0, 60020.0)
	if err != nil {
		t.Fatalf("ParallaxVector: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if math.Abs(v.X-0.3) > 1e-15 || math.Abs(v.Y-0.7) > 1e-15 {
			t.Errorf("vecs[%d] = %+v, want {0.3 0.7}", i, v)
		}
	}
}

func TestParallaxVectorEmptyEpochs(t *testing.T) {
	prj := NewProjector(ephem.Static{Pos: r3.Vec{X: 1}})
	vecs, err := prj.ParallaxVector(equatorTarget(t))
	if err != nil {
		t.Fatalf("ParallaxVector: %v", err)
	}
	if len(vecs) != 0 {
		t.Errorf("got %d vectors, want 0", len(vecs))
	}
}

func TestEarthVelocityStaticSource(t *testing.T) {
	prj := NewProjector(ephem.Static{Vel: r3.Vec{Y: 0.003, Z: -0.002}})

	v, err := prj.EarthVelocity(equatorTarget(t), 60000.0)
	if err != nil {
		t.Fatalf("EarthVelocity: %v", err)
	}
	wantE := 0.003 * AUPerDayToKmS
	wantN := -0.002 * AUPerDayToKmS
	if math.Abs(v.X-wantE) > 1e-12 || math.Abs(v.Y-wantN) > 1e-12 {
		t.Errorf("EarthVelocity = %+v, want {%v %v}", v, wantE, wantN)
	}
}

func TestEarthVelocityRotatedTarget(t *testing.T) {
	// Looking along +Y: east=(-1,0,0), north=(0,0,1).
	tgt, err := NewTarget(90, 0)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	prj := NewProjector(ephem.Static{Vel: r3.Vec{X: 0.001, Y: 0.005, Z: -0.002}})

	v, err := prj.EarthVelocity(tgt, 60000.0)
	if err != nil {
		t.Fatalf("EarthVelocity: %v", err)
	}
	wantE := -0.001 * AUPerDayToKmS
	wantN := -0.002 * AUPerDayToKmS
	if math.Abs(v.X-wantE) > 1e-9 || math.Abs(v.Y-wantN) > 1e-9 {
		t.Errorf("EarthVelocity = %+v, want {%v %v}", v, wantE, wantN)
	}
}

func TestProjectorPolarTarget(t *testing.T) {
	prj := NewProjector(ephem.Static{})
	tgt, err := NewTarget(10, 90)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	if _, err := prj.ParallaxVector(tgt, 60000.0); !errors.Is(err, ErrPolarTarget) {
		t.Errorf("ParallaxVector error = %v, want ErrPolarTarget", err)
	}
	if _, err := prj.EarthVelocity(tgt, 60000.0); !errors.Is(err, ErrPolarTarget) {
		t.Errorf("EarthVelocity error = %v, want ErrPolarTarget", err)
	}
}

func TestProjectorSourceError(t *testing.T) {
	boom := errors.New("ephemeris offline")
	prj := NewProjector(ephem.SourceFunc(func(body string, jd float64) (r3.Vec, r3.Vec, error) {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("lookup at %f: %w", jd, boom)
	}))

	_, err := prj.ParallaxVector(equatorTarget(t), 60000.0)
	if !errors.Is(err, boom) {
		t.Errorf("ParallaxVector error = %v, want wrapped source error", err)
	}
	_, err = prj.EarthVelocity(equatorTarget(t), 60000.0)
	if !errors.Is(err, boom) {
		t.Errorf("EarthVelocity error = %v, want wrapped source error", err)
	}
}

func TestNewProjectorDefaultsToMeeus(t *testing.T) {
	prj := NewProjector(nil)
	vecs, err := prj.ParallaxVector(equatorTarget(t), 60000.0)
	if err != nil {
		t.Fatalf("ParallaxVector with default source: %v", err)
	}
	// Earth is roughly 1 AU from the Sun, so the projection cannot exceed that.
	if n := math.Hypot(vecs[0].X, vecs[0].Y); n > 1.1 {
		t.Errorf("projected separation %v AU is unphysical", n)
	}
}
