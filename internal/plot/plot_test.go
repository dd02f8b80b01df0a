package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/microlens-data/ulens/internal/frames"
)

func testParams() (frames.Params, frames.Params, frames.Conventions) {
	in := frames.Params{T0: 60005.5, U0: 0.1, TE: 32, PiEE: 0.1, PiEN: -0.05}
	out := frames.Params{
		T0:   60005.27324739824,
		U0:   0.014736356018824035,
		TE:   31.595537192788573,
		PiEE: 0.099920886372193859,
		PiEN: -0.050157915293551861,
	}
	conv := frames.Conventions{
		Frame:    frames.Helio,
		MuRelIn:  frames.SourceLens,
		MuRelOut: frames.SourceLens,
		CoordIn:  frames.EastNorth,
		CoordOut: frames.EastNorth,
	}
	return in, out, conv
}

func checkPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	sig := make([]byte, 8)
	if _, err := f.Read(sig); err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	want := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	for i := range want {
		if sig[i] != want[i] {
			t.Fatalf("%s does not look like a PNG (header %x)", path, sig)
		}
	}
}

func TestTrajectory(t *testing.T) {
	in, out, conv := testParams()
	path := filepath.Join(t.TempDir(), "trajectory.png")

	if err := Trajectory(path, in, out, conv, 2, 100); err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	checkPNG(t, path)
}

func TestLightCurve(t *testing.T) {
	in, out, conv := testParams()
	path := filepath.Join(t.TempDir(), "lightcurve.png")

	if err := LightCurve(path, in, out, conv, 2, 100); err != nil {
		t.Fatalf("LightCurve: %v", err)
	}
	checkPNG(t, path)
}

func TestTrajectoryBadConventions(t *testing.T) {
	in, out, conv := testParams()
	conv.MuRelIn = frames.MuRel("XY")

	err := Trajectory(filepath.Join(t.TempDir(), "t.png"), in, out, conv, 2, 100)
	if err == nil {
		t.Fatal("expected error for bad murel convention")
	}
}

func TestTrajectorySaveError(t *testing.T) {
	in, out, conv := testParams()
	path := filepath.Join(t.TempDir(), "missing", "t.png")

	if err := Trajectory(path, in, out, conv, 2, 50); err == nil {
		t.Fatal("expected error saving into a missing directory")
	}
}
