// Package plot renders PNG figures for a converted parameter pair: the
// source track relative to the lens, and the magnification curve each
// parameter set implies.
package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/microlens-data/ulens/internal/frames"
)

var (
	inColor   = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	outColor  = color.RGBA{R: 38, G: 139, B: 210, A: 255}
	ringColor = color.RGBA{R: 147, G: 161, B: 161, A: 255}
)

// Trajectory draws the rectilinear source track of the input parameter set
// and its converted counterpart in the (East, North) plane, with the
// Einstein ring and a dashed impact circle per set. span is the half-window
// in Einstein times around the input t0; n is the number of samples.
func Trajectory(path string, in, out frames.Params, conv frames.Conventions, span float64, n int) error {
	epochs := frames.SampleEpochs(in.T0, in.TE, span, n)
	trackIn, err := frames.SourceTrack(in, conv.MuRelIn, conv.CoordIn, epochs)
	if err != nil {
		return fmt.Errorf("input track: %w", err)
	}
	trackOut, err := frames.SourceTrack(out, conv.MuRelOut, conv.CoordOut, epochs)
	if err != nil {
		return fmt.Errorf("output track: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Source track relative to lens (%s and %s)", conv.Frame, conv.Frame.Other())
	p.X.Label.Text = "East (Einstein radii)"
	p.Y.Label.Text = "North (Einstein radii)"

	ring, err := plotter.NewLine(circlePoints(1))
	if err != nil {
		return err
	}
	ring.Color = ringColor
	ring.Width = vg.Points(1)
	p.Add(ring)
	p.Legend.Add("einstein ring", ring)

	inLine, err := plotter.NewLine(trackXYs(trackIn))
	if err != nil {
		return err
	}
	inLine.Color = inColor
	inLine.Width = vg.Points(1)
	p.Add(inLine)
	p.Legend.Add(string(conv.Frame), inLine)

	outLine, err := plotter.NewLine(trackXYs(trackOut))
	if err != nil {
		return err
	}
	outLine.Color = outColor
	outLine.Width = vg.Points(1)
	p.Add(outLine)
	p.Legend.Add(string(conv.Frame.Other()), outLine)

	if err := addImpactCircle(p, in.U0, inColor); err != nil {
		return err
	}
	if err := addImpactCircle(p, out.U0, outColor); err != nil {
		return err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Symmetric limits keep the geometry square; the ring fixes the
	// minimum extent.
	lim := 1.0
	for _, track := range [][]frames.TrackPoint{trackIn, trackOut} {
		for _, tp := range track {
			if math.Abs(tp.East) > lim {
				lim = math.Abs(tp.East)
			}
			if math.Abs(tp.North) > lim {
				lim = math.Abs(tp.North)
			}
		}
	}
	lim *= 1.05
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}

// LightCurve draws the point-lens magnification over t0 ± span·tE for the
// input parameter set and its converted counterpart. Near the reference
// epoch the two curves agree; they separate as the frames drift apart.
func LightCurve(path string, in, out frames.Params, conv frames.Conventions, span float64, n int) error {
	epochs := frames.SampleEpochs(in.T0, in.TE, span, n)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("PSPL magnification (%s and %s)", conv.Frame, conv.Frame.Other())
	p.X.Label.Text = "Epoch (MJD)"
	p.Y.Label.Text = "Magnification"

	for _, set := range []struct {
		params frames.Params
		label  string
		col    color.Color
	}{
		{in, string(conv.Frame), inColor},
		{out, string(conv.Frame.Other()), outColor},
	} {
		pts := make(plotter.XYs, len(epochs))
		for i, t := range epochs {
			pts[i] = plotter.XY{X: t, Y: frames.Magnification(frames.SeparationAt(set.params, t))}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = set.col
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(set.label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save light curve plot: %w", err)
	}
	return nil
}

// addImpactCircle draws a dashed circle at the set's closest approach.
func addImpactCircle(p *plot.Plot, u0 float64, col color.Color) error {
	r := math.Abs(u0)
	if r == 0 {
		return nil
	}
	line, err := plotter.NewLine(circlePoints(r))
	if err != nil {
		return err
	}
	line.Color = col
	line.Width = vg.Points(0.5)
	line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(line)
	return nil
}

func trackXYs(track []frames.TrackPoint) plotter.XYs {
	pts := make(plotter.XYs, len(track))
	for i, tp := range track {
		pts[i] = plotter.XY{X: tp.East, Y: tp.North}
	}
	return pts
}

func circlePoints(r float64) plotter.XYs {
	const segments = 180
	pts := make(plotter.XYs, segments+1)
	for i := 0; i <= segments; i++ {
		th := 2 * math.Pi * float64(i) / segments
		pts[i] = plotter.XY{X: r * math.Cos(th), Y: r * math.Sin(th)}
	}
	return pts
}
