package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/httputil"
)

func queryFloat(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, fmt.Errorf("missing query parameter %q", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q: %v", key, err)
	}
	return f, nil
}

// chartTrajectory renders an HTML scatter of the source track relative to
// the lens in the (East, North) plane for the input parameter set and its
// converted counterpart, with the Einstein ring for scale.
// Query params: ra, dec, t0par, t0, u0, tE, piEE, piEN plus the optional
// from/murel_in/murel_out/coord_in/coord_out conventions, span (window in
// Einstein times, default 2) and points (samples per track, default 400).
func (s *Server) chartTrajectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tgt, err := frames.TargetFrom(q.Get("ra"), q.Get("dec"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var in frames.Params
	var t0par float64
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"t0par", &t0par},
		{"t0", &in.T0},
		{"u0", &in.U0},
		{"tE", &in.TE},
		{"piEE", &in.PiEE},
		{"piEN", &in.PiEN},
	} {
		if *f.dst, err = queryFloat(r, f.key); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}

	req := trajectoryRequest{
		From:     q.Get("from"),
		MuRelIn:  q.Get("murel_in"),
		MuRelOut: q.Get("murel_out"),
		CoordIn:  q.Get("coord_in"),
		CoordOut: q.Get("coord_out"),
	}
	conv, err := req.conventions()
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	span := 2.0
	if v := q.Get("span"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 10 {
			span = parsed
		}
	}
	points := 400
	if v := q.Get("points"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 10 && parsed <= 5000 {
			points = parsed
		}
	}

	out, err := s.prj.ConvertTrajectory(tgt, t0par, in, conv)
	if err != nil {
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}

	epochs := frames.SampleEpochs(in.T0, in.TE, span, points)
	trackIn, err := frames.SourceTrack(in, conv.MuRelIn, conv.CoordIn, epochs)
	if err != nil {
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	trackOut, err := frames.SourceTrack(out, conv.MuRelOut, conv.CoordOut, epochs)
	if err != nil {
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}

	// The Einstein ring fixes the minimum extent; widen to fit the tracks.
	maxAbs := 1.0
	inPts := make([]opts.ScatterData, 0, len(trackIn))
	for _, p := range trackIn {
		if math.Abs(p.East) > maxAbs {
			maxAbs = math.Abs(p.East)
		}
		if math.Abs(p.North) > maxAbs {
			maxAbs = math.Abs(p.North)
		}
		inPts = append(inPts, opts.ScatterData{Value: []interface{}{p.East, p.North}})
	}
	outPts := make([]opts.ScatterData, 0, len(trackOut))
	for _, p := range trackOut {
		if math.Abs(p.East) > maxAbs {
			maxAbs = math.Abs(p.East)
		}
		if math.Abs(p.North) > maxAbs {
			maxAbs = math.Abs(p.North)
		}
		outPts = append(outPts, opts.ScatterData{Value: []interface{}{p.East, p.North}})
	}
	ringPts := make([]opts.ScatterData, 0, 180)
	for i := 0; i < 180; i++ {
		th := 2 * math.Pi * float64(i) / 180
		ringPts = append(ringPts, opts.ScatterData{Value: []interface{}{math.Cos(th), math.Sin(th)}})
	}

	pad := maxAbs * 1.05

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Microlensing Trajectory", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Source Track Relative to Lens",
			Subtitle: fmt.Sprintf("target=%s from=%s to=%s t0par=%g", tgt, conv.Frame, conv.Frame.Other(), t0par),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "East (Einstein radii)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "North (Einstein radii)", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("einstein ring", ringPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))
	scatter.AddSeries(string(conv.Frame), inPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))
	scatter.AddSeries(string(conv.Frame.Other()), outPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#40c4ff"}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
