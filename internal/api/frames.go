package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/httputil"
	"github.com/microlens-data/ulens/internal/metrics"
)

// pieRequest carries one parallax vector and the frame it lives in. RA and
// Dec accept decimal degrees or sexagesimal strings, so they decode as any.
type pieRequest struct {
	RA    any     `json:"ra"`
	Dec   any     `json:"dec"`
	T0Par float64 `json:"t0par"`
	PiEE  float64 `json:"piEE"`
	PiEN  float64 `json:"piEN"`
	TE    float64 `json:"tE"`
	From  string  `json:"from"`
}

type pieResponse struct {
	From frames.Frame `json:"from"`
	To   frames.Frame `json:"to"`
	PiEE float64      `json:"piEE"`
	PiEN float64      `json:"piEN"`
	TE   float64      `json:"tE"`
}

func (s *Server) convertPiE(w http.ResponseWriter, r *http.Request) {
	var req pieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("decode request: %v", err))
		return
	}

	tgt, err := frames.TargetFrom(req.RA, req.Dec)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	from := frames.Helio
	if req.From != "" {
		if from, err = frames.ParseFrame(req.From); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}

	piEE, piEN, tE, err := s.prj.ConvertPiETE(tgt, req.T0Par, req.PiEE, req.PiEN, req.TE, from)
	if err != nil {
		metrics.RecordError("pie")
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	metrics.RecordConversion("pie", string(from.Other()))

	httputil.WriteJSONOK(w, pieResponse{
		From: from,
		To:   from.Other(),
		PiEE: piEE,
		PiEN: piEN,
		TE:   tE,
	})
}

// trajectoryRequest carries a full parameter set plus the sign conventions
// on both sides. Conventions left empty fall back to heliocentric SL/EN
// inputs converted to LS/tb outputs.
type trajectoryRequest struct {
	RA    any     `json:"ra"`
	Dec   any     `json:"dec"`
	T0Par float64 `json:"t0par"`
	frames.Params
	From     string `json:"from"`
	MuRelIn  string `json:"murel_in"`
	MuRelOut string `json:"murel_out"`
	CoordIn  string `json:"coord_in"`
	CoordOut string `json:"coord_out"`
}

type trajectoryResponse struct {
	From   frames.Frame  `json:"from"`
	To     frames.Frame  `json:"to"`
	Input  frames.Params `json:"input"`
	Output frames.Params `json:"output"`
}

// conventions overlays the request's convention fields on the defaults.
func (req *trajectoryRequest) conventions() (frames.Conventions, error) {
	conv := frames.DefaultConventions()
	var err error
	if req.From != "" {
		if conv.Frame, err = frames.ParseFrame(req.From); err != nil {
			return conv, err
		}
	}
	if req.MuRelIn != "" {
		if conv.MuRelIn, err = frames.ParseMuRel(req.MuRelIn); err != nil {
			return conv, err
		}
	}
	if req.MuRelOut != "" {
		if conv.MuRelOut, err = frames.ParseMuRel(req.MuRelOut); err != nil {
			return conv, err
		}
	}
	if req.CoordIn != "" {
		if conv.CoordIn, err = frames.ParseBasis(req.CoordIn); err != nil {
			return conv, err
		}
	}
	if req.CoordOut != "" {
		if conv.CoordOut, err = frames.ParseBasis(req.CoordOut); err != nil {
			return conv, err
		}
	}
	return conv, nil
}

func (s *Server) convertTrajectory(w http.ResponseWriter, r *http.Request) {
	var req trajectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("decode request: %v", err))
		return
	}

	tgt, err := frames.TargetFrom(req.RA, req.Dec)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	conv, err := req.conventions()
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	out, err := s.prj.ConvertTrajectory(tgt, req.T0Par, req.Params, conv)
	if err != nil {
		metrics.RecordError("trajectory")
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	metrics.RecordConversion("trajectory", string(conv.Frame.Other()))

	httputil.WriteJSONOK(w, trajectoryResponse{
		From:   conv.Frame,
		To:     conv.Frame.Other(),
		Input:  req.Params,
		Output: out,
	})
}
