package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/microlens-data/ulens/internal/adapters"
	"github.com/microlens-data/ulens/internal/catalog"
	"github.com/microlens-data/ulens/internal/convert"
	"github.com/microlens-data/ulens/internal/httputil"
	"github.com/microlens-data/ulens/internal/metrics"
)

// convertRequest asks for one adapter payload conversion. Event names the
// catalog entry to record the conversion under; recording is skipped when
// the name is empty or no catalog is attached.
type convertRequest struct {
	Source   string           `json:"source"`
	Target   string           `json:"target"`
	Observer string           `json:"observer"`
	Origin   string           `json:"origin"`
	Epochs   []float64        `json:"epochs"`
	Params   adapters.Payload `json:"params"`
	Event    string           `json:"event"`
}

type convertResponse struct {
	Source       string           `json:"source"`
	Target       string           `json:"target"`
	Observer     string           `json:"observer"`
	Params       adapters.Payload `json:"params"`
	ConversionID string           `json:"conversion_id,omitempty"`
}

func (s *Server) convertPayload(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.Source == "" || req.Target == "" {
		httputil.BadRequest(w, "source and target packages are required")
		return
	}
	if req.Observer == "" {
		req.Observer = "earth"
	}

	conv, err := convert.New(req.Source, req.Params, req.Observer, req.Epochs)
	if err != nil {
		metrics.RecordError("payload")
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	h, err := conv.ToPackage(req.Target, req.Observer, req.Origin)
	if err != nil {
		metrics.RecordError("payload")
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	metrics.RecordConversion("payload", req.Target)

	resp := convertResponse{
		Source:   req.Source,
		Target:   h.Package,
		Observer: req.Observer,
		Params:   h.Params,
	}
	if s.cat != nil && req.Event != "" {
		id, err := s.recordConversion(req, conv, h)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("record conversion: %v", err))
			return
		}
		resp.ConversionID = id
	}
	httputil.WriteJSONOK(w, resp)
}

// recordConversion upserts the event row and appends the conversion to its
// audit trail.
func (s *Server) recordConversion(req convertRequest, conv *convert.Converter, h *convert.Handle) (string, error) {
	meta := conv.Model().Meta
	ev := catalog.Event{
		Name:    req.Event,
		RA:      metaText(meta, "raL"),
		Dec:     metaText(meta, "decL"),
		Payload: req.Params,
	}
	if err := s.cat.SaveEvent(ev); err != nil {
		return "", err
	}
	return s.cat.RecordConversion(catalog.Conversion{
		Event:         req.Event,
		SourcePackage: req.Source,
		TargetPackage: h.Package,
		Observer:      req.Observer,
		Origin:        req.Origin,
		Input:         req.Params,
		Output:        h.Params,
	})
}

// metaText renders a metadata value for a text column; absent keys come
// back empty.
func metaText(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}
	events, err := s.cat.ListEvents()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("list events: %v", err))
		return
	}
	httputil.WriteJSONOK(w, events)
}

func (s *Server) showEvent(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}
	ev, err := s.cat.Event(r.PathValue("name"))
	if err != nil {
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	httputil.WriteJSONOK(w, ev)
}

func (s *Server) listConversions(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}
	name := r.PathValue("name")
	if _, err := s.cat.Event(name); err != nil {
		httputil.WriteJSONError(w, statusFor(err), err.Error())
		return
	}
	recs, err := s.cat.Conversions(name)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("list conversions: %v", err))
		return
	}
	httputil.WriteJSONOK(w, recs)
}
