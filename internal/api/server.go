// Package api exposes the frame conversions, the package adapters, and the
// event catalog over HTTP JSON.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/microlens-data/ulens/internal/adapters"
	"github.com/microlens-data/ulens/internal/catalog"
	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/httputil"
	"github.com/microlens-data/ulens/internal/metrics"
	"github.com/microlens-data/ulens/internal/model"
	"github.com/microlens-data/ulens/internal/monitoring"
)

// ANSI escape codes for the request log
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server answers the HTTP API. The projector does the sky geometry; the
// catalog is optional and gates the /api/events routes and conversion
// recording.
type Server struct {
	prj *frames.Projector
	cat *catalog.Catalog
}

func NewServer(prj *frames.Projector, cat *catalog.Catalog) *Server {
	if prj == nil {
		prj = frames.NewProjector(nil)
	}
	return &Server{
		prj: prj,
		cat: cat,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/frames/pie", s.convertPiE)
	mux.HandleFunc("POST /api/frames/trajectory", s.convertTrajectory)
	mux.HandleFunc("POST /api/convert", s.convertPayload)
	mux.HandleFunc("GET /api/events", s.listEvents)
	mux.HandleFunc("GET /api/events/{name}", s.showEvent)
	mux.HandleFunc("GET /api/events/{name}/conversions", s.listConversions)
	mux.HandleFunc("GET /api/charts/trajectory", s.chartTrajectory)
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Handler wraps the mux with request logging and prometheus counters.
func (s *Server) Handler() http.Handler {
	return LoggingMiddleware(metrics.Middleware(s.ServeMux()))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

// statusFor maps a conversion error onto an HTTP status: bad input is the
// caller's fault, unknown names are 404, everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, adapters.ErrUnknownPackage),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, frames.ErrBadFrame),
		errors.Is(err, frames.ErrBadMuRel),
		errors.Is(err, frames.ErrBadBasis),
		errors.Is(err, frames.ErrNotFinite),
		errors.Is(err, frames.ErrBadTE),
		errors.Is(err, frames.ErrZeroPiE),
		errors.Is(err, frames.ErrZeroMuRel),
		errors.Is(err, frames.ErrPolarTarget),
		errors.Is(err, adapters.ErrBadPayload),
		errors.Is(err, adapters.ErrUnsupportedObserver),
		errors.Is(err, adapters.ErrUnsupportedOrigin),
		errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrBadU0Sign),
		errors.Is(err, model.ErrUnknownProjection),
		errors.Is(err, model.ErrMissingMeta):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
