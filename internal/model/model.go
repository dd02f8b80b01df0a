// Package model holds the canonical representation of a microlensing event
// that every fitting-package adapter loads into and dumps out of. Scalars,
// per-epoch series and frame metadata live here; the conversions themselves
// live in the frames package.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/units"
	"gonum.org/v1/gonum/spatial/r2"
)

// CanonicalScalars are the fields every model must carry.
var CanonicalScalars = []string{"t0", "tE", "u0_amp", "u0_sign"}

// Scalar groups that switch on optional behavior.
var (
	binaryFields   = []string{"sep", "q"}
	parallaxFields = []string{"piEE", "piEN"}
	muFields       = []string{"mu_rel_e", "mu_rel_n"}
)

// Projection names accepted by PiEComponents.
const (
	Geocentric   = "geocentric"
	Heliocentric = "heliocentric"
)

var (
	// ErrMissingFields reports absent canonical scalars.
	ErrMissingFields = errors.New("missing canonical fields")
	// ErrBadU0Sign reports a u0_sign other than +1 or -1.
	ErrBadU0Sign = errors.New("u0_sign must be either +1 or -1")
	// ErrUnknownProjection reports a projection outside
	// {geocentric, heliocentric}.
	ErrUnknownProjection = errors.New("projection must be geocentric or heliocentric")
	// ErrMissingMeta reports metadata needed for a frame conversion that the
	// model does not carry.
	ErrMissingMeta = errors.New("missing conversion metadata")
)

// piETriple is one cached projection of the parallax vector.
type piETriple struct {
	piEE, piEN, tE float64
}

// Model is a canonical microlensing event. Construct with New; the zero
// value fails validation. Safe for concurrent reads; the caches behind
// PiEComponents and the package cache are internally locked.
type Model struct {
	Scalars map[string]float64
	Meta    map[string]any
	Series  map[string]*TimeSeries
	Frames  map[string]FrameConfig

	mu       sync.Mutex
	piECache map[string]piETriple
	pkgCache map[string]map[string]any
}

// New builds a Model from scalars and metadata, validating the canonical
// fields.
func New(scalars map[string]float64, meta map[string]any) (*Model, error) {
	m := &Model{
		Scalars:  make(map[string]float64, len(scalars)),
		Meta:     make(map[string]any, len(meta)),
		Series:   map[string]*TimeSeries{},
		Frames:   map[string]FrameConfig{},
		piECache: map[string]piETriple{},
		pkgCache: map[string]map[string]any{},
	}
	for k, v := range scalars {
		m.Scalars[k] = v
	}
	for k, v := range meta {
		m.Meta[k] = v
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the canonical scalar set.
func (m *Model) Validate() error {
	var missing []string
	for _, f := range CanonicalScalars {
		if _, ok := m.Scalars[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	for _, f := range CanonicalScalars {
		if v := m.Scalars[f]; math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s = %v: %w", f, v, frames.ErrNotFinite)
		}
	}
	if s := m.Scalars["u0_sign"]; s != 1 && s != -1 {
		return fmt.Errorf("%w, got %v", ErrBadU0Sign, s)
	}
	return nil
}

// T0 returns the time of closest approach (MJD).
func (m *Model) T0() float64 { return m.Scalars["t0"] }

// TE returns the Einstein crossing time (days).
func (m *Model) TE() float64 { return m.Scalars["tE"] }

// U0 returns the signed impact parameter in Einstein radii.
func (m *Model) U0() float64 {
	return m.Scalars["u0_amp"] * m.Scalars["u0_sign"]
}

// Family reports PSBL when binary lens parameters are present, PSPL
// otherwise.
func (m *Model) Family() string {
	for _, f := range binaryFields {
		if _, ok := m.Scalars[f]; !ok {
			return "PSPL"
		}
	}
	return "PSBL"
}

// HasParallax reports whether any parallax component is present.
func (m *Model) HasParallax() bool {
	for _, f := range parallaxFields {
		if _, ok := m.Scalars[f]; ok {
			return true
		}
	}
	return false
}

// HasAstrometry reports whether a full relative proper motion vector is
// present.
func (m *Model) HasAstrometry() bool {
	for _, f := range muFields {
		if _, ok := m.Scalars[f]; !ok {
			return false
		}
	}
	return true
}

// PiEVector returns the parallax vector as (E, N). ok is false when the
// model carries no parallax at all; a missing component reads as zero.
func (m *Model) PiEVector() (vec r2.Vec, ok bool) {
	if !m.HasParallax() {
		return r2.Vec{}, false
	}
	return r2.Vec{X: m.Scalars["piEE"], Y: m.Scalars["piEN"]}, true
}

// MuRelVector returns the relative proper motion vector as (E, N) in
// mas/yr.
func (m *Model) MuRelVector() (vec r2.Vec, ok bool) {
	if !m.HasAstrometry() {
		return r2.Vec{}, false
	}
	return r2.Vec{X: m.Scalars["mu_rel_e"], Y: m.Scalars["mu_rel_n"]}, true
}

// ThetaEMas returns the Einstein radius in mas when known.
func (m *Model) ThetaEMas() (float64, bool) {
	v, ok := m.Scalars["thetaE"]
	return v, ok
}

// Epochs returns the canonical epoch array: the "epochs" metadata when
// present, otherwise the epochs of the alphabetically first series, else
// nil.
func (m *Model) Epochs() []float64 {
	if v, ok := m.Meta["epochs"]; ok {
		if epochs, ok := toFloatSlice(v); ok {
			return epochs
		}
	}
	if len(m.Series) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.Series))
	for name := range m.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return m.Series[names[0]].Epochs
}

// PiEComponents returns (piEE, piEN, tE) in the requested projection.
// Geocentric values are the stored scalars. Heliocentric values are derived
// once through prj using the raL/decL/t0_par metadata and then memoized; a
// nil prj selects the default ephemeris.
func (m *Model) PiEComponents(projection string, prj *frames.Projector) (piEE, piEN, tE float64, err error) {
	projection = strings.ToLower(strings.TrimSpace(projection))
	if projection != Geocentric && projection != Heliocentric {
		return 0, 0, 0, fmt.Errorf("%w, got %q", ErrUnknownProjection, projection)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.piECache[projection]; ok {
		return c.piEE, c.piEN, c.tE, nil
	}

	var out piETriple
	if projection == Geocentric {
		out = piETriple{m.Scalars["piEE"], m.Scalars["piEN"], m.Scalars["tE"]}
	} else {
		out, err = m.helioPiE(prj)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	m.piECache[projection] = out
	return out.piEE, out.piEN, out.tE, nil
}

// helioPiE converts the stored geocentric parallax into the heliocentric
// frame. Callers hold m.mu.
func (m *Model) helioPiE(prj *frames.Projector) (piETriple, error) {
	var missing []string
	for _, key := range []string{"raL", "decL", "t0_par"} {
		if _, ok := m.Meta[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return piETriple{}, fmt.Errorf("%w: cannot convert piE without metadata keys: %s",
			ErrMissingMeta, strings.Join(missing, ", "))
	}

	tgt, err := frames.TargetFrom(m.Meta["raL"], m.Meta["decL"])
	if err != nil {
		return piETriple{}, fmt.Errorf("lens coordinates: %w", err)
	}
	t0par, ok := toFloat(m.Meta["t0_par"])
	if !ok {
		return piETriple{}, fmt.Errorf("%w: t0_par %v is not numeric", ErrMissingMeta, m.Meta["t0_par"])
	}

	if prj == nil {
		prj = frames.NewProjector(nil)
	}
	piEE, piEN, tE, err := prj.GeoToHelioPiE(tgt, t0par, m.Scalars["piEE"], m.Scalars["piEN"], m.Scalars["tE"])
	if err != nil {
		return piETriple{}, err
	}
	return piETriple{piEE, piEN, tE}, nil
}

// U0Quantity wraps the signed impact parameter as an Einstein-radius
// quantity, carrying the Einstein radius when the model knows it.
func (m *Model) U0Quantity() units.Quantity {
	q, _ := units.New(m.U0(), units.ThetaE)
	if theta, ok := m.ThetaEMas(); ok {
		q = q.WithThetaE(theta)
	}
	return q
}

// ThetaEQuantity wraps the Einstein radius as a mas quantity.
func (m *Model) ThetaEQuantity() (units.Quantity, error) {
	theta, ok := m.ThetaEMas()
	if !ok {
		return units.Quantity{}, units.ErrNoThetaE
	}
	q, err := units.New(theta, units.Mas)
	if err != nil {
		return units.Quantity{}, err
	}
	return q.WithThetaE(theta), nil
}

// RequireFields ensures the named scalars are populated.
func (m *Model) RequireFields(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := m.Scalars[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required for this operation: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// AddSeries attaches a time series.
func (m *Model) AddSeries(name string, ts *TimeSeries) {
	m.Series[name] = ts
}

// AddFrames attaches frame configs, overwriting on name collisions.
func (m *Model) AddFrames(frames map[string]FrameConfig) {
	for name, cfg := range frames {
		m.Frames[name] = cfg
	}
}

// SeriesMatching returns the named series after checking it lives in the
// requested frame. An all-wildcard selector is rejected so callers cannot
// silently consume data from an unexpected frame.
func (m *Model) SeriesMatching(name string, sel Selector) (*TimeSeries, error) {
	ts, ok := m.Series[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSeries, name)
	}
	if sel.IsZero() {
		return nil, fmt.Errorf("%w: series %q (available frame: %s)", ErrNeedSelector, name, ts.FrameSummary())
	}
	if ts.Matches(sel) {
		return ts, nil
	}
	return nil, fmt.Errorf("%w: series %q does not match the requested frame (%s); available frame: %s",
		ErrFrameMismatch, name, strings.Join(ts.mismatches(sel), ", "), ts.FrameSummary())
}

// CachePackage stores a package's dumped payload for reuse.
func (m *Model) CachePackage(pkg string, payload map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]any, len(payload))
	for k, v := range payload {
		cp[k] = v
	}
	m.pkgCache[pkg] = cp
}

// CachedPackage fetches a previously dumped payload, or nil.
func (m *Model) CachedPackage(pkg string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pkgCache[pkg]
}

// Copy returns a detached copy. Caches are not carried over.
func (m *Model) Copy() *Model {
	cp := &Model{
		Scalars:  make(map[string]float64, len(m.Scalars)),
		Meta:     make(map[string]any, len(m.Meta)),
		Series:   make(map[string]*TimeSeries, len(m.Series)),
		Frames:   make(map[string]FrameConfig, len(m.Frames)),
		piECache: map[string]piETriple{},
		pkgCache: map[string]map[string]any{},
	}
	for k, v := range m.Scalars {
		cp.Scalars[k] = v
	}
	for k, v := range m.Meta {
		cp.Meta[k] = v
	}
	for name, ts := range m.Series {
		cp.Series[name] = ts.Copy()
	}
	for name, cfg := range m.Frames {
		cp.Frames[name] = cfg
	}
	return cp
}

// toFloat coerces the numeric types JSON and YAML decoders produce.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// toFloatSlice coerces epoch arrays from decoded payloads.
func toFloatSlice(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
