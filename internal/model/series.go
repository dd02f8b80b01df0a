package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSeries reports a series name absent from the model.
	ErrNoSeries = errors.New("series not present on the model")
	// ErrNeedSelector reports a series lookup with no frame constraints at
	// all; callers must say which frame they expect.
	ErrNeedSelector = errors.New("series lookup requires explicit frame metadata")
	// ErrFrameMismatch reports a series whose stored frame differs from the
	// requested one.
	ErrFrameMismatch = errors.New("series frame mismatch")
)

// FrameConfig describes the reference frame an observable is expressed in.
// Observer is required; the remaining fields are optional refinements.
type FrameConfig struct {
	Observer   string `json:"observer"`
	Origin     string `json:"origin,omitempty"`
	Rest       string `json:"rest,omitempty"`
	Coords     string `json:"coords,omitempty"`
	Projection string `json:"projection,omitempty"`
}

// Key returns a stable identifier for map lookups and comparisons.
func (f FrameConfig) Key() string {
	return strings.Join([]string{f.Observer, f.Origin, f.Rest, f.Coords, f.Projection}, "|")
}

// Selector picks out a frame when fetching series. Empty fields are
// wildcards; a zero Selector matches nothing by policy (see
// Model.SeriesMatching).
type Selector struct {
	Observer   string
	Origin     string
	Rest       string
	Coords     string
	Projection string
}

// IsZero reports whether no constraint is set.
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// TimeSeries is a set of per-epoch values annotated with the frame they are
// measured in. Values holds one row per epoch; rows may carry any number of
// columns (e.g. two for an on-sky track).
type TimeSeries struct {
	Epochs []float64   `json:"epochs"`
	Values [][]float64 `json:"values"`

	Coords     string `json:"coords,omitempty"`
	Observer   string `json:"observer,omitempty"`
	Origin     string `json:"origin,omitempty"`
	Rest       string `json:"rest,omitempty"`
	Projection string `json:"projection,omitempty"`

	Meta map[string]any `json:"meta,omitempty"`
}

// NewTimeSeries validates the epoch/value shapes and returns the series.
func NewTimeSeries(epochs []float64, values [][]float64) (*TimeSeries, error) {
	if len(values) != len(epochs) {
		return nil, fmt.Errorf("values have %d rows for %d epochs", len(values), len(epochs))
	}
	return &TimeSeries{Epochs: epochs, Values: values, Meta: map[string]any{}}, nil
}

// Matches reports whether the stored frame metadata satisfies every
// non-empty field of the selector.
func (ts *TimeSeries) Matches(sel Selector) bool {
	eq := func(current, expected string) bool {
		return expected == "" || current == expected
	}
	return eq(ts.Observer, sel.Observer) &&
		eq(ts.Origin, sel.Origin) &&
		eq(ts.Rest, sel.Rest) &&
		eq(ts.Coords, sel.Coords) &&
		eq(ts.Projection, sel.Projection)
}

// FrameSummary renders the stored frame metadata for error messages.
func (ts *TimeSeries) FrameSummary() string {
	return fmt.Sprintf("observer=%s, origin=%s, rest=%s, coords=%s, projection=%s",
		orNone(ts.Observer), orNone(ts.Origin), orNone(ts.Rest), orNone(ts.Coords), orNone(ts.Projection))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// mismatches lists the selector fields the stored metadata fails.
func (ts *TimeSeries) mismatches(sel Selector) []string {
	var out []string
	add := func(name, current, expected string) {
		if expected != "" && current != expected {
			out = append(out, fmt.Sprintf("%s=%q (stored %q)", name, expected, current))
		}
	}
	add("observer", ts.Observer, sel.Observer)
	add("origin", ts.Origin, sel.Origin)
	add("rest", ts.Rest, sel.Rest)
	add("coords", ts.Coords, sel.Coords)
	add("projection", ts.Projection, sel.Projection)
	return out
}

// Copy returns a detached copy of the series.
func (ts *TimeSeries) Copy() *TimeSeries {
	cp := *ts
	cp.Epochs = append([]float64(nil), ts.Epochs...)
	cp.Values = make([][]float64, len(ts.Values))
	for i, row := range ts.Values {
		cp.Values[i] = append([]float64(nil), row...)
	}
	cp.Meta = make(map[string]any, len(ts.Meta))
	for k, v := range ts.Meta {
		cp.Meta[k] = v
	}
	return &cp
}
