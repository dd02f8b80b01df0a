package adapters

import (
	"fmt"

	"github.com/microlens-data/ulens/internal/model"
)

// buildModel normalizes the common payload layout (scalars/meta/series/
// frames subtrees) into a canonical model. A "native" frame config is
// synthesized from the metadata when the payload does not carry one.
func buildModel(pkg string, params Payload, observer string, epochs []float64) (*model.Model, error) {
	scalars, err := scalarMap(params["scalars"])
	if err != nil {
		return nil, err
	}
	meta := metaFrom(params)
	applyMetaDefaults(meta, pkg, observer, epochs)

	m, err := model.New(scalars, meta)
	if err != nil {
		return nil, err
	}
	if err := attachSeries(m, params["series"]); err != nil {
		return nil, err
	}

	frames, err := decodeFrameMap(params["frames"])
	if err != nil {
		return nil, err
	}
	if _, ok := frames["native"]; !ok {
		frames["native"] = model.FrameConfig{
			Observer:   observer,
			Origin:     metaString(meta, "origin"),
			Rest:       metaString(meta, "rest"),
			Coords:     metaString(meta, "coords"),
			Projection: metaString(meta, "projection"),
		}
	}
	m.AddFrames(frames)
	return m, nil
}

// applyMetaDefaults fills the bookkeeping keys every loaded model carries
// without clobbering caller-supplied values.
func applyMetaDefaults(meta map[string]any, pkg, observer string, epochs []float64) {
	if epochs != nil {
		if _, ok := meta["epochs"]; !ok {
			meta["epochs"] = epochs
		}
	}
	if _, ok := meta["observer"]; !ok {
		meta["observer"] = observer
	}
	if _, ok := meta["package"]; !ok {
		meta["package"] = pkg
	}
}

// attachSeries decodes the payload's series subtree onto the model.
func attachSeries(m *model.Model, v any) error {
	if v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: series must be an object, got %T", ErrBadPayload, v)
	}
	for name, def := range obj {
		ts, err := decodeSeries(def)
		if err != nil {
			return fmt.Errorf("series %q: %w", name, err)
		}
		m.AddSeries(name, ts)
	}
	return nil
}

// metaFrom copies the payload's meta subtree, tolerating its absence.
func metaFrom(params Payload) map[string]any {
	meta := map[string]any{}
	if v, ok := params["meta"]; ok {
		if obj, ok := v.(map[string]any); ok {
			for k, val := range obj {
				meta[k] = val
			}
		}
	}
	return meta
}

// metaString fetches a string metadata value, returning "" for absent or
// non-string entries.
func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// scalarMap coerces a scalars subtree into float64 values. JSON decodes
// numbers as float64; YAML may hand back ints.
func scalarMap(v any) (map[string]float64, error) {
	switch x := v.(type) {
	case nil:
		return map[string]float64{}, nil
	case map[string]float64:
		out := make(map[string]float64, len(x))
		for k, f := range x {
			out[k] = f
		}
		return out, nil
	case map[string]any:
		out := make(map[string]float64, len(x))
		for k, raw := range x {
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("%w: scalar %q has non-numeric value %v", ErrBadPayload, k, raw)
			}
			out[k] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: scalars must be an object, got %T", ErrBadPayload, v)
}

// decodeSeries turns a payload series definition into a TimeSeries.
// Already-typed values pass through untouched.
func decodeSeries(v any) (*model.TimeSeries, error) {
	if ts, ok := v.(*model.TimeSeries); ok {
		return ts, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: series definitions must be objects, got %T", ErrBadPayload, v)
	}
	epochs, ok := floatSlice(obj["epochs"])
	if !ok {
		return nil, fmt.Errorf("%w: series is missing a numeric epochs array", ErrBadPayload)
	}
	values, err := floatRows(obj["values"])
	if err != nil {
		return nil, err
	}
	ts, err := model.NewTimeSeries(epochs, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	ts.Coords = stringAt(obj, "coords")
	ts.Observer = stringAt(obj, "observer")
	ts.Origin = stringAt(obj, "origin")
	ts.Rest = stringAt(obj, "rest")
	ts.Projection = stringAt(obj, "projection")
	if meta, ok := obj["meta"].(map[string]any); ok {
		for k, val := range meta {
			ts.Meta[k] = val
		}
	}
	return ts, nil
}

// encodeSeries emits the payload form of a series with detached storage.
func encodeSeries(ts *model.TimeSeries) map[string]any {
	values := make([][]float64, len(ts.Values))
	for i, row := range ts.Values {
		values[i] = append([]float64(nil), row...)
	}
	meta := make(map[string]any, len(ts.Meta))
	for k, v := range ts.Meta {
		meta[k] = v
	}
	return map[string]any{
		"epochs":     append([]float64(nil), ts.Epochs...),
		"values":     values,
		"coords":     ts.Coords,
		"observer":   ts.Observer,
		"origin":     ts.Origin,
		"rest":       ts.Rest,
		"projection": ts.Projection,
		"meta":       meta,
	}
}

// decodeFrameMap turns a payload frames subtree into FrameConfig entries.
func decodeFrameMap(v any) (map[string]model.FrameConfig, error) {
	out := map[string]model.FrameConfig{}
	if v == nil {
		return out, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: frames must be an object, got %T", ErrBadPayload, v)
	}
	for name, def := range obj {
		cfg, err := decodeFrame(def)
		if err != nil {
			return nil, fmt.Errorf("frame %q: %w", name, err)
		}
		out[name] = cfg
	}
	return out, nil
}

func decodeFrame(v any) (model.FrameConfig, error) {
	switch x := v.(type) {
	case model.FrameConfig:
		return x, nil
	case map[string]any:
		return model.FrameConfig{
			Observer:   stringAt(x, "observer"),
			Origin:     stringAt(x, "origin"),
			Rest:       stringAt(x, "rest"),
			Coords:     stringAt(x, "coords"),
			Projection: stringAt(x, "projection"),
		}, nil
	}
	return model.FrameConfig{}, fmt.Errorf("%w: frame definitions must be objects, got %T", ErrBadPayload, v)
}

func encodeFrame(cfg model.FrameConfig) map[string]any {
	return map[string]any{
		"observer":   cfg.Observer,
		"origin":     cfg.Origin,
		"rest":       cfg.Rest,
		"coords":     cfg.Coords,
		"projection": cfg.Projection,
	}
}

func stringAt(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

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

// floatSlice coerces decoded epoch arrays.
func floatSlice(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return append([]float64(nil), x...), true
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

// floatRows coerces decoded per-epoch value rows.
func floatRows(v any) ([][]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: series is missing a values array", ErrBadPayload)
	case [][]float64:
		out := make([][]float64, len(x))
		for i, row := range x {
			out[i] = append([]float64(nil), row...)
		}
		return out, nil
	case []any:
		out := make([][]float64, len(x))
		for i, raw := range x {
			row, ok := floatSlice(raw)
			if !ok {
				return nil, fmt.Errorf("%w: series values row %d is not numeric", ErrBadPayload, i)
			}
			out[i] = row
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: series values must be an array of rows, got %T", ErrBadPayload, v)
}
