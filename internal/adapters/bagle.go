package adapters

import (
	"fmt"
	"strings"

	"github.com/microlens-data/ulens/internal/model"
)

// Bagle treats BAGLE payloads as the canonical representation: scalars,
// metadata, series and frame configs all round trip.
type Bagle struct{}

func init() { Register(Bagle{}) }

// bagleRequired mirrors the canonical scalar set; BAGLE payloads must
// carry all of them.
var bagleRequired = []string{"t0", "tE", "u0_amp", "u0_sign"}

func (Bagle) Package() string     { return "bagle" }
func (Bagle) Observers() []string { return []string{"earth", "roman_l2"} }
func (Bagle) Origins() []string   { return []string{"lens1@t0", "barycenter"} }

// Load builds a canonical model from a BAGLE payload. Scalars may live
// under a "scalars" key or, failing that, flat at the top level.
func (b Bagle) Load(params Payload, observer string, epochs []float64) (*model.Model, error) {
	if err := ensureObserver(b, observer); err != nil {
		return nil, err
	}
	scalars, err := bagleScalars(params)
	if err != nil {
		return nil, err
	}
	meta := metaFrom(params)
	applyMetaDefaults(meta, b.Package(), observer, epochs)

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
	m.AddFrames(frames)

	m.CachePackage(b.Package(), b.serialize(m, observer, metaString(meta, "origin")))
	return m, nil
}

// Dump serializes the full model. An empty origin falls back to the
// model's origin metadata before validation.
func (b Bagle) Dump(m *model.Model, observer, origin string) (Payload, error) {
	if err := ensureObserver(b, observer); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = metaString(m.Meta, "origin")
	}
	if err := ensureOrigin(b, origin); err != nil {
		return nil, err
	}
	payload := b.serialize(m, observer, origin)
	m.CachePackage(b.Package(), payload)
	return payload, nil
}

func (b Bagle) serialize(m *model.Model, observer, origin string) Payload {
	scalars := make(map[string]float64, len(m.Scalars))
	for k, v := range m.Scalars {
		scalars[k] = v
	}
	meta := make(map[string]any, len(m.Meta)+3)
	for k, v := range m.Meta {
		meta[k] = v
	}
	meta["observer"] = observer
	meta["origin"] = origin
	meta["package"] = b.Package()

	payload := Payload{"scalars": scalars, "meta": meta}
	if len(m.Series) > 0 {
		series := make(map[string]any, len(m.Series))
		for name, ts := range m.Series {
			series[name] = encodeSeries(ts)
		}
		payload["series"] = series
	}
	if len(m.Frames) > 0 {
		frames := make(map[string]any, len(m.Frames))
		for name, cfg := range m.Frames {
			frames[name] = encodeFrame(cfg)
		}
		payload["frames"] = frames
	}
	return payload
}

// bagleScalars extracts the scalar block, falling back to top-level keys
// when no "scalars" subtree exists.
func bagleScalars(params Payload) (map[string]float64, error) {
	scalars, err := scalarMap(params["scalars"])
	if err != nil {
		return nil, err
	}
	if len(scalars) == 0 {
		for _, key := range bagleRequired {
			raw, ok := params[key]
			if !ok {
				continue
			}
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("%w: scalar %q has non-numeric value %v", ErrBadPayload, key, raw)
			}
			scalars[key] = f
		}
	}
	var missing []string
	for _, key := range bagleRequired {
		if _, ok := scalars[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: BAGLE payload missing required scalars: %s",
			ErrBadPayload, strings.Join(missing, ", "))
	}
	return scalars, nil
}
