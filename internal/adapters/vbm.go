package adapters

import "github.com/microlens-data/ulens/internal/model"

// VBM maps VBMicrolensing payloads, which are flat scalar maps rather than
// nested trees. Dump echoes the canonical scalars plus an "origin" entry;
// Load accepts both the flat form and the common nested layout.
type VBM struct{}

func init() { Register(VBM{}) }

func (VBM) Package() string     { return "vbm" }
func (VBM) Observers() []string { return []string{"earth", "roman_l2"} }
func (VBM) Origins() []string   { return []string{"lens1@t0"} }

func (v VBM) Load(params Payload, observer string, epochs []float64) (*model.Model, error) {
	if err := ensureObserver(v, observer); err != nil {
		return nil, err
	}
	if _, ok := params["scalars"]; !ok {
		params = vbmNest(params)
	}
	return buildModel(v.Package(), params, observer, epochs)
}

// vbmNest rewraps the flat payload Dump produces so it loads like any
// other: numeric entries become scalars, everything else metadata.
func vbmNest(flat Payload) Payload {
	scalars := map[string]any{}
	meta := map[string]any{}
	for k, raw := range flat {
		if f, ok := toFloat(raw); ok {
			scalars[k] = f
			continue
		}
		meta[k] = raw
	}
	return Payload{"scalars": scalars, "meta": meta}
}

func (v VBM) Dump(m *model.Model, observer, origin string) (Payload, error) {
	if err := ensureObserver(v, observer); err != nil {
		return nil, err
	}
	if err := ensureOrigin(v, origin); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = metaString(m.Meta, "origin")
	}
	out := make(Payload, len(m.Scalars)+1)
	for k, val := range m.Scalars {
		out[k] = val
	}
	if _, ok := out["origin"]; !ok {
		out["origin"] = origin
	}
	return out, nil
}
