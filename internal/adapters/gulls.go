package adapters

import "github.com/microlens-data/ulens/internal/model"

// Gulls maps GULLS simulation payloads. Scalars and bookkeeping metadata
// round trip; series and frame configs are not part of the GULLS format.
type Gulls struct{}

func init() { Register(Gulls{}) }

func (Gulls) Package() string     { return "gulls" }
func (Gulls) Observers() []string { return []string{"earth", "roman_l2"} }
func (Gulls) Origins() []string   { return []string{"lens1@t0", "solar_barycenter"} }

func (g Gulls) Load(params Payload, observer string, epochs []float64) (*model.Model, error) {
	if err := ensureObserver(g, observer); err != nil {
		return nil, err
	}
	return buildModel(g.Package(), params, observer, epochs)
}

func (g Gulls) Dump(m *model.Model, observer, origin string) (Payload, error) {
	if err := ensureObserver(g, observer); err != nil {
		return nil, err
	}
	if err := ensureOrigin(g, origin); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = metaString(m.Meta, "origin")
	}
	scalars := make(map[string]float64, len(m.Scalars))
	for k, v := range m.Scalars {
		scalars[k] = v
	}
	return Payload{
		"scalars": scalars,
		"meta": map[string]any{
			"observer": observer,
			"origin":   origin,
			"package":  g.Package(),
		},
	}, nil
}
