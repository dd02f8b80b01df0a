package adapters

import "github.com/microlens-data/ulens/internal/model"

// MulensModel maps MulensModel payloads. Ground-based only: the package
// models Earth observers exclusively.
type MulensModel struct{}

func init() { Register(MulensModel{}) }

func (MulensModel) Package() string     { return "mulensmodel" }
func (MulensModel) Observers() []string { return []string{"earth"} }
func (MulensModel) Origins() []string   { return []string{"lens1@t0"} }

func (a MulensModel) Load(params Payload, observer string, epochs []float64) (*model.Model, error) {
	if err := ensureObserver(a, observer); err != nil {
		return nil, err
	}
	return buildModel(a.Package(), params, observer, epochs)
}

func (a MulensModel) Dump(m *model.Model, observer, origin string) (Payload, error) {
	if err := ensureObserver(a, observer); err != nil {
		return nil, err
	}
	if err := ensureOrigin(a, origin); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = metaString(m.Meta, "origin")
	}
	if origin == "" {
		origin = "lens1@t0"
	}
	scalars := make(map[string]float64, len(m.Scalars))
	for k, v := range m.Scalars {
		scalars[k] = v
	}
	return Payload{
		"meta": map[string]any{
			"package":  a.Package(),
			"observer": observer,
			"origin":   origin,
		},
		"scalars": scalars,
	}, nil
}
