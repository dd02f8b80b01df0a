// Package convert coordinates the package adapters around one canonical
// model: load a payload once, dump it into any number of target packages,
// memoizing each dump per (package, observer, origin).
package convert

import (
	"sync"

	"github.com/microlens-data/ulens/internal/adapters"
	"github.com/microlens-data/ulens/internal/model"
	"github.com/microlens-data/ulens/internal/monitoring"
)

// Handle pairs a package-native payload with the canonical model it came
// from.
type Handle struct {
	Package string
	Params  adapters.Payload
	Model   *model.Model
}

type handleKey struct {
	pkg      string
	observer string
	origin   string
}

// Converter owns a canonical model loaded from one source package and
// caches every dump derived from it. Safe for concurrent use.
type Converter struct {
	model  *model.Model
	source string

	mu      sync.Mutex
	handles map[handleKey]*Handle
}

// New loads params through the source package's adapter and seeds the
// handle cache with the original payload.
func New(source string, params adapters.Payload, observer string, epochs []float64) (*Converter, error) {
	a, err := adapters.Get(source)
	if err != nil {
		return nil, err
	}
	m, err := a.Load(params, observer, epochs)
	if err != nil {
		return nil, err
	}

	c := &Converter{
		model:   m,
		source:  source,
		handles: map[handleKey]*Handle{},
	}
	orig := make(adapters.Payload, len(params))
	for k, v := range params {
		orig[k] = v
	}
	key := handleKey{source, metaString(m.Meta, "observer"), metaString(m.Meta, "origin")}
	c.handles[key] = &Handle{Package: source, Params: orig, Model: m}
	return c, nil
}

// Model returns the shared canonical model.
func (c *Converter) Model() *model.Model { return c.model }

// Source returns the package the converter was loaded from.
func (c *Converter) Source() string { return c.source }

// ToPackage dumps the model into the requested package format, reusing a
// cached handle when one exists for the same observer and origin.
func (c *Converter) ToPackage(pkg, observer, origin string) (*Handle, error) {
	key := handleKey{pkg, observer, origin}

	c.mu.Lock()
	if h, ok := c.handles[key]; ok {
		c.mu.Unlock()
		monitoring.Debugf("reusing cached %s payload (observer=%s origin=%s)", pkg, observer, origin)
		return h, nil
	}
	c.mu.Unlock()

	a, err := adapters.Get(pkg)
	if err != nil {
		return nil, err
	}
	params, err := a.Dump(c.model, observer, origin)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("dumped %s model into %s format", c.source, pkg)

	h := &Handle{Package: pkg, Params: params, Model: c.model}
	c.mu.Lock()
	c.handles[key] = h
	c.mu.Unlock()
	return h, nil
}

// Dump returns just the package-native payload.
func (c *Converter) Dump(pkg, observer, origin string) (adapters.Payload, error) {
	h, err := c.ToPackage(pkg, observer, origin)
	if err != nil {
		return nil, err
	}
	return h.Params, nil
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}
