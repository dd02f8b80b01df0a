// Package adapters translates between external microlensing package
// parameterizations (BAGLE, GULLS, MulensModel, VBMicrolensing) and the
// canonical model. Each adapter registers itself at init time; callers
// resolve them by package name through Get.
package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/microlens-data/ulens/internal/model"
)

// Payload is a package-native parameter tree, shaped like decoded JSON or
// YAML.
type Payload = map[string]any

var (
	// ErrUnknownPackage reports a package name with no registered adapter.
	ErrUnknownPackage = errors.New("no adapter registered for package")
	// ErrUnsupportedObserver reports an observer outside an adapter's
	// supported set.
	ErrUnsupportedObserver = errors.New("unsupported observer")
	// ErrUnsupportedOrigin reports an origin outside an adapter's supported
	// set.
	ErrUnsupportedOrigin = errors.New("unsupported origin")
	// ErrBadPayload reports a payload that does not decode into the
	// adapter's expected shape.
	ErrBadPayload = errors.New("malformed payload")
)

// Adapter maps one package's parameter format onto the canonical model.
type Adapter interface {
	// Package returns the registry name ("bagle", "gulls", ...).
	Package() string
	// Observers lists the observer labels the adapter accepts.
	Observers() []string
	// Origins lists the coordinate origins the adapter accepts.
	Origins() []string
	// Load converts a native payload into a canonical model. epochs, when
	// non-nil, seed the model's epoch metadata.
	Load(params Payload, observer string, epochs []float64) (*model.Model, error)
	// Dump emits the package-native payload for a model. An empty origin
	// falls back to the model's origin metadata.
	Dump(m *model.Model, observer, origin string) (Payload, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Adapter{}
)

// Register adds an adapter under its package name, replacing any previous
// registration.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[a.Package()] = a
}

// Get resolves the adapter for a package name.
func Get(name string) (Adapter, error) {
	registryMu.RLock()
	a, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (known packages: %s)",
			ErrUnknownPackage, name, strings.Join(Packages(), ", "))
	}
	return a, nil
}

// Packages returns the registered package names, sorted.
func Packages() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ensureObserver rejects observers outside the adapter's supported set. An
// adapter with an empty set accepts anything.
func ensureObserver(a Adapter, observer string) error {
	supported := a.Observers()
	if len(supported) == 0 {
		return nil
	}
	for _, s := range supported {
		if s == observer {
			return nil
		}
	}
	return fmt.Errorf("%w: %s adapter does not support observer %q (supported: %s)",
		ErrUnsupportedObserver, a.Package(), observer, strings.Join(supported, ", "))
}

// ensureOrigin rejects non-empty origins outside the adapter's supported
// set; an empty origin always passes so callers can fall back to model
// metadata.
func ensureOrigin(a Adapter, origin string) error {
	if origin == "" {
		return nil
	}
	supported := a.Origins()
	if len(supported) == 0 {
		return nil
	}
	for _, s := range supported {
		if s == origin {
			return nil
		}
	}
	return fmt.Errorf("%w: %s adapter does not support origin %q (supported: %s)",
		ErrUnsupportedOrigin, a.Package(), origin, strings.Join(supported, ", "))
}
