package convert

import (
	"testing"

	"github.com/microlens-data/ulens/internal/adapters"
	"github.com/stretchr/testify/require"
)

func sourcePayload() adapters.Payload {
	return adapters.Payload{
		"scalars": map[string]any{
			"t0":      60005.5,
			"tE":      28.0,
			"u0_amp":  0.1,
			"u0_sign": -1.0,
			"piEE":    0.12,
			"piEN":    -0.08,
		},
		"meta": map[string]any{"origin": "lens1@t0"},
	}
}

func TestNewUnknownSource(t *testing.T) {
	_, err := New("pylima", sourcePayload(), "earth", nil)
	require.ErrorIs(t, err, adapters.ErrUnknownPackage)
}

func TestNewLoadsModel(t *testing.T) {
	c, err := New("bagle", sourcePayload(), "earth", []float64{60000})
	require.NoError(t, err)
	require.Equal(t, "bagle", c.Source())
	require.Equal(t, 60005.5, c.Model().T0())
	require.Equal(t, "earth", c.Model().Meta["observer"])
}

func TestToPackageMemoizes(t *testing.T) {
	c, err := New("bagle", sourcePayload(), "earth", nil)
	require.NoError(t, err)

	h1, err := c.ToPackage("gulls", "earth", "solar_barycenter")
	require.NoError(t, err)
	h2, err := c.ToPackage("gulls", "earth", "solar_barycenter")
	require.NoError(t, err)
	require.Same(t, h1, h2, "repeat lookups reuse the cached handle")

	h3, err := c.ToPackage("gulls", "earth", "lens1@t0")
	require.NoError(t, err)
	require.NotSame(t, h1, h3, "a different origin is a different handle")

	require.Same(t, c.Model(), h1.Model, "handles share the canonical model")
}

func TestSourceHandleIsOriginalPayload(t *testing.T) {
	c, err := New("bagle", sourcePayload(), "earth", nil)
	require.NoError(t, err)

	// The loaded payload is cached under the model's observer/origin; a
	// matching lookup must return it untouched rather than re-dumping
	// (a re-dump would stamp meta["package"]).
	h, err := c.ToPackage("bagle", "earth", "lens1@t0")
	require.NoError(t, err)
	meta, ok := h.Params["meta"].(map[string]any)
	require.True(t, ok)
	_, stamped := meta["package"]
	require.False(t, stamped, "source handle should carry the caller's original payload")
}

func TestDumpTargets(t *testing.T) {
	c, err := New("bagle", sourcePayload(), "earth", nil)
	require.NoError(t, err)

	gulls, err := c.Dump("gulls", "earth", "")
	require.NoError(t, err)
	require.Equal(t, "gulls", gulls["meta"].(map[string]any)["package"])

	vbm, err := c.Dump("vbm", "earth", "")
	require.NoError(t, err)
	require.Equal(t, 28.0, vbm["tE"])
	require.Equal(t, "lens1@t0", vbm["origin"])

	_, err = c.Dump("mulensmodel", "roman_l2", "")
	require.ErrorIs(t, err, adapters.ErrUnsupportedObserver)
}
