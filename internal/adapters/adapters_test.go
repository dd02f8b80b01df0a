package adapters

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	want := []string{"bagle", "gulls", "mulensmodel", "vbm"}
	require.Equal(t, want, Packages(), "self-registered adapters, sorted")

	for _, name := range want {
		a, err := Get(name)
		require.NoError(t, err)
		require.Equal(t, name, a.Package())
	}

	_, err := Get("pylima")
	require.ErrorIs(t, err, ErrUnknownPackage)
	for _, name := range want {
		require.Contains(t, err.Error(), name, "unknown-package error lists the registry")
	}
}

func TestEnsureObserver(t *testing.T) {
	tests := []struct {
		adapter  Adapter
		observer string
		ok       bool
	}{
		{Bagle{}, "earth", true},
		{Bagle{}, "roman_l2", true},
		{Bagle{}, "gaia", false},
		{MulensModel{}, "earth", true},
		{MulensModel{}, "roman_l2", false},
	}
	for _, tt := range tests {
		err := ensureObserver(tt.adapter, tt.observer)
		if tt.ok {
			require.NoError(t, err, "%s/%s", tt.adapter.Package(), tt.observer)
			continue
		}
		require.ErrorIs(t, err, ErrUnsupportedObserver)
		require.Contains(t, err.Error(), tt.adapter.Package())
		require.Contains(t, err.Error(), tt.observer)
		require.Contains(t, err.Error(), strings.Join(tt.adapter.Observers(), ", "))
	}
}

func TestEnsureOrigin(t *testing.T) {
	require.NoError(t, ensureOrigin(Gulls{}, ""), "empty origin defers to metadata")
	require.NoError(t, ensureOrigin(Gulls{}, "solar_barycenter"))

	err := ensureOrigin(Gulls{}, "lens2@t0")
	require.ErrorIs(t, err, ErrUnsupportedOrigin)
	require.Contains(t, err.Error(), "lens1@t0, solar_barycenter")
}

func TestScalarMapCoercion(t *testing.T) {
	got, err := scalarMap(map[string]any{"t0": 60000, "tE": 28.5})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"t0": 60000, "tE": 28.5}, got)

	_, err = scalarMap(map[string]any{"t0": "soon"})
	require.ErrorIs(t, err, ErrBadPayload)

	_, err = scalarMap([]any{1, 2})
	require.ErrorIs(t, err, ErrBadPayload)

	got, err = scalarMap(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeSeriesErrors(t *testing.T) {
	tests := []struct {
		name string
		def  any
	}{
		{"not an object", []any{1.0}},
		{"missing epochs", map[string]any{"values": []any{}}},
		{"missing values", map[string]any{"epochs": []any{1.0}}},
		{"non-numeric row", map[string]any{"epochs": []any{1.0}, "values": []any{"x"}}},
		{"shape mismatch", map[string]any{"epochs": []any{1.0, 2.0}, "values": []any{[]any{1.0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSeries(tt.def)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrBadPayload), "err = %v", err)
		})
	}
}
