package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartTrajectory(t *testing.T) {
	s := NewServer(testProjector(), nil)

	path := "/api/charts/trajectory?ra=0&dec=0&t0par=60000&t0=60005.5&u0=0.1&tE=32&piEE=0.1&piEN=-0.05&from=helio&points=50"
	w := doJSON(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "einstein ring")
	assert.Contains(t, body, "helio")
	assert.Contains(t, body, "geo")
}

func TestChartTrajectoryBadInput(t *testing.T) {
	s := NewServer(testProjector(), nil)

	tests := []struct {
		name string
		path string
	}{
		{"missing t0", "/api/charts/trajectory?ra=0&dec=0&t0par=60000&u0=0.1&tE=32&piEE=0.1&piEN=-0.05"},
		{"bad ra", "/api/charts/trajectory?ra=xx&dec=0&t0par=60000&t0=60005.5&u0=0.1&tE=32&piEE=0.1&piEN=-0.05"},
		{"bad frame", "/api/charts/trajectory?ra=0&dec=0&t0par=60000&t0=60005.5&u0=0.1&tE=32&piEE=0.1&piEN=-0.05&from=nope"},
		{"zero piE", "/api/charts/trajectory?ra=0&dec=0&t0par=60000&t0=60005.5&u0=0.1&tE=32&piEE=0&piEN=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}
