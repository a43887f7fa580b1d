// ABOUTME: Tests for the demo metrics HTTP router
// ABOUTME: Serves requests through httptest against a private registry

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arnesfield/ternimal/pkg/ternimal/metrics"
)

func TestMetricsRouter(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	srv := httptest.NewServer(newMetricsRouter(reg))
	t.Cleanup(srv.Close)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{path: "/healthz", status: http.StatusOK, contains: "ok"},
		{path: "/metrics", status: http.StatusOK, contains: "ternimal_queued_writes"},
		{path: "/missing", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), tt.contains)
		})
	}
}
