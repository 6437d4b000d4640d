package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/salt-sweep/internal/adapter/http"
)

type mockReporter struct {
	err         error
	done, total int
}

func (m *mockReporter) CheckReadiness(_ context.Context) error { return m.err }
func (m *mockReporter) Progress() (int, int)                   { return m.done, m.total }

func newTestServer(readyErr error, done, total int) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReporter{err: readyErr, done: done, total: total}, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, 0, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, 4, 4)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, 4.0, body["watersheds_done"])
	assert.Equal(t, 4.0, body["watersheds_total"])
}

func TestReadyzReturns503WhileSweepRuns(t *testing.T) {
	srv := newTestServer(fmt.Errorf("sweep has not produced results yet"), 1, 4)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "sweep has not produced results yet", body["error"])
	assert.Equal(t, 1.0, body["watersheds_done"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, 0, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
