package mcp

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/interviewprep/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLivenessHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/health/live", nil)
	w := httptest.NewRecorder()

	LivenessHandler(discardLogger())(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"service":"interviewprep-mcp"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestReadinessHandler_StorageAccessible(t *testing.T) {
	exp, err := storage.NewExporter(storage.ExportConfig{
		BasePath:   "/exports",
		FileSystem: storage.NewMemMapFileSystem(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()
	ReadinessHandler(exp, func() int { return 2 }, discardLogger())(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"storage":"accessible"`)
	assert.Contains(t, w.Body.String(), `"active_sessions":"2"`)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestReadinessHandler_StorageInaccessible(t *testing.T) {
	mem := afero.NewMemMapFs()
	exp, err := storage.NewExporter(storage.ExportConfig{
		BasePath:   "/exports",
		FileSystem: storage.NewAferoFileSystem(mem),
	})
	require.NoError(t, err)

	// Remove the export directory to make storage inaccessible
	require.NoError(t, mem.RemoveAll(exp.Dir()))

	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()
	ReadinessHandler(exp, nil, discardLogger())(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, w.Body.String(), `"storage":"inaccessible"`)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
