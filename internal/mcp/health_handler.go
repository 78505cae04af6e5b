package mcp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// HealthResponse represents the JSON response for health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// StorageProbe reports whether export storage can be written to
type StorageProbe interface {
	IsAccessible() bool
}

// LivenessHandler checks if the server is running and accepting requests.
// Always returns 200 OK; no external dependencies are consulted.
func LivenessHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger.DebugContext(ctx, "liveness check requested")

		writeHealth(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   serviceName,
			Version:   serverVersion,
		})
	}
}

// ReadinessHandler returns 200 OK if export storage is accessible, 503 if not
func ReadinessHandler(probe StorageProbe, sessions func() int, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger.DebugContext(ctx, "readiness check requested")

		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   serviceName,
			Version:   serverVersion,
			Checks:    make(map[string]string),
		}
		if sessions != nil {
			response.Details = map[string]string{"active_sessions": strconv.Itoa(sessions())}
		}

		if probe.IsAccessible() {
			response.Checks["storage"] = "accessible"
			writeHealth(w, http.StatusOK, response)
			logger.DebugContext(ctx, "readiness check completed", "status", "healthy", "storage", "accessible")
			return
		}

		response.Status = "unhealthy"
		response.Checks["storage"] = "inaccessible"
		writeHealth(w, http.StatusServiceUnavailable, response)
		logger.ErrorContext(ctx, "readiness check failed", "status", "unhealthy", "storage", "inaccessible")
	}
}

func writeHealth(w http.ResponseWriter, status int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
