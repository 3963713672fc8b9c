package handler

import (
	"context"
	"net/http"
	"time"

	"healthmate-be/internal/container"
)

// HealthHandler handles the health check endpoint
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{container: container}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	redisStatus := "healthy"
	if err := h.container.GetRedisClient().Health(ctx); err != nil {
		logger.WithError(err).Warn("Redis health check failed")
		redisStatus = "unhealthy"
	}

	sessionStatus := "loading"
	snap := h.container.GetSessionStore().Snapshot()
	if !snap.Loading {
		sessionStatus = "ready"
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
		"services": map[string]interface{}{
			"redis":   redisStatus,
			"session": sessionStatus,
			"api":     "running",
		},
	}

	status := http.StatusOK
	if redisStatus != "healthy" {
		health["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, health, logger)
}
