package handler

import (
	"net/http"

	"healthmate-be/internal/container"
	"healthmate-be/pkg/errors"
)

// DashboardHandler handles the authenticated home page
type DashboardHandler struct {
	container *container.Container
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(container *container.Container) *DashboardHandler {
	return &DashboardHandler{container: container}
}

// Page handles GET /
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	snap := h.container.GetSessionStore().Snapshot()
	if !snap.Authenticated() {
		writeError(w, errors.NewAuthenticationError("No active user"), logger)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"user":    snap.User,
		"profile": snap.Profile,
	}

	records, err := h.container.GetDataClient().ListHealthRecords(r.Context(), snap.User.ID)
	if err != nil {
		logger.WithError(err).Warn("Failed to load health records for dashboard")
	} else {
		response["recent_records"] = records
	}

	writeJSON(w, http.StatusOK, response, logger)
}
