package handler

import (
	"net/http"
	"time"

	"healthmate-be/internal/container"
	"healthmate-be/internal/domain"
	"healthmate-be/pkg/errors"
)

// WellnessHandler handles the mental health page
type WellnessHandler struct {
	container *container.Container
}

// NewWellnessHandler creates a new wellness handler
func NewWellnessHandler(container *container.Container) *WellnessHandler {
	return &WellnessHandler{container: container}
}

// Page handles GET /mental-health
func (h *WellnessHandler) Page(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	wellness := h.container.GetServices().Wellness

	response := map[string]interface{}{
		"success":      true,
		"resources":    wellness.Resources(),
		"mood_options": wellness.MoodOptions(),
	}

	snap := h.container.GetSessionStore().Snapshot()
	if snap.Authenticated() {
		moods, err := wellness.RecentMoods(r.Context(), snap.User.ID)
		if err != nil {
			logger.WithError(err).Warn("Failed to load mood history")
		} else {
			response["recent_moods"] = moods
		}
	}

	writeJSON(w, http.StatusOK, response, logger)
}

// LogMood handles POST /mental-health/mood
func (h *WellnessHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	snap := h.container.GetSessionStore().Snapshot()
	if !snap.Authenticated() {
		writeError(w, errors.NewAuthenticationError("No active user"), logger)
		return
	}

	var req struct {
		Mood string `json:"mood"`
		Note string `json:"note"`
	}
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}

	entry := domain.MoodEntry{
		Mood:     req.Mood,
		Note:     req.Note,
		LoggedAt: time.Now().UTC(),
	}
	if err := h.container.GetServices().Wellness.LogMood(r.Context(), snap.User.ID, entry); err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	}, logger)
}
