package handler

import (
	"net/http"

	"healthmate-be/internal/container"
	"healthmate-be/pkg/errors"
)

// SymptomHandler handles the symptom checker page
type SymptomHandler struct {
	container *container.Container
}

// NewSymptomHandler creates a new symptom handler
func NewSymptomHandler(container *container.Container) *SymptomHandler {
	return &SymptomHandler{container: container}
}

// Page handles GET /symptom-checker
func (h *SymptomHandler) Page(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": h.container.GetServices().Symptom.Categories(),
	}, h.container.GetLogger())
}

// Analyze handles POST /symptom-checker/analyze
func (h *SymptomHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req struct {
		Symptoms string `json:"symptoms"`
	}
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}

	analysis, err := h.container.GetServices().Symptom.Analyze(req.Symptoms)
	if err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	}, logger)
}
