package handler

import (
	"net/http"
	"strconv"

	"healthmate-be/internal/container"
)

// DoctorHandler handles the doctor directory page
type DoctorHandler struct {
	container *container.Container
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(container *container.Container) *DoctorHandler {
	return &DoctorHandler{container: container}
}

// Page handles GET /doctors with optional search, specialty and min_rating
// query filters
func (h *DoctorHandler) Page(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	directory := h.container.GetServices().Directory

	query := r.URL.Query()
	minRating := 0.0
	if raw := query.Get("min_rating"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger.WithField("min_rating", raw).Debug("Ignoring invalid min_rating filter")
		} else {
			minRating = parsed
		}
	}

	doctors := directory.Filter(query.Get("search"), query.Get("specialty"), minRating)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"doctors":     doctors,
		"specialties": directory.Specialties(),
	}, logger)
}
