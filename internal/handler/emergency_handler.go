package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"healthmate-be/internal/container"
	"healthmate-be/internal/domain"
	"healthmate-be/internal/geo"
	"healthmate-be/pkg/errors"
)

// emergencyContacts are the national helplines shown on the emergency page
var emergencyContacts = []domain.EmergencyContact{
	{Name: "National Emergency", Number: "112", Type: "emergency"},
	{Name: "Ambulance", Number: "108", Type: "medical"},
	{Name: "Police", Number: "100", Type: "police"},
	{Name: "Fire Department", Number: "101", Type: "fire"},
	{Name: "Women Helpline", Number: "1091", Type: "women"},
}

// nearbyHospitals is the hardcoded facility list shown alongside the contacts
var nearbyHospitals = []domain.Hospital{
	{Name: "Apollo Hospital", Distance: "2.3 km", Phone: "+91 80 2630 4050", Emergency: true},
	{Name: "Fortis Hospital", Distance: "3.1 km", Phone: "+91 80 6621 4444", Emergency: true},
	{Name: "Manipal Hospital", Distance: "4.2 km", Phone: "+91 80 2502 4444", Emergency: true},
}

// EmergencyHandler handles the emergency page and SOS capture
type EmergencyHandler struct {
	container *container.Container
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(container *container.Container) *EmergencyHandler {
	return &EmergencyHandler{container: container}
}

// sosRequest carries the device geolocation result reported by the client.
// Either coordinates or an error code is present; a client without the
// capability reports supported=false.
type sosRequest struct {
	Supported bool     `json:"supported"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ErrorCode int      `json:"error_code,omitempty"`
}

func (r sosRequest) provider() geo.Provider {
	if !r.Supported {
		return nil
	}
	return geo.PositionFunc(func(ctx context.Context, opts geo.Options) (geo.Position, error) {
		if r.ErrorCode != 0 {
			return geo.Position{}, &geo.DeviceError{Code: r.ErrorCode}
		}
		if r.Latitude == nil || r.Longitude == nil {
			return geo.Position{}, &geo.DeviceError{Code: geo.CodePositionUnavailable}
		}
		return geo.Position{Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
	})
}

// Page handles GET /emergency. The transient handoff is consumed exactly
// once; a refresh falls back to the durable record.
func (h *EmergencyHandler) Page(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	location, source, err := h.container.GetHandoff().Claim(r.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to resolve emergency location")
	}

	response := map[string]interface{}{
		"success":   true,
		"contacts":  emergencyContacts,
		"hospitals": nearbyHospitals,
	}
	if location != nil {
		response["location"] = location
		response["location_source"] = source
		response["coordinates_display"] = location.RoundedLatitude() + ", " + location.RoundedLongitude()
	}

	writeJSON(w, http.StatusOK, response, logger)
}

// SOS handles POST /emergency/sos: capture the device position, stash it for
// the emergency page, and direct the client there. A failed capture still
// directs to the emergency page; it is never a blocking failure.
func (h *EmergencyHandler) SOS(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	collector := h.container.GetMetrics()

	var req sosRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}

	location, capErr := h.container.GetCapturer().Capture(r.Context(), req.provider())
	if capErr != nil {
		collector.RecordSOSCapture(string(capErr.Kind))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  false,
			"redirect": "/emergency",
			"error": map[string]interface{}{
				"type":    string(errors.ErrorTypeGeolocation),
				"kind":    string(capErr.Kind),
				"message": capErr.Message,
			},
		}, logger)
		return
	}

	if location.Address == location.CoordinateString() {
		collector.RecordGeocodeLookup("degraded")
	} else {
		collector.RecordGeocodeLookup("ok")
	}

	if err := h.container.GetHandoff().Stash(r.Context(), location); err != nil {
		logger.WithError(err).Error("Failed to stash emergency location")
	}
	collector.RecordSOSCapture("ok")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"redirect": "/emergency",
		"location": location,
	}, logger)
}

// Report handles POST /emergency/report
func (h *EmergencyHandler) Report(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var report domain.EmergencyReport
	if appErr := decodeBody(r, &report); appErr != nil {
		writeError(w, appErr, logger)
		return
	}
	if report.EmergencyType == "" {
		writeError(w, errors.NewValidationError("Emergency type is required", nil), logger)
		return
	}
	if report.PatientCount <= 0 {
		report.PatientCount = 1
	}
	report.ID = uuid.NewString()

	if report.Location == nil {
		durable, err := h.container.GetHandoff().Durable(r.Context())
		if err != nil {
			logger.WithError(err).Warn("Failed to attach fallback location to report")
		} else {
			report.Location = durable
		}
	}

	logger.WithFields(map[string]interface{}{
		"report_id":      report.ID,
		"emergency_type": report.EmergencyType,
		"patient_count":  report.PatientCount,
	}).Info("Emergency report submitted")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	}, logger)
}
