package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/config"
	"healthmate-be/internal/container"
	"healthmate-be/internal/emergency"
	"healthmate-be/internal/geo"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/metrics"
	"healthmate-be/pkg/redis"
)

type stubGeocoder struct {
	address string
	err     error
}

func (s *stubGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return s.address, s.err
}

func newEmergencyContainer(t *testing.T, geocoder geo.Geocoder) *container.Container {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := redis.NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	log := &logger.Logger{Logger: zap.NewNop()}
	return &container.Container{
		Config:      &config.Config{Environment: "development"},
		Logger:      log,
		RedisClient: redisClient,
		Capturer:    geo.NewCapturer(geocoder, time.Second, 5*time.Minute, log),
		Handoff:     emergency.NewHandoffStore(redisClient, log),
		Metrics:     metrics.NewCollector(),
	}
}

func postSOS(t *testing.T, handler *EmergencyHandler, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/emergency/sos", bytes.NewReader(body))
	handler.SOS(rec, req)
	return rec
}

func TestSOSCapturesAndStashesLocation(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{address: "Bangalore, India"})
	handler := NewEmergencyHandler(app)

	rec := postSOS(t, handler, map[string]interface{}{
		"supported": true,
		"latitude":  12.9716,
		"longitude": 77.5946,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
		Location struct {
			Address string `json:"address"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "/emergency", response.Redirect)
	assert.Equal(t, "Bangalore, India", response.Location.Address)

	// The capture is waiting for the emergency page
	location, source, err := app.GetHandoff().Claim(context.Background())
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, emergency.SourceNavigation, source)
}

func TestSOSPermissionDeniedStillRedirects(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{address: "unused"})
	handler := NewEmergencyHandler(app)

	rec := postSOS(t, handler, map[string]interface{}{
		"supported":  true,
		"error_code": geo.CodePermissionDenied,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
		Error    struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "/emergency", response.Redirect, "a failed capture never blocks the emergency page")
	assert.Equal(t, string(geo.KindPermissionDenied), response.Error.Kind)
	assert.Equal(t, "Location access denied. Please enable location services.", response.Error.Message)

	// Nothing is stashed for a failed capture
	location, _, err := app.GetHandoff().Claim(context.Background())
	require.NoError(t, err)
	assert.Nil(t, location)
}

func TestSOSUnsupportedDevice(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{})
	handler := NewEmergencyHandler(app)

	rec := postSOS(t, handler, map[string]interface{}{"supported": false})

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, string(geo.KindUnsupported), response.Error.Kind)
}

func TestSOSGeocodeFailureDegradesAddress(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{err: assert.AnError})
	handler := NewEmergencyHandler(app)

	rec := postSOS(t, handler, map[string]interface{}{
		"supported": true,
		"latitude":  12.9716,
		"longitude": 77.5946,
	})

	var response struct {
		Success  bool `json:"success"`
		Location struct {
			Address string `json:"address"`
		} `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success, "a geocode failure must not fail the SOS flow")
	assert.Equal(t, "12.9716, 77.5946", response.Location.Address)
}

func TestEmergencyPageShowsStashedLocation(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{address: "Bangalore, India"})
	handler := NewEmergencyHandler(app)

	postSOS(t, handler, map[string]interface{}{
		"supported": true,
		"latitude":  12.9716,
		"longitude": 77.5946,
	})

	rec := httptest.NewRecorder()
	handler.Page(rec, httptest.NewRequest(http.MethodGet, "/emergency", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success            bool   `json:"success"`
		LocationSource     string `json:"location_source"`
		CoordinatesDisplay string `json:"coordinates_display"`
		Contacts           []struct {
			Name   string `json:"name"`
			Number string `json:"number"`
		} `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, emergency.SourceNavigation, response.LocationSource)
	assert.Equal(t, "12.971600, 77.594600", response.CoordinatesDisplay)
	require.NotEmpty(t, response.Contacts)
	assert.Equal(t, "112", response.Contacts[0].Number)

	// A refresh reads the durable fallback instead
	rec = httptest.NewRecorder()
	handler.Page(rec, httptest.NewRequest(http.MethodGet, "/emergency", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, emergency.SourceFallback, response.LocationSource)
}

func TestEmergencyPageWithoutLocation(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{})
	handler := NewEmergencyHandler(app)

	rec := httptest.NewRecorder()
	handler.Page(rec, httptest.NewRequest(http.MethodGet, "/emergency", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotContains(t, response, "location")
	assert.NotEmpty(t, response["contacts"])
	assert.NotEmpty(t, response["hospitals"])
}

func TestReportRequiresEmergencyType(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{})
	handler := NewEmergencyHandler(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/emergency/report", bytes.NewReader([]byte(`{}`)))
	handler.Report(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportAttachesFallbackLocation(t *testing.T) {
	app := newEmergencyContainer(t, &stubGeocoder{address: "Bangalore, India"})
	handler := NewEmergencyHandler(app)

	postSOS(t, handler, map[string]interface{}{
		"supported": true,
		"latitude":  12.9716,
		"longitude": 77.5946,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/emergency/report",
		bytes.NewReader([]byte(`{"emergency_type":"medical","description":"chest pain"}`)))
	handler.Report(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool `json:"success"`
		Report  struct {
			ID           string `json:"id"`
			PatientCount int    `json:"patient_count"`
			Location     *struct {
				Address string `json:"address"`
			} `json:"location"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Report.ID)
	assert.Equal(t, 1, response.Report.PatientCount)
	require.NotNil(t, response.Report.Location)
	assert.Equal(t, "Bangalore, India", response.Report.Location.Address)
}
