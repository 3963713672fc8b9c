package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"healthmate-be/pkg/logger"
)

// Geocoder resolves coordinates to a human-readable address
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimClient is a reverse-geocoding client for a Nominatim-compatible
// endpoint. Requests are rate limited to one per second per the public
// instance's usage policy.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewNominatimClient creates a new reverse-geocoding client
func NewNominatimClient(baseURL, userAgent string, logger *logger.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logger,
	}
}

// reverseResponse is the subset of the Nominatim payload we read
type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse performs one reverse-geocoding lookup. Any non-2xx status or parse
// failure is returned as an error; callers treat the lookup as best-effort.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("zoom", "18")
	query.Set("addressdetails", "1")

	reqURL := c.baseURL + "/reverse?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call geocoder: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read geocoder response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
		}).Warn("Geocoder returned non-OK status")
		return "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	if parsed.DisplayName == "" {
		return "", fmt.Errorf("geocoder response missing display_name")
	}

	c.logger.WithField("duration", time.Since(start).String()).Debug("Reverse geocode succeeded")
	return parsed.DisplayName, nil
}
