package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"healthmate-be/internal/config"
	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
)

// DataClient wraps the Supabase PostgREST API for the profiles and
// health_records tables. Upserts use merge-duplicates resolution keyed by the
// table's primary key.
type DataClient struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewDataClient creates a new data capability client
func NewDataClient(cfg *config.Config, logger *logger.Logger) *DataClient {
	return &DataClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetProfile fetches a user profile by id. Returns (nil, nil) when the
// profile does not exist yet (profiles are created lazily).
func (c *DataClient) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	path := "/rest/v1/profiles?select=*&id=eq." + url.QueryEscape(userID)

	var profiles []domain.UserProfile
	if err := c.do(ctx, "GET", path, "", nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// UpsertProfile creates or replaces a profile record keyed by id
func (c *DataClient) UpsertProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	prefer := "resolution=merge-duplicates,return=representation"

	var result []domain.UserProfile
	if err := c.do(ctx, "POST", "/rest/v1/profiles", prefer, profile, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("upsert returned no representation")
	}

	c.logger.WithField("user_id", result[0].ID).Debug("Profile upserted")
	return &result[0], nil
}

// ListHealthRecords returns a user's health records, newest first
func (c *DataClient) ListHealthRecords(ctx context.Context, userID string) ([]domain.HealthRecord, error) {
	path := "/rest/v1/health_records?select=*&user_id=eq." +
		url.QueryEscape(userID) + "&order=created_at.desc"

	var records []domain.HealthRecord
	if err := c.do(ctx, "GET", path, "", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateHealthRecord inserts a single health record
func (c *DataClient) CreateHealthRecord(ctx context.Context, record *domain.HealthRecord) (*domain.HealthRecord, error) {
	prefer := "return=representation"

	var result []domain.HealthRecord
	if err := c.do(ctx, "POST", "/rest/v1/health_records", prefer, record, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("insert returned no representation")
	}
	return &result[0], nil
}

// do executes one PostgREST request. A non-2xx response is returned as an
// error; callers decide whether the failure is fatal.
func (c *DataClient) do(ctx context.Context, method, path, prefer string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.SupabaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.config.SupabaseAnonKey)
	req.Header.Set("Authorization", "Bearer "+c.config.SupabaseAnonKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call data capability: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("data capability returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.logger.WithFields(map[string]interface{}{
				"status_code": resp.StatusCode,
				"path":        path,
			}).Error("Failed to parse data capability response")
			return fmt.Errorf("failed to parse data capability response: %w", err)
		}
	}
	return nil
}
