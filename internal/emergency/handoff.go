package emergency

import (
	"context"
	"encoding/json"
	"fmt"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

// Location sources reported with a claimed handoff
const (
	SourceNavigation = "navigation_state"
	SourceFallback   = "stored_fallback"
)

// HandoffStore carries a captured location from the SOS trigger into the
// emergency page. The value is held in two places at once: a one-shot
// transient record modeling navigation state, and a durable fallback under a
// fixed key that survives restarts and is overwritten on every new capture.
//
// The durable record has no expiry: a location captured days earlier may
// resurface. That mirrors the intended behavior; staleness is surfaced to the
// user through the capture timestamp.
type HandoffStore struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewHandoffStore creates a handoff store backed by Redis
func NewHandoffStore(redisClient *redis.Client, logger *logger.Logger) *HandoffStore {
	return &HandoffStore{redis: redisClient, logger: logger}
}

// Stash records a freshly captured location in both the durable fallback and
// the transient navigation slot. Only a new successful capture overwrites the
// fallback.
func (s *HandoffStore) Stash(ctx context.Context, location domain.Location) error {
	raw, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	kb := s.redis.KeyBuilder
	if err := s.redis.Set(ctx, kb.KeyEmergencyLocation(), raw, redis.TTLNone); err != nil {
		return fmt.Errorf("failed to write durable fallback: %w", err)
	}
	if err := s.redis.Set(ctx, kb.KeyEmergencyHandoff(), raw, redis.TTLHandoff); err != nil {
		// The durable copy is already written; the emergency page will still
		// find the location through the fallback path
		s.logger.WithError(err).Warn("Failed to write transient handoff")
	}

	s.logger.WithField("address", location.Address).Debug("Emergency location stashed")
	return nil
}

// Claim resolves the location for an emergency page load: the transient
// navigation state is preferred and consumed exactly once; otherwise the
// durable fallback is read without side effects. Returns (nil, "", nil) when
// neither exists.
func (s *HandoffStore) Claim(ctx context.Context) (*domain.Location, string, error) {
	kb := s.redis.KeyBuilder

	raw, err := s.redis.GetDel(ctx, kb.KeyEmergencyHandoff())
	if err == nil {
		location, err := decode(raw)
		if err != nil {
			return nil, "", err
		}
		return location, SourceNavigation, nil
	}
	if !redis.IsNil(err) {
		return nil, "", fmt.Errorf("failed to read transient handoff: %w", err)
	}

	raw, err = s.redis.Get(ctx, kb.KeyEmergencyLocation())
	if err != nil {
		if redis.IsNil(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read durable fallback: %w", err)
	}

	location, err := decode(raw)
	if err != nil {
		return nil, "", err
	}
	return location, SourceFallback, nil
}

// Durable reads the fallback record without consuming anything. Repeated
// reads are side-effect-free.
func (s *HandoffStore) Durable(ctx context.Context) (*domain.Location, error) {
	raw, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyEmergencyLocation())
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read durable fallback: %w", err)
	}
	return decode(raw)
}

func decode(raw string) (*domain.Location, error) {
	var location domain.Location
	if err := json.Unmarshal([]byte(raw), &location); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %w", err)
	}
	return &location, nil
}
