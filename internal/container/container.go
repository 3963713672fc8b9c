package container

import (
	"fmt"

	"healthmate-be/internal/config"
	"healthmate-be/internal/emergency"
	"healthmate-be/internal/geo"
	"healthmate-be/internal/security"
	"healthmate-be/internal/service"
	"healthmate-be/internal/session"
	"healthmate-be/internal/supabase"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/metrics"
	"healthmate-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	RedisClient  *redis.Client
	AuthClient   *supabase.AuthClient
	DataClient   *supabase.DataClient
	SessionStore *session.Store
	Capturer     *geo.Capturer
	Handoff      *emergency.HandoffStore
	Metrics      *metrics.Collector
	Services     *service.Services
}

// New creates a new dependency injection container. Redis is required: it
// backs session persistence and the emergency location fallback.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}

	authClient := supabase.NewAuthClient(cfg, redisClient, logger)
	dataClient := supabase.NewDataClient(cfg, logger)
	sessionStore := session.NewStore(authClient, dataClient, logger)

	geocoder := geo.NewNominatimClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, logger)
	capturer := geo.NewCapturer(geocoder, cfg.GeolocationTimeout, cfg.GeolocationMaxAge, logger)
	handoff := emergency.NewHandoffStore(redisClient, logger)

	sanitizer := security.NewTextSanitizer()
	services := &service.Services{
		Symptom:   service.NewSymptomService(logger),
		Chat:      service.NewChatService(redisClient, sanitizer, logger),
		Directory: service.NewDirectoryService(),
		Wellness:  service.NewWellnessService(dataClient, logger),
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		RedisClient:  redisClient,
		AuthClient:   authClient,
		DataClient:   dataClient,
		SessionStore: sessionStore,
		Capturer:     capturer,
		Handoff:      handoff,
		Metrics:      metrics.NewCollector(),
		Services:     services,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// GetSessionStore returns the session store
func (c *Container) GetSessionStore() *session.Store {
	return c.SessionStore
}

// GetDataClient returns the data capability client
func (c *Container) GetDataClient() *supabase.DataClient {
	return c.DataClient
}

// GetCapturer returns the geolocation capturer
func (c *Container) GetCapturer() *geo.Capturer {
	return c.Capturer
}

// GetHandoff returns the emergency handoff store
func (c *Container) GetHandoff() *emergency.HandoffStore {
	return c.Handoff
}

// GetMetrics returns the metrics collector
func (c *Container) GetMetrics() *metrics.Collector {
	return c.Metrics
}

// GetServices returns the page services
func (c *Container) GetServices() *service.Services {
	return c.Services
}
