package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"healthmate-be/internal/config"
	"healthmate-be/internal/container"
	"healthmate-be/internal/guard"
	"healthmate-be/internal/handler"
	"healthmate-be/internal/middleware"
	"healthmate-be/internal/session"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	redisClient  *redis.Client
	sessionStore *session.Store
	server       *http.Server
	log          *logger.Logger
	mu           sync.Mutex
	closed       bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errors []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errors = append(errors, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Stop the session store's event consumer
	if r.sessionStore != nil {
		r.log.Info("Stopping session store...")
		r.sessionStore.Close()
		r.log.Info("Session store stopped")
	}

	// Close Redis connection with health check
	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errors = append(errors, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if len(errors) > 0 {
		r.log.WithField("error_count", len(errors)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errors), errors)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting healthmate-be server")

	// Create dependency injection container
	app, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Restore the session and start consuming auth events before serving:
	// the route guard must never observe a pre-restore snapshot as a
	// signed-out state
	ctx := context.Background()
	app.GetSessionStore().Initialize(ctx)

	// Setup router
	router := setupRouter(app)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Create resources manager for cleanup
	resources := &Resources{
		redisClient:  app.GetRedisClient(),
		sessionStore: app.GetSessionStore(),
		server:       server,
		log:          log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(app *container.Container) *chi.Mux {
	cfg := app.GetConfig()
	log := app.GetLogger()
	store := app.GetSessionStore()

	r := chi.NewRouter()

	// Setup CORS middleware
	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	// Setup middlewares
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(app.GetMetrics()))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Create handlers
	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(app)
	dashboardHandler := handler.NewDashboardHandler(app)
	symptomHandler := handler.NewSymptomHandler(app)
	chatHandler := handler.NewChatHandler(app)
	doctorHandler := handler.NewDoctorHandler(app)
	emergencyHandler := handler.NewEmergencyHandler(app)
	wellnessHandler := handler.NewWellnessHandler(app)

	// Health check and metrics (no guard)
	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", app.GetMetrics().Handler())

	// Auth API (no guard: these drive the state the guard reads)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signout", authHandler.SignOut)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Get("/session", authHandler.Session)
	})

	// Profile API (requires an active user)
	r.Route("/api/user", func(r chi.Router) {
		r.Use(guard.Protect(store, true, log))

		r.Get("/profile", authHandler.GetProfile)
		r.Put("/profile", authHandler.UpdateProfile)
	})

	// Public pages: an authenticated user is redirected to the dashboard
	r.Group(func(r chi.Router) {
		r.Use(guard.Protect(store, false, log))

		r.Get("/login", authHandler.LoginPage)
		r.Get("/signup", authHandler.SignupPage)
	})

	// Protected pages
	r.Group(func(r chi.Router) {
		r.Use(guard.Protect(store, true, log))

		r.Get("/", dashboardHandler.Page)

		r.Route("/symptom-checker", func(r chi.Router) {
			r.Get("/", symptomHandler.Page)
			r.Post("/analyze", symptomHandler.Analyze)
		})

		r.Route("/anonymous-chat", func(r chi.Router) {
			r.Get("/", chatHandler.Page)
			r.Post("/conversations", chatHandler.StartConversation)
			r.Post("/conversations/{conversationID}/messages", chatHandler.SendMessage)
			r.Get("/conversations/{conversationID}/messages", chatHandler.Transcript)
		})

		r.Get("/doctors", doctorHandler.Page)

		r.Route("/emergency", func(r chi.Router) {
			r.Get("/", emergencyHandler.Page)
			r.Post("/sos", emergencyHandler.SOS)
			r.Post("/report", emergencyHandler.Report)
		})

		r.Route("/mental-health", func(r chi.Router) {
			r.Get("/", wellnessHandler.Page)
			r.Post("/mood", wellnessHandler.LogMood)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Page not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
