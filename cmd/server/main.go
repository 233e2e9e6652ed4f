package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devpulse/devpulse/internal/cache"
	"github.com/devpulse/devpulse/internal/errors"
	"github.com/devpulse/devpulse/internal/monitoring"
	"github.com/devpulse/devpulse/internal/ratelimit"
	"github.com/devpulse/devpulse/internal/sources"
	"github.com/devpulse/devpulse/internal/team"
	"github.com/devpulse/devpulse/internal/triage"
)

const version = "1.0.0"

// application bundles the services the router serves. Tests construct one
// around stub sources.
type application struct {
	teams   *team.Service
	backlog *triage.Service
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	limiter *ratelimit.Limiter
	origins []string
}

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	trackerURL := getEnvOrDefault("DEFECT_TRACKER_URL", "http://localhost:9001")
	rosterURL := getEnvOrDefault("ROSTER_SERVICE_URL", "http://localhost:9002")
	assessmentURL := getEnvOrDefault("ASSESSMENT_SERVICE_URL", "http://localhost:9003")
	ttl := getDurationOrDefault("CACHE_TTL", cache.DefaultTTL)
	requestsPerMin := getIntOrDefault("RATE_LIMIT_PER_MIN", ratelimit.DefaultConfig().RequestsPerMin)
	origins := strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	fallback := sources.NewStaticFallback()

	app := &application{
		teams: team.NewServiceWithCache(
			sources.NewRosterClient(rosterURL),
			sources.NewAssessmentClient(assessmentURL),
			fallback,
			appMetrics,
			appLogger,
			cache.New(ttl),
			ttl,
		),
		backlog: triage.NewServiceWithCache(
			sources.NewDefectClient(trackerURL),
			fallback,
			appMetrics,
			appLogger,
			cache.New(ttl),
			ttl,
		),
		metrics: appMetrics,
		logger:  appLogger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMin:  requestsPerMin,
			BurstMultiplier: ratelimit.DefaultConfig().BurstMultiplier,
		}, appMetrics),
		origins: origins,
	}

	r := setupRouter(app)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter builds the gin engine with the full middleware chain and routes.
func setupRouter(app *application) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.Middleware(app.metrics, app.logger))
	r.Use(monitoring.RequestID())
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = app.origins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsConfig))

	if app.limiter != nil {
		r.Use(app.limiter.Middleware())
	}

	r.GET("/health", app.handleHealth)
	r.GET("/metrics", app.handleMetrics)

	api := r.Group("/api/v1")
	{
		api.GET("/triage/:project", app.handleTriage)
		api.GET("/teams/:team/summary", app.handleTeamSummary)
		api.POST("/cache/clear", app.handleCacheClear)
	}

	return r
}

// Helper function for environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}
