package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/studentscore/internal/adapters/database"
	"github.com/zatekoja/studentscore/internal/adapters/events"
	"github.com/zatekoja/studentscore/internal/adapters/providers/inference"
	"github.com/zatekoja/studentscore/internal/api/handlers"
	"github.com/zatekoja/studentscore/internal/api/routes"
	"github.com/zatekoja/studentscore/internal/api/views"
	"github.com/zatekoja/studentscore/internal/application/services"
	"github.com/zatekoja/studentscore/internal/domain/repositories"
	"github.com/zatekoja/studentscore/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/studentscore/internal/infrastructure/clients/redis"
	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
	"github.com/zatekoja/studentscore/pkg/config"
	"github.com/zatekoja/studentscore/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Model is loaded once and shared read-only by all requests.
	provider, err := inference.NewInferenceProvider(cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Model.Provider).Msg("Failed to initialize inference provider")
	}
	log.Info().Str("provider", cfg.Model.Provider).Msg("Inference provider initialized")

	// Audit stores are best-effort: the form keeps working without them.
	var auditRepos []repositories.AuditRepository

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure PostgreSQL client")
	}
	defer pgClient.Close()

	auditAdapter := database.NewAuditAdapter(pgClient, cfg.Audit.Table)
	auditRepos = append(auditRepos, auditAdapter)

	// Warm-up only. The adapter creates its table on first insert if this fails.
	go func() {
		if err := pgClient.WaitReady(ctx, retry.DefaultConfig()); err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable; audit writes will be retried per request")
			return
		}
		if err := auditAdapter.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Str("table", cfg.Audit.Table).Msg("Failed to ensure audit table")
		}
	}()

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&cfg.Redis)
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; audit publishes will be retried per request")
		}
		pingCancel()

		auditRepos = append(auditRepos, events.NewRedisAuditPublisher(redisClient, cfg.Audit.Channel))
		log.Info().Str("channel", cfg.Audit.Channel).Msg("Audit publisher initialized")
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	predictionService := services.NewPredictionService(provider)
	auditService := services.NewAuditService(auditRepos...).WithTimeout(cfg.Audit.Timeout)
	predictionHandler := handlers.NewPredictionHandler(predictionService, auditService, renderer)

	router := routes.NewRouter(predictionHandler, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
