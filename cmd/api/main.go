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

	"github.com/zatekoja/facilityreservation/internal/adapters/cache"
	"github.com/zatekoja/facilityreservation/internal/adapters/database"
	"github.com/zatekoja/facilityreservation/internal/adapters/events"
	"github.com/zatekoja/facilityreservation/internal/adapters/memory"
	"github.com/zatekoja/facilityreservation/internal/api/handlers"
	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/api/routes"
	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/auth"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/clients/redis"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	"github.com/zatekoja/facilityreservation/internal/seed"
	"github.com/zatekoja/facilityreservation/pkg/config"
	"github.com/zatekoja/facilityreservation/pkg/secrets"
)

type stores struct {
	users        repositories.UserRepository
	facilities   repositories.FacilityRepository
	reservations repositories.ReservationRepository
}

func main() {
	config.LoadDotEnv()
	vaultResult, vaultErr := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv())

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("facility-reservation", "production", "info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)
	if vaultErr != nil {
		log.Fatal().Err(vaultErr).Str("path", vaultResult.Path).Msg("Failed to load secrets from Vault")
	}
	if vaultResult.Enabled {
		log.Info().Strs("loaded", vaultResult.Loaded).Strs("skipped", vaultResult.Skipped).Msg("Secrets loaded from Vault")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
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

	// Redis backs sessions and events when enabled; otherwise both stay in process.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		defer redisClient.Close()
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		eventBus = events.NewMemoryEventBus()
	}

	st, closeStore, err := openStores(ctx, cfg, cacheProvider, redisClient != nil)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer closeStore()

	if cfg.Storage.SeedDemoData {
		if err := seed.Load(ctx, st.users, st.facilities); err != nil {
			log.Fatal().Err(err).Msg("Failed to load demo data")
		}
	}

	// Services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.SessionTTL)
	identityService := services.NewIdentityService(st.users, cache.NewSessionStore(cacheProvider), tokens)
	identityService.SetEventBus(eventBus)
	identityService.SetMetrics(metrics)

	facilityService := services.NewFacilityService(st.facilities)

	reservationService := services.NewReservationService(st.reservations, st.facilities, services.ReservationServiceConfig{
		RecheckOnApprove: cfg.Reservation.RecheckOnApprove,
	})
	reservationService.SetEventBus(eventBus)
	reservationService.SetMetrics(metrics)

	eventLogService := services.NewEventLogService(eventBus)
	if err := eventLogService.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start event log service")
		eventLogService = nil
	}

	expiryJob := services.NewPendingExpiryJob(reservationService, cfg.Reservation.PendingExpirySchedule)
	if cfg.Reservation.PendingExpiryEnabled() {
		if err := expiryJob.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start pending expiry job")
		}
	} else {
		log.Info().Msg("Pending expiry job disabled")
	}

	// HTTP
	router := routes.NewRouter(
		handlers.NewAuthHandler(identityService),
		handlers.NewUserHandler(identityService),
		handlers.NewFacilityHandler(facilityService, reservationService),
		handlers.NewReservationHandler(reservationService),
		handlers.NewNavigationHandler(),
		middleware.NewAuth(identityService),
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("storage", cfg.Storage.Driver).
			Bool("redis", redisClient != nil).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	expiryJob.Stop()
	if eventLogService != nil {
		eventLogService.Stop()
	}
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}

// openStores returns the repositories for the configured driver and a func
// that releases them.
func openStores(ctx context.Context, cfg *config.Config, cacheProvider providers.CacheProvider, cacheFacilities bool) (*stores, func(), error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return &stores{
			users:        memory.NewUserStore(),
			facilities:   memory.NewFacilityStore(),
			reservations: memory.NewReservationStore(),
		}, func() {}, nil
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, pgClient); err != nil {
		pgClient.Close()
		return nil, nil, err
	}

	facilities := database.NewFacilityAdapter(pgClient)
	if cacheFacilities {
		facilities = database.NewCachedFacilityAdapter(facilities, cacheProvider)
	}

	return &stores{
		users:        database.NewUserAdapter(pgClient),
		facilities:   facilities,
		reservations: database.NewReservationAdapter(pgClient),
	}, func() { pgClient.Close() }, nil
}
