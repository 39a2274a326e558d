package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/facilityreservation/internal/adapters/database"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	"github.com/zatekoja/facilityreservation/internal/seed"
	"github.com/zatekoja/facilityreservation/pkg/config"
	"github.com/zatekoja/facilityreservation/pkg/secrets"
)

// Creates the Postgres schema and loads the demo users and facilities.
// Running it twice is safe.
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "create the schema without loading demo data")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	config.LoadDotEnv()
	vaultResult, vaultErr := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv())

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("facility-reservation-seed", "production", "info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("facility-reservation-seed", cfg.Server.Env, cfg.Server.LogLevel)
	if vaultErr != nil {
		log.Fatal().Err(vaultErr).Str("path", vaultResult.Path).Msg("Failed to load secrets from Vault")
	}
	if vaultResult.Enabled {
		log.Info().Strs("loaded", vaultResult.Loaded).Strs("skipped", vaultResult.Skipped).Msg("Secrets loaded from Vault")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := database.Migrate(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate schema")
	}
	log.Info().Msg("Schema ready")

	if *migrateOnly {
		return
	}

	users := database.NewUserAdapter(pgClient)
	facilities := database.NewFacilityAdapter(pgClient)
	if err := seed.Load(ctx, users, facilities); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	log.Info().
		Int("users", len(seed.Users())).
		Int("facilities", len(seed.Facilities())).
		Msg("Demo data loaded")
}
