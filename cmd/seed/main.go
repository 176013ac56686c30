package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/experience-booking/internal/config"
	"github.com/fairyhunter13/experience-booking/internal/repository"
	"github.com/fairyhunter13/experience-booking/internal/seed"
	"github.com/fairyhunter13/experience-booking/internal/service"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "truncate all booking tables before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), cfg.DB.ConnectRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if *reset {
		if err := database.Reset(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to reset database")
		}
	}

	experienceRepo := repository.NewExperienceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)

	seeder := seed.New(
		service.NewCatalogService(experienceRepo, slotRepo),
		service.NewPromoService(promoRepo),
	)

	res, err := seeder.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed; rerun with -reset to start from an empty database")
	}

	log.Info().
		Int("experiences", res.Experiences).
		Int("slots", res.Slots).
		Int("promo_codes", res.PromoCodes).
		Msg("database seeded")
}
