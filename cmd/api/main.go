package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/experience-booking/internal/config"
	"github.com/fairyhunter13/experience-booking/internal/handler"
	"github.com/fairyhunter13/experience-booking/internal/repository"
	"github.com/fairyhunter13/experience-booking/internal/service"
	"github.com/fairyhunter13/experience-booking/internal/validator"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	// Discount values are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), cfg.DB.ConnectRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Experience Booking",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	validate := validator.New()

	experienceRepo := repository.NewExperienceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	bookingService := service.NewBookingService(
		pool,
		experienceRepo,
		slotRepo,
		promoRepo,
		bookingRepo,
		service.NewReferenceGenerator(cfg.Booking.ReferencePrefix),
		service.BookingOptions{
			TaxRate:           cfg.Booking.TaxRate,
			ReferenceAttempts: cfg.Booking.ReferenceAttempts,
			TxTimeout:         cfg.Booking.TxTimeout,
			TxRetries:         cfg.Booking.TxRetries,
			MaxQuantity:       cfg.Booking.MaxQuantity,
		},
	)
	promoService := service.NewPromoService(promoRepo)
	catalogService := service.NewCatalogService(experienceRepo, slotRepo)

	healthHandler := handler.NewHealthHandler(pool)
	experienceHandler := handler.NewExperienceHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	promoHandler := handler.NewPromoHandler(promoService, validate)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Check)
	api.Get("/experiences", experienceHandler.ListExperiences)
	api.Get("/experiences/:id", experienceHandler.GetExperience)
	api.Post("/bookings", bookingHandler.CreateBooking)
	api.Get("/bookings/:reference", bookingHandler.GetBooking)
	api.Post("/promo/validate", promoHandler.ValidatePromo)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// In-flight bookings finish (or roll back) before the pool goes away.
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures the global zerolog logger.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
