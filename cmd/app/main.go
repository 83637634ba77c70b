package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avilov/skybooker/api"
	"github.com/avilov/skybooker/config"
	"github.com/avilov/skybooker/internal/bootstrap"
	"github.com/avilov/skybooker/internal/cache"
	"github.com/avilov/skybooker/internal/db"
	"github.com/avilov/skybooker/internal/kafka"
	"github.com/avilov/skybooker/internal/provider"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/avilov/skybooker/internal/service/analytics"
	"github.com/avilov/skybooker/internal/service/auth"
	"github.com/avilov/skybooker/internal/service/booking"
	"github.com/avilov/skybooker/internal/service/flights"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "skybooker").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	tokens := token.NewService(cfg.Auth.JWTSecret, tokenTTL)
	authService := auth.NewAuthService(userRepo, cfg.Auth.BcryptCost)
	flightService := flights.NewFlightService(
		flightRepo,
		bookingRepo,
		redisCache,
		time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
		log,
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.ReferenceLength,
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	analyticsService := analytics.NewAnalyticsService(analyticsRepo)

	providerTTL := time.Duration(cfg.Provider.CacheTTLSeconds) * time.Second
	offersClient := provider.NewHTTPOffersClient(cfg.Provider.OffersBaseURL, cfg.Provider.OffersAPIKey, cfg.Provider.OffersAPISecret)
	locationsClient := provider.NewHTTPLocationsClient(cfg.Provider.LocationsBaseURL, cfg.Provider.LocationsAPIKey, redisCache, providerTTL)

	cookieMaxAge := cfg.Auth.TokenTTLHours * 3600
	handlers := bootstrap.Handlers{
		Auth:      api.NewAuthHandler(authService, tokens, cookieMaxAge, log),
		Users:     api.NewUserHandler(authService, log),
		Flights:   api.NewFlightHandler(flightService, log),
		Bookings:  api.NewBookingHandler(bookingService, log),
		Analytics: api.NewAnalyticsHandler(analyticsService, log),
		Providers: api.NewProviderHandler(offersClient, locationsClient, log),
	}

	engine := bootstrap.NewRouter(cfg, log, tokens, handlers)
	if err := bootstrap.Run(ctx, cfg, log, engine); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
