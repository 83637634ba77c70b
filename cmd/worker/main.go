package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avilov/skybooker/config"
	"github.com/avilov/skybooker/internal/cache"
	"github.com/avilov/skybooker/internal/db"
	"github.com/avilov/skybooker/internal/email"
	"github.com/avilov/skybooker/internal/kafka"
	"github.com/avilov/skybooker/internal/repository"
	"github.com/avilov/skybooker/internal/service/flights"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "skybooker-worker").Logger()

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

	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	flightService := flights.NewFlightService(
		flightRepo,
		bookingRepo,
		redisCache,
		time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(log)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Warn().Err(err).Msg("decode booking event")
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Warn().Err(err).Msg("consumer stopped")
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			completed, err := flightService.CompleteArrived(ctx)
			if err != nil {
				log.Error().Err(err).Msg("complete arrived flights")
				continue
			}
			if completed > 0 {
				log.Info().Int64("count", completed).Msg("flights marked completed")
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
