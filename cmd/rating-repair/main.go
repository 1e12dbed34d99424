package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"servicehub/internal/ratings/repair"
	ratingrepo "servicehub/internal/ratings/repository"
	ratingservice "servicehub/internal/ratings/service"
	ratingvalidator "servicehub/internal/ratings/validator"
	"servicehub/pkg/config"
	"servicehub/pkg/events"
	"servicehub/pkg/kafka"
	kafkaconfig "servicehub/pkg/kafka/config"
	kafkamiddleware "servicehub/pkg/kafka/middleware"
	"servicehub/pkg/metrics"
	"servicehub/pkg/model"
)

const ServiceName = "rating-repair"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	metrics.Register()

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	recomputers := make([]repair.Recomputer, 0, 2)
	for _, target := range []model.RatingTarget{model.RatingTargetService, model.RatingTargetProvider} {
		recomputers = append(recomputers, ratingservice.NewRatingService(
			target,
			ratingrepo.NewMongoRatingRepository(cfg, target),
			ratingrepo.NewMongoTargetRepository(cfg, target),
			events.Nop{},
			ratingvalidator.NewRatingValidator(cfg.Log),
			cfg,
		))
	}
	handler := repair.NewHandler(cfg.Log, recomputers...)

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.RatingEventsTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "topic", cfg.RatingEventsTopic, "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumer(cfg.Log))
	consumer.Use(kafkamiddleware.MetricsConsumer())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting rating repair consumer", "topic", cfg.RatingEventsTopic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Rating repair consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Rating repair consumer stopped")
}
