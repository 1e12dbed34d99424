package main

import (
	authhandler "servicehub/internal/auth/handler"
	authrepo "servicehub/internal/auth/repository"
	authservice "servicehub/internal/auth/service"
	"servicehub/internal/auth/token"
	authvalidator "servicehub/internal/auth/validator"
	"servicehub/internal/availability"
	bookinghandler "servicehub/internal/bookings/handler"
	bookingrepo "servicehub/internal/bookings/repository"
	bookingservice "servicehub/internal/bookings/service"
	bookingvalidator "servicehub/internal/bookings/validator"
	profilehandler "servicehub/internal/profiles/handler"
	profilerepo "servicehub/internal/profiles/repository"
	profileservice "servicehub/internal/profiles/service"
	profilevalidator "servicehub/internal/profiles/validator"
	ratinghandler "servicehub/internal/ratings/handler"
	ratingrepo "servicehub/internal/ratings/repository"
	ratingservice "servicehub/internal/ratings/service"
	ratingvalidator "servicehub/internal/ratings/validator"
	servicehandler "servicehub/internal/services/handler"
	servicerepo "servicehub/internal/services/repository"
	serviceservice "servicehub/internal/services/service"
	servicevalidator "servicehub/internal/services/validator"
	"servicehub/pkg/app"
	"servicehub/pkg/config"
	"servicehub/pkg/contracts"
	"servicehub/pkg/events"
	"servicehub/pkg/kafka"
	kafkaconfig "servicehub/pkg/kafka/config"
	kafkamiddleware "servicehub/pkg/kafka/middleware"
	"servicehub/pkg/lock"
	"servicehub/pkg/model"
)

const ServiceName = "marketplace"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Marketplace service")

	publisher := initPublisher(cfg)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	profiles := profileservice.NewProfileService(
		profilerepo.NewMongoProfileRepository(cfg),
		profilevalidator.NewProfileValidator(cfg.Log),
		cfg,
	)
	services := serviceservice.NewServiceService(
		servicerepo.NewMongoServiceRepository(cfg),
		servicevalidator.NewServiceValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	bookings := bookingservice.NewBookingService(
		bookingRepo,
		services,
		initLocker(cfg),
		publisher,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	slots := availability.NewAvailabilityService(services, bookingRepo, cfg)

	auth := authservice.NewAuthService(
		authrepo.NewMongoUserRepository(cfg),
		issuer,
		authvalidator.NewAuthValidator(cfg.Log),
		cfg,
	)

	handlers := []contracts.Handler{
		authhandler.NewAuthHandler(auth, cfg.Log),
		profilehandler.NewProfileHandler(profiles, cfg.Log),
		servicehandler.NewServiceHandler(services, cfg.Log),
		availability.NewAvailabilityHandler(slots),
		bookinghandler.NewBookingHandler(bookings, cfg.Log),
	}
	for _, target := range []model.RatingTarget{model.RatingTargetService, model.RatingTargetProvider} {
		handlers = append(handlers, ratinghandler.NewRatingHandler(initRatings(cfg, target, publisher)))
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(issuer, profiles, handlers...)
	serverApp.OnShutdown(publisher.Close)
	serverApp.Run()
}

func initRatings(cfg *config.Config, target model.RatingTarget, publisher events.Publisher) ratingservice.RatingService {
	return ratingservice.NewRatingService(
		target,
		ratingrepo.NewMongoRatingRepository(cfg, target),
		ratingrepo.NewMongoTargetRepository(cfg, target),
		publisher,
		ratingvalidator.NewRatingValidator(cfg.Log),
		cfg,
	)
}

// initLocker prefers Redis for slot locks and falls back to the Booking_locks collection.
func initLocker(cfg *config.Config) lock.Locker {
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Slot locks backed by Redis")
		return lock.NewRedisLocker(cfg.Client.Redis)
	}
	cfg.Log.Info("Slot locks backed by MongoDB")
	return lock.NewMongoLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName))
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Domain events disabled")
		return events.Nop{}
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	newProducer := func(topic string) *kafka.Producer {
		producer, err := kafka.NewProducer(kafkaCfg, topic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
		}
		producer.Use(kafkamiddleware.LoggingProducer(cfg.Log))
		producer.Use(kafkamiddleware.MetricsProducer())
		return producer
	}

	cfg.Log.Info("Domain events enabled",
		"brokers", kafkaCfg.Brokers,
		"booking_topic", cfg.BookingEventsTopic,
		"rating_topic", cfg.RatingEventsTopic,
	)
	return events.NewKafkaPublisher(newProducer(cfg.BookingEventsTopic), newProducer(cfg.RatingEventsTopic), ServiceName)
}
