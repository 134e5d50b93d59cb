package main

import (
	"slotify/internal/availability"
	bookingshandler "slotify/internal/bookings/handler"
	bookingsrepo "slotify/internal/bookings/repository"
	bookingsservice "slotify/internal/bookings/service"
	bookingsvalidator "slotify/internal/bookings/validator"
	exceptionshandler "slotify/internal/exceptions/handler"
	exceptionsrepo "slotify/internal/exceptions/repository"
	exceptionsservice "slotify/internal/exceptions/service"
	exceptionsvalidator "slotify/internal/exceptions/validator"
	ruleshandler "slotify/internal/rules/handler"
	rulesrepo "slotify/internal/rules/repository"
	rulesservice "slotify/internal/rules/service"
	rulesvalidator "slotify/internal/rules/validator"
	"slotify/pkg/app"
	"slotify/pkg/clock"
	"slotify/pkg/config"
	"slotify/pkg/contracts"
	"slotify/pkg/events"
	"slotify/pkg/kafka"
	kafka_config "slotify/pkg/kafka/config"
	kafka_middleware "slotify/pkg/kafka/middleware"
)

const ServiceName = "slotify-api"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	cfg.Log.Info("Starting Slotify API")
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	ruleRepo := rulesrepo.NewMongoRuleRepository(cfg)
	ruleService := rulesservice.NewRuleService(ruleRepo, rulesvalidator.NewRuleValidator(cfg.Log), cfg)

	exceptionRepo := exceptionsrepo.NewMongoExceptionRepository(cfg)
	exceptionService := exceptionsservice.NewExceptionService(exceptionRepo, exceptionsvalidator.NewExceptionValidator(cfg.Log), cfg)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewAdmissionLockRepository(cfg)

	resolver := availability.NewResolver(ruleRepo, exceptionRepo, cfg.Log)
	generator := availability.NewGenerator(resolver, bookingRepo, cfg.Log)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		resolver,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		clock.System(),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		ruleshandler.NewRuleHandler(ruleService, cfg.Log),
		exceptionshandler.NewExceptionHandler(exceptionService, cfg.Log),
		availability.NewHandler(generator, cfg),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	}
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer)
}
