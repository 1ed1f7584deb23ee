package main

import (
	_ "github.com/joho/godotenv/autoload"

	bookingshandler "demoride/internal/bookings/handler"
	bookingsrepo "demoride/internal/bookings/repository"
	bookingsservice "demoride/internal/bookings/service"
	bookingsvalidator "demoride/internal/bookings/validator"
	eventshandler "demoride/internal/events/handler"
	eventsrepo "demoride/internal/events/repository"
	eventsservice "demoride/internal/events/service"
	eventsvalidator "demoride/internal/events/validator"
	motorcycleshandler "demoride/internal/motorcycles/handler"
	motorcyclesrepo "demoride/internal/motorcycles/repository"
	motorcyclesservice "demoride/internal/motorcycles/service"
	motorcyclesvalidator "demoride/internal/motorcycles/validator"
	sessionshandler "demoride/internal/sessions/handler"
	sessionsrepo "demoride/internal/sessions/repository"
	sessionsservice "demoride/internal/sessions/service"
	"demoride/pkg/app"
	"demoride/pkg/client"
	"demoride/pkg/config"
	"demoride/pkg/contracts"
	"demoride/pkg/kafka"
	kafkaconfig "demoride/pkg/kafka/config"
	kafkamiddleware "demoride/pkg/kafka/middleware"
)

const ServiceName = "demoride"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	notifier := initNotifier(cfg)
	defer func() {
		if err := notifier.Close(); err != nil {
			cfg.Log.Error("Failed to close notification producer", "error", err)
		}
	}()

	cfg.Log.Info("Starting demoride service")
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, notifier)...)
	serverApp.Run()
}

func initNotifier(cfg *config.Config) *kafka.Notifier {
	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(
		kafkaCfg,
		kafkaCfg.NotificationsTopic,
		kafkaCfg.DLQTopic(kafkaCfg.NotificationsTopic),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Notification producer initialized", "topic", kafkaCfg.NotificationsTopic)
	return kafka.NewNotifier(producer, ServiceName)
}

func initHandlers(cfg *config.Config, notifier *kafka.Notifier) []contracts.Handler {
	generator, err := sessionsservice.NewSlotGenerator(cfg)
	if err != nil {
		cfg.Log.Fatal("Invalid slot generator configuration", "error", err)
	}

	var geocoder client.Geocoder
	if cfg.GeocoderBaseURL != "" {
		geocoder = client.NewHTTPGeocoder(cfg.GeocoderBaseURL)
	}

	eventRepo := eventsrepo.NewMongoEventRepository(cfg)
	sessionRepo := sessionsrepo.NewMongoSessionRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewSessionLockRepository(cfg)
	motorcycleRepo := motorcyclesrepo.NewMongoMotorcycleRepository(cfg)
	breakdownRepo := motorcyclesrepo.NewMongoBreakdownReportRepository(cfg)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		sessionRepo,
		motorcycleRepo,
		notifier,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	eventService := eventsservice.NewEventService(
		eventRepo,
		sessionRepo,
		bookingService,
		generator,
		eventsvalidator.NewEventValidator(cfg.Log),
		geocoder,
		cfg,
	)
	sessionService := sessionsservice.NewSessionService(sessionRepo, cfg)
	motorcycleService := motorcyclesservice.NewMotorcycleService(
		motorcycleRepo,
		breakdownRepo,
		bookingRepo,
		bookingService,
		notifier,
		motorcyclesvalidator.NewMotorcycleValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		eventshandler.NewEventHandler(eventService, cfg.Log),
		sessionshandler.NewSessionHandler(sessionService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		motorcycleshandler.NewMotorcycleHandler(motorcycleService, cfg.Log),
	}
}
