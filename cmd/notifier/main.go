package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"demoride/pkg/config"
	"demoride/pkg/kafka"
	kafkaconfig "demoride/pkg/kafka/config"
	kafkamiddleware "demoride/pkg/kafka/middleware"
	"demoride/pkg/model"
)

const ServiceName = "notifier"

// The notifier consumes notification obligations and hands them to the
// delivery channel. Actual delivery transports are plugged in per deployment;
// by default each notification is logged, which is enough for development and
// for auditing what would have been sent.
func main() {
	cfg := config.Load(ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kafkaCfg := kafkaconfig.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.NotificationsTopic,
		ServiceName,
		kafkaCfg.DLQTopic(kafkaCfg.NotificationsTopic),
		handleNotification(cfg),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))

	cfg.Log.Info("Starting notifier", "topic", kafkaCfg.NotificationsTopic)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

func handleNotification(cfg *config.Config) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var notification model.Notification
		if err := msg.DecodeValue(&notification); err != nil {
			return err
		}

		switch notification.Kind {
		case model.NotificationRelocation:
			cfg.Log.Info("Relocation notice",
				"booking_id", notification.BookingID,
				"event_id", notification.EventID,
				"rider_email", notification.Rider.Email,
				"session_start", notification.SessionStart,
				"alternative_motorcycle_id", notification.AlternativeMotorcycleID,
				"alternative_model", notification.AlternativeModel,
			)
		case model.NotificationSurvey:
			cfg.Log.Info("Survey dispatch",
				"booking_id", notification.BookingID,
				"event_id", notification.EventID,
				"rider_email", notification.Rider.Email,
			)
		default:
			cfg.Log.Warn("Unknown notification kind",
				"kind", notification.Kind,
				"booking_id", notification.BookingID,
			)
		}
		return nil
	}
}
