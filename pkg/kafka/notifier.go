package kafka

import (
	"context"
	"fmt"

	"demoride/pkg/model"
)

// Notifier publishes notification obligations for the external delivery
// service. The core treats a successful publish as having met its
// notification obligation; delivery failures are the consumer's problem.
type Notifier struct {
	producer *Producer
	source   string
}

func NewNotifier(producer *Producer, source string) *Notifier {
	return &Notifier{
		producer: producer,
		source:   source,
	}
}

func (n *Notifier) Notify(ctx context.Context, notification model.Notification) error {
	msg := NewMessage().
		WithKey(notification.BookingID).
		WithValue(notification).
		WithEventType("notification." + string(notification.Kind)).
		WithSource(n.source).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s notification for booking %s: %w",
			notification.Kind, notification.BookingID, err)
	}
	return nil
}

func (n *Notifier) Close() error {
	return n.producer.Close()
}
