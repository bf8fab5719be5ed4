package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Handler receives change events for a subscribed week.
type Handler func(ctx context.Context, event Event)

// Subscriber delivers per-week change events from redis pub/sub.
type Subscriber struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewSubscriber(client *redis.Client, logger *logrus.Logger) *Subscriber {
	return &Subscriber{client: client, logger: logger}
}

// Subscribe blocks, invoking handler for every event on the week's channels
// until ctx is cancelled. Malformed payloads are logged and skipped.
func (s *Subscriber) Subscribe(ctx context.Context, weekID uuid.UUID, handler Handler) error {
	sub := s.client.Subscribe(ctx, WeekChannel(weekID), ItemsChannel(weekID))
	defer sub.Close()

	// Confirm the subscription before consuming
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).WithField("channel", msg.Channel).Warn("unmarshal event")
				continue
			}

			handler(ctx, event)
		}
	}
}
