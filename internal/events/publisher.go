package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher sends change events over redis pub/sub.
type Publisher struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewPublisher(client *redis.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

func (p *Publisher) publish(ctx context.Context, channel, eventType string, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("type", eventType).Error("marshal event")
		return
	}

	if err := p.client.Publish(ctx, channel, eventJSON).Err(); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"channel": channel,
			"type":    eventType,
		}).Warn("publish event")
	}
}

func (p *Publisher) WeekChanged(ctx context.Context, weekID uuid.UUID) {
	p.publish(ctx, WeekChannel(weekID), WeekUpdated, map[string]string{"weekId": weekID.String()})
}

func (p *Publisher) LineItemsChanged(ctx context.Context, weekID uuid.UUID) {
	p.publish(ctx, ItemsChannel(weekID), LineItemsChanged, map[string]string{"weekId": weekID.String()})
}

func (p *Publisher) ItemCompleted(ctx context.Context, event ItemCompletedEvent) {
	p.publish(ctx, ItemsChannel(event.WeekID), ItemCompleted, event)
}
