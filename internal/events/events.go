package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	WeekUpdated      = "week.updated"
	LineItemsChanged = "week.items.changed"
	ItemCompleted    = "item.completed"
)

// Channel names, scoped per week so subscribers only see their own changes
func WeekChannel(weekID uuid.UUID) string {
	return "liquidity.week." + weekID.String()
}

func ItemsChannel(weekID uuid.UUID) string {
	return WeekChannel(weekID) + ".items"
}

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// ItemCompletedEvent is emitted when a line item transitions to completed.
// The invoice-sync handler uses it to mirror the completion onto the linked
// invoice; the transition itself is already committed when this fires.
type ItemCompletedEvent struct {
	ItemID            uuid.UUID  `json:"itemId"`
	WeekID            uuid.UUID  `json:"weekId"`
	LinkedInvoiceID   *uuid.UUID `json:"linkedInvoiceId,omitempty"`
	LinkedInvoiceType string     `json:"linkedInvoiceType"`
}

// ChangeNotifier is the engine's view of the change-notification transport.
// Notifications are advisory "something changed" signals; delivery is best
// effort and never blocks or fails a mutation.
type ChangeNotifier interface {
	WeekChanged(ctx context.Context, weekID uuid.UUID)
	LineItemsChanged(ctx context.Context, weekID uuid.UUID)
	ItemCompleted(ctx context.Context, event ItemCompletedEvent)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) WeekChanged(context.Context, uuid.UUID)      {}
func (NopNotifier) LineItemsChanged(context.Context, uuid.UUID) {}
func (NopNotifier) ItemCompleted(context.Context, ItemCompletedEvent) {
}
