package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/opsdash/liquidity-engine/internal/events"
	"github.com/opsdash/liquidity-engine/pkg/response"
)

// StreamHandler bridges per-week change notifications to server-sent events
// so the presentation layer can re-fetch when line items change.
type StreamHandler struct {
	subscriber *events.Subscriber
	logger     *logrus.Logger
}

func NewStreamHandler(subscriber *events.Subscriber, logger *logrus.Logger) *StreamHandler {
	return &StreamHandler{
		subscriber: subscriber,
		logger:     logger,
	}
}

// WeekEvents handles GET /weeks/{weekId}/events. The stream stays open until
// the client disconnects; each change event is forwarded as one SSE message.
func (h *StreamHandler) WeekEvents(w http.ResponseWriter, r *http.Request) {
	weekID, ok := pathUUID(w, r, "weekId")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	err := h.subscriber.Subscribe(r.Context(), weekID, func(ctx context.Context, event events.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.WithError(err).Warn("marshal stream event")
			return
		}

		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.WithError(err).WithField("week_id", weekID).Warn("event stream closed")
	}
}
