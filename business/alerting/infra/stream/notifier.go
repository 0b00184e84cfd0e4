// Package stream publishes alert events to websocket subscribers.
package stream

import (
	"context"

	"github.com/fd1az/optrack/business/alerting/app"
	"github.com/fd1az/optrack/business/alerting/domain"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/wsconn"
)

var _ app.Notifier = (*Notifier)(nil)

// Notifier broadcasts every event as JSON on a hub.
type Notifier struct {
	hub    *wsconn.Hub
	logger logger.LoggerInterface
}

// NewNotifier creates a notifier publishing to hub.
func NewNotifier(hub *wsconn.Hub, log logger.LoggerInterface) *Notifier {
	return &Notifier{hub: hub, logger: log}
}

// Send implements app.Notifier. Having no subscribers is not a failure.
func (n *Notifier) Send(ctx context.Context, ev domain.Event) bool {
	got, err := n.hub.BroadcastJSON(ev)
	if err != nil {
		n.logger.Error(ctx, "failed to encode event", "event_id", ev.ID, "error", err)
		return false
	}
	n.logger.Debug(ctx, "event streamed", "kind", ev.Kind, "subscribers", got)
	return true
}
