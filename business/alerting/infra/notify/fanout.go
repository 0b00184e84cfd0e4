// Package notify combines notifiers.
package notify

import (
	"context"

	"github.com/fd1az/optrack/business/alerting/app"
	"github.com/fd1az/optrack/business/alerting/domain"
)

var _ app.Notifier = Fanout(nil)

// Fanout sends each event to every notifier in order. It succeeds if any of
// them does.
type Fanout []app.Notifier

// Send implements app.Notifier.
func (f Fanout) Send(ctx context.Context, ev domain.Event) bool {
	ok := false
	for _, n := range f {
		if n.Send(ctx, ev) {
			ok = true
		}
	}
	return ok
}
