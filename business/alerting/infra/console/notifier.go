// Package console writes alert events to a terminal or log file.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fd1az/optrack/business/alerting/app"
	"github.com/fd1az/optrack/business/alerting/domain"
)

var _ app.Notifier = (*Notifier)(nil)

// Notifier prints the plain text of each event.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier creates a notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Send implements app.Notifier.
func (n *Notifier) Send(_ context.Context, ev domain.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintf(n.w, "── %s · %s ──\n%s\n\n", ev.Kind, ev.At.Format(domain.ClockLayout), domain.PlainText(ev.Text))
	return err == nil
}
