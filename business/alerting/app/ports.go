package app

import (
	"context"

	"github.com/fd1az/optrack/business/alerting/domain"
)

// TokenDataProvider fetches a quote for every tracked token. A failure for
// one token is an Err quote in the batch, never an error for the batch.
type TokenDataProvider interface {
	FetchAllTracked(ctx context.Context) []domain.TokenQuote
}

// Notifier delivers one event. It reports whether delivery succeeded and
// logs its own failures.
type Notifier interface {
	Send(ctx context.Context, event domain.Event) bool
}
