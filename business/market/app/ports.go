// Package app contains the spot feed poller and port definitions for the market context.
package app

import (
	"context"

	"github.com/fd1az/optrack/business/market/domain"
)

// Feed fetches the current value of one spot series.
type Feed interface {
	// Kind is the series the feed produces.
	Kind() domain.Kind
	// Fetch returns the current value.
	Fetch(ctx context.Context) (float64, error)
}

// Listener receives every successful quote.
type Listener func(domain.Quote)
