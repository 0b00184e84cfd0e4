package ui

import (
	"time"

	marketDomain "github.com/fd1az/optrack/business/market/domain"
)

// Message types for TUI updates

// MarketMsg is sent when a spot feed produces a value. The dashboard has
// already been updated; the message carries it for the status bar.
type MarketMsg struct {
	Quote marketDomain.Quote
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// HeadMsg is sent when the OP_NET node reports a new height.
type HeadMsg struct {
	Height uint64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
