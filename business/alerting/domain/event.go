package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a notification.
type EventKind string

const (
	EventStartup    EventKind = "startup"
	EventPriceAlert EventKind = "price_alert"
	EventNewToken   EventKind = "new_token"
	EventDigest     EventKind = "digest"
)

// Event is one notification handed to the notifiers. Text is Telegram HTML.
type Event struct {
	ID     uuid.UUID `json:"id"`
	Kind   EventKind `json:"kind"`
	Symbol string    `json:"symbol,omitempty"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// NewEvent stamps a new event with a random id.
func NewEvent(kind EventKind, symbol, text string, at time.Time) Event {
	return Event{
		ID:     uuid.New(),
		Kind:   kind,
		Symbol: symbol,
		Text:   text,
		At:     at,
	}
}
