// Package domain contains the spot price types of the market context.
package domain

import "time"

// Kind identifies a spot series.
type Kind string

const (
	KindBTCUSD    Kind = "btc_usd"
	KindFloorSats Kind = "motocats_floor_sats"
)

// Quote is one observation of a spot series.
type Quote struct {
	Kind  Kind
	Value float64
	At    time.Time
}
