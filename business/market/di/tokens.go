// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/fd1az/optrack/business/market/app"
	"github.com/fd1az/optrack/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Poller = di.NewToken[*app.Poller]("market.Poller")
)

// Private dependency tokens - internal to market module
var (
	BTCFeed   = di.NewToken[app.Feed]("market:btcFeed")
	FloorFeed = di.NewToken[app.Feed]("market:floorFeed")
)

// GetPoller returns the spot feed poller.
func GetPoller(c di.ServiceRegistry) *app.Poller {
	return di.GetToken(c, Poller)
}

func GetBTCFeed(c di.ServiceRegistry) app.Feed {
	return di.GetToken(c, BTCFeed)
}

func GetFloorFeed(c di.ServiceRegistry) app.Feed {
	return di.GetToken(c, FloorFeed)
}
