// Package market implements the spot feed bounded context: BTC/USD and the
// Motocats floor, polled on fixed intervals.
package market

import (
	"context"

	"github.com/fd1az/optrack/business/market/app"
	marketDI "github.com/fd1az/optrack/business/market/di"
	"github.com/fd1az/optrack/business/market/infra/coingecko"
	"github.com/fd1az/optrack/business/market/infra/magiceden"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/monolith"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers the feeds and the poller with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, marketDI.BTCFeed, func(sr di.ServiceRegistry) app.Feed {
		cfg := sr.Get("config").(*config.Config)

		feed, err := coingecko.NewFeed(cfg.Feeds.CoinGeckoURL, cfg.Feeds.Timeout)
		if err != nil {
			panic("failed to create coingecko feed: " + err.Error())
		}
		return feed
	})

	di.RegisterToken(c, marketDI.FloorFeed, func(sr di.ServiceRegistry) app.Feed {
		cfg := sr.Get("config").(*config.Config)

		feed, err := magiceden.NewFeed(cfg.Feeds.MagicEdenURL, cfg.Feeds.Collection, cfg.Feeds.Timeout)
		if err != nil {
			panic("failed to create magiceden feed: " + err.Error())
		}
		return feed
	})

	di.RegisterToken(c, marketDI.Poller, func(sr di.ServiceRegistry) *app.Poller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		poller, err := app.NewPoller(log,
			app.Schedule{Feed: marketDI.GetBTCFeed(sr), Interval: cfg.Feeds.BTCInterval},
			app.Schedule{Feed: marketDI.GetFloorFeed(sr), Interval: cfg.Feeds.FloorInterval},
		)
		if err != nil {
			panic("failed to create market poller: " + err.Error())
		}
		return poller
	})

	return nil
}

// Startup starts polling. Feeds run until ctx is cancelled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	poller := marketDI.GetPoller(mono.Services())
	poller.Start(ctx)

	mono.Logger().Info(ctx, "market module started",
		"btc_interval", mono.Config().Feeds.BTCInterval,
		"floor_interval", mono.Config().Feeds.FloorInterval)
	return nil
}
