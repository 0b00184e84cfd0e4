// Package valuation implements the portfolio valuation bounded context.
package valuation

import (
	"context"

	marketDI "github.com/fd1az/optrack/business/market/di"
	marketDomain "github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/business/valuation/app"
	valuationDI "github.com/fd1az/optrack/business/valuation/di"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/monolith"
)

// Module implements the valuation bounded context.
type Module struct{}

// RegisterServices registers the dashboard with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, valuationDI.Dashboard, func(di.ServiceRegistry) *app.Dashboard {
		return app.NewDashboard()
	})
	return nil
}

// Startup feeds spot quotes from the market poller into the dashboard.
// The market module must be registered.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	dashboard := valuationDI.GetDashboard(mono.Services())
	poller := marketDI.GetPoller(mono.Services())

	poller.Subscribe(func(q marketDomain.Quote) {
		switch q.Kind {
		case marketDomain.KindBTCUSD:
			dashboard.SetBTCUSD(q.Value, q.At)
		case marketDomain.KindFloorSats:
			dashboard.SetFloorSats(q.Value, q.At)
		}
	})

	mono.Logger().Info(ctx, "valuation module started")
	return nil
}
