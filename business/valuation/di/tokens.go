// Package di contains dependency injection tokens for the valuation context.
package di

import (
	"github.com/fd1az/optrack/business/valuation/app"
	"github.com/fd1az/optrack/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Dashboard = di.NewToken[*app.Dashboard]("valuation.Dashboard")
)

// GetDashboard returns the dashboard service.
func GetDashboard(c di.ServiceRegistry) *app.Dashboard {
	return di.GetToken(c, Dashboard)
}
