// Package di contains dependency injection tokens for the alerting context.
package di

import (
	"github.com/fd1az/optrack/business/alerting/app"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/wsconn"
)

// Public service tokens - exposed to other modules
var (
	Monitor  = di.NewToken[*app.Monitor]("alerting.Monitor")
	EventHub = di.NewToken[*wsconn.Hub]("alerting.EventHub")
)

// Private dependency tokens - internal to alerting module
var (
	Scheduler = di.NewToken[*app.Scheduler]("alerting:scheduler")
	Notifier  = di.NewToken[app.Notifier]("alerting:notifier")
)

// Helper functions for type-safe access
func GetMonitor(c di.ServiceRegistry) *app.Monitor {
	return di.GetToken(c, Monitor)
}

func GetEventHub(c di.ServiceRegistry) *wsconn.Hub {
	return di.GetToken(c, EventHub)
}

func GetScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, Scheduler)
}

func GetNotifier(c di.ServiceRegistry) app.Notifier {
	return di.GetToken(c, Notifier)
}
