// Package alerting implements the alert monitor bounded context: price
// threshold and new token notifications with a periodic digest.
package alerting

import (
	"context"
	"io"
	"os"

	"github.com/fd1az/optrack/business/alerting/app"
	alertingDI "github.com/fd1az/optrack/business/alerting/di"
	"github.com/fd1az/optrack/business/alerting/infra/console"
	"github.com/fd1az/optrack/business/alerting/infra/notify"
	"github.com/fd1az/optrack/business/alerting/infra/stream"
	"github.com/fd1az/optrack/business/alerting/infra/telegram"
	chainDI "github.com/fd1az/optrack/business/chain/di"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/monolith"
	"github.com/fd1az/optrack/internal/wsconn"
)

// Module implements the alerting bounded context. The chain module must be
// registered.
type Module struct {
	// Console receives messages when Telegram is not configured. Nil means
	// stdout.
	Console io.Writer
}

// RegisterServices registers the notifiers, scheduler and monitor.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, alertingDI.EventHub, func(sr di.ServiceRegistry) *wsconn.Hub {
		log := sr.Get("logger").(logger.LoggerInterface)
		return wsconn.NewHub(wsconn.DefaultConfig(), log)
	})

	di.RegisterToken(c, alertingDI.Notifier, func(sr di.ServiceRegistry) app.Notifier {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		events := stream.NewNotifier(alertingDI.GetEventHub(sr), log)
		primary, err := telegram.NewNotifier(cfg.Telegram, log)
		if err != nil {
			if apperror.IsCode(err, apperror.CodeTelegramNotConfigured) {
				log.Warn(context.Background(), "telegram not configured, printing alerts to console")
			} else {
				log.Error(context.Background(), "telegram notifier unavailable, printing alerts to console", "error", err)
			}
			out := m.Console
			if out == nil {
				out = os.Stdout
			}
			return notify.Fanout{console.NewNotifier(out), events}
		}

		return notify.Fanout{primary, events}
	})

	di.RegisterToken(c, alertingDI.Scheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewScheduler(log)
	})

	di.RegisterToken(c, alertingDI.Monitor, func(sr di.ServiceRegistry) *app.Monitor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		mon, err := app.NewMonitor(
			chainDI.GetTokenService(sr),
			alertingDI.GetNotifier(sr),
			alertingDI.GetScheduler(sr),
			log,
			app.Config{
				Threshold:      cfg.Alerts.Threshold,
				CheckInterval:  cfg.Alerts.CheckInterval(),
				DigestInterval: cfg.Alerts.DigestInterval(),
			},
		)
		if err != nil {
			panic("failed to create alert monitor: " + err.Error())
		}
		return mon
	})

	return nil
}

// Startup announces the monitor, runs the first cycle and schedules the
// rest. Jobs stop when ctx is cancelled and Stop is called.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mon := alertingDI.GetMonitor(mono.Services())
	if err := mon.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "alerting module started",
		"telegram", mono.Config().Telegram.Enabled(),
		"threshold", mono.Config().Alerts.Threshold)
	return nil
}
