// Package main runs the OP_NET pool price alert monitor.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fd1az/optrack/business/alerting"
	alertingApp "github.com/fd1az/optrack/business/alerting/app"
	alertingDI "github.com/fd1az/optrack/business/alerting/di"
	"github.com/fd1az/optrack/business/chain"
	chainApp "github.com/fd1az/optrack/business/chain/app"
	chainDI "github.com/fd1az/optrack/business/chain/di"
	"github.com/fd1az/optrack/internal/apm"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/health"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/metrics"
	"github.com/fd1az/optrack/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	once := flag.Bool("once", false, "Run one check and one digest, then exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("optrack-alerts %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name+"-alerts", nil)
	log.Info(ctx, "starting alert monitor",
		"version", version,
		"environment", cfg.App.Environment,
		"tokens", len(cfg.Tokens),
		"threshold", cfg.Alerts.Threshold,
		"once", once)

	traceProvider, err := apm.NewTraceProvider(cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer traceProvider.Stop()

	mp, err := metrics.NewMetricProvider(metrics.FromTelemetry(cfg.Telemetry)...)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	defer mp.Shutdown(context.Background())

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	modules := []monolith.Module{
		&chain.Module{WatchHead: !once},
		&alerting.Module{},
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	monitor := alertingDI.GetMonitor(mono.Services())

	if once {
		res := monitor.RunOnce(ctx)
		log.Info(ctx, "single run complete",
			"quotes", res.Quotes,
			"failed", res.Failed,
			"new_tokens", res.NewTokens,
			"alerts", res.Alerts)
		if res.Quotes > 0 && res.Failed == res.Quotes {
			return fmt.Errorf("no token data: all %d quotes failed", res.Quotes)
		}
		return nil
	}

	hub := alertingDI.GetEventHub(mono.Services())
	defer hub.Close()

	server := health.NewServer(cfg.Server.Port, version, log)
	registerChecks(server, chainDI.GetChainService(mono.Services()), monitor, cfg)
	server.Mount("/events", hub)
	server.Mount("/metrics", metrics.Handler())
	server.Mount("/stats", statsHandler(monitor))
	if err := server.Start(); err != nil {
		log.Warn(ctx, "failed to start status server", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Stop(shutdownCtx)
	}()

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	monitor.Stop()
	return nil
}

// registerChecks wires node reachability and alert cycle freshness.
func registerChecks(s *health.Server, svc *chainApp.ChainService, mon *alertingApp.Monitor, cfg *config.Config) {
	s.RegisterCheck("opnet", func(ctx context.Context) (bool, string) {
		h, err := svc.BlockNumber(ctx)
		if err != nil {
			return false, err.Error()
		}
		return true, fmt.Sprintf("height %d", h)
	})

	// Two missed cycles make the monitor unhealthy.
	maxAge := 2*cfg.Alerts.CheckInterval() + time.Minute
	s.RegisterCheck("alerts", func(context.Context) (bool, string) {
		st := mon.Stats()
		if st.LastCheck.IsZero() {
			return false, "no check yet"
		}
		age := time.Since(st.LastCheck).Round(time.Second)
		if age > maxAge {
			return false, fmt.Sprintf("last check %s ago", age)
		}
		return true, fmt.Sprintf("%s, last check %s ago, %d known tokens", st.State, age, len(st.KnownTokens))
	})
}

func statsHandler(mon *alertingApp.Monitor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mon.Stats())
	})
}
