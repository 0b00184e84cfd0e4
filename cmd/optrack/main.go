// Package main is the entry point for the OPtrack portfolio dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/optrack/business/chain"
	chainDI "github.com/fd1az/optrack/business/chain/di"
	chainDomain "github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/business/market"
	marketDI "github.com/fd1az/optrack/business/market/di"
	marketDomain "github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/business/valuation"
	valuationDI "github.com/fd1az/optrack/business/valuation/di"
	"github.com/fd1az/optrack/business/valuation/domain"
	"github.com/fd1az/optrack/internal/apm"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/metrics"
	"github.com/fd1az/optrack/internal/monolith"
	"github.com/fd1az/optrack/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Print one portfolio snapshot instead of the TUI")
	showVersion := flag.Bool("version", false, "Show version information")

	var holdings domain.HoldingsInput
	flag.StringVar(&holdings.CBRCAmount, "cbrc", os.Getenv("OPT_CBRC_AMOUNT"), "CBRC-20 MOTO held")
	flag.StringVar(&holdings.OP20Amount, "op20", os.Getenv("OPT_OP20_AMOUNT"), "OP20 MOTO held")
	flag.StringVar(&holdings.MotocatsCount, "cats", os.Getenv("OPT_MOTOCATS"), "Motocats owned")
	flag.StringVar(&holdings.PillsAmount, "pills", os.Getenv("OPT_PILLS_AMOUNT"), "Pills held")
	flag.StringVar(&holdings.CBRCPriceSats, "cbrc-price", envOr("OPT_CBRC_PRICE_SATS", domain.InputString(domain.DefaultCBRCPriceSats)), "CBRC-20 MOTO price in sats")
	flag.StringVar(&holdings.InvestedMOTO, "invested-moto", os.Getenv("OPT_INVESTED_MOTO"), "USD invested in MOTO")
	flag.StringVar(&holdings.InvestedMotocats, "invested-cats", os.Getenv("OPT_INVESTED_MOTOCATS"), "USD invested in Motocats")
	flag.StringVar(&holdings.InvestedPills, "invested-pills", os.Getenv("OPT_INVESTED_PILLS"), "USD invested in Pills")
	tierName := flag.String("tier", "high", "Supply tier for scenarios: low, mid, high")
	flag.Parse()

	if *showVersion {
		fmt.Printf("optrack %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for scripting
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	tier, ok := domain.ParseSupplyTier(*tierName)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown supply tier %q\n", *tierName)
		os.Exit(2)
	}

	if err := run(ctx, *configPath, tuiMode, holdings, tier); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, holdings domain.HoldingsInput, tier domain.SupplyTier) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.TUIMode = tuiMode

	log, closeLog, err := newLogger(cfg, tuiMode)
	if err != nil {
		return err
	}
	defer closeLog()

	if !tuiMode {
		log.Info(ctx, "starting OPtrack",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	traceProvider, err := apm.NewTraceProvider(cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer traceProvider.Stop()

	if cfg.Telemetry.Enabled {
		mp, err := metrics.NewMetricProvider(metrics.FromTelemetry(cfg.Telemetry)...)
		if err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
		defer mp.Shutdown(context.Background())
		go metrics.ServePrometheusMetrics(ctx, log, metrics.WithPort(cfg.Telemetry.PrometheusPort))
	}

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&chain.Module{WatchHead: tuiMode},
		&market.Module{},
		&valuation.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if !tuiMode {
		return runCLI(ctx, mono, holdings, tier, os.Stdout)
	}

	startFunc := func() error {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		forwardToUI(ctx, mono)
		return nil
	}
	return runTUI(ctx, mono, startFunc)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// newLogger discards logs in TUI mode unless a log file is configured.
func newLogger(cfg *config.Config, tuiMode bool) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(cfg.App.LogLevel)

	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return logger.New(f, level, cfg.App.Name, tuiEvents(tuiMode)), func() { f.Close() }, nil
	}

	if tuiMode {
		return logger.New(io.Discard, level, cfg.App.Name, tuiEvents(true)), func() {}, nil
	}
	return logger.New(os.Stderr, level, cfg.App.Name, nil), func() {}, nil
}

// tuiEvents surfaces logged errors in the TUI error panel.
func tuiEvents(tuiMode bool) *logger.Events {
	if !tuiMode {
		return nil
	}
	return &logger.Events{
		Error: func(_ context.Context, msg string, fields map[string]any) {
			if cause, ok := fields["error"]; ok {
				msg = fmt.Sprintf("%s: %v", msg, cause)
			}
			ui.Send(ui.ErrorMsg{Error: errors.New(msg)})
		},
	}
}

// runCLI polls both spot feeds once and prints the snapshot.
func runCLI(ctx context.Context, mono monolith.Monolith, holdings domain.HoldingsInput, tier domain.SupplyTier, w io.Writer) error {
	sr := mono.Services()
	dashboard := valuationDI.GetDashboard(sr)
	poller := marketDI.GetPoller(sr)

	// Valuation subscribes to the poller on startup
	if err := (&valuation.Module{}).Startup(ctx, mono); err != nil {
		return err
	}
	poller.Poll(ctx, marketDI.GetBTCFeed(sr))
	poller.Poll(ctx, marketDI.GetFloorFeed(sr))

	snap := dashboard.Snapshot(holdings, tier)

	fmt.Fprintf(w, "BTC/USD %s   Motocats floor %s sats\n\n",
		domain.FormatUSD(snap.Market.BTCUSD), domain.FormatNumber(snap.Market.MotocatsFloorSats, 0))

	fmt.Fprintf(w, "%-10s %16s %12s %14s %14s %10s\n", "Asset", "Quantity", "Price", "Value", "PNL", "PNL %")
	for _, pos := range snap.Portfolio.Positions {
		v := pos.Valuate()
		pnl, pct := domain.NotApplicable, domain.NotApplicable
		if v.Invested > 0 {
			pnl, pct = domain.FormatUSD(v.PNL), domain.FormatPercent(v.PNLPercent)
		}
		fmt.Fprintf(w, "%-10s %16s %12s %14s %14s %10s\n",
			pos.Name, domain.FormatNumber(pos.Quantity, 2), domain.FormatPrice(pos.UnitPrice),
			domain.FormatUSD(v.Value), pnl, pct)
	}
	fmt.Fprintf(w, "%-10s %16s %12s %14s %14s %10s\n\n", "Total", "", "",
		domain.FormatUSD(snap.Totals.Value),
		domain.FormatUSD(snap.Totals.PNL),
		domain.FormatPercent(snap.Totals.PNLPercent))

	fmt.Fprintf(w, "Scenarios (%s supply)\n", snap.Tier)
	rows := append([]domain.ScenarioRow{snap.Current}, snap.Scenarios...)
	for _, r := range rows {
		fmt.Fprintf(w, "%-8s %-13s %12s %14s %14s %10s\n",
			r.Label, r.Tier, domain.FormatPrice(r.ImpliedPrice), domain.FormatUSD(r.Value),
			r.PNL.Format(domain.FormatUSD), r.PNLPercent.Format(domain.FormatPercent))
	}
	return nil
}

// forwardToUI pushes spot quotes and node heads into the TUI.
func forwardToUI(ctx context.Context, mono monolith.Monolith) {
	marketDI.GetPoller(mono.Services()).Subscribe(func(q marketDomain.Quote) {
		ui.Send(ui.MarketMsg{Quote: q})
	})

	svc := chainDI.GetChainService(mono.Services())
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case h, ok := <-svc.Heads():
				if !ok {
					st := svc.Status()
					ui.Send(ui.ConnectionStatusMsg{Name: ui.ConnOPNet, Connected: false})
					mono.Logger().Warn(ctx, "head poller stopped", "state", st.State)
					return
				}
				st := svc.Status()
				ui.Send(ui.HeadMsg{Height: h})
				ui.Send(ui.ConnectionStatusMsg{
					Name:      ui.ConnOPNet,
					Connected: st.State == chainDomain.StateConnected,
					Latency:   st.Latency,
				})
			}
		}
	}()
}

func runTUI(ctx context.Context, mono monolith.Monolith, startFunc func() error) error {
	// Channel to receive the welcome-complete signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(valuationDI.GetDashboard(mono.Services())), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
