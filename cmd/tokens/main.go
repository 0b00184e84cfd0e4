// Package main prints name, symbol, decimals, supply and pool price for
// every tracked OP20 token.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/fd1az/optrack/business/chain"
	"github.com/fd1az/optrack/business/chain/app"
	chainDI "github.com/fd1az/optrack/business/chain/di"
	"github.com/fd1az/optrack/business/valuation/domain"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/monolith"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	only := flag.String("token", "", "Only fetch the token with this config key")
	verbose := flag.Bool("v", false, "Log RPC activity to stderr")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *only, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, only string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.LevelWarn
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewConsole(os.Stderr, level, cfg.App.Name)

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	if err := mono.RegisterModules(&chain.Module{}); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	tokens := chainDI.GetTokenService(mono.Services())

	if only != "" {
		a, ok := mono.AssetRegistry().Get(only)
		if !ok {
			return fmt.Errorf("token %q is not configured", only)
		}
		snap, err := tokens.Snapshot(ctx, a)
		if err != nil {
			return err
		}
		printSnapshots(os.Stdout, []*app.TokenSnapshot{snap})
		return nil
	}

	fmt.Printf("Fetching %d tokens from %s\n\n", mono.AssetRegistry().Count(), cfg.OPNet.RPCURL)

	snaps, errs := tokens.SnapshotAll(ctx)

	ok := make([]*app.TokenSnapshot, 0, len(snaps))
	failed := 0
	for i, snap := range snaps {
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %v\n", errs[i])
			failed++
			continue
		}
		ok = append(ok, snap)
	}
	printSnapshots(os.Stdout, ok)

	if len(ok) == 0 && failed > 0 {
		return fmt.Errorf("no token data")
	}
	return nil
}

func printSnapshots(w io.Writer, snaps []*app.TokenSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tSYMBOL\tDECIMALS\tSUPPLY\tPRICE\tCONTRACT")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.Asset.Key(),
			s.Info.Name,
			s.Info.Symbol,
			s.Info.Decimals,
			domain.FormatNumber(s.Info.Supply(), 3),
			domain.FormatSats(s.Price),
			s.Asset.ContractID().Hex(),
		)
	}
	tw.Flush()
}
