package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	alertingApp "github.com/fd1az/optrack/business/alerting/app"
	alerting "github.com/fd1az/optrack/business/alerting/domain"
	"github.com/fd1az/optrack/business/chain/domain"
	valuation "github.com/fd1az/optrack/business/valuation/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/asset"
	"github.com/fd1az/optrack/internal/logger"
)

const tracerName = "chain"

var _ alertingApp.TokenDataProvider = (*TokenService)(nil)

// TokenSnapshot is what was read on chain for one tracked token.
type TokenSnapshot struct {
	Asset *asset.Asset
	Info  domain.TokenInfo
	// Price in sats per token, nil when the token has no pool or the pool
	// could not be read or does not hold the token.
	Price     *float64
	FetchedAt time.Time
}

// TokenService reads metadata and pool prices for the tracked tokens.
type TokenService struct {
	registry *asset.Registry
	tokens   TokenReader
	pools    PoolReserveProvider
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	now      func() time.Time
}

// NewTokenService creates a TokenService over registry.
func NewTokenService(registry *asset.Registry, tokens TokenReader, pools PoolReserveProvider, log logger.LoggerInterface) *TokenService {
	return &TokenService{
		registry: registry,
		tokens:   tokens,
		pools:    pools,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Snapshot reads one token. Metadata failures are errors; pool failures
// only leave the price unset.
func (s *TokenService) Snapshot(ctx context.Context, a *asset.Asset) (*TokenSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "chain.token_snapshot",
		trace.WithAttributes(attribute.String("token", a.Key())))
	defer span.End()

	info, err := s.tokens.TokenInfo(ctx, a.ContractID())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token info failed")
		return nil, apperror.New(apperror.CodeTokenDataFailed,
			apperror.WithCause(err),
			apperror.WithContext(a.Key()))
	}

	snap := &TokenSnapshot{Asset: a, Info: *info, FetchedAt: s.now()}

	if poolID, ok := a.PoolID(); ok {
		snap.Price = s.poolPrice(ctx, a, poolID, info.Decimals)
	}

	span.SetStatus(codes.Ok, "snapshot")
	return snap, nil
}

func (s *TokenService) poolPrice(ctx context.Context, a *asset.Asset, poolID common.Hash, decimals uint8) *float64 {
	reserves, err := s.pools.FetchReserves(ctx, poolID)
	if err != nil {
		s.logger.Warn(ctx, "pool reserves unavailable", "token", a.Key(), "pool", poolID.Hex(), "error", err)
		return nil
	}

	price, ok := valuation.ResolvePoolPrice([2]valuation.PoolSide{
		{TokenID: reserves.Token0.Hex(), Reserve: reserves.Reserve0},
		{TokenID: reserves.Token1.Hex(), Reserve: reserves.Reserve1},
	}, a.ContractID().Hex(), decimals)
	if !ok {
		s.logger.Warn(ctx, "pool does not price token",
			"token", a.Key(),
			"token0", reserves.Token0.Hex(),
			"token1", reserves.Token1.Hex(),
			"error", apperror.New(apperror.CodePoolTokenMismatch, apperror.WithContext(poolID.Hex())))
		return nil
	}
	return &price
}

// SnapshotAll reads every tracked token in registry order. errs[i] is set
// when snaps[i] is nil.
func (s *TokenService) SnapshotAll(ctx context.Context) ([]*TokenSnapshot, []error) {
	all := s.registry.All()
	snaps := make([]*TokenSnapshot, len(all))
	errs := make([]error, len(all))

	for i, a := range all {
		snaps[i], errs[i] = s.Snapshot(ctx, a)
	}
	return snaps, errs
}

// FetchAllTracked implements alerting's TokenDataProvider. Each token that
// fails becomes an Err quote keyed by its config key.
func (s *TokenService) FetchAllTracked(ctx context.Context) []alerting.TokenQuote {
	tracked := s.registry.All()
	snaps, errs := s.SnapshotAll(ctx)

	quotes := make([]alerting.TokenQuote, len(snaps))
	for i, snap := range snaps {
		if errs[i] != nil {
			quotes[i] = alerting.NewErrQuote(tracked[i].Key(), errs[i].Error())
			continue
		}
		quotes[i] = snap.Quote()
	}
	return quotes
}

// Quote converts the snapshot to an alerting quote keyed by on-chain symbol.
func (t *TokenSnapshot) Quote() alerting.TokenQuote {
	supply := t.Info.Supply()

	symbol := t.Info.Symbol
	if symbol == "" {
		symbol = t.Asset.Key()
	}

	return alerting.NewOkQuote(symbol, alerting.TokenData{
		Name:      t.Info.Name,
		Price:     t.Price,
		Supply:    &supply,
		Decimals:  t.Info.Decimals,
		Address:   t.Asset.Address(),
		FetchedAt: t.FetchedAt,
	})
}
