// Package chain implements the OP_NET bounded context: token metadata, pool
// prices and the node head.
package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/optrack/business/chain/app"
	chainDI "github.com/fd1az/optrack/business/chain/di"
	"github.com/fd1az/optrack/business/chain/infra/opnet"
	"github.com/fd1az/optrack/internal/asset"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/logger"
	"github.com/fd1az/optrack/internal/monolith"
)

// Module implements the chain bounded context.
type Module struct {
	// WatchHead starts the background head poller on Startup.
	WatchHead bool
}

// RegisterServices registers all chain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, chainDI.ContractCaller, func(sr di.ServiceRegistry) app.ContractCaller {
		log := sr.Get("logger").(logger.LoggerInterface)
		rc := sr.Get("rpcClient").(*rpc.Client)

		client, err := opnet.NewClient(rc, log)
		if err != nil {
			panic("failed to create opnet client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, chainDI.TokenReader, func(sr di.ServiceRegistry) app.TokenReader {
		return opnet.NewOP20(chainDI.GetContractCaller(sr))
	})

	di.RegisterToken(c, chainDI.PoolReader, func(sr di.ServiceRegistry) app.PoolReserveProvider {
		return opnet.NewPools(chainDI.GetContractCaller(sr), opnet.PoolTTL)
	})

	di.RegisterToken(c, chainDI.TokenService, func(sr di.ServiceRegistry) *app.TokenService {
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		return app.NewTokenService(registry, chainDI.GetTokenReader(sr), chainDI.GetPoolReader(sr), log)
	})

	di.RegisterToken(c, chainDI.ChainService, func(sr di.ServiceRegistry) *app.ChainService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		svc, err := app.NewChainService(chainDI.GetContractCaller(sr), cfg.OPNet.HeadPollInterval, log)
		if err != nil {
			panic("failed to create chain service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup starts the head poller when enabled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	if m.WatchHead {
		chainDI.GetChainService(mono.Services()).Start(ctx)
	}

	log.Info(ctx, "chain module started",
		"rpc_url", mono.Config().OPNet.RPCURL,
		"network", mono.Config().OPNet.Network,
		"tokens", mono.AssetRegistry().Count(),
		"watch_head", m.WatchHead)
	return nil
}
