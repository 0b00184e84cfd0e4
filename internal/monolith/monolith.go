// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/asset"
	"github.com/fd1az/optrack/internal/config"
	"github.com/fd1az/optrack/internal/di"
	"github.com/fd1az/optrack/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	RPCClient() *rpc.Client
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	rpcClient     *rpc.Client
	assetRegistry *asset.Registry
	container     di.Container
}

// New creates a new Monolith instance connected to the configured OP_NET node.
func New(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	client, err := rpc.DialOptions(ctx, cfg.OPNet.RPCURL,
		rpc.WithHTTPClient(&http.Client{Timeout: cfg.OPNet.RequestTimeout}))
	if err != nil {
		return nil, apperror.New(apperror.CodeOPNetConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(cfg.OPNet.RPCURL))
	}
	return NewWithClient(cfg, log, client), nil
}

// NewWithClient builds the container around an existing RPC client.
func NewWithClient(cfg *config.Config, log logger.LoggerInterface, client *rpc.Client) *app {
	assetRegistry := asset.RegistryFromConfig(cfg.Tokens)

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("rpcClient", client)
	container.Register("assetRegistry", assetRegistry)

	return &app{
		config:        cfg,
		logger:        log,
		rpcClient:     client,
		assetRegistry: assetRegistry,
		container:     container,
	}
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) RPCClient() *rpc.Client {
	return a.rpcClient
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.rpcClient != nil {
		a.rpcClient.Close()
	}
	return nil
}
