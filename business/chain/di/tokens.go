// Package di contains dependency injection tokens for the chain context.
package di

import (
	"github.com/fd1az/optrack/business/chain/app"
	"github.com/fd1az/optrack/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ChainService = di.NewToken[*app.ChainService]("chain.ChainService")
	TokenService = di.NewToken[*app.TokenService]("chain.TokenService")
)

// Private dependency tokens - internal to chain module
var (
	ContractCaller = di.NewToken[app.ContractCaller]("chain:contractCaller")
	TokenReader    = di.NewToken[app.TokenReader]("chain:tokenReader")
	PoolReader     = di.NewToken[app.PoolReserveProvider]("chain:poolReader")
)

// Helper functions for type-safe access
func GetChainService(c di.ServiceRegistry) *app.ChainService {
	return di.GetToken(c, ChainService)
}

func GetTokenService(c di.ServiceRegistry) *app.TokenService {
	return di.GetToken(c, TokenService)
}

func GetContractCaller(c di.ServiceRegistry) app.ContractCaller {
	return di.GetToken(c, ContractCaller)
}

func GetTokenReader(c di.ServiceRegistry) app.TokenReader {
	return di.GetToken(c, TokenReader)
}

func GetPoolReader(c di.ServiceRegistry) app.PoolReserveProvider {
	return di.GetToken(c, PoolReader)
}
