// Package app contains the chain services and their ports.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/optrack/business/chain/domain"
)

// ContractCaller executes read-only contract calls against an OP_NET node.
type ContractCaller interface {
	// Call runs calldata against contract and returns the decoded result bytes.
	Call(ctx context.Context, contract common.Hash, calldata []byte) ([]byte, error)

	// BlockNumber returns the current chain height.
	BlockNumber(ctx context.Context) (uint64, error)
}

// TokenReader reads OP20 metadata.
type TokenReader interface {
	TokenInfo(ctx context.Context, contract common.Hash) (*domain.TokenInfo, error)
}

// PoolReserveProvider reads MotoSwap pool state. On failure it returns nil
// and an error; callers treat that as unpriced.
type PoolReserveProvider interface {
	FetchReserves(ctx context.Context, pool common.Hash) (*domain.PoolReserves, error)
}
