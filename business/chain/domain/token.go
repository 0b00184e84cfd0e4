package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// TokenInfo is the OP20 metadata of a token contract.
type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int // raw units
}

// Supply returns the total supply in whole tokens.
func (t TokenInfo) Supply() float64 {
	if t.TotalSupply == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(t.TotalSupply, -int32(t.Decimals)).Float64()
	return f
}

// PoolReserves is the state of a MotoSwap pool.
type PoolReserves struct {
	Token0             common.Hash
	Token1             common.Hash
	Reserve0           *big.Int
	Reserve1           *big.Int
	BlockTimestampLast uint64
}
