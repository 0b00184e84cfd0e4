package opnet

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/optrack/business/chain/app"
	"github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/internal/apperror"
	"github.com/fd1az/optrack/internal/cache"
)

// PoolTTL is how long a pool's token pair is kept before it is re-read.
const PoolTTL = time.Hour

var (
	_ app.TokenReader         = (*OP20)(nil)
	_ app.PoolReserveProvider = (*Pools)(nil)
)

// OP20 reads token metadata.
type OP20 struct {
	caller app.ContractCaller
}

// NewOP20 creates a token reader.
func NewOP20(caller app.ContractCaller) *OP20 {
	return &OP20{caller: caller}
}

// TokenInfo reads name, symbol, decimals and totalSupply.
func (t *OP20) TokenInfo(ctx context.Context, contract common.Hash) (*domain.TokenInfo, error) {
	var info domain.TokenInfo
	var err error

	if info.Name, err = callString(ctx, t.caller, contract, domain.SigName); err != nil {
		return nil, err
	}
	if info.Symbol, err = callString(ctx, t.caller, contract, domain.SigSymbol); err != nil {
		return nil, err
	}

	r, err := call(ctx, t.caller, contract, domain.SigDecimals)
	if err != nil {
		return nil, err
	}
	if info.Decimals, err = r.ReadU8(); err != nil {
		return nil, err
	}

	r, err = call(ctx, t.caller, contract, domain.SigTotalSupply)
	if err != nil {
		return nil, err
	}
	if info.TotalSupply, err = r.ReadU256(); err != nil {
		return nil, err
	}

	return &info, nil
}

// pair is the immutable part of a pool.
type pair struct {
	token0 common.Hash
	token1 common.Hash
}

// Pools reads MotoSwap pool reserves. Token pairs are cached per pool.
type Pools struct {
	caller app.ContractCaller
	pairs  *cache.Cache[common.Hash, pair]
	ttl    time.Duration
}

// NewPools creates a pool reader caching token pairs for ttl.
func NewPools(caller app.ContractCaller, ttl time.Duration) *Pools {
	return &Pools{
		caller: caller,
		pairs:  cache.New[common.Hash, pair](ttl),
		ttl:    ttl,
	}
}

// Close stops the pair cache janitor.
func (p *Pools) Close() {
	p.pairs.Close()
}

// FetchReserves reads the pool's token pair and current reserves.
func (p *Pools) FetchReserves(ctx context.Context, pool common.Hash) (*domain.PoolReserves, error) {
	tokens, err := p.pairs.GetOrLoad(ctx, pool, p.ttl, func(ctx context.Context) (pair, error) {
		return p.loadPair(ctx, pool)
	})
	if err != nil {
		return nil, err
	}

	r, err := call(ctx, p.caller, pool, domain.SigGetReserves)
	if err != nil {
		return nil, err
	}

	res := &domain.PoolReserves{Token0: tokens.token0, Token1: tokens.token1}
	if res.Reserve0, err = r.ReadU256(); err != nil {
		return nil, err
	}
	if res.Reserve1, err = r.ReadU256(); err != nil {
		return nil, err
	}
	if res.BlockTimestampLast, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pools) loadPair(ctx context.Context, pool common.Hash) (pair, error) {
	var out pair

	r, err := call(ctx, p.caller, pool, domain.SigToken0)
	if err != nil {
		return out, err
	}
	if out.token0, err = r.ReadAddress(); err != nil {
		return out, err
	}

	r, err = call(ctx, p.caller, pool, domain.SigToken1)
	if err != nil {
		return out, err
	}
	if out.token1, err = r.ReadAddress(); err != nil {
		return out, err
	}

	if out.token0 == (common.Hash{}) && out.token1 == (common.Hash{}) {
		return out, apperror.New(apperror.CodePoolNotFound, apperror.WithContext(pool.Hex()))
	}
	return out, nil
}

func call(ctx context.Context, caller app.ContractCaller, contract common.Hash, sig string) (*domain.Reader, error) {
	b, err := caller.Call(ctx, contract, domain.EncodeCall(sig))
	if err != nil {
		return nil, err
	}
	return domain.NewReader(b), nil
}

func callString(ctx context.Context, caller app.ContractCaller, contract common.Hash, sig string) (string, error) {
	r, err := call(ctx, caller, contract, sig)
	if err != nil {
		return "", err
	}
	return r.ReadString()
}
