package app

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/business/chain/domain"
	"github.com/fd1az/optrack/internal/asset"
	"github.com/fd1az/optrack/internal/logger"
)

const (
	motoHex  = "0x0a6732489a31e6de07917a28ff7df311fc5f98f6e1664943ac1c3fe7893bdab5"
	motoPool = "0x1c95032e05257bb66e71434b82440801983069055e89498479b9ebfa3442a336"
	pillHex  = "0xfb7df2f08d8042d4df0506c0d4cee3cfa5f2d7b02ef01ec76dd699551393a438"
	pillPool = "0xc81087dd127d3d3fed8f198b3da6f36064ca359d3179ef6fa61bb61ddb1b5bfa"
	wbtcHex  = "0x00000000000000000000000000000000000000000000000000000000000000b7"
	odysHex  = "0x00000000000000000000000000000000000000000000000000000000000000d5"
)

type fakeTokens map[common.Hash]*domain.TokenInfo

func (f fakeTokens) TokenInfo(_ context.Context, id common.Hash) (*domain.TokenInfo, error) {
	info, ok := f[id]
	if !ok {
		return nil, errors.New("contract reverted")
	}
	return info, nil
}

type fakePools map[common.Hash]*domain.PoolReserves

func (f fakePools) FetchReserves(_ context.Context, id common.Hash) (*domain.PoolReserves, error) {
	r, ok := f[id]
	if !ok {
		return nil, errors.New("pool unreachable")
	}
	return r, nil
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func testRegistry() *asset.Registry {
	r := asset.NewRegistry()
	r.Register(asset.NewAsset("MOTO", "opr1moto", motoHex, motoPool, 18))
	r.Register(asset.NewAsset("PILL", "opr1pill", pillHex, pillPool, 18))
	r.Register(asset.NewAsset("ODYS", "opr1odys", odysHex, "", 18))
	return r
}

func TestTokenService_FetchAllTracked(t *testing.T) {
	tokens := fakeTokens{
		common.HexToHash(motoHex): {Name: "Motoswap", Symbol: "MOTO", Decimals: 18, TotalSupply: wei("1000000000000000000000000000")},
		common.HexToHash(odysHex): {Name: "Odyssey", Symbol: "ODYS", Decimals: 18, TotalSupply: wei("0")},
	}
	pools := fakePools{
		// MOTO sits in slot 1: 1,000 MOTO against 250 quote units.
		common.HexToHash(motoPool): {
			Token0:   common.HexToHash(wbtcHex),
			Token1:   common.HexToHash(motoHex),
			Reserve0: wei("250000000000000000000"),
			Reserve1: wei("1000000000000000000000"),
		},
	}

	svc := NewTokenService(testRegistry(), tokens, pools, logger.Nop())
	quotes := svc.FetchAllTracked(context.Background())
	require.Len(t, quotes, 3)

	moto := quotes[0]
	require.False(t, moto.IsErr())
	assert.Equal(t, "MOTO", moto.Symbol)
	price, ok := moto.Price()
	require.True(t, ok)
	assert.InDelta(t, 0.25, price, 1e-12)
	assert.Equal(t, 1e9, moto.Supply())

	pill := quotes[1]
	assert.True(t, pill.IsErr(), "metadata failure is an Err quote")
	assert.Equal(t, "PILL", pill.Symbol)
	assert.Contains(t, pill.Reason(), "contract reverted")

	odys := quotes[2]
	require.False(t, odys.IsErr())
	_, ok = odys.Price()
	assert.False(t, ok, "no pool means unpriced")
	data, _ := odys.Data()
	assert.Equal(t, "opr1odys", data.Address)
}

func TestTokenService_PoolProblemsLeavePriceUnset(t *testing.T) {
	tokens := fakeTokens{
		common.HexToHash(motoHex): {Symbol: "MOTO", Decimals: 18, TotalSupply: wei("1")},
	}

	tests := []struct {
		name  string
		pools fakePools
	}{
		{"unreachable", fakePools{}},
		{"token_not_in_pool", fakePools{common.HexToHash(motoPool): {
			Token0:   common.HexToHash(wbtcHex),
			Token1:   common.HexToHash(pillHex),
			Reserve0: wei("1"),
			Reserve1: wei("1"),
		}}},
		{"empty_reserve", fakePools{common.HexToHash(motoPool): {
			Token0:   common.HexToHash(motoHex),
			Token1:   common.HexToHash(wbtcHex),
			Reserve0: wei("0"),
			Reserve1: wei("5"),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := asset.NewRegistry()
			a := asset.NewAsset("MOTO", "", motoHex, motoPool, 18)
			r.Register(a)

			snap, err := NewTokenService(r, tokens, tt.pools, logger.Nop()).Snapshot(context.Background(), a)
			require.NoError(t, err)
			assert.Nil(t, snap.Price)
		})
	}
}

func TestTokenSnapshot_QuoteFallsBackToKey(t *testing.T) {
	snap := &TokenSnapshot{
		Asset: asset.NewAsset("PILL", "opr1pill", pillHex, "", 18),
		Info:  domain.TokenInfo{Decimals: 18, TotalSupply: wei("0")},
	}
	assert.Equal(t, "PILL", snap.Quote().Symbol)
}
