package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/internal/config"
)

func TestRegistryFromConfig_KeepsOrder(t *testing.T) {
	r := RegistryFromConfig(config.DefaultTokens())

	require.Equal(t, 2, r.Count())
	all := r.All()
	assert.Equal(t, "MOTO", all[0].Key())
	assert.Equal(t, "PILL", all[1].Key())

	moto, ok := r.Get("MOTO")
	require.True(t, ok)
	pool, hasPool := moto.PoolID()
	assert.True(t, hasPool)
	assert.Equal(t, "0x1c95032e05257bb66e71434b82440801983069055e89498479b9ebfa3442a336", pool.Hex())
	assert.Equal(t, uint8(18), moto.Decimals())

	_, ok = r.Get("ODYS")
	assert.False(t, ok)
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAsset("A", "", "0x01", "", 8))

	all := r.All()
	all[0] = nil
	assert.NotNil(t, r.All()[0])
}

func TestRegistry_RegisterPanics(t *testing.T) {
	tests := []struct {
		name   string
		second *Asset
	}{
		{"duplicate_key", NewAsset("A", "", "0x02", "", 8)},
		{"duplicate_contract", NewAsset("B", "", "0x01", "", 8)},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Register(NewAsset("A", "", "0x01", "", 8))
			assert.Panics(t, func() { r.Register(tt.second) })
		})
	}
}

func TestNewAsset_WithoutPool(t *testing.T) {
	a := NewAsset("X", "opr1x", "0xfb", "", 18)
	_, hasPool := a.PoolID()
	assert.False(t, hasPool)
	assert.Equal(t, "X", a.String())
	assert.Equal(t, "opr1x", a.Address())
}
