// Package asset models the OP_NET tokens tracked by OPtrack.
package asset

import "github.com/ethereum/go-ethereum/common"

// Asset is the metadata of a tracked OP20 token. Identity is the contract id;
// the key is the config name used for display before on-chain metadata arrives.
type Asset struct {
	key        string
	address    string
	contractID common.Hash
	poolID     common.Hash
	hasPool    bool
	decimals   uint8
}

// NewAsset creates an Asset. poolHex may be empty for unpriced tokens.
func NewAsset(key, address, contractHex, poolHex string, decimals uint8) *Asset {
	if key == "" {
		panic("asset: empty key")
	}
	if decimals > 36 {
		panic("asset: suspicious decimals (>36)")
	}

	a := &Asset{
		key:        key,
		address:    address,
		contractID: common.HexToHash(contractHex),
		decimals:   decimals,
	}
	if poolHex != "" {
		a.poolID = common.HexToHash(poolHex)
		a.hasPool = true
	}
	return a
}

// Key returns the config key (e.g. "MOTO").
func (a *Asset) Key() string {
	return a.key
}

// Address returns the bech32 contract address, display only.
func (a *Asset) Address() string {
	return a.address
}

// ContractID returns the 32-byte contract id.
func (a *Asset) ContractID() common.Hash {
	return a.contractID
}

// PoolID returns the MotoSwap pool id and whether the token has one.
func (a *Asset) PoolID() (common.Hash, bool) {
	return a.poolID, a.hasPool
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// String returns the key.
func (a *Asset) String() string {
	return a.key
}
