package asset

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/optrack/internal/config"
)

// Registry holds the tracked tokens in config order. Fetch passes and the
// digest iterate it, so order is part of the output.
type Registry struct {
	mu    sync.RWMutex
	order []*Asset
	byKey map[string]*Asset
	ids   map[common.Hash]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]*Asset),
		ids:   make(map[common.Hash]struct{}),
	}
}

// RegistryFromConfig builds a registry from the configured token list.
func RegistryFromConfig(tokens []config.TokenConfig) *Registry {
	r := NewRegistry()
	for _, t := range tokens {
		r.Register(NewAsset(t.Key, t.Address, t.ContractID, t.PoolID, t.Decimals))
	}
	return r
}

// Register adds a. It panics on a duplicate key or contract id; config
// validation rejects both before this point.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[a.Key()]; exists {
		panic(fmt.Sprintf("asset: %s already registered", a.Key()))
	}
	if _, exists := r.ids[a.ContractID()]; exists {
		panic(fmt.Sprintf("asset: contract %s already registered", a.ContractID().Hex()))
	}

	r.order = append(r.order, a)
	r.byKey[a.Key()] = a
	r.ids[a.ContractID()] = struct{}{}
}

// Get looks up a token by config key.
func (r *Registry) Get(key string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byKey[key]
	return a, ok
}

// All returns the tokens in registration order.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Asset, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
