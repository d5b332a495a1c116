package base

import (
	"sync"
	"sync/atomic"
)

// ChainBuilder constructs a fresh slot chain for a newly seen resource.
// It is supplied by whoever assembles the module (see the api package)
// so that core/base never has to import the concrete slot
// implementations (core/flow and friends) that populate the chain.
type ChainBuilder func() *SlotChain

// Registry maps resources to their slot chain, building chains lazily
// on first use and capping the number of distinct resources it will
// track. It mirrors CtSph.lookProcessChain: a copy-on-write map read
// through an atomic snapshot so lookups never block on a mutex, with a
// mutex only guarding the (rare) path that installs a new chain.
type Registry struct {
	mu       sync.Mutex
	snapshot atomic.Value
	build    ChainBuilder
}

// NewRegistry creates a registry that uses build to construct the
// chain for each resource seen for the first time.
func NewRegistry(build ChainBuilder) *Registry {
	r := &Registry{build: build}
	r.snapshot.Store(map[ResourceWrapper]*SlotChain{})
	return r
}

func (r *Registry) chains() map[ResourceWrapper]*SlotChain {
	return r.snapshot.Load().(map[ResourceWrapper]*SlotChain)
}

// LookupChain returns the chain for resource, building and installing
// one if this is the first time the resource has been seen. It returns
// nil once the registry has reached MaxSlotChainSize and resource is
// not already tracked, signalling the caller to admit the call without
// running it through any slot.
func (r *Registry) LookupChain(resource ResourceWrapper) *SlotChain {
	if chain, ok := r.chains()[resource]; ok {
		return chain
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.chains()
	if chain, ok := current[resource]; ok {
		return chain
	}
	if len(current) >= MaxSlotChainSize {
		return nil
	}

	chain := r.build()
	next := make(map[ResourceWrapper]*SlotChain, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[resource] = chain
	r.snapshot.Store(next)
	return chain
}

// Size reports how many resources currently have an installed chain.
func (r *Registry) Size() int {
	return len(r.chains())
}
