// Package api is the public surface embedding applications use: build
// an Engine, load flow rules into it, and wrap protected code between
// Entry and Exit. It mirrors the vendor Sentinel port's api package —
// a thin functional-options entry point in front of the base/flow
// machinery — down to pooling the per-call options struct so a hot
// path doing thousands of entries a second does not allocate one.
package api

import (
	"sync"

	"github.com/Allchin/Sentinel/core/base"
	"github.com/Allchin/Sentinel/core/flow"
)

// Engine bundles the admission-check machinery an application needs:
// the resource registry and global switch (base.Engine) and the flow
// rule set that drives the flow slot every chain is built with.
type Engine struct {
	core  *base.Engine
	rules *flow.RuleManager

	mu       sync.RWMutex
	nodes    base.NodeProvider
	clusters base.ClusterNodeProvider
}

// NewEngine builds an Engine. nodes and clusters back the flow slot's
// node selection and may be nil — rules that would need them then
// simply never match, per Rule.PassCheck's "no node, no match" contract.
func NewEngine(nodes base.NodeProvider, clusters base.ClusterNodeProvider) *Engine {
	e := &Engine{
		rules:    flow.NewRuleManager(),
		nodes:    nodes,
		clusters: clusters,
	}
	e.core = base.NewEngine(e.buildChain)
	return e
}

func (e *Engine) buildChain() *base.SlotChain {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return base.NewSlotChain(flow.NewSlot(e.rules, e.nodes, e.clusters))
}

// SetNodeProvider replaces the node provider used by future chain
// builds. Chains already built for a resource keep using the provider
// in effect when they were built, matching the registry's
// build-once-per-resource contract; call this before traffic starts if
// you need it to apply everywhere.
func (e *Engine) SetNodeProvider(nodes base.NodeProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes = nodes
}

// SetClusterNodeProvider replaces the cluster node provider used by
// future chain builds. See SetNodeProvider's caveat about already-built
// chains.
func (e *Engine) SetClusterNodeProvider(clusters base.ClusterNodeProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clusters = clusters
}

// LoadRules replaces the engine's entire flow rule set. It returns an
// error wrapping a *flow.ConfigError, and leaves the previous rule set
// in effect, if any rule fails to compile.
func (e *Engine) LoadRules(rules []*flow.Rule) error { return e.rules.LoadRules(rules) }

// Rules returns the rules currently configured for resource.
func (e *Engine) Rules(resource string) []*flow.Rule { return e.rules.RulesFor(resource) }

// SetEnabled flips the engine's global switch. While off, Entry always
// admits without evaluating any rule.
func (e *Engine) SetEnabled(on bool) { e.core.SetEnabled(on) }

// Registry exposes the underlying resource registry, mainly so callers
// can watch Size() against MaxSlotChainSize in tests or dashboards.
func (e *Engine) Registry() *base.Registry { return e.core.Registry() }

var entryOptsPool = sync.Pool{
	New: func() interface{} {
		return &EntryOptions{entryType: base.Outbound, resKind: base.KindString, batchCount: 1}
	},
}

// EntryOptions configures one call to Entry. Build values with the
// With* functions below rather than constructing this directly.
type EntryOptions struct {
	entryType  base.EntryType
	resKind    base.ResourceKind
	batchCount uint32
	args       []interface{}
	ctx        *base.Context
}

func (o *EntryOptions) reset() {
	o.entryType = base.Outbound
	o.resKind = base.KindString
	o.batchCount = 1
	o.args = nil
	o.ctx = nil
}

type EntryOption func(*EntryOptions)

// WithTrafficType marks the call as Inbound or Outbound traffic.
func WithTrafficType(t base.EntryType) EntryOption {
	return func(o *EntryOptions) { o.entryType = t }
}

// WithBatchCount sets how many units this single call acquires (1 by
// default).
func WithBatchCount(n uint32) EntryOption {
	return func(o *EntryOptions) { o.batchCount = n }
}

// WithArgs attaches extra parameters controllers may use.
func WithArgs(args ...interface{}) EntryOption {
	return func(o *EntryOptions) { o.args = append(o.args, args...) }
}

// WithResourceKind marks resource as a method descriptor (base.KindMethod)
// rather than a plain name (the default, base.KindString), so callers
// wrapping a specific method get a resource identity that says so.
func WithResourceKind(kind base.ResourceKind) EntryOption {
	return func(o *EntryOptions) { o.resKind = kind }
}

// WithContext supplies the *base.Context this call belongs to. Passing
// base.NullContext() disables rule checking for this call; omitting
// WithContext entirely auto-creates a default context, and Exit still
// closes it normally.
func WithContext(ctx *base.Context) EntryOption {
	return func(o *EntryOptions) { o.ctx = ctx }
}

// Entry attempts to admit one call to resource on e. On success it
// returns an *base.Entry the caller must Exit exactly once, typically
// with `defer entry.Exit(...)` right after a successful call. On
// denial it returns a nil entry and the *base.BlockError that fired.
func (e *Engine) Entry(resource string, opts ...EntryOption) (*base.Entry, error) {
	options := entryOptsPool.Get().(*EntryOptions)
	defer func() {
		options.reset()
		entryOptsPool.Put(options)
	}()
	for _, opt := range opts {
		opt(options)
	}

	var rw base.ResourceWrapper
	if options.resKind == base.KindMethod {
		rw = base.NewMethodResource(resource, options.entryType)
	} else {
		rw = base.NewResource(resource, options.entryType)
	}
	return e.core.Entry(options.ctx, rw, options.batchCount, options.args...)
}

var defaultEngine = NewEngine(nil, nil)

// Default returns the package-level Engine used by the free functions
// below, for callers that want to reach past them (e.g. to install a
// NodeProvider).
func Default() *Engine { return defaultEngine }

// LoadRules loads rules into the default engine.
func LoadRules(rules []*flow.Rule) error { return defaultEngine.LoadRules(rules) }

// SetEnabled flips the default engine's global switch.
func SetEnabled(on bool) { defaultEngine.SetEnabled(on) }

// Entry attempts to admit one call to resource on the default engine.
func Entry(resource string, opts ...EntryOption) (*base.Entry, error) {
	return defaultEngine.Entry(resource, opts...)
}
