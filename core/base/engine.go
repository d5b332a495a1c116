package base

import (
	"go.uber.org/atomic"

	"github.com/Allchin/Sentinel/logging"
)

// Engine is the module's entry point: it owns the resource registry
// and the global on/off switch, and is the Go analogue of CtSph in the
// Java reference (which is itself a static holder — this module models
// the same responsibility as an explicit value instead of a package of
// static methods, so an embedding process can run more than one
// independently configured instance if it needs to).
type Engine struct {
	registry *Registry
	enabled  atomic.Bool
}

// NewEngine creates an Engine whose registry builds chains with build.
// The global switch defaults to on, matching the Java reference.
func NewEngine(build ChainBuilder) *Engine {
	e := &Engine{registry: NewRegistry(build)}
	e.enabled.Store(true)
	return e
}

func (e *Engine) Registry() *Registry { return e.registry }

// SetEnabled flips the global switch. While off, Entry always admits
// without consulting any rule.
func (e *Engine) SetEnabled(on bool) { e.enabled.Store(on) }

func (e *Engine) Enabled() bool { return e.enabled.Load() }

// Entry attempts to admit one call against resource. ctx may be nil, in
// which case a default context is created for the duration of the
// call; passing NullContext() disables rule checking for this call
// specifically while still returning a usable entry.
//
// On success it returns an *Entry the caller must Exit exactly once.
// On denial it returns a nil entry and the *BlockError that caused it;
// any other error from a slot is an internal fault, logged and treated
// as an admit.
func (e *Engine) Entry(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) (*Entry, error) {
	if ctx == nil {
		ctx = NewDefaultContext()
	}
	if ctx.isNull {
		return newEntry(resource, nil, ctx), nil
	}
	if !e.enabled.Load() {
		return newEntry(resource, nil, ctx), nil
	}

	chain := e.registry.LookupChain(resource)
	if chain == nil {
		return newEntry(resource, nil, ctx), nil
	}

	entry := newEntry(resource, chain, ctx)
	if err := chain.Entry(ctx, resource, count, args...); err != nil {
		if blockErr, ok := err.(*BlockError); ok {
			_ = entry.Exit(count, args...)
			return nil, blockErr
		}
		logging.Infof("sentinel: internal fault evaluating slot chain for %s: %v", resource, err)
		return entry, nil
	}
	return entry, nil
}
