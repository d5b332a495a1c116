package base

import "github.com/Allchin/Sentinel/logging"

// Entry represents one admission-checked call. Entries form a LIFO
// stack per Context, mirroring CtSph.CtEntry: entering a resource
// while another entry on the same context is still open makes the new
// entry a child of the open one, and Exit must be called in the exact
// reverse order Entry was called.
type Entry struct {
	resource ResourceWrapper
	chain    *SlotChain
	ctx      *Context

	parent *Entry
	child  *Entry
}

func newEntry(resource ResourceWrapper, chain *SlotChain, ctx *Context) *Entry {
	e := &Entry{resource: resource, chain: chain, ctx: ctx}
	if ctx != nil && !ctx.isNull {
		e.parent = ctx.curEntry
		if e.parent != nil {
			e.parent.child = e
		}
		ctx.setCurEntry(e)
	}
	return e
}

func (e *Entry) Resource() ResourceWrapper { return e.resource }
func (e *Entry) Context() *Context         { return e.ctx }
func (e *Entry) Parent() *Entry            { return e.parent }
func (e *Entry) Child() *Entry             { return e.child }

// Exit closes the entry. If it is not the top of its context's call
// stack, every entry still open on the context is force-exited, from
// the innermost outward (the entries above this one, this one, and the
// entries beneath it), and a *PairingError is returned; the context's
// current entry ends up nil regardless of how deep the mismatch was,
// exactly as CtEntry.exit behaves when called out of order.
func (e *Entry) Exit(count uint32, args ...interface{}) error {
	if e.ctx == nil {
		// Already exited; Exit is idempotent so double-exit bugs in
		// caller code don't panic or double-count.
		return nil
	}
	if e.ctx.isNull {
		e.ctx = nil
		return nil
	}
	if e.ctx.curEntry != e {
		cur := e.ctx.curEntry
		for cur != nil {
			next := cur.parent
			_ = cur.Exit(count, args...)
			cur = next
		}
		logging.Warnf("sentinel: entry for %s exited out of order; force-exited all open entries on its context", e.resource)
		return NewPairingError(e.resource)
	}
	return e.trueExit(count, args...)
}

func (e *Entry) trueExit(count uint32, args ...interface{}) error {
	ctx := e.ctx
	if e.chain != nil {
		if err := e.chain.Exit(ctx, e.resource, count, args...); err != nil {
			// Slot faults on the way out are not actionable by the
			// caller; the entry is closing either way.
			logging.Infof("sentinel: internal fault exiting slot chain for %s: %v", e.resource, err)
		}
	}
	ctx.setCurEntry(e.parent)
	if e.parent != nil {
		e.parent.child = nil
	}
	e.ctx = nil
	return nil
}
