package base

import "github.com/Allchin/Sentinel/logging"

// NextFunc continues a slot chain invocation. A slot calls it to hand
// control to the next slot; it returns whatever that slot (and
// everything after it) returned.
type NextFunc func(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) error

// Slot is one link in a resource's admission-check pipeline. Entry is
// called on the way in, in chain order; Exit is called on the way out.
// Both take an explicit continuation rather than the vendor Go port's
// flat slice iteration, which is closer to how the Java reference
// chains fireEntry/fireExit through linked ProcessorSlotEntryCallback
// nodes: a slot that wants to short-circuit simply does not call next.
type Slot interface {
	Entry(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error
	Exit(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error
}

// SlotChain is the ordered pipeline of Slots a resource's calls flow
// through. A slot that returns an error (a *BlockError or any other)
// short-circuits the chain, and the error is returned to the caller;
// Engine.Entry treats a non-block error as an internal fault, logged
// and admitted. A panic inside a slot is recovered here, logged, and
// treated as a pass, so a bug in one slot never denies traffic it
// shouldn't.
type SlotChain struct {
	slots []Slot
}

// NewSlotChain builds a chain from slots in entry order.
func NewSlotChain(slots ...Slot) *SlotChain {
	return &SlotChain{slots: append([]Slot(nil), slots...)}
}

func (sc *SlotChain) Entry(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Infof("sentinel: recovered panic in slot chain entry for %s: %v", resource, r)
			err = nil
		}
	}()
	return sc.fireEntry(0, ctx, resource, count, args)
}

func (sc *SlotChain) fireEntry(i int, ctx *Context, resource ResourceWrapper, count uint32, args []interface{}) error {
	if i >= len(sc.slots) {
		return nil
	}
	next := func(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) error {
		return sc.fireEntry(i+1, ctx, resource, count, args)
	}
	return sc.slots[i].Entry(ctx, resource, count, args, next)
}

func (sc *SlotChain) Exit(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Infof("sentinel: recovered panic in slot chain exit for %s: %v", resource, r)
			err = nil
		}
	}()
	return sc.fireExit(0, ctx, resource, count, args)
}

func (sc *SlotChain) fireExit(i int, ctx *Context, resource ResourceWrapper, count uint32, args []interface{}) error {
	if i >= len(sc.slots) {
		return nil
	}
	next := func(ctx *Context, resource ResourceWrapper, count uint32, args ...interface{}) error {
		return sc.fireExit(i+1, ctx, resource, count, args)
	}
	return sc.slots[i].Exit(ctx, resource, count, args, next)
}
