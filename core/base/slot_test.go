package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSlot struct {
	name    string
	trace   *[]string
	blockOn bool
}

func (s recordingSlot) Entry(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error {
	*s.trace = append(*s.trace, "entry:"+s.name)
	if s.blockOn {
		return NewBlockError(BlockTypeFlow, nil, "blocked by "+s.name)
	}
	return next(ctx, resource, count, args...)
}

func (s recordingSlot) Exit(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error {
	*s.trace = append(*s.trace, "exit:"+s.name)
	return next(ctx, resource, count, args...)
}

func TestSlotChain_RunsSlotsInOrder(t *testing.T) {
	var trace []string
	chain := NewSlotChain(
		recordingSlot{name: "a", trace: &trace},
		recordingSlot{name: "b", trace: &trace},
	)
	ctx := NewContext("test", "", nil)
	resource := NewResource("res", Inbound)

	require.NoError(t, chain.Entry(ctx, resource, 1))
	require.NoError(t, chain.Exit(ctx, resource, 1))

	assert.Equal(t, []string{"entry:a", "entry:b", "exit:a", "exit:b"}, trace)
}

func TestSlotChain_ShortCircuitsOnBlock(t *testing.T) {
	var trace []string
	chain := NewSlotChain(
		recordingSlot{name: "a", trace: &trace},
		recordingSlot{name: "b", trace: &trace, blockOn: true},
		recordingSlot{name: "c", trace: &trace},
	)
	ctx := NewContext("test", "", nil)
	resource := NewResource("res", Inbound)

	err := chain.Entry(ctx, resource, 1)
	var blockErr *BlockError
	require.ErrorAs(t, err, &blockErr)
	assert.Equal(t, []string{"entry:a", "entry:b"}, trace)
}

type panickingSlot struct{}

func (panickingSlot) Entry(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error {
	panic("boom")
}

func (panickingSlot) Exit(ctx *Context, resource ResourceWrapper, count uint32, args []interface{}, next NextFunc) error {
	return next(ctx, resource, count, args...)
}

func TestSlotChain_RecoversPanicAndFailsOpen(t *testing.T) {
	chain := NewSlotChain(panickingSlot{})
	ctx := NewContext("test", "", nil)
	resource := NewResource("res", Inbound)

	err := chain.Entry(ctx, resource, 1)
	assert.NoError(t, err)
}
