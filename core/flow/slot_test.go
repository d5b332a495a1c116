package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allchin/Sentinel/core/base"
	"github.com/Allchin/Sentinel/internal/teststat"
)

func TestSlot_DeniesWhenAnyRuleBlocks(t *testing.T) {
	clusters := teststat.NewClusterProvider()
	node := teststat.NewNode()
	node.SetPassQps(10)
	clusters.Register("res", node)

	rules := NewRuleManager()
	require.NoError(t, rules.LoadRules([]*Rule{NewRule("res", GradeQPS, 5)}))

	slot := NewSlot(rules, nil, clusters)
	ctx := base.NewContext("ctx", "", nil)
	resource := base.NewResource("res", base.Inbound)

	called := false
	next := func(ctx *base.Context, resource base.ResourceWrapper, count uint32, args ...interface{}) error {
		called = true
		return nil
	}

	err := slot.Entry(ctx, resource, 1, nil, next)
	var blockErr *base.BlockError
	require.ErrorAs(t, err, &blockErr)
	assert.False(t, called, "chain should short-circuit before reaching next")
}

func TestSlot_AdmitsWhenNoRuleBlocks(t *testing.T) {
	rules := NewRuleManager()
	require.NoError(t, rules.LoadRules([]*Rule{NewRule("res", GradeQPS, 100)}))

	slot := NewSlot(rules, nil, teststat.NewClusterProvider())
	ctx := base.NewContext("ctx", "", nil)
	resource := base.NewResource("res", base.Inbound)

	called := false
	next := func(ctx *base.Context, resource base.ResourceWrapper, count uint32, args ...interface{}) error {
		called = true
		return nil
	}

	require.NoError(t, slot.Entry(ctx, resource, 1, nil, next))
	assert.True(t, called)
}

func TestSlot_NoRulesForResourceAdmits(t *testing.T) {
	slot := NewSlot(NewRuleManager(), nil, nil)
	ctx := base.NewContext("ctx", "", nil)
	resource := base.NewResource("untracked", base.Inbound)

	called := false
	next := func(ctx *base.Context, resource base.ResourceWrapper, count uint32, args ...interface{}) error {
		called = true
		return nil
	}
	require.NoError(t, slot.Entry(ctx, resource, 1, nil, next))
	assert.True(t, called)
}
