package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Allchin/Sentinel/core/base"
	"github.com/Allchin/Sentinel/internal/teststat"
)

func TestRule_DirectStrategyDefaultLimitAppUsesClusterNode(t *testing.T) {
	clusters := teststat.NewClusterProvider()
	node := teststat.NewNode()
	node.SetPassQps(10)
	clusters.Register("res", node)

	rule := NewRule("res", GradeQPS, 10)
	rule.Strategy = StrategyDirect
	manager := NewRuleManager()

	ctx := base.NewContext("ctx", "caller-x", nil)
	assert.False(t, rule.PassCheck(ctx, nil, clusters, manager, 1))

	node.SetPassQps(5)
	assert.True(t, rule.PassCheck(ctx, nil, clusters, manager, 1))
}

func TestRule_DirectStrategyOriginMatchUsesOriginNode(t *testing.T) {
	originNode := teststat.NewNode()
	originNode.SetPassQps(3)

	rule := NewRule("res", GradeQPS, 5)
	rule.LimitApp = "caller-x"
	rule.Strategy = StrategyDirect
	manager := NewRuleManager()

	ctx := base.NewContext("ctx", "caller-x", originNode)
	assert.True(t, rule.PassCheck(ctx, nil, nil, manager, 1))

	originNode.SetPassQps(5)
	assert.False(t, rule.PassCheck(ctx, nil, nil, manager, 1))
}

func TestRule_RelateStrategyUsesRefResourceClusterNode(t *testing.T) {
	clusters := teststat.NewClusterProvider()
	refNode := teststat.NewNode()
	refNode.SetPassQps(9)
	clusters.Register("downstream", refNode)

	rule := NewRule("res", GradeQPS, 10)
	rule.Strategy = StrategyRelate
	rule.RefResource = "downstream"
	manager := NewRuleManager()

	ctx := base.NewContext("ctx", "", nil)
	assert.True(t, rule.PassCheck(ctx, nil, clusters, manager, 1))

	refNode.SetPassQps(10)
	assert.False(t, rule.PassCheck(ctx, nil, clusters, manager, 1))
}

func TestRule_ChainStrategyRequiresContextNameMatch(t *testing.T) {
	node := teststat.NewNode()
	node.SetPassQps(1)

	rule := NewRule("res", GradeQPS, 5)
	rule.Strategy = StrategyChain
	rule.RefResource = "entry-point"
	manager := NewRuleManager()

	mismatched := base.NewContext("other-entry-point", "", nil)
	assert.True(t, rule.PassCheck(mismatched, node, nil, manager, 100), "rule should not apply when refResource != context name")

	matched := base.NewContext("entry-point", "", nil)
	node.SetPassQps(4)
	assert.True(t, rule.PassCheck(matched, node, nil, manager, 1))
	node.SetPassQps(5)
	assert.False(t, rule.PassCheck(matched, node, nil, manager, 1))
}

func TestRule_OtherLimitAppOnlyAppliesToUnmatchedOrigins(t *testing.T) {
	originNode := teststat.NewNode()
	originNode.SetPassQps(5)

	named := NewRule("res", GradeQPS, 10)
	named.LimitApp = "known-caller"

	other := NewRule("res", GradeQPS, 1)
	other.LimitApp = LimitAppOther
	other.Strategy = StrategyDirect

	manager := NewRuleManager()
	manager.LoadRules([]*Rule{named, other})

	knownCtx := base.NewContext("ctx", "known-caller", originNode)
	assert.True(t, other.PassCheck(knownCtx, nil, nil, manager, 1), "other-rule should not match a named origin")

	unknownCtx := base.NewContext("ctx", "someone-else", originNode)
	assert.False(t, other.PassCheck(unknownCtx, nil, nil, manager, 1), "other-rule should apply and deny an unmatched origin")
}

func TestRule_EmptyLimitAppAlwaysPasses(t *testing.T) {
	rule := NewRule("res", GradeQPS, 0)
	rule.LimitApp = ""
	manager := NewRuleManager()
	assert.True(t, rule.PassCheck(base.NewContext("ctx", "x", nil), nil, nil, manager, 1000))
}

func TestRule_PassCheckFailsOpenWhenLazyCompileHitsConfigError(t *testing.T) {
	clusters := teststat.NewClusterProvider()
	node := teststat.NewNode()
	node.SetPassQps(1000)
	clusters.Register("res", node)

	rule := NewRule("res", GradeQPS, 1)
	rule.Strategy = StrategyDirect
	rule.ControlBehavior = ControlWarmUp
	rule.WarmUpColdFactor = 1 // invalid; never went through RuleManager.LoadRules
	manager := NewRuleManager()

	ctx := base.NewContext("ctx", "", nil)
	assert.True(t, rule.PassCheck(ctx, nil, clusters, manager, 1), "an uncompilable rule must admit rather than deny")
}
