package flow

import (
	"github.com/Allchin/Sentinel/core/base"
)

const blockMsgFlow = "flow rule violated"

// Slot evaluates every flow rule configured for a resource and denies
// the call if any of them does. It is grounded on the vendor port's
// FlowSlot.Check, generalized to the strategy/limitApp node-selection
// rules FlowRule.java implements (see Rule.selectNode).
type Slot struct {
	rules    *RuleManager
	nodes    base.NodeProvider
	clusters base.ClusterNodeProvider
}

// NewSlot builds a flow-control slot backed by rules, resolving the
// per-context node for each check through nodes and the aggregated
// per-resource node through clusters. Either provider may be nil, in
// which case rules that need it simply never match (PassCheck treats a
// nil selected node as "does not apply").
func NewSlot(rules *RuleManager, nodes base.NodeProvider, clusters base.ClusterNodeProvider) *Slot {
	return &Slot{rules: rules, nodes: nodes, clusters: clusters}
}

func (s *Slot) Entry(ctx *base.Context, resource base.ResourceWrapper, count uint32, args []interface{}, next base.NextFunc) error {
	if s.rules != nil {
		var node base.StatNode
		if s.nodes != nil {
			node = s.nodes.GetOrCreateNode(ctx, resource)
		}
		for _, rule := range s.rules.RulesFor(resource.Name()) {
			if !rule.PassCheck(ctx, node, s.clusters, s.rules, count) {
				return base.NewBlockError(base.BlockTypeFlow, rule, blockMsgFlow)
			}
		}
	}
	return next(ctx, resource, count, args...)
}

func (s *Slot) Exit(ctx *base.Context, resource base.ResourceWrapper, count uint32, args []interface{}, next base.NextFunc) error {
	return next(ctx, resource, count, args...)
}
