package flow

import (
	"fmt"

	"github.com/Allchin/Sentinel/core/base"
	"github.com/Allchin/Sentinel/logging"
)

// Rule describes one admission-control rule for a resource. A resource
// may have several rules; all of them are evaluated and the call is
// denied if any one of them denies it.
type Rule struct {
	// ID optionally identifies the rule, e.g. for logging which rule
	// fired in a BlockError.
	ID string

	// Resource is the name of the resource this rule guards.
	Resource string

	// LimitApp is the origin this rule applies to: an exact origin
	// name, LimitAppDefault (applies to every origin), or LimitAppOther
	// (applies to any origin not named by another rule on the same
	// resource). NewRule and RuleManager.LoadRules default an empty
	// LimitApp to LimitAppDefault; a rule evaluated with an empty
	// LimitApp always passes.
	LimitApp string

	Grade    Grade
	Strategy Strategy

	// Threshold is the QPS or concurrent-thread ceiling, depending on
	// Grade.
	Threshold float64

	// RefResource is, for StrategyRelate, the resource whose cluster
	// node is consulted instead of Resource's, and, for StrategyChain,
	// the context name (entry point) the rule is limited to.
	RefResource string

	ControlBehavior ControlBehavior

	// WarmUpPeriodSec and WarmUpColdFactor configure the warm-up
	// controller; both are ignored unless ControlBehavior is
	// ControlWarmUp. Left at zero, compile defaults WarmUpPeriodSec to
	// DefaultWarmUpPeriodSec and WarmUpColdFactor to DefaultColdFactor.
	// Any other WarmUpColdFactor <= 1 is a configuration error.
	WarmUpPeriodSec  uint32
	WarmUpColdFactor uint32

	// MaxQueueingTimeMs bounds how long the rate-limiter controller
	// would notionally queue a call before rejecting it. This module
	// never actually queues (see rateLimiterController), so the value
	// is carried on the rule but has no effect on admit-vs-reject.
	MaxQueueingTimeMs uint32

	controller controller
}

// NewRule builds a Rule with LimitApp defaulted to LimitAppDefault, the
// same default the Java reference applies in its FlowRule constructor.
func NewRule(resource string, grade Grade, threshold float64) *Rule {
	return &Rule{
		Resource:  resource,
		LimitApp:  LimitAppDefault,
		Grade:     grade,
		Threshold: threshold,
	}
}

func (r *Rule) String() string {
	return fmt.Sprintf("Rule{id=%s, resource=%s, limitApp=%s, grade=%s, strategy=%s, threshold=%.2f, controlBehavior=%s}",
		r.ID, r.Resource, r.LimitApp, r.Grade, r.Strategy, r.Threshold, r.ControlBehavior)
}

// compile builds (or rebuilds) the controller backing this rule. It is
// called by RuleManager whenever a rule is loaded, and returns an
// error wrapping a *ConfigError if the rule's parameters can't produce
// a valid controller (e.g. an explicit WarmUpColdFactor <= 1).
func (r *Rule) compile() error {
	switch r.ControlBehavior {
	case ControlWarmUp:
		periodSec := r.WarmUpPeriodSec
		if periodSec == 0 {
			periodSec = DefaultWarmUpPeriodSec
		}
		coldFactor := r.WarmUpColdFactor
		if coldFactor == 0 {
			coldFactor = DefaultColdFactor
		}
		c, err := newWarmUpController(r.Threshold, periodSec, coldFactor)
		if err != nil {
			return fmt.Errorf("rule %s: %w", r, err)
		}
		r.controller = c
	case ControlRateLimiter:
		r.controller = newRateLimiterController(r.Threshold, r.MaxQueueingTimeMs)
	default:
		r.controller = newDefaultController(r.Threshold, r.Grade)
	}
	return nil
}

// PassCheck evaluates the rule for one call. node is the current
// per-context node for Resource; it may be nil if the caller has no
// statistics collaborator wired in. Only StrategyChain evaluates
// against node, so with a nil node chain-strategy rules never deny,
// while direct- and relate-strategy rules (which use the origin or
// cluster nodes instead) still can.
func (r *Rule) PassCheck(ctx *base.Context, node base.StatNode, clusters base.ClusterNodeProvider, manager *RuleManager, acquireCount uint32) bool {
	if r.LimitApp == "" {
		return true
	}

	origin := ""
	if ctx != nil {
		origin = ctx.Origin()
	}

	selected := r.selectNode(origin, ctx, node, clusters, manager)
	if selected == nil {
		return true
	}
	if r.controller == nil {
		if err := r.compile(); err != nil {
			logging.Infof("sentinel: %v", err)
			return true
		}
	}
	return r.controller.canPass(selected, acquireCount)
}

// selectNode is the Go rendition of FlowRule.selectNodeByRequesterAndStrategy:
// it picks which statistics node the controller should evaluate against,
// based on how this rule's LimitApp relates to the calling origin and
// which Strategy the rule uses. Returning nil means "this rule does not
// apply to this call", which PassCheck treats as an admit.
func (r *Rule) selectNode(origin string, ctx *base.Context, node base.StatNode, clusters base.ClusterNodeProvider, manager *RuleManager) base.StatNode {
	switch {
	case r.LimitApp == origin && origin != "":
		return r.selectByStrategy(ctx, node, clusters, func() base.StatNode {
			if ctx != nil {
				return ctx.OriginNode()
			}
			return nil
		})

	case r.LimitApp == LimitAppDefault:
		return r.selectByStrategy(ctx, node, clusters, func() base.StatNode {
			if clusters != nil {
				return clusters.GetClusterNode(r.Resource)
			}
			return nil
		})

	case r.LimitApp == LimitAppOther && manager != nil && manager.isOtherOrigin(origin, r.Resource):
		return r.selectByStrategy(ctx, node, clusters, func() base.StatNode {
			if ctx != nil {
				return ctx.OriginNode()
			}
			return nil
		})
	}
	return nil
}

// selectByStrategy applies the three strategies uniformly; directNode
// supplies the origin- or default-scoped node used by StrategyDirect.
func (r *Rule) selectByStrategy(ctx *base.Context, node base.StatNode, clusters base.ClusterNodeProvider, directNode func() base.StatNode) base.StatNode {
	switch r.Strategy {
	case StrategyDirect:
		return directNode()
	case StrategyRelate:
		if r.RefResource == "" || clusters == nil {
			return nil
		}
		return clusters.GetClusterNode(r.RefResource)
	case StrategyChain:
		if r.RefResource == "" || ctx == nil || r.RefResource != ctx.Name() {
			return nil
		}
		return node
	default:
		return nil
	}
}
