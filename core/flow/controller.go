package flow

import (
	"time"

	"go.uber.org/atomic"

	"github.com/Allchin/Sentinel/core/base"
)

// controller is the strategy a Rule delegates its admit/deny decision
// to once a node has been selected. It intentionally has a single
// method: the module has a closed, small set of variants, so one
// operation behind the interface is enough.
type controller interface {
	canPass(node base.StatNode, acquireCount uint32) bool
}

// defaultController is the plain threshold check used for both QPS and
// thread-count grades: admit while the relevant counter plus the
// acquired count stays at or under the configured threshold. It is the
// generalization of the vendor port's DirectTrafficShapingCalculator +
// RejectTrafficShapingChecker pair, folded into one type because this
// module's StatNode contract already exposes the count each grade
// needs directly.
type defaultController struct {
	threshold float64
	grade     Grade
}

func newDefaultController(threshold float64, grade Grade) *defaultController {
	return &defaultController{threshold: threshold, grade: grade}
}

func (c *defaultController) canPass(node base.StatNode, acquireCount uint32) bool {
	if node == nil {
		return true
	}
	switch c.grade {
	case GradeThread:
		return float64(node.CurrentConcurrency())+float64(acquireCount) <= c.threshold
	default:
		return float64(node.PassQps())+float64(acquireCount) <= c.threshold
	}
}

// rateLimiterController paces calls to one every 1/threshold seconds,
// grounded on the vendor port's ThrottlingChecker (tc_throttling.go).
// Unlike that implementation it never schedules a delayed retry: a
// call arriving before its turn is rejected outright rather than
// queued, per this module's admit-or-deny-only contract. MaxQueueingTimeMs
// is kept on the rule for wire compatibility but has no effect here,
// since there is no queue to bound.
type rateLimiterController struct {
	threshold      float64
	lastPassedNano atomic.Int64
}

func newRateLimiterController(threshold float64, _ uint32) *rateLimiterController {
	return &rateLimiterController{threshold: threshold}
}

func (c *rateLimiterController) canPass(_ base.StatNode, acquireCount uint32) bool {
	if acquireCount == 0 {
		return true
	}
	if c.threshold <= 0 {
		return false
	}
	if float64(acquireCount) > c.threshold {
		return false
	}

	intervalNs := int64(float64(acquireCount) / c.threshold * float64(time.Second))
	now := time.Now().UnixNano()
	last := c.lastPassedNano.Load()
	expected := last + intervalNs
	if expected > now {
		return false
	}
	return c.lastPassedNano.CAS(last, now)
}
