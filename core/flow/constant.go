package flow

// Grade is the threshold type a Rule's Threshold is measured in.
type Grade int8

const (
	GradeThread Grade = iota
	GradeQPS
)

func (g Grade) String() string {
	switch g {
	case GradeThread:
		return "Thread"
	case GradeQPS:
		return "QPS"
	default:
		return "Unknown"
	}
}

// Strategy picks which node a Rule is evaluated against.
type Strategy int8

const (
	StrategyDirect Strategy = iota
	StrategyRelate
	StrategyChain
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "Direct"
	case StrategyRelate:
		return "Relate"
	case StrategyChain:
		return "Chain"
	default:
		return "Unknown"
	}
}

// ControlBehavior selects the shaping controller used once a node has
// been selected for evaluation.
type ControlBehavior int8

const (
	ControlDefault ControlBehavior = iota
	ControlWarmUp
	ControlRateLimiter
)

func (b ControlBehavior) String() string {
	switch b {
	case ControlDefault:
		return "Default"
	case ControlWarmUp:
		return "WarmUp"
	case ControlRateLimiter:
		return "RateLimiter"
	default:
		return "Unknown"
	}
}

const (
	// LimitAppDefault matches every origin, whether or not a per-origin
	// rule also applies.
	LimitAppDefault = "default"
	// LimitAppOther matches any origin not explicitly named by another
	// rule on the same resource (see RuleManager.isOtherOrigin).
	LimitAppOther = "other"
)

// DefaultColdFactor is used when a Rule enables warm-up shaping without
// specifying its own cold factor.
const DefaultColdFactor = 3

// DefaultWarmUpPeriodSec is used when a Rule enables warm-up shaping
// without specifying its own warm-up period.
const DefaultWarmUpPeriodSec = 10
