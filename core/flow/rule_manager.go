package flow

import (
	"sync"
	"sync/atomic"

	"github.com/Allchin/Sentinel/logging"
)

// RuleManager owns the current set of rules for every resource. It is
// the analogue of the vendor port's TrafficControllerMap, but stores
// *Rule directly (rather than a compiled TrafficShapingController) and
// keeps that compilation as a lazily-populated field on the rule
// itself, since this module's controllers hold no shared statistics
// state that would need to be preserved across a reload the way the
// vendor's stat-reuse logic does.
type RuleManager struct {
	mu       sync.Mutex
	snapshot atomic.Value
}

// NewRuleManager creates an empty manager.
func NewRuleManager() *RuleManager {
	m := &RuleManager{}
	m.snapshot.Store(map[string][]*Rule{})
	return m
}

func (m *RuleManager) rules() map[string][]*Rule {
	return m.snapshot.Load().(map[string][]*Rule)
}

// LoadRules replaces the entire rule set. Rules with an empty Resource
// are ignored; each rule's LimitApp defaults to LimitAppDefault if
// unset, and its controller is (re)compiled before it becomes visible.
// If any rule fails to compile (a *ConfigError, e.g. an invalid warm-up
// cold factor), LoadRules returns that error without applying any of
// the given rules, leaving the previously loaded set in effect.
func (m *RuleManager) LoadRules(rules []*Rule) error {
	byResource := make(map[string][]*Rule, len(rules))
	for _, r := range rules {
		if r == nil || r.Resource == "" {
			continue
		}
		if r.LimitApp == "" {
			r.LimitApp = LimitAppDefault
		}
		if err := r.compile(); err != nil {
			return err
		}
		byResource[r.Resource] = append(byResource[r.Resource], r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Store(byResource)
	logging.Infof("sentinel: loaded flow rules for %d resource(s)", len(byResource))
	return nil
}

// RulesFor returns the rules currently configured for resource, or nil
// if there are none. The returned slice must not be mutated.
func (m *RuleManager) RulesFor(resource string) []*Rule {
	return m.rules()[resource]
}

// isOtherOrigin reports whether origin is not explicitly named by any
// rule on resource, i.e. whether a LimitAppOther rule on that resource
// should apply to it.
func (m *RuleManager) isOtherOrigin(origin, resource string) bool {
	if origin == "" {
		return true
	}
	for _, r := range m.rules()[resource] {
		if r.LimitApp == origin {
			return false
		}
	}
	return true
}
