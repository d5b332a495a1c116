package base

// StatNode is the statistics contract this module consumes but does not
// implement: sliding-window counters are an external collaborator.
// Concrete implementations live outside this module; internal/teststat
// provides a fixture for this module's own tests.
type StatNode interface {
	// PassQps returns the number of calls admitted in the current second.
	PassQps() int
	// PreviousPassQps returns the number of calls admitted in the
	// previous second.
	PreviousPassQps() int

	ConcurrencyStat
}

// ConcurrencyStat backs the (out-of-scope, trivial) THREAD grade.
type ConcurrencyStat interface {
	CurrentConcurrency() int32
}

// ClusterNodeProvider is the "cluster-builder registry" external
// collaborator: it resolves the aggregated, per-resource node used by
// the RELATE strategy, and by the DIRECT strategy when a rule's
// limitApp is the "default" bucket.
type ClusterNodeProvider interface {
	GetClusterNode(resourceName string) StatNode
}

// NodeProvider resolves the per-context node for a resource — the
// "curNode" the CHAIN strategy compares against. Like
// ClusterNodeProvider, it is an external collaborator: this module
// consumes the node it hands back but does not maintain the statistics
// behind it.
type NodeProvider interface {
	GetOrCreateNode(ctx *Context, resource ResourceWrapper) StatNode
}
