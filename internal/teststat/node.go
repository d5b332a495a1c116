// Package teststat provides a minimal, hand-driven base.StatNode
// fixture for this module's own tests. Real sliding-window statistics
// collection lives outside this module; tests exercising flow rules
// just need a node whose counters they can set directly.
package teststat

import (
	"go.uber.org/atomic"

	"github.com/Allchin/Sentinel/core/base"
)

// Node is a settable StatNode: tests write PassQPS/PrevQPS/Concurrency
// directly instead of driving a real sliding window.
type Node struct {
	passQps         atomic.Int64
	previousPassQps atomic.Int64
	concurrency     atomic.Int32
}

func NewNode() *Node { return &Node{} }

func (n *Node) PassQps() int            { return int(n.passQps.Load()) }
func (n *Node) PreviousPassQps() int    { return int(n.previousPassQps.Load()) }
func (n *Node) CurrentConcurrency() int32 { return n.concurrency.Load() }

func (n *Node) SetPassQps(v int)         { n.passQps.Store(int64(v)) }
func (n *Node) SetPreviousPassQps(v int) { n.previousPassQps.Store(int64(v)) }
func (n *Node) SetConcurrency(v int32)   { n.concurrency.Store(v) }

// ClusterProvider is a fixed-table base.ClusterNodeProvider fake:
// resources not registered with Register resolve to nil, matching a
// real cluster-builder registry's "haven't seen this resource" case.
type ClusterProvider struct {
	nodes map[string]*Node
}

func NewClusterProvider() *ClusterProvider {
	return &ClusterProvider{nodes: make(map[string]*Node)}
}

func (c *ClusterProvider) Register(resource string, node *Node) {
	c.nodes[resource] = node
}

func (c *ClusterProvider) GetClusterNode(resource string) base.StatNode {
	n, ok := c.nodes[resource]
	if !ok {
		return nil
	}
	return n
}

// NodeProvider is a fixed-table base.NodeProvider fake mirroring
// ClusterProvider, used to supply the per-context "curNode" a CHAIN
// strategy rule compares against.
type NodeProvider struct {
	nodes map[string]*Node
}

func NewNodeProvider() *NodeProvider {
	return &NodeProvider{nodes: make(map[string]*Node)}
}

func (p *NodeProvider) Register(resource string, node *Node) {
	p.nodes[resource] = node
}

func (p *NodeProvider) GetOrCreateNode(_ *base.Context, resource base.ResourceWrapper) base.StatNode {
	n, ok := p.nodes[resource.Name()]
	if !ok {
		return nil
	}
	return n
}
