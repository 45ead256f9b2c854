// Package cdg derives the control-dependence graph of a function from its
// CFG and post-dominator tree.
package cdg

import (
	"sort"

	"github.com/nickng/llvmanalysis/cfg"
	"github.com/nickng/llvmanalysis/dom"
)

// Graph is a control-dependence graph: directed edges over real block
// labels (ENTRY and EXIT are never a source or sink of a CDG edge).
type Graph struct {
	nodes []cfg.Node
	succ  map[cfg.Node]map[cfg.Node]bool
	pred  map[cfg.Node]map[cfg.Node]bool
}

// Build derives the control-dependence graph from g's CFG and its
// post-dominator tree pdt.
//
// For every real block B and every CFG successor X of B, this walks the
// post-dominator tree upward from X toward B's own post-dominator-tree
// immediate dominator (exclusive), marking every node visited along the way
// as control-dependent on B. A block unreachable from EXIT has no
// post-dominator-tree idom, so the walk for its dependents simply continues
// until it runs off the top of the tree, per the general rule.
func Build(g *cfg.Graph, pdt *dom.Tree) *Graph {
	cg := &Graph{
		succ: make(map[cfg.Node]map[cfg.Node]bool),
		pred: make(map[cfg.Node]map[cfg.Node]bool),
	}

	for _, n := range g.Nodes() {
		if n.Kind != cfg.Real {
			continue
		}
		cg.nodes = append(cg.nodes, n)
		cg.succ[n] = make(map[cfg.Node]bool)
		cg.pred[n] = make(map[cfg.Node]bool)
	}

	for _, b := range cg.nodes {
		stop, hasStop := pdt.Idom(b)
		for _, e := range g.Successors(b) {
			x := e.To
			for cur := x; ; {
				if hasStop && cur == stop {
					break
				}
				if cur.Kind == cfg.Real {
					cg.addEdge(b, cur)
				}
				next, ok := pdt.Idom(cur)
				if !ok {
					break
				}
				cur = next
			}
		}
	}

	return cg
}

func (g *Graph) addEdge(from, to cfg.Node) {
	if g.succ[from] == nil {
		g.succ[from] = make(map[cfg.Node]bool)
	}
	if g.pred[to] == nil {
		g.pred[to] = make(map[cfg.Node]bool)
	}
	g.succ[from][to] = true
	g.pred[to][from] = true
}

// Nodes returns every real block in source order.
func (g *Graph) Nodes() []cfg.Node { return g.nodes }

// Edges returns every edge in deterministic order: grouped by source block in
// Nodes() (source) order and, within a source block, sorted by target label.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.nodes {
		for _, to := range sortedTargets(g.succ[from]) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Successors returns the blocks control-dependent on n, sorted by label.
func (g *Graph) Successors(n cfg.Node) []cfg.Node { return sortedTargets(g.succ[n]) }

// Predecessors returns the blocks n is control-dependent on, sorted by
// label.
func (g *Graph) Predecessors(n cfg.Node) []cfg.Node { return sortedTargets(g.pred[n]) }

// Edge is one CDG edge: To is control-dependent on From.
type Edge struct {
	From, To cfg.Node
}

func sortedTargets(set map[cfg.Node]bool) []cfg.Node {
	out := make([]cfg.Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
