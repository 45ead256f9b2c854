// Package dom computes dominator and post-dominator trees over a cfg.Graph
// using the iterative Cooper-Harvey-Kennedy algorithm over a reverse
// postorder numbering, as required for determinism independent of Go's
// randomized map iteration order.
package dom

import (
	"sort"

	"github.com/nickng/llvmanalysis/cfg"
)

// Tree is a dominator tree (or, built over a reversed graph, a
// post-dominator tree). It is a map from node to immediate dominator, plus
// the derived children relation and a pre/post Euler-tour numbering that
// answers Dominates in O(1).
type Tree struct {
	root     cfg.Node
	idom     map[cfg.Node]cfg.Node
	hasIdom  map[cfg.Node]bool // root and unreachable nodes are absent.
	children map[cfg.Node][]cfg.Node
	pre      map[cfg.Node]int
	post     map[cfg.Node]int
	rpoOrder []cfg.Node // reachable nodes, in reverse-postorder.
}

// neighborsFn abstracts over which direction the tree is built in: a DominatorTree walks cfg.Successors from ENTRY, a
// PostDominatorTree walks cfg.Predecessors (i.e. the reversed graph) from
// EXIT.
type neighborsFn func(cfg.Node) []cfg.Node

// Build constructs the dominator tree of a graph rooted at root, using succ
// to find a node's forward neighbours (the direction dominance flows in:
// cfg.Successors for a normal dominator tree, cfg.Predecessors for a
// post-dominator tree over the reversed CFG) and pred for the reverse
// direction.
func Build(root cfg.Node, succ, pred neighborsFn) *Tree {
	t := &Tree{
		root:     root,
		idom:     make(map[cfg.Node]cfg.Node),
		hasIdom:  make(map[cfg.Node]bool),
		children: make(map[cfg.Node][]cfg.Node),
		pre:      make(map[cfg.Node]int),
		post:     make(map[cfg.Node]int),
	}

	rpoIndex, rpoOrder := reversePostorder(root, succ)
	t.rpoOrder = rpoOrder

	if len(rpoOrder) == 0 {
		return t
	}

	// Initial estimate: idom(root) is undefined; every other reachable node
	// starts unresolved until its first reachable predecessor is seen.
	for _, n := range rpoOrder {
		if n == root {
			continue
		}
		t.idom[n] = cfg.Node{}
		t.hasIdom[n] = false
	}

	changed := true
	for changed {
		changed = false
		for _, n := range rpoOrder {
			if n == root {
				continue
			}
			newIdom, ok := t.computeIdom(n, root, pred, rpoIndex)
			if !ok {
				continue
			}
			if !t.hasIdom[n] || t.idom[n] != newIdom {
				t.idom[n] = newIdom
				t.hasIdom[n] = true
				changed = true
			}
		}
	}

	for _, n := range rpoOrder {
		if n == root {
			continue
		}
		if t.hasIdom[n] {
			t.children[t.idom[n]] = append(t.children[t.idom[n]], n)
		}
	}
	for p := range t.children {
		sort.Slice(t.children[p], func(i, j int) bool {
			return rpoIndex[t.children[p][i]] < rpoIndex[t.children[p][j]]
		})
	}

	pre, post := 0, 0
	var number func(n cfg.Node)
	number = func(n cfg.Node) {
		t.pre[n] = pre
		pre++
		for _, c := range t.children[n] {
			number(c)
		}
		t.post[n] = post
		post++
	}
	number(root)

	return t
}

// computeIdom recomputes n's candidate immediate dominator from the current
// idom estimates of its reachable predecessors (the CHK "meet" step). ok is
// false if no predecessor has a resolved idom yet.
func (t *Tree) computeIdom(n, root cfg.Node, pred neighborsFn, rpoIndex map[cfg.Node]int) (cfg.Node, bool) {
	var newIdom cfg.Node
	found := false
	for _, p := range pred(n) {
		if _, reachable := rpoIndex[p]; !reachable {
			continue
		}
		if p != root && !t.hasIdom[p] {
			continue
		}
		if !found {
			newIdom = p
			found = true
			continue
		}
		newIdom = t.intersect(newIdom, p, root, rpoIndex)
	}
	return newIdom, found
}

// intersect finds the nearest common ancestor of a and b in the
// (partially-built) dominator tree, walking toward root and breaking ties by
// reverse-postorder index — the standard CHK formulation, which makes the
// result independent of map iteration order.
func (t *Tree) intersect(a, b, root cfg.Node, rpoIndex map[cfg.Node]int) cfg.Node {
	for a != b {
		for rpoIndex[a] > rpoIndex[b] {
			if a == root {
				return root
			}
			a = t.idom[a]
		}
		for rpoIndex[b] > rpoIndex[a] {
			if b == root {
				return root
			}
			b = t.idom[b]
		}
	}
	return a
}

// reversePostorder numbers every node reachable from root (inclusive) by
// reverse postorder: root gets index 0, and every node's index is smaller
// than that of every node it dominates could be. Unreachable nodes are
// absent from the returned map.
func reversePostorder(root cfg.Node, succ neighborsFn) (map[cfg.Node]int, []cfg.Node) {
	visited := make(map[cfg.Node]bool)
	var postorder []cfg.Node

	var visit func(n cfg.Node)
	visit = func(n cfg.Node) {
		visited[n] = true
		for _, s := range succ(n) {
			if !visited[s] {
				visit(s)
			}
		}
		postorder = append(postorder, n)
	}
	visit(root)

	order := make([]cfg.Node, len(postorder))
	index := make(map[cfg.Node]int, len(postorder))
	for i, n := range postorder {
		rev := len(postorder) - 1 - i
		order[rev] = n
		index[n] = rev
	}
	return index, order
}

// Root returns the tree's root (ENTRY for a dominator tree, EXIT for a
// post-dominator tree).
func (t *Tree) Root() cfg.Node { return t.root }

// Nodes returns every node known to the tree (i.e. reachable from Root), in
// reverse-postorder.
func (t *Tree) Nodes() []cfg.Node { return t.rpoOrder }

// Idom returns n's immediate dominator and true, or the zero Node and false
// if n is the root or unreachable from the root.
func (t *Tree) Idom(n cfg.Node) (cfg.Node, bool) {
	if n == t.root {
		return cfg.Node{}, false
	}
	d, ok := t.hasIdom[n]
	if !ok || !d {
		return cfg.Node{}, false
	}
	return t.idom[n], true
}

// Children returns the nodes immediately dominated by n, in reverse
// postorder.
func (t *Tree) Children(n cfg.Node) []cfg.Node { return t.children[n] }

// Dominates reports whether a dominates b (reflexively: a dominates a),
// using the tree's pre/post Euler-tour numbering for an O(1) answer. Both a
// and b must be reachable from Root(); an unreachable node dominates nothing
// and is dominated by nothing.
func (t *Tree) Dominates(a, b cfg.Node) bool {
	ap, aok := t.pre[a]
	bp, bok := t.pre[b]
	if !aok || !bok {
		return false
	}
	return ap <= bp && t.post[b] <= t.post[a]
}

// StrictlyDominates reports whether a dominates b and a != b.
func (t *Tree) StrictlyDominates(a, b cfg.Node) bool {
	return a != b && t.Dominates(a, b)
}

// DominatorChain returns the chain of dominators of n, from n itself up to
// Root() inclusive. It is empty if n is unreachable from Root().
func (t *Tree) DominatorChain(n cfg.Node) []cfg.Node {
	if _, ok := t.pre[n]; !ok {
		return nil
	}
	chain := []cfg.Node{n}
	for n != t.root {
		d, ok := t.Idom(n)
		if !ok {
			break
		}
		chain = append(chain, d)
		n = d
	}
	return chain
}
