package dom

import "github.com/nickng/llvmanalysis/cfg"

func succNodes(g *cfg.Graph) neighborsFn {
	return func(n cfg.Node) []cfg.Node {
		edges := g.Successors(n)
		out := make([]cfg.Node, len(edges))
		for i, e := range edges {
			out[i] = e.To
		}
		return out
	}
}

func predNodes(g *cfg.Graph) neighborsFn {
	return func(n cfg.Node) []cfg.Node {
		edges := g.Predecessors(n)
		out := make([]cfg.Node, len(edges))
		for i, e := range edges {
			out[i] = e.From
		}
		return out
	}
}

// DominatorTree builds the ordinary dominator tree of g, rooted at ENTRY.
func DominatorTree(g *cfg.Graph) *Tree {
	return Build(cfg.EntryNode, succNodes(g), predNodes(g))
}

// PostDominatorTree builds the post-dominator tree of g: the dominator tree
// of the reversed CFG, rooted at EXIT (predecessors become the "forward"
// direction and vice versa).
func PostDominatorTree(g *cfg.Graph) *Tree {
	return Build(cfg.ExitNode, predNodes(g), succNodes(g))
}
