package callgraph

// Union returns the cross-module call graph: the union of graphs keyed by
// symbol name. An edge f -> g exists iff it exists in at least one input
// graph; duplicate symbols across modules collapse to one node.
func Union(graphs ...*Graph) *Graph {
	u := newGraph()
	for _, g := range graphs {
		for _, n := range g.nodes {
			u.addNode(n)
		}
	}
	for _, g := range graphs {
		for _, from := range g.nodes {
			for to := range g.succ[from] {
				u.addEdge(from, to)
			}
		}
	}
	return u
}
