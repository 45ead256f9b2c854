// Package callgraph builds a per-module call graph by scanning call sites:
// direct and intrinsic calls add a named edge, indirect calls add an edge to
// the ANY sentinel, and inline assembly call sites are ignored.
package callgraph

import (
	"sort"

	"github.com/nickng/llvmanalysis/ir"
)

// ANY is the distinguished node standing in for "some unknown indirect
// target" — the callee of every indirect call site.
const ANY = "ANY"

// Graph is a directed graph over function names (plus ANY).
type Graph struct {
	nodes []string
	known map[string]bool
	succ  map[string]map[string]bool
	pred  map[string]map[string]bool
}

func newGraph() *Graph {
	return &Graph{
		known: make(map[string]bool),
		succ:  make(map[string]map[string]bool),
		pred:  make(map[string]map[string]bool),
	}
}

func (g *Graph) addNode(name string) {
	if g.known[name] {
		return
	}
	g.known[name] = true
	g.nodes = append(g.nodes, name)
	g.succ[name] = make(map[string]bool)
	g.pred[name] = make(map[string]bool)
}

func (g *Graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.succ[from][to] = true
	g.pred[to][from] = true
}

// Build constructs the call graph of m. Every defined function becomes a
// node, even one with no callers or callees; ANY becomes a node only if some
// function makes an indirect call.
func Build(m *ir.Module) *Graph {
	g := newGraph()
	for _, f := range m.Functions {
		g.addNode(f.Name)
	}
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, instr := range b.Instrs {
				if instr.IsCall() {
					addCallEdge(g, f.Name, instr.Call.Callee)
				}
			}
			if inv, ok := b.Term.(ir.Invoke); ok {
				addCallEdge(g, f.Name, inv.Callee)
			}
		}
	}
	return g
}

func addCallEdge(g *Graph, caller string, callee ir.Operand) {
	switch callee.Kind {
	case ir.OperandGlobal:
		g.addEdge(caller, callee.Name)
	case ir.OperandIndirect:
		g.addEdge(caller, ANY)
	case ir.OperandInlineAsm:
		// No symbolic callee: no edge.
	}
}

// Nodes returns every node in the order it was first encountered during
// construction: the module's functions in source order, then any other
// callee (including ANY, if reached) in the order the call-site scan first
// reaches it.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edge is one caller-to-callee relation.
type Edge struct{ Caller, Callee string }

// Edges returns every edge in lexicographic order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range sortedStrings(g.nodes) {
		for _, to := range sortedSet(g.succ[from]) {
			edges = append(edges, Edge{Caller: from, Callee: to})
		}
	}
	return edges
}

// CallersOf returns the names of functions that may call name, sorted.
func (g *Graph) CallersOf(name string) []string { return sortedSet(g.pred[name]) }

// CalleesOf returns the names of functions (or ANY) that name may call,
// sorted.
func (g *Graph) CalleesOf(name string) []string { return sortedSet(g.succ[name]) }

// HasNode reports whether name is a node in the graph.
func (g *Graph) HasNode(name string) bool { return g.known[name] }

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
