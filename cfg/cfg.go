// Package cfg builds the per-function control-flow graph: basic blocks plus
// synthetic ENTRY/EXIT nodes, connected per the successor rules of each
// terminator kind.
//
// ENTRY has a single edge, to the function's first block. Ret and Resume
// connect their block to EXIT. Unreachable is a sink: its block has no
// outgoing edge, not even to EXIT. Br, CondBr, Switch, IndirectBr and Invoke
// get one edge per destination, labeled by the construct that produced it.
package cfg

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nickng/llvmanalysis/ir"
)

// NodeKind distinguishes a CFG node's role.
type NodeKind int

const (
	// Real is an ordinary basic block, identified by its label.
	Real NodeKind = iota
	// Entry is the synthetic function-entry node.
	Entry
	// Exit is the synthetic unified-return node.
	Exit
)

// Node is a CFG node: either a real block (by label) or one of the two
// synthetic pseudo-blocks.
type Node struct {
	Kind  NodeKind
	Label string // meaningful only when Kind == Real.
}

// String renders a Node for debugging and error messages.
func (n Node) String() string {
	switch n.Kind {
	case Entry:
		return "ENTRY"
	case Exit:
		return "EXIT"
	default:
		return n.Label
	}
}

// EntryNode and ExitNode are the two synthetic nodes every CFG carries.
var (
	EntryNode = Node{Kind: Entry}
	ExitNode  = Node{Kind: Exit}
)

// RealNode builds a Node for a real block label.
func RealNode(label string) Node { return Node{Kind: Real, Label: label} }

// EdgeLabel classifies a CFG edge by the terminator construct that produced
// it.
type EdgeLabel int

const (
	Unconditional EdgeLabel = iota
	True
	False
	CaseValue
	Default
	Normal
	Unwind
	Indirect
)

// Edge is one directed CFG edge, with the case value populated only when
// Label == CaseValue.
type Edge struct {
	From, To Node
	Label    EdgeLabel
	Case     string
}

// Graph is one function's control-flow graph.
type Graph struct {
	nodes []Node // source order: ENTRY, then real blocks, then EXIT.
	succ  map[Node][]Edge
	pred  map[Node][]Edge
}

// Nodes returns every node in deterministic order: ENTRY, real blocks in the
// function's source order, EXIT.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns every edge, grouped by source node in Nodes() order and,
// within a node, in the order the edges were emitted during construction.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		edges = append(edges, g.succ[n]...)
	}
	return edges
}

// Successors returns n's outgoing edges in construction order.
func (g *Graph) Successors(n Node) []Edge { return g.succ[n] }

// Predecessors returns n's incoming edges, ordered by the source node's
// position in Nodes().
func (g *Graph) Predecessors(n Node) []Edge { return g.pred[n] }

// MalformedIRError is reported when a terminator refers to a block label
// that does not exist in the function.
type MalformedIRError struct {
	Function string
	Detail   string
}

func (e MalformedIRError) Error() string {
	return fmt.Sprintf("malformed IR in function %s: %s", e.Function, e.Detail)
}

// Build constructs the CFG of fn. Blocks are visited in source order; every
// terminator's successors are emitted per the rules in the package doc.
// unreachable is a sink with no outgoing edge; the function never panics on
// an unknown destination label and instead reports MalformedIRError.
func Build(fn *ir.Function) (*Graph, error) {
	g := &Graph{
		succ: make(map[Node][]Edge),
		pred: make(map[Node][]Edge),
	}
	g.nodes = append(g.nodes, EntryNode)
	for _, b := range fn.Blocks {
		g.nodes = append(g.nodes, RealNode(b.Label))
	}
	g.nodes = append(g.nodes, ExitNode)

	for _, n := range g.nodes {
		g.succ[n] = nil
		g.pred[n] = nil
	}

	if len(fn.Blocks) == 0 {
		// A declaration has no body and so no first block for ENTRY to
		// connect to: Build reports it as MalformedIRError and returns no
		// graph.
		return nil, errors.Wrapf(
			MalformedIRError{Function: fn.Name, Detail: "function has no basic blocks"},
			"cfg.Build(%s)", fn.Name,
		)
	}

	g.addEdge(Edge{From: EntryNode, To: RealNode(fn.Blocks[0].Label), Label: Unconditional})

	for _, b := range fn.Blocks {
		from := RealNode(b.Label)
		if err := g.addTerminatorEdges(fn, from, b.Term); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) addTerminatorEdges(fn *ir.Function, from Node, term ir.Terminator) error {
	mkErr := func(detail string) error {
		return errors.Wrapf(
			MalformedIRError{Function: fn.Name, Detail: detail},
			"cfg.Build(%s)", fn.Name,
		)
	}
	dest := func(label string) (Node, error) {
		if fn.BlockByLabel(label) == nil {
			return Node{}, mkErr(fmt.Sprintf("terminator in %s refers to unknown block %q", from, label))
		}
		return RealNode(label), nil
	}

	switch t := term.(type) {
	case ir.Ret:
		g.addEdge(Edge{From: from, To: ExitNode, Label: Unconditional})
	case ir.Resume:
		g.addEdge(Edge{From: from, To: ExitNode, Label: Unconditional})
	case ir.Unreachable:
		// Sink: no outgoing edge. See package doc for the policy choice.
	case ir.Br:
		to, err := dest(t.Dest)
		if err != nil {
			return err
		}
		g.addEdge(Edge{From: from, To: to, Label: Unconditional})
	case ir.CondBr:
		trueTo, err := dest(t.True)
		if err != nil {
			return err
		}
		falseTo, err := dest(t.False)
		if err != nil {
			return err
		}
		g.addEdge(Edge{From: from, To: trueTo, Label: True})
		g.addEdge(Edge{From: from, To: falseTo, Label: False})
	case ir.Switch:
		for _, c := range t.Cases {
			to, err := dest(c.Dest)
			if err != nil {
				return err
			}
			g.addEdge(Edge{From: from, To: to, Label: CaseValue, Case: c.Value})
		}
		to, err := dest(t.Default)
		if err != nil {
			return err
		}
		g.addEdge(Edge{From: from, To: to, Label: Default})
	case ir.IndirectBr:
		for _, d := range t.Dests {
			to, err := dest(d)
			if err != nil {
				return err
			}
			g.addEdge(Edge{From: from, To: to, Label: Indirect})
		}
	case ir.Invoke:
		normal, err := dest(t.Normal)
		if err != nil {
			return err
		}
		unwind, err := dest(t.Unwind)
		if err != nil {
			return err
		}
		g.addEdge(Edge{From: from, To: normal, Label: Normal})
		g.addEdge(Edge{From: from, To: unwind, Label: Unwind})
	default:
		return mkErr(fmt.Sprintf("block %s has unrecognised terminator %T", from, t))
	}
	return nil
}

func (g *Graph) addEdge(e Edge) {
	g.succ[e.From] = append(g.succ[e.From], e)
	g.pred[e.To] = append(g.pred[e.To], e)
}
