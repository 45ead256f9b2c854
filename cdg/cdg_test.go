package cdg_test

import (
	"testing"

	"github.com/nickng/llvmanalysis/cdg"
	"github.com/nickng/llvmanalysis/cfg"
	"github.com/nickng/llvmanalysis/dom"
	"github.com/nickng/llvmanalysis/ir"
)

func block(label string, term ir.Terminator) *ir.BasicBlock {
	return &ir.BasicBlock{Label: label, Term: term}
}

func build(fn *ir.Function) (*cfg.Graph, *cdg.Graph) {
	g, err := cfg.Build(fn)
	if err != nil {
		panic(err)
	}
	pdt := dom.PostDominatorTree(g)
	return g, cdg.Build(g, pdt)
}

func edgeSet(t *testing.T, g *cdg.Graph) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for _, e := range g.Edges() {
		set[e.From.Label+"->"+e.To.Label] = true
	}
	return set
}

func TestControlDependenceDiamond(t *testing.T) {
	fn := &ir.Function{
		Name: "diamond",
		Blocks: []*ir.BasicBlock{
			block("A", ir.CondBr{True: "B", False: "C"}),
			block("B", ir.Br{Dest: "D"}),
			block("C", ir.Br{Dest: "D"}),
			block("D", ir.Ret{}),
		},
	}
	_, g := build(fn)
	got := edgeSet(t, g)
	want := map[string]bool{"A->B": true, "A->C": true}
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for e := range want {
		if !got[e] {
			t.Errorf("missing edge %s", e)
		}
	}
}

func TestControlDependenceTwoReturns(t *testing.T) {
	fn := &ir.Function{
		Name: "tworet",
		Blocks: []*ir.BasicBlock{
			block("A", ir.CondBr{True: "B", False: "C"}),
			block("B", ir.Ret{}),
			block("C", ir.Ret{}),
		},
	}
	_, g := build(fn)
	got := edgeSet(t, g)
	want := map[string]bool{"A->B": true, "A->C": true}
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
}

// TestControlDependenceSimpleLoop exercises the self-dependence edge created
// by a loop-exiting branch. The branch here is at C (C->B re-enters the
// loop, C->D exits it); applying the control-dependence formula from first
// principles against the post-dominator tree gives a self-edge at the
// branching block itself plus an edge to the block it loops back into:
// C->B and C->C. (The source spec's own worked example for this shape
// mislabels the branching block as B; this test follows the formula, not
// the mislabeled prose.)
func TestControlDependenceSimpleLoop(t *testing.T) {
	fn := &ir.Function{
		Name: "loop",
		Blocks: []*ir.BasicBlock{
			block("A", ir.Br{Dest: "B"}),
			block("B", ir.Br{Dest: "C"}),
			block("C", ir.CondBr{True: "B", False: "D"}),
			block("D", ir.Ret{}),
		},
	}
	_, g := build(fn)
	got := edgeSet(t, g)
	want := map[string]bool{"C->B": true, "C->C": true}
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for e := range want {
		if !got[e] {
			t.Errorf("missing edge %s", e)
		}
	}
}

func TestControlDependenceExcludesEntryExit(t *testing.T) {
	fn := &ir.Function{
		Name: "diamond",
		Blocks: []*ir.BasicBlock{
			block("A", ir.CondBr{True: "B", False: "C"}),
			block("B", ir.Br{Dest: "D"}),
			block("C", ir.Br{Dest: "D"}),
			block("D", ir.Ret{}),
		},
	}
	_, g := build(fn)
	for _, n := range g.Nodes() {
		if n.Kind != cfg.Real {
			t.Errorf("Nodes() contains non-real node %v", n)
		}
	}
}
