package dom_test

import (
	"testing"

	"github.com/nickng/llvmanalysis/cfg"
	"github.com/nickng/llvmanalysis/dom"
	"github.com/nickng/llvmanalysis/ir"
)

func block(label string, term ir.Terminator) *ir.BasicBlock {
	return &ir.BasicBlock{Label: label, Term: term}
}

func diamond() *ir.Function {
	return &ir.Function{
		Name: "diamond",
		Blocks: []*ir.BasicBlock{
			block("A", ir.CondBr{True: "B", False: "C"}),
			block("B", ir.Br{Dest: "D"}),
			block("C", ir.Br{Dest: "D"}),
			block("D", ir.Ret{}),
		},
	}
}

func simpleLoop() *ir.Function {
	return &ir.Function{
		Name: "loop",
		Blocks: []*ir.BasicBlock{
			block("A", ir.Br{Dest: "B"}),
			block("B", ir.Br{Dest: "C"}),
			block("C", ir.CondBr{True: "B", False: "D"}),
			block("D", ir.Ret{}),
		},
	}
}

func twoReturns() *ir.Function {
	return &ir.Function{
		Name: "tworet",
		Blocks: []*ir.BasicBlock{
			block("A", ir.CondBr{True: "B", False: "C"}),
			block("B", ir.Ret{}),
			block("C", ir.Ret{}),
		},
	}
}

func idomOf(t *testing.T, tree *dom.Tree, label string) string {
	n, ok := tree.Idom(cfg.RealNode(label))
	if !ok {
		return "none"
	}
	return n.String()
}

func TestDominatorTreeDiamond(t *testing.T) {
	g, err := cfg.Build(diamond())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dt := dom.DominatorTree(g)

	want := map[string]string{"A": "ENTRY", "B": "A", "C": "A", "D": "A"}
	for label, wantIdom := range want {
		if got := idomOf(t, dt, label); got != wantIdom {
			t.Errorf("idom(%s) = %s, want %s", label, got, wantIdom)
		}
	}
	if !dt.Dominates(cfg.RealNode("A"), cfg.RealNode("D")) {
		t.Errorf("A should dominate D")
	}
	if dt.StrictlyDominates(cfg.RealNode("D"), cfg.RealNode("D")) {
		t.Errorf("D should not strictly dominate itself")
	}
}

func TestPostDominatorTreeDiamond(t *testing.T) {
	g, err := cfg.Build(diamond())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pdt := dom.PostDominatorTree(g)

	want := map[string]string{"D": "EXIT", "B": "D", "C": "D", "A": "D"}
	for label, wantIdom := range want {
		if got := idomOf(t, pdt, label); got != wantIdom {
			t.Errorf("postdom idom(%s) = %s, want %s", label, got, wantIdom)
		}
	}
}

func TestDominatorTreeSimpleLoop(t *testing.T) {
	g, err := cfg.Build(simpleLoop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dt := dom.DominatorTree(g)

	if got := idomOf(t, dt, "C"); got != "B" {
		t.Errorf("idom(C) = %s, want B", got)
	}
	if got := idomOf(t, dt, "D"); got != "C" {
		t.Errorf("idom(D) = %s, want C", got)
	}
}

func TestPostDominatorTreeTwoReturns(t *testing.T) {
	g, err := cfg.Build(twoReturns())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pdt := dom.PostDominatorTree(g)

	exitPreds := g.Predecessors(cfg.ExitNode)
	if len(exitPreds) != 2 {
		t.Fatalf("Predecessors(EXIT) = %v, want 2 (B and C)", exitPreds)
	}
	for _, label := range []string{"B", "C", "A"} {
		if got := idomOf(t, pdt, label); got != "EXIT" {
			t.Errorf("postdom idom(%s) = %s, want EXIT", label, got)
		}
	}
}

func TestDominatorChainAndUnreachable(t *testing.T) {
	fn := &ir.Function{
		Name: "unreachable",
		Blocks: []*ir.BasicBlock{
			block("A", ir.Br{Dest: "B"}),
			block("B", ir.Ret{}),
			block("C", ir.Br{Dest: "B"}),
		},
	}
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dt := dom.DominatorTree(g)

	if _, ok := dt.Idom(cfg.RealNode("C")); ok {
		t.Errorf("idom(C) should be undefined (C is unreachable from ENTRY)")
	}

	chain := dt.DominatorChain(cfg.RealNode("B"))
	want := []cfg.Node{cfg.RealNode("B"), cfg.RealNode("A"), cfg.EntryNode}
	if len(chain) != len(want) {
		t.Fatalf("DominatorChain(B) = %v, want %v", chain, want)
	}
	for i, n := range want {
		if chain[i] != n {
			t.Errorf("DominatorChain(B)[%d] = %v, want %v", i, chain[i], n)
		}
	}
}
