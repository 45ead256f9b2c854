// Command irdump prints the call graph, control-flow graph, and dominator
// tree of a small built-in example module, since this repository has no IR
// frontend to parse a real one from (see ir package doc).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/nickng/llvmanalysis/analysis"
	"github.com/nickng/llvmanalysis/cfg"
	"github.com/nickng/llvmanalysis/ir"
)

const usage = `irdump prints the call graph, CFG, and dominator tree of a built-in
example module.

Usage:

  irdump [options]

Options:

`

var noColor bool

func init() {
	flag.BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if noColor {
		color.NoColor = true
	}

	m := exampleModule()
	ma := analysis.NewModuleAnalysis(m, nil)

	header := color.New(color.Bold, color.FgCyan)
	header.Printf("module %s\n", m.Name)

	header.Println("\ncall graph")
	cg := ma.CallGraph()
	for _, e := range cg.Edges() {
		fmt.Printf("  %s -> %s\n", e.Caller, e.Callee)
	}

	for _, name := range ma.Functions() {
		fa, err := ma.FunctionAnalysis(name)
		if err != nil {
			color.Red("function %s: %v", name, err)
			os.Exit(1)
		}
		g, err := fa.ControlFlowGraph()
		if err != nil {
			color.Red("function %s: %v", name, err)
			continue
		}

		header.Printf("\nfunction %s\n", name)
		fmt.Println("  cfg:")
		for _, e := range g.Edges() {
			fmt.Printf("    %s -> %s\n", e.From, e.To)
		}

		dt, err := fa.DominatorTree()
		if err != nil {
			color.Red("function %s: %v", name, err)
			continue
		}
		fmt.Println("  dominator tree:")
		for _, n := range g.Nodes() {
			if n == cfg.EntryNode {
				continue
			}
			d, ok := dt.Idom(n)
			if !ok {
				fmt.Printf("    idom(%s) = none\n", n)
				continue
			}
			fmt.Printf("    idom(%s) = %s\n", n, d)
		}
	}
}

// exampleModule builds the diamond-shaped example used throughout this
// repository's tests: A branches to B and C, both of which rejoin at D.
func exampleModule() *ir.Module {
	i32 := ir.IntType{Bits: 32}
	sig := ir.FunctionType{Params: []ir.Type{i32}, Ret: i32}
	return &ir.Module{
		Name: "example",
		Functions: []*ir.Function{
			{
				Name:      "main",
				Signature: ir.FunctionType{Ret: i32},
				Blocks: []*ir.BasicBlock{
					{
						Label:  "entry",
						Instrs: []ir.Instruction{{Call: &ir.CallInstr{Callee: ir.Operand{Kind: ir.OperandGlobal, Name: "classify"}}}},
						Term:   ir.Ret{},
					},
				},
			},
			{
				Name:      "classify",
				Signature: sig,
				Blocks: []*ir.BasicBlock{
					{Label: "A", Term: ir.CondBr{True: "B", False: "C"}},
					{Label: "B", Term: ir.Br{Dest: "D"}},
					{Label: "C", Term: ir.Br{Dest: "D"}},
					{Label: "D", Term: ir.Ret{}},
				},
			},
		},
	}
}
