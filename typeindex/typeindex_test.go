package typeindex_test

import (
	"testing"

	"github.com/nickng/llvmanalysis/ir"
	"github.com/nickng/llvmanalysis/typeindex"
)

func TestBuildAndQuery(t *testing.T) {
	i32 := ir.IntType{Bits: 32}
	sig := ir.FunctionType{Params: []ir.Type{i32}, Ret: i32}
	m := &ir.Module{
		Name: "m",
		Functions: []*ir.Function{
			{Name: "add", Signature: sig, Blocks: []*ir.BasicBlock{{Label: "entry", Term: ir.Ret{}}}},
			{Name: "sub", Signature: sig, Blocks: []*ir.BasicBlock{{Label: "entry", Term: ir.Ret{}}}},
			{Name: "printf", Signature: ir.FunctionType{Params: []ir.Type{ir.PointerType{}}, Ret: i32, Variadic: true}},
		},
	}

	idx := typeindex.Build(m)

	got := idx.FunctionsWithType(sig.Signature())
	want := []string{"add", "sub"}
	if len(got) != len(want) {
		t.Fatalf("FunctionsWithType(sig) = %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("FunctionsWithType(sig)[%d] = %s, want %s", i, got[i], name)
		}
	}

	if fns := idx.FunctionsWithType(ir.FunctionType{}.Signature()); len(fns) != 0 {
		t.Errorf("FunctionsWithType(void()) = %v, want none", fns)
	}

	// printf is a declaration: typeindex only covers defined functions.
	for _, sigStr := range idx.Signatures() {
		for _, name := range idx.FunctionsWithType(sigStr) {
			if name == "printf" {
				t.Errorf("printf is a declaration and must not appear in the index")
			}
		}
	}
}
