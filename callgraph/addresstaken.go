package callgraph

import (
	"sort"

	"github.com/nickng/llvmanalysis/ir"
)

// FunctionsThatMayBeCalledIndirectly scans every instruction operand in m
// and returns, sorted, the names of the module's functions (definitions and
// declarations alike) that appear as an operand anywhere other than as the
// callee of a direct call. This is a
// scan over operand references, not a graph query.
func FunctionsThatMayBeCalledIndirectly(m *ir.Module) []string {
	defined := make(map[string]bool)
	for _, f := range m.Functions {
		defined[f.Name] = true
	}

	addressTaken := make(map[string]bool)
	mark := func(op ir.Operand) {
		if op.Kind == ir.OperandGlobal && defined[op.Name] {
			addressTaken[op.Name] = true
		}
	}

	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			for _, instr := range b.Instrs {
				for _, op := range instr.Operands {
					mark(op)
				}
				// A call's own callee is exempt only when it is a direct
				// call; the callee operand of an indirect call has no
				// global name to mark, and a direct call's callee is
				// excluded by definition.
				if instr.IsCall() {
					for _, arg := range instr.Call.Args {
						mark(arg)
					}
				}
			}
			if inv, ok := b.Term.(ir.Invoke); ok {
				for _, arg := range inv.Args {
					mark(arg)
				}
			}
		}
	}

	out := make([]string, 0, len(addressTaken))
	for name := range addressTaken {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
