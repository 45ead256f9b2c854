// Package typeindex builds, for a module, an index from function-type
// signature to the set of defined functions with that signature.
package typeindex

import (
	"sort"

	"github.com/nickng/llvmanalysis/ir"
)

// Index maps a function-type signature (ir.FunctionType.Signature()) to the
// function names in a module that have that signature.
type Index struct {
	bySignature map[string][]string
}

// Build constructs the index in one pass over m's defined functions, in
// source order.
func Build(m *ir.Module) *Index {
	idx := &Index{bySignature: make(map[string][]string)}
	for _, f := range m.Functions {
		if f.IsDeclaration() {
			continue
		}
		sig := f.Signature.Signature()
		idx.bySignature[sig] = append(idx.bySignature[sig], f.Name)
	}
	return idx
}

// FunctionsWithType returns, sorted, the names of functions whose signature
// equals sig.
func (idx *Index) FunctionsWithType(sig string) []string {
	names := idx.bySignature[sig]
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// Signatures returns every distinct signature present in the index, sorted.
func (idx *Index) Signatures() []string {
	out := make([]string, 0, len(idx.bySignature))
	for sig := range idx.bySignature {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}
