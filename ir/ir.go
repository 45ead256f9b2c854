// Package ir is the minimal, already-parsed program representation that the
// rest of this repository analyzes. It models just enough of LLVM IR's shape
// (modules, functions, basic blocks, terminators, call sites) to drive the
// analyses in cfg, dom, cdg, callgraph, typeindex and analysis; a real
// bitcode or textual IR frontend is out of scope and would simply build one
// of these from its own parse tree.
package ir

import "strconv"

// Module is a translation unit: a named, ordered collection of functions
// (both definitions and external declarations).
type Module struct {
	Name      string
	Functions []*Function // source order; declarations and definitions alike.
}

// FuncByName returns the function with the given name, or nil if the Module
// has none.
func (m *Module) FuncByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Function is a named unit of code. A Function with no Blocks is an external
// declaration; Signature is always populated.
type Function struct {
	Name      string
	Signature FunctionType
	Blocks    []*BasicBlock // source order; empty for a declaration.
}

// IsDeclaration reports whether f has no body.
func (f *Function) IsDeclaration() bool { return len(f.Blocks) == 0 }

// BlockByLabel returns the block with the given label, or nil.
func (f *Function) BlockByLabel(label string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// BasicBlock is a maximal straight-line sequence of instructions ending in a
// single Terminator.
type BasicBlock struct {
	Label  string
	Instrs []Instruction
	Term   Terminator
}

// FunctionType is a function signature: ordered parameter types, a return
// type, and whether the last parameter is variadic.
type FunctionType struct {
	Params   []Type
	Ret      Type
	Variadic bool
}

// Signature returns a canonical string encoding of the signature, suitable
// for use as a map key (see typeindex.Index). Two FunctionTypes
// with the same Params/Ret/Variadic produce identical Signatures.
func (t FunctionType) Signature() string {
	var b []byte
	b = append(b, '(')
	for i, p := range t.Params {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, p.String()...)
	}
	if t.Variadic {
		b = append(b, "..."...)
	}
	b = append(b, ')', '-', '>')
	if t.Ret != nil {
		b = append(b, t.Ret.String()...)
	} else {
		b = append(b, "void"...)
	}
	return string(b)
}

// Type is any LLVM-IR-shaped type. Only String() is needed for the analyses
// in this repository (signature comparison in typeindex): nothing here
// inspects a Type's structure beyond that.
type Type interface {
	String() string
}

// Simple named types cover the scalar/void/pointer cases this library's
// analyses ever need to compare or print.
type (
	// VoidType is LLVM's void.
	VoidType struct{}
	// IntType is an integer type of a given bit width (i1, i8, i32, ...).
	IntType struct{ Bits int }
	// PointerType points to an Elem type (opaque pointee is fine: use
	// VoidType{} as Elem for an untyped/opaque pointer).
	PointerType struct{ Elem Type }
	// NamedType is a named aggregate (struct, etc.) identified only by name
	// for the purposes of this library.
	NamedType struct{ Name string }
)

func (VoidType) String() string    { return "void" }
func (t IntType) String() string   { return "i" + strconv.Itoa(t.Bits) }
func (t PointerType) String() string {
	if t.Elem == nil {
		return "ptr"
	}
	return t.Elem.String() + "*"
}
func (t NamedType) String() string { return "%" + t.Name }
