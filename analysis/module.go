package analysis

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nickng/llvmanalysis/callgraph"
	"github.com/nickng/llvmanalysis/ir"
	"github.com/nickng/llvmanalysis/typeindex"
)

// ModuleAnalysis is a lazy, memoized facade over one module's call graph,
// functions-by-type index, and a keyed collection of per-function facades.
// It borrows m for its lifetime.
type ModuleAnalysis struct {
	m   *ir.Module
	log *zap.SugaredLogger

	cgBuilt bool
	cg      *callgraph.Graph

	tiBuilt bool
	ti      *typeindex.Index

	fnFacades map[string]*FunctionAnalysis
}

// NewModuleAnalysis returns a facade over m. A nil logger is replaced with a
// no-op logger.
func NewModuleAnalysis(m *ir.Module, log *zap.SugaredLogger) *ModuleAnalysis {
	if log == nil {
		log = nopLogger()
	}
	return &ModuleAnalysis{m: m, log: log, fnFacades: make(map[string]*FunctionAnalysis)}
}

// CallGraph builds the module's call graph on first access.
func (a *ModuleAnalysis) CallGraph() *callgraph.Graph {
	if !a.cgBuilt {
		a.log.Debugw("building call graph", "module", a.m.Name)
		a.cg = callgraph.Build(a.m)
		a.cgBuilt = true
	}
	return a.cg
}

// FunctionsByType builds the module's function-type index on first access.
func (a *ModuleAnalysis) FunctionsByType() *typeindex.Index {
	if !a.tiBuilt {
		a.log.Debugw("building functions-by-type index", "module", a.m.Name)
		a.ti = typeindex.Build(a.m)
		a.tiBuilt = true
	}
	return a.ti
}

// FunctionAnalysis returns the per-function facade for name, constructing
// it on first access. It fails with NoSuchFunctionError if the module has no
// defined function by that name.
func (a *ModuleAnalysis) FunctionAnalysis(name string) (*FunctionAnalysis, error) {
	if fa, ok := a.fnFacades[name]; ok {
		return fa, nil
	}
	fn := a.m.FuncByName(name)
	if fn == nil || fn.IsDeclaration() {
		return nil, errors.Wrapf(NoSuchFunctionError{Module: a.m.Name, Name: name}, "ModuleAnalysis(%s).FunctionAnalysis", a.m.Name)
	}
	fa := NewFunctionAnalysis(fn, a.log)
	a.fnFacades[name] = fa
	return fa, nil
}

// Functions returns the module's function names in source order.
func (a *ModuleAnalysis) Functions() []string {
	names := make([]string, len(a.m.Functions))
	for i, f := range a.m.Functions {
		names[i] = f.Name
	}
	return names
}

// Module returns the module this facade was built over.
func (a *ModuleAnalysis) Module() *ir.Module { return a.m }
