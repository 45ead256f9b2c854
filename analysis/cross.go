package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nickng/llvmanalysis/callgraph"
	"github.com/nickng/llvmanalysis/ir"
)

// CrossModuleAnalysis is a lazy, memoized aggregator over a fixed set of
// modules: a keyed collection of per-module facades plus a lazily built
// cross-module call graph.
type CrossModuleAnalysis struct {
	log     *zap.SugaredLogger
	names   []string // module names, source order as passed to New.
	modules map[string]*ModuleAnalysis

	cgBuilt bool
	cg      *callgraph.Graph
}

// NewCrossModuleAnalysis borrows modules and returns a facade over all of
// them. It fails with DuplicateModuleError if two modules share a name. A
// nil logger is replaced with a no-op logger and shared by every per-module
// facade constructed underneath.
func NewCrossModuleAnalysis(modules []*ir.Module, log *zap.SugaredLogger) (*CrossModuleAnalysis, error) {
	if log == nil {
		log = nopLogger()
	}
	a := &CrossModuleAnalysis{
		log:     log,
		modules: make(map[string]*ModuleAnalysis, len(modules)),
	}
	for _, m := range modules {
		if _, dup := a.modules[m.Name]; dup {
			return nil, errors.Wrapf(DuplicateModuleError{Name: m.Name}, "NewCrossModuleAnalysis")
		}
		a.names = append(a.names, m.Name)
		a.modules[m.Name] = NewModuleAnalysis(m, log)
	}
	return a, nil
}

// ModuleAnalysis returns the per-module facade for name. It fails with
// NoSuchModuleError if name is absent from the analyzed set.
func (a *CrossModuleAnalysis) ModuleAnalysis(name string) (*ModuleAnalysis, error) {
	ma, ok := a.modules[name]
	if !ok {
		return nil, errors.Wrapf(NoSuchModuleError{Name: name}, "CrossModuleAnalysis.ModuleAnalysis")
	}
	return ma, nil
}

// Modules returns the analyzed module names, in the order they were passed
// to NewCrossModuleAnalysis.
func (a *CrossModuleAnalysis) Modules() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// CallGraph builds the cross-module call graph on first access: the union of
// every per-module call graph, keyed by symbol name.
func (a *CrossModuleAnalysis) CallGraph() *callgraph.Graph {
	if !a.cgBuilt {
		a.log.Debugw("building cross-module call graph", "modules", sortedCopy(a.names))
		graphs := make([]*callgraph.Graph, 0, len(a.names))
		for _, name := range a.names {
			graphs = append(graphs, a.modules[name].CallGraph())
		}
		a.cg = callgraph.Union(graphs...)
		a.cgBuilt = true
	}
	return a.cg
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
