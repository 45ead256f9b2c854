package analysis

import (
	"go.uber.org/zap"

	"github.com/nickng/llvmanalysis/cdg"
	"github.com/nickng/llvmanalysis/cfg"
	"github.com/nickng/llvmanalysis/dom"
	"github.com/nickng/llvmanalysis/ir"
)

// FunctionAnalysis is a lazy, memoized facade over one function's
// control-flow graph, dominator tree, post-dominator tree, and
// control-dependence graph. It borrows fn for its lifetime and is not safe
// for concurrent use from multiple goroutines — see the package doc.
type FunctionAnalysis struct {
	fn  *ir.Function
	log *zap.SugaredLogger

	cfgBuilt bool
	cfg      *cfg.Graph
	cfgErr   error

	domBuilt bool
	domTree  *dom.Tree

	postdomBuilt bool
	postdomTree  *dom.Tree

	cdgBuilt bool
	cdg      *cdg.Graph
}

// NewFunctionAnalysis returns a facade over fn. A nil logger is replaced
// with a no-op logger.
func NewFunctionAnalysis(fn *ir.Function, log *zap.SugaredLogger) *FunctionAnalysis {
	if log == nil {
		log = nopLogger()
	}
	return &FunctionAnalysis{fn: fn, log: log}
}

// ControlFlowGraph builds the CFG on first access and returns the cached
// graph thereafter. It is the only construction step that can fail (on
// malformed IR); every higher-level query below surfaces the same error.
func (a *FunctionAnalysis) ControlFlowGraph() (*cfg.Graph, error) {
	if !a.cfgBuilt {
		a.log.Debugw("building control-flow graph", "function", a.fn.Name)
		a.cfg, a.cfgErr = cfg.Build(a.fn)
		a.cfgBuilt = true
	}
	return a.cfg, a.cfgErr
}

// DominatorTree builds the CFG's dominator tree on first access.
func (a *FunctionAnalysis) DominatorTree() (*dom.Tree, error) {
	g, err := a.ControlFlowGraph()
	if err != nil {
		return nil, err
	}
	if !a.domBuilt {
		a.log.Debugw("building dominator tree", "function", a.fn.Name)
		a.domTree = dom.DominatorTree(g)
		a.domBuilt = true
	}
	return a.domTree, nil
}

// PostDominatorTree builds the CFG's post-dominator tree on first access.
func (a *FunctionAnalysis) PostDominatorTree() (*dom.Tree, error) {
	g, err := a.ControlFlowGraph()
	if err != nil {
		return nil, err
	}
	if !a.postdomBuilt {
		a.log.Debugw("building post-dominator tree", "function", a.fn.Name)
		a.postdomTree = dom.PostDominatorTree(g)
		a.postdomBuilt = true
	}
	return a.postdomTree, nil
}

// ControlDependenceGraph builds the control-dependence graph on first
// access, triggering the CFG and post-dominator tree as prerequisites.
func (a *FunctionAnalysis) ControlDependenceGraph() (*cdg.Graph, error) {
	g, err := a.ControlFlowGraph()
	if err != nil {
		return nil, err
	}
	pdt, err := a.PostDominatorTree()
	if err != nil {
		return nil, err
	}
	if !a.cdgBuilt {
		a.log.Debugw("building control-dependence graph", "function", a.fn.Name)
		a.cdg = cdg.Build(g, pdt)
		a.cdgBuilt = true
	}
	return a.cdg, nil
}

// Function returns the function this facade was built over.
func (a *FunctionAnalysis) Function() *ir.Function { return a.fn }
