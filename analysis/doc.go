// Package analysis exposes the lazy, memoized facades over the lower-level
// cfg/dom/cdg/callgraph/typeindex packages: FunctionAnalysis, ModuleAnalysis,
// and CrossModuleAnalysis.
//
// Each facade is single-threaded and synchronous: it builds each analysis on
// first access and hands out the same cached graph on every subsequent call.
// None of the caching is guarded by a mutex, so a facade is not safe for
// simultaneous use from multiple goroutines; a caller that wants to
// parallelize per-function analyses should construct independent
// FunctionAnalysis values, which share only the read-only *ir.Function they
// were built over.
package analysis
