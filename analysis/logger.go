package analysis

import "go.uber.org/zap"

// nopLogger is the default logger for a facade that was not given one: a
// zap.SugaredLogger backed by zap's no-op core, which discards every entry.
func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
