package profiling

import "context"

type contextKey struct{}

// WithAnalyzer attaches the per-request analyzer to ctx. The analyzer is
// passed explicitly through the request context; nothing in this package
// keeps global state.
func WithAnalyzer(ctx context.Context, la *LayerAnalyzer) context.Context {
	return context.WithValue(ctx, contextKey{}, la)
}

// AnalyzerFromContext returns the analyzer for the current request, if
// profiling was requested.
func AnalyzerFromContext(ctx context.Context) (*LayerAnalyzer, bool) {
	la, ok := ctx.Value(contextKey{}).(*LayerAnalyzer)
	return la, ok
}

// Mark records a checkpoint on the context's analyzer. It is a no-op when
// profiling is not active, so call sites carry no overhead for normal
// requests.
func Mark(ctx context.Context, name string) {
	if la, ok := AnalyzerFromContext(ctx); ok {
		la.Checkpoint(name)
	}
}
