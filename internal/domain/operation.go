package domain

import "context"

type operationKey struct{}

// Pipeline operations, used to label inference calls.
const (
	OperationChat    = "chat"
	OperationAnalyze = "analyze"
)

// WithOperation tags ctx with the pipeline operation an inference call serves.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation tag, or "unknown".
func OperationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "unknown"
}
