package services

import "context"

// ctxKey namespaces the values this package stores on a context.
type ctxKey int

const (
	keyBatchID ctxKey = iota
	keyOperation
	keyRequestID
)

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	value, _ := ctx.Value(key).(string)
	return value, value != ""
}

// WithBatchID tags ctx with the journal batch being executed.
func WithBatchID(ctx context.Context, id string) context.Context {
	return withString(ctx, keyBatchID, id)
}

func BatchIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keyBatchID)
}

// WithOperation tags ctx with the batch kind: rename, tag, organize or undo.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withString(ctx, keyOperation, operation)
}

func OperationFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keyOperation)
}

// WithRequestID tags ctx with a correlation id shared by one CLI invocation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, keyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keyRequestID)
}
