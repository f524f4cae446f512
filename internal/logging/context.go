package logging

import (
	"context"
	"log/slog"

	"mediaorganizer/internal/services"
)

// contextKeys pairs each context lookup with the log field it populates.
var contextKeys = []struct {
	field  string
	lookup func(context.Context) (string, bool)
}{
	{FieldBatchID, services.BatchIDFromContext},
	{FieldOperation, services.OperationFromContext},
	{FieldCorrelationID, services.RequestIDFromContext},
}

// WithContext attaches the batch, operation and correlation ids carried by
// ctx to logger. A nil logger is replaced with a discarding one.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var attrs []any
	for _, k := range contextKeys {
		if v, ok := k.lookup(ctx); ok {
			attrs = append(attrs, slog.String(k.field, v))
		}
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
