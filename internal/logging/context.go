package logging

import (
	"context"
	"log/slog"
	"strings"
)

type contextKey int

const (
	fileKey contextKey = iota
	flowKey
)

// WithFile records the document being processed on ctx.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, strings.TrimSpace(path))
}

// WithFlow records the S-ADM flow being processed on ctx.
func WithFlow(ctx context.Context, flowID string) context.Context {
	return context.WithValue(ctx, flowKey, strings.TrimSpace(flowID))
}

// FileFromContext returns the document path stored by WithFile.
func FileFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, fileKey)
}

// FlowFromContext returns the flow ID stored by WithFlow.
func FlowFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, flowKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if file, ok := FileFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFile, file))
	}
	if flow, ok := FlowFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFlowID, flow))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
