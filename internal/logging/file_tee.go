package logging

import (
	"context"
	"log/slog"
)

// fileTee sends each record to the console handler and to the JSON handler
// of the day's log file. Each side applies its own level.
type fileTee struct {
	console slog.Handler
	file    slog.Handler
}

func newFileTee(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	case console == nil:
		return file
	}
	return &fileTee{console: console, file: file}
}

func (h *fileTee) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *fileTee) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if h.console.Enabled(ctx, record.Level) {
		// The console handler may add attributes to its copy.
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	return consoleErr
}

func (h *fileTee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fileTee{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *fileTee) WithGroup(name string) slog.Handler {
	return &fileTee{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}
