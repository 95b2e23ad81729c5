package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func jsonBuffer(level slog.Level) (*bytes.Buffer, slog.Handler) {
	var buf bytes.Buffer
	return &buf, slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
}

func TestNewFileTeeCollapsesMissingSides(t *testing.T) {
	_, h := jsonBuffer(slog.LevelInfo)
	tests := []struct {
		name          string
		console, file slog.Handler
		want          slog.Handler
	}{
		{"both missing", nil, nil, NoopHandler{}},
		{"file missing", h, nil, h},
		{"console missing", nil, h, h},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newFileTee(tt.console, tt.file); got != tt.want {
				t.Fatalf("newFileTee = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFileTeeRoutesByLevel(t *testing.T) {
	consoleBuf, console := jsonBuffer(slog.LevelWarn)
	fileBuf, file := jsonBuffer(slog.LevelDebug)
	logger := slog.New(newFileTee(console, file)).With(String(FieldComponent, "admxml"))

	logger.Debug("references resolved", Int("entities", 4))
	logger.Warn("unknown language", String("language", "xx"))

	if got := strings.Count(consoleBuf.String(), "\n"); got != 1 {
		t.Fatalf("console got %d records, want 1:\n%s", got, consoleBuf.String())
	}
	if strings.Contains(consoleBuf.String(), "references resolved") {
		t.Fatal("debug record reached the console")
	}

	lines := strings.Split(strings.TrimSpace(fileBuf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("file got %d records, want 2:\n%s", len(lines), fileBuf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode file record: %v", err)
	}
	if first[FieldComponent] != "admxml" || first["entities"] != float64(4) {
		t.Fatalf("unexpected file record: %v", first)
	}
}

func TestFileTeeEnabledIfEitherSideIs(t *testing.T) {
	_, console := jsonBuffer(slog.LevelError)
	_, file := jsonBuffer(slog.LevelInfo)
	h := newFileTee(console, file)
	ctx := context.Background()
	if !h.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info should be enabled through the file side")
	}
	if h.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug should be disabled on both sides")
	}
}

func TestFileTeeWithGroup(t *testing.T) {
	consoleBuf, console := jsonBuffer(slog.LevelInfo)
	fileBuf, file := jsonBuffer(slog.LevelInfo)
	slog.New(newFileTee(console, file)).WithGroup("frame").Info("ingested", Int64("sequence", 3))

	for name, buf := range map[string]*bytes.Buffer{"console": consoleBuf, "file": fileBuf} {
		if !strings.Contains(buf.String(), `"frame":{"sequence":3}`) {
			t.Fatalf("%s missing grouped attribute: %s", name, buf.String())
		}
	}
}
