package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"admkit/internal/admerr"
	"admkit/internal/config"
	"admkit/internal/logging"
)

func TestNewFromConfigWritesDailyJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("converted", logging.String(logging.FieldFile, "scene.xml"))

	path := filepath.Join(cfg.Paths.LogDir, logging.DailyLogName(time.Now()))
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, content)
	}
	if record["msg"] != "converted" || record[logging.FieldFile] != "scene.xml" {
		t.Fatalf("unexpected record: %v", record)
	}
	if id, _ := record[logging.FieldSessionID].(string); id == "" {
		t.Fatalf("expected session id on record: %v", record)
	}
}

func TestNewFromConfigPrunesOldLogs(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.RetentionDays = 7

	stale := filepath.Join(cfg.Paths.LogDir, "admkit-2000-01-01.log")
	if err := os.WriteFile(stale, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}
	unrelated := filepath.Join(cfg.Paths.LogDir, "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(unrelated, old, old); err != nil {
		t.Fatal(err)
	}

	if _, err := logging.NewFromConfig(&cfg); err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log to be pruned, stat err = %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected unrelated file to survive: %v", err)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "sadm")

	ctx := logging.WithFlow(logging.WithFile(context.Background(), "/data/frames/f1.xml"),
		"6f1c2a8e-1111-4222-8333-944455556666")
	logging.WithContext(ctx, logger).Info("frame ingested",
		logging.String(logging.FieldFrameID, "FF_00000000001"),
		logging.Int("changed_new", 3),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{"[sadm]", "f1.xml · flow 6f1c2a8e", "frame ingested", "- Frame: FF_00000000001", "- New: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Flow Id") {
		t.Errorf("flow id belongs in the subject, not the field list:\n%s", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.WithFile(context.Background(), "scene.xml")
	ctx = logging.WithFlow(ctx, "flow-1")
	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldFile] != "scene.xml" || record[logging.FieldFlowID] != "flow-1" {
		t.Fatalf("unexpected record: %v", record)
	}

	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields from empty context, got %v", fields)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "unknown language", "adm_language_unknown",
		logging.String(logging.FieldErrorHint, "use an ISO 639 code"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "adm_language_unknown" {
		t.Fatalf("missing event type: %v", record)
	}
	if record[logging.FieldErrorHint] != "use an ISO 639 code" {
		t.Fatalf("caller hint must win: %v", record)
	}
	if record[logging.FieldImpact] == nil {
		t.Fatalf("expected default impact: %v", record)
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{admerr.DuplicateID("audioObject", "AO_1001"), "duplicate_id"},
		{errors.New("plain"), "other"},
	}
	for _, tc := range cases {
		if got := logging.ErrorKind(tc.err).Value.String(); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestLevelOverrideRaisesMinimum(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	quiet := logging.WithLevelOverride(logger, slog.LevelWarn)

	quiet.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be suppressed, got %q", buf.String())
	}
	quiet.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should pass, got %q", buf.String())
	}
}
