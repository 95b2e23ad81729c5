package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"admkit/internal/adm"
	"admkit/internal/admxml"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDocument serialises doc into dir/name and returns the full path.
func WriteDocument(t testing.TB, dir, name string, doc *adm.Document) string {
	t.Helper()

	var buf bytes.Buffer
	if err := admxml.Write(&buf, doc, admxml.WriterOptions{Indent: 2}); err != nil {
		t.Fatalf("admxml.Write: %v", err)
	}
	path := filepath.Join(dir, name)
	WriteFile(t, path, buf.Bytes())
	return path
}

// WriteFrame serialises frame into dir/name and returns the full path.
func WriteFrame(t testing.TB, dir, name string, frame *adm.Frame) string {
	t.Helper()

	var buf bytes.Buffer
	if err := admxml.WriteFrame(&buf, frame, admxml.WriterOptions{Indent: 2}); err != nil {
		t.Fatalf("admxml.WriteFrame: %v", err)
	}
	path := filepath.Join(dir, name)
	WriteFile(t, path, buf.Bytes())
	return path
}
