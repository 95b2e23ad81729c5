package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"admkit/internal/admxml"
	"admkit/internal/testsupport"
)

func TestInspectDocumentJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteDocument(t, env.baseDir, "programme.xml", testsupport.SampleDocument(t))

	out, _, err := runCLI(t, []string{"--json", "inspect", path}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var summary documentSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Frame != nil {
		t.Fatal("static document reported as frame")
	}
	if got := summary.Counts["audioObject"]; got != 2 {
		t.Fatalf("audioObject count = %d", got)
	}
	if got := summary.Counts["audioChannelFormat"]; got != 3 {
		t.Fatalf("audioChannelFormat count = %d", got)
	}
	if len(summary.Programmes) != 1 {
		t.Fatalf("programmes = %+v", summary.Programmes)
	}
	p := summary.Programmes[0]
	if p.Name != "Evening news" || p.Language != "en" || p.LanguageName != "English" || p.Contents != 1 {
		t.Fatalf("unexpected programme summary: %+v", p)
	}
}

func TestInspectFrameTable(t *testing.T) {
	env := setupCLITestEnv(t)
	flow := uuid.New()
	path := testsupport.WriteFrame(t, env.baseDir, "frame.xml", testsupport.SampleFrame(t, flow, 2, 10, 20))

	out, _, err := runCLI(t, []string{"inspect", path}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "FF_00000000002")
	requireContains(t, out, flow.String())
	requireContains(t, out, "local")
	requireContains(t, out, "audioChannelFormat")
}

func TestInspectRejectsDocumentWithoutFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "empty.xml")
	testsupport.WriteFile(t, path, []byte("<ebuCoreMain><coreMetadata/></ebuCoreMain>"))
	if _, _, err := runCLI(t, []string{"inspect", path}, env.configPath); err == nil {
		t.Fatal("expected document without audioFormatExtended to fail")
	}
}

func TestConvertWritesCanonicalOutputs(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWorkers(2))
	doc := testsupport.SampleDocument(t)
	src := testsupport.WriteDocument(t, env.baseDir, "a.xml", doc)
	frameSrc := testsupport.WriteFrame(t, env.baseDir, "b.xml", testsupport.SampleFrame(t, uuid.New(), 1, 0))
	outDir := filepath.Join(env.baseDir, "out")

	out, _, err := runCLI(t, []string{"convert", "--out-dir", outDir, "--itu", src, frameSrc}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "a.out.xml")
	requireContains(t, out, "b.out.xml")

	data, err := os.ReadFile(filepath.Join(outDir, "a.out.xml"))
	if err != nil {
		t.Fatalf("read converted document: %v", err)
	}
	if !strings.Contains(string(data), "<ituADM") {
		t.Fatalf("expected ituADM wrapper:\n%s", data)
	}
	parsed, err := admxml.Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse converted document: %v", err)
	}
	if !doc.Equal(parsed) {
		t.Fatal("conversion changed the document")
	}

	frameData, err := os.ReadFile(filepath.Join(outDir, "b.out.xml"))
	if err != nil {
		t.Fatalf("read converted frame: %v", err)
	}
	requireContains(t, string(frameData), "<frame")

	matches, _ := filepath.Glob(filepath.Join(outDir, "*.lock"))
	if len(matches) != 0 {
		t.Fatalf("lock files left behind: %v", matches)
	}
}

func TestConvertFailsOnInvalidInput(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.xml")
	testsupport.WriteFile(t, bad, []byte(`<ebuCoreMain><coreMetadata><format><audioFormatExtended>
		<audioObject audioObjectID="AO_1001" audioObjectName="x"><audioPackFormatIDRef>AP_00031009</audioPackFormatIDRef></audioObject>
		</audioFormatExtended></format></coreMetadata></ebuCoreMain>`))

	if _, _, err := runCLI(t, []string{"convert", bad}, env.configPath); err == nil {
		t.Fatal("expected unresolved reference to fail conversion")
	}
	if _, err := os.Stat(filepath.Join(env.baseDir, "bad.out.xml")); !os.IsNotExist(err) {
		t.Fatalf("no output expected for failed conversion, stat err = %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		src, dir, suffix, want string
	}{
		{"/in/a.xml", "", ".out.xml", "/in/a.out.xml"},
		{"/in/a.xml", "/out", ".out.xml", "/out/a.out.xml"},
		{"/in/noext", "", "-canon.xml", "/in/noext-canon.xml"},
		{"rel/b.adm.xml", "", ".xml", "rel/b.adm.xml"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.src, tt.dir, tt.suffix); got != filepath.FromSlash(tt.want) {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.src, tt.dir, tt.suffix, got, tt.want)
		}
	}
}

func TestFrameIngestHistoryAndFlows(t *testing.T) {
	env := setupCLITestEnv(t)
	flow := uuid.New()
	f1 := testsupport.WriteFrame(t, env.baseDir, "f1.xml", testsupport.SampleFrame(t, flow, 1, 0))
	f2 := testsupport.WriteFrame(t, env.baseDir, "f2.xml", testsupport.SampleFrame(t, flow, 2, 0, 10))
	f3 := testsupport.WriteFrame(t, env.baseDir, "f3.xml", testsupport.SampleFrame(t, flow, 3, 45))

	out, _, err := runCLI(t, []string{"--json", "frame", "ingest", f1, f2, f3}, env.configPath)
	if err != nil {
		t.Fatalf("frame ingest: %v", err)
	}
	var results []ingestResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode ingest results: %v\n%s", err, out)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].New != 3 || results[0].Sequence != 1 {
		t.Fatalf("first frame: %+v", results[0])
	}
	if results[1].Extended != 1 || results[1].Changed != 0 || !results[1].Contiguous {
		t.Fatalf("second frame: %+v", results[1])
	}
	if results[2].Changed != 1 || results[2].Sequence != 3 {
		t.Fatalf("third frame: %+v", results[2])
	}

	out, _, err = runCLI(t, []string{"--json", "frame", "history", flow.String()}, env.configPath)
	if err != nil {
		t.Fatalf("frame history: %v", err)
	}
	var history []historyEntry
	if err := json.Unmarshal([]byte(out), &history); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(history) != 3 || history[2].FrameFormatID != "FF_00000000003" {
		t.Fatalf("unexpected history: %+v", history)
	}

	out, _, err = runCLI(t, []string{"frame", "flows"}, env.configPath)
	if err != nil {
		t.Fatalf("frame flows: %v", err)
	}
	requireContains(t, out, flow.String())

	out, _, err = runCLI(t, []string{"frame", "show", "--seq", "2", flow.String()}, env.configPath)
	if err != nil {
		t.Fatalf("frame show: %v", err)
	}
	requireContains(t, out, "FF_00000000002")
	requireContains(t, out, `status="extended"`)

	out, _, err = runCLI(t, []string{"frame", "delete", flow.String()}, env.configPath)
	if err != nil {
		t.Fatalf("frame delete: %v", err)
	}
	requireContains(t, out, "Removed 3 frames")

	out, _, err = runCLI(t, []string{"frame", "flows"}, env.configPath)
	if err != nil {
		t.Fatalf("frame flows after delete: %v", err)
	}
	requireContains(t, out, "No flows stored")
}

func TestFrameHistoryRejectsBadFlowID(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"frame", "history", "not-a-uuid"}, env.configPath); err == nil {
		t.Fatal("expected invalid flow id to fail")
	}
}

func TestHealthReportsSchema(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"health"}, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Flow database")
	requireContains(t, out, "[OK] yes")
	requireContains(t, out, env.cfg.Paths.FlowDB)
}
