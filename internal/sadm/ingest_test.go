package sadm_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admxml"
	"admkit/internal/flowstore"
	"admkit/internal/sadm"
	"admkit/internal/testsupport"
)

func newIngester(t *testing.T, logs *bytes.Buffer) (*sadm.Ingester, *flowstore.Store) {
	t.Helper()
	store := testsupport.MustOpenFlowStore(t, testsupport.NewConfig(t))
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return sadm.NewIngester(store, admxml.WriterOptions{}, logger), store
}

func TestIngestComputesChangedIDs(t *testing.T) {
	var logs bytes.Buffer
	ingester, store := newIngester(t, &logs)
	ctx := context.Background()
	flow := uuid.New()

	first, err := ingester.Ingest(ctx, testsupport.SampleFrame(t, flow, 1, 0), "f1.xml")
	if err != nil {
		t.Fatalf("Ingest first: %v", err)
	}
	if first.Previous != nil || first.Record.Sequence != 1 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Record.Changed.New != 3 {
		t.Fatalf("expected 3 new entities, got %+v", first.Record.Changed)
	}

	second, err := ingester.Ingest(ctx, testsupport.SampleFrame(t, flow, 2, 0, 45), "f2.xml")
	if err != nil {
		t.Fatalf("Ingest second: %v", err)
	}
	if !second.Contiguous || second.Previous == nil || second.Previous.Sequence != 1 {
		t.Fatalf("unexpected second result: %+v", second)
	}
	want := adm.ChangedIDs{{Kind: adm.KindChannelFormat, ID: testsupport.ObjectsChannelID.String(), Status: adm.StatusExtended}}
	if got := second.Frame.Header.Format.ChangedIDs; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("unexpected changedIDs: %v", got)
	}

	latest, err := store.Latest(ctx, flow)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	stored, err := sadm.Decode(latest)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !stored.Equal(second.Frame) {
		t.Fatal("stored frame differs from the ingested frame")
	}
	if strings.Contains(logs.String(), "sadm_frame_gap") {
		t.Fatal("contiguous frames must not warn")
	}
}

func TestIngestWarnsOnGap(t *testing.T) {
	var logs bytes.Buffer
	ingester, _ := newIngester(t, &logs)
	ctx := context.Background()
	flow := uuid.New()

	if _, err := ingester.Ingest(ctx, testsupport.SampleFrame(t, flow, 1, 0), "f1.xml"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	res, err := ingester.Ingest(ctx, testsupport.SampleFrame(t, flow, 3, 0), "f3.xml")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Contiguous {
		t.Fatal("expected a gap to be detected")
	}
	if !strings.Contains(logs.String(), "sadm_frame_gap") {
		t.Fatalf("expected gap warning, logs: %s", logs.String())
	}
}

func TestIngestRequiresFlowID(t *testing.T) {
	var logs bytes.Buffer
	ingester, _ := newIngester(t, &logs)

	frame := testsupport.SampleFrame(t, uuid.New(), 1, 0)
	if err := frame.Header.Format.Unset(adm.KeyFlowID); err != nil {
		t.Fatal(err)
	}
	_, err := ingester.Ingest(context.Background(), frame, "f1.xml")
	if !errors.Is(err, admerr.ErrInvalidOperation) {
		t.Fatalf("expected InvalidOperation, got %v", err)
	}
}

func TestIngestReader(t *testing.T) {
	var logs bytes.Buffer
	ingester, store := newIngester(t, &logs)
	flow := uuid.New()

	var buf bytes.Buffer
	if err := admxml.WriteFrame(&buf, testsupport.SampleFrame(t, flow, 1, 0, 15), admxml.WriterOptions{}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	res, err := ingester.IngestReader(context.Background(), &buf, "f1.xml")
	if err != nil {
		t.Fatalf("IngestReader: %v", err)
	}
	if res.Record.SourcePath != "f1.xml" || res.Record.FrameType != "full" {
		t.Fatalf("unexpected record: %+v", res.Record)
	}
	history, err := store.History(context.Background(), flow)
	if err != nil || len(history) != 1 {
		t.Fatalf("History = %d, %v", len(history), err)
	}
}
