package sadm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admxml"
	"admkit/internal/attr"
	"admkit/internal/flowstore"
	"admkit/internal/logging"
)

// Ingester appends frames to their flow's history, filling in changedIDs
// against the previously stored frame.
type Ingester struct {
	store  *flowstore.Store
	writer admxml.WriterOptions
	logger *slog.Logger
}

// NewIngester returns an ingester recording into store. Frames are stored
// in the serialisation described by writer.
func NewIngester(store *flowstore.Store, writer admxml.WriterOptions, logger *slog.Logger) *Ingester {
	logger = logging.NewComponentLogger(logger, "sadm")
	writer.Logger = logger
	return &Ingester{store: store, writer: writer, logger: logger}
}

// Result describes one ingested frame.
type Result struct {
	Frame    *adm.Frame
	Record   *flowstore.FrameRecord
	Previous *flowstore.FrameRecord
	// Contiguous is false when the frame does not start where the previous
	// frame ended.
	Contiguous bool
}

// IngestReader parses a frame document from r and ingests it.
func (in *Ingester) IngestReader(ctx context.Context, r io.Reader, source string) (*Result, error) {
	frame, err := admxml.ParseFrame(r, admxml.WithLogger(logging.WithContext(logging.WithFile(ctx, source), in.logger)))
	if err != nil {
		return nil, err
	}
	return in.Ingest(ctx, frame, source)
}

// Ingest computes the changedIDs of frame, overwriting any it carries, and
// appends it to the flow named by its flowID.
func (in *Ingester) Ingest(ctx context.Context, frame *adm.Frame, source string) (*Result, error) {
	if frame == nil || frame.Header.Format == nil {
		return nil, admerr.InvalidOperation("frameFormat", "", "frame has no frameFormat")
	}
	format := frame.Header.Format
	flowID, ok := format.FlowID()
	if !ok {
		return nil, admerr.InvalidOperation("frameFormat", string(adm.KeyFlowID), "frames must carry a flowID to be ingested")
	}
	start, err := attr.Get[time.Duration](format, adm.KeyStart)
	if err != nil {
		return nil, err
	}
	duration, err := attr.Get[time.Duration](format, adm.KeyDuration)
	if err != nil {
		return nil, err
	}
	frameType, err := attr.Get[adm.FrameType](format, adm.KeyFrameType)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithFlow(logging.WithFile(ctx, source), flowID.String())
	logger := logging.WithContext(ctx, in.logger)

	prevRec, err := in.store.Latest(ctx, flowID)
	if err != nil {
		return nil, err
	}
	result := &Result{Frame: frame, Previous: prevRec, Contiguous: true}

	var prevDoc *adm.Document
	if prevRec != nil {
		prevFrame, err := Decode(prevRec)
		if err != nil {
			return nil, err
		}
		prevDoc = prevFrame.Document
		if prevRec.End() != start {
			result.Contiguous = false
			logging.WarnWithContext(logger, "frame does not follow the previous frame", "sadm_frame_gap",
				logging.String(logging.FieldFrameID, format.ID().String()),
				logging.String("previous_frame", prevRec.FrameFormatID),
				logging.Duration("previous_end", prevRec.End()),
				logging.Duration("start", start),
				logging.String(logging.FieldErrorHint, "check for dropped or reordered frames upstream"),
				logging.String(logging.FieldImpact, "changedIDs are computed against the last stored frame"),
			)
		}
	}

	format.ChangedIDs = Diff(prevDoc, frame.Document)

	var buf bytes.Buffer
	if err := admxml.WriteFrame(&buf, frame, in.writer); err != nil {
		return nil, err
	}

	rec := &flowstore.FrameRecord{
		FlowID:        flowID,
		FrameFormatID: format.ID().String(),
		FrameType:     string(frameType),
		Start:         start,
		Duration:      duration,
		Changed: flowstore.ChangeCounts{
			New:      format.ChangedIDs.Count(adm.StatusNew),
			Changed:  format.ChangedIDs.Count(adm.StatusChanged),
			Extended: format.ChangedIDs.Count(adm.StatusExtended),
			Expired:  format.ChangedIDs.Count(adm.StatusExpired),
		},
		SourcePath: source,
		XML:        buf.Bytes(),
	}
	if err := in.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	result.Record = rec

	logger.Info("frame ingested",
		logging.String(logging.FieldFrameID, rec.FrameFormatID),
		logging.Int64("sequence", rec.Sequence),
		logging.Int("changed_new", rec.Changed.New),
		logging.Int("changed_changed", rec.Changed.Changed),
		logging.Int("changed_extended", rec.Changed.Extended),
		logging.Int("changed_expired", rec.Changed.Expired),
	)
	return result, nil
}

// Decode parses the frame stored in rec.
func Decode(rec *flowstore.FrameRecord) (*adm.Frame, error) {
	if rec == nil {
		return nil, admerr.InvalidOperation("frame", "", "no stored frame")
	}
	frame, err := admxml.ParseFrame(bytes.NewReader(rec.XML))
	if err != nil {
		return nil, fmt.Errorf("parse stored frame %s #%d: %w", rec.FrameFormatID, rec.Sequence, err)
	}
	return frame, nil
}
