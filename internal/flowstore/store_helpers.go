package flowstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const frameColumns = "id, flow_id, sequence, frame_format_id, frame_type, start_ns, duration_ns, changed_new, changed_changed, changed_extended, changed_expired, source_path, xml, created_at"

func scanFrame(scanner interface{ Scan(dest ...any) error }) (*FrameRecord, error) {
	var (
		rec        FrameRecord
		flowRaw    string
		startNS    int64
		durationNS int64
		sourcePath sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID,
		&flowRaw,
		&rec.Sequence,
		&rec.FrameFormatID,
		&rec.FrameType,
		&startNS,
		&durationNS,
		&rec.Changed.New,
		&rec.Changed.Changed,
		&rec.Changed.Extended,
		&rec.Changed.Expired,
		&sourcePath,
		&rec.XML,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	flowID, err := uuid.Parse(flowRaw)
	if err != nil {
		return nil, fmt.Errorf("frame %d: parse flow id: %w", rec.ID, err)
	}
	rec.FlowID = flowID
	rec.Start = time.Duration(startNS)
	rec.Duration = time.Duration(durationNS)
	rec.SourcePath = sourcePath.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
