package flowstore

import (
	"time"

	"github.com/google/uuid"
)

// FrameRecord is one stored frame of a flow.
type FrameRecord struct {
	ID            int64
	FlowID        uuid.UUID
	Sequence      int64
	FrameFormatID string
	FrameType     string
	Start         time.Duration
	Duration      time.Duration
	Changed       ChangeCounts
	SourcePath    string
	XML           []byte
	CreatedAt     time.Time
}

// End returns the end of the frame's time window.
func (r *FrameRecord) End() time.Duration {
	return r.Start + r.Duration
}

// ChangeCounts summarises a frame's changedIDs by status.
type ChangeCounts struct {
	New      int
	Changed  int
	Extended int
	Expired  int
}

// Total returns the number of changedIDs entries.
func (c ChangeCounts) Total() int {
	return c.New + c.Changed + c.Extended + c.Expired
}

// FlowSummary aggregates the frames stored for one flow.
type FlowSummary struct {
	FlowID        uuid.UUID     `json:"flow_id"`
	Frames        int           `json:"frames"`
	LastSequence  int64         `json:"last_sequence"`
	LastFrameID   string        `json:"last_frame_format_id"`
	LastEnd       time.Duration `json:"last_end_ns"`
	LastUpdatedAt time.Time     `json:"last_updated_at"`
}

// DatabaseHealth captures diagnostic information about the flow database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalFrames      int
	Error            string
}
