package adm

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"admkit/internal/admid"
	"admkit/internal/attr"
)

// Frame is one S-ADM frame: a header plus its own entity graph.
type Frame struct {
	*Document
	Header FrameHeader
}

// NewFrame returns an empty frame whose header carries format.
func NewFrame(format *FrameFormat) *Frame {
	return &Frame{Document: NewDocument(), Header: FrameHeader{Format: format}}
}

// TimeReference returns the frame format's time reference.
func (f *Frame) TimeReference() TimeReference {
	if f.Header.Format == nil {
		return TimeReferenceTotal
	}
	return f.Header.Format.TimeReference()
}

// FrameHeader describes the frame and its transport.
type FrameHeader struct {
	Format          *FrameFormat
	TransportTracks []*TransportTrackFormat
	Profiles        *ProfileList
}

// FrameFormat holds the timing and flow metadata of a frame.
type FrameFormat struct {
	attr.Table
	id         admid.FrameFormatID
	ChangedIDs ChangedIDs
}

// NewFrameFormat creates a frame format with its required attributes set.
func NewFrameFormat(id admid.FrameFormatID, start, duration time.Duration, typ FrameType) *FrameFormat {
	f := &FrameFormat{Table: attr.NewTable(frameFormatSchema), id: id}
	mustSet(f, KeyStart, start)
	mustSet(f, KeyDuration, duration)
	mustSet(f, KeyFrameType, typ)
	return f
}

func (f *FrameFormat) ID() admid.FrameFormatID { return f.id }

// TimeReference returns the configured time reference, total by default.
func (f *FrameFormat) TimeReference() TimeReference {
	t, _ := attr.Get[TimeReference](f, KeyTimeReference)
	return t
}

// FlowID returns the flow identifier when one is set.
func (f *FrameFormat) FlowID() (uuid.UUID, bool) {
	return attr.Lookup[uuid.UUID](f, KeyFlowID)
}

// NewFlowID returns a fresh random flow identifier.
func NewFlowID() uuid.UUID {
	return uuid.New()
}

// Equal compares two frame formats including their changed IDs.
func (f *FrameFormat) Equal(other *FrameFormat) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.id == other.id && f.Table.Equal(&other.Table) && slices.Equal(f.ChangedIDs, other.ChangedIDs)
}

// ChangedIDStatus is the status of a changedIDs entry.
type ChangedIDStatus string

const (
	StatusNew      ChangedIDStatus = "new"
	StatusChanged  ChangedIDStatus = "changed"
	StatusExtended ChangedIDStatus = "extended"
	StatusExpired  ChangedIDStatus = "expired"
)

// ParseChangedIDStatus validates a status string.
func ParseChangedIDStatus(text string) (ChangedIDStatus, error) {
	switch s := ChangedIDStatus(text); s {
	case StatusNew, StatusChanged, StatusExtended, StatusExpired:
		return s, nil
	default:
		return "", fmt.Errorf("unknown changed id status %q", text)
	}
}

// ChangedID is one changedIDs entry.
type ChangedID struct {
	Kind   Kind
	ID     string
	Status ChangedIDStatus
}

// ChangedIDs lists the entities of a frame that differ from the previous
// frame of the same flow.
type ChangedIDs []ChangedID

// changedIDOrder is the element order used inside changedIDs.
var changedIDOrder = []Kind{
	KindChannelFormat,
	KindPackFormat,
	KindTrackUID,
	KindTrackFormat,
	KindStreamFormat,
	KindObject,
	KindContent,
	KindProgramme,
}

// Canonical returns the entries grouped by kind in element order, keeping
// the relative order within each kind.
func (c ChangedIDs) Canonical() ChangedIDs {
	out := make(ChangedIDs, 0, len(c))
	for _, k := range changedIDOrder {
		for _, entry := range c {
			if entry.Kind == k {
				out = append(out, entry)
			}
		}
	}
	return out
}

// Count returns the number of entries with status.
func (c ChangedIDs) Count(status ChangedIDStatus) int {
	n := 0
	for _, entry := range c {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// TransportTrackFormat maps physical tracks of a transport to track UIDs.
type TransportTrackFormat struct {
	attr.Table
	id     admid.TransportID
	Tracks []AudioTrack
}

// NewTransportTrackFormat creates an empty transport description.
func NewTransportTrackFormat(id admid.TransportID) *TransportTrackFormat {
	return &TransportTrackFormat{Table: attr.NewTable(transportSchema), id: id}
}

func (t *TransportTrackFormat) ID() admid.TransportID { return t.id }

// AudioTrack is one physical track and the UIDs carried on it.
type AudioTrack struct {
	TrackID int
	Format  admid.FormatDefinition
	UIDRefs []admid.AudioTrackUIDID
}

// ProfileList lists the profiles a frame conforms to.
type ProfileList struct {
	Profiles []Profile
}

// Profile is one profileList entry.
type Profile struct {
	Value   string
	Name    string
	Version string
	Level   int
}
