package adm

import (
	"testing"
	"time"

	"admkit/internal/admid"
	"admkit/internal/attr"
)

func TestFrameTimeReference(t *testing.T) {
	format := NewFrameFormat(admid.FrameFormatID{Value: 1}, 0, 500*time.Millisecond, FrameTypeFull)
	frame := NewFrame(format)
	if frame.TimeReference() != TimeReferenceTotal {
		t.Fatal("frames default to the total time reference")
	}
	if err := attr.Set(format, KeyTimeReference, TimeReferenceLocal); err != nil {
		t.Fatal(err)
	}
	if frame.TimeReference() != TimeReferenceLocal {
		t.Fatal("frame must follow its format's time reference")
	}
}

func TestChangedIDsCanonicalOrder(t *testing.T) {
	ids := ChangedIDs{
		{Kind: KindProgramme, ID: "APR_1001", Status: StatusNew},
		{Kind: KindChannelFormat, ID: "AC_00031001", Status: StatusExtended},
		{Kind: KindObject, ID: "AO_1001", Status: StatusChanged},
		{Kind: KindChannelFormat, ID: "AC_00031002", Status: StatusExpired},
	}
	got := ids.Canonical()
	want := []string{"AC_00031001", "AC_00031002", "AO_1001", "APR_1001"}
	for i, w := range want {
		if got[i].ID != w {
			t.Fatalf("position %d: got %s want %s", i, got[i].ID, w)
		}
	}
	if ids.Count(StatusNew) != 1 {
		t.Fatalf("expected one new entry")
	}
}

func TestFlowID(t *testing.T) {
	format := NewFrameFormat(admid.FrameFormatID{Value: 1}, 0, time.Second, FrameTypeFull)
	if _, ok := format.FlowID(); ok {
		t.Fatal("flow id is optional")
	}
	id := NewFlowID()
	if err := attr.Set(format, KeyFlowID, id); err != nil {
		t.Fatal(err)
	}
	if got, ok := format.FlowID(); !ok || got != id {
		t.Fatalf("FlowID() = %v %v", got, ok)
	}
}

func TestExtends(t *testing.T) {
	channelID := admid.AudioChannelFormatID{Type: admid.TypeObjects, Value: 0x1001}
	block := func(n uint32, az float64) BlockFormat {
		id := admid.AudioBlockFormatID{Type: admid.TypeObjects, Value: 0x1001, Counter: n}
		return NewBlockObjects(id, Spherical(az, 0))
	}
	build := func(blocks ...BlockFormat) *AudioChannelFormat {
		c := NewAudioChannelFormat(channelID, "Voice")
		for _, b := range blocks {
			if err := c.AddBlockFormat(b); err != nil {
				t.Fatal(err)
			}
		}
		return c
	}

	prev := build(block(1, 0))
	tests := []struct {
		name string
		next *AudioChannelFormat
		want bool
	}{
		{"appended block", build(block(1, 0), block(2, 30)), true},
		{"same blocks", build(block(1, 0)), false},
		{"modified first block", build(block(1, 10), block(2, 30)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extends(prev, tt.next); got != tt.want {
				t.Fatalf("Extends() = %v, want %v", got, tt.want)
			}
		})
	}

	renamed := build(block(1, 0), block(2, 30))
	if err := attr.Set(renamed, KeyName, "Other"); err != nil {
		t.Fatal(err)
	}
	if Extends(prev, renamed) {
		t.Fatal("attribute changes are not extensions")
	}
}
