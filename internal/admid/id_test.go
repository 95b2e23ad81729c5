package admid

import (
	"errors"
	"testing"

	"admkit/internal/admerr"
)

func TestParseAndFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		parse func(string) (ID, error)
	}{
		{"programme", "APR_1001", func(s string) (ID, error) { return ParseAudioProgrammeID(s) }},
		{"content", "ACO_1001", func(s string) (ID, error) { return ParseAudioContentID(s) }},
		{"object", "AO_100A", func(s string) (ID, error) { return ParseAudioObjectID(s) }},
		{"pack", "AP_00031001", func(s string) (ID, error) { return ParseAudioPackFormatID(s) }},
		{"channel", "AC_00011002", func(s string) (ID, error) { return ParseAudioChannelFormatID(s) }},
		{"block", "AB_00031001_0000000A", func(s string) (ID, error) { return ParseAudioBlockFormatID(s) }},
		{"stream", "AS_00031001", func(s string) (ID, error) { return ParseAudioStreamFormatID(s) }},
		{"track", "AT_00031001_01", func(s string) (ID, error) { return ParseAudioTrackFormatID(s) }},
		{"track uid", "ATU_0000000F", func(s string) (ID, error) { return ParseAudioTrackUIDID(s) }},
		{"frame", "FF_00000000001", func(s string) (ID, error) { return ParseFrameFormatID(s) }},
		{"frame chunk", "FF_00000000001_02", func(s string) (ID, error) { return ParseFrameFormatID(s) }},
		{"transport", "TP_0001", func(s string) (ID, error) { return ParseTransportID(s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.parse(tt.input)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.input, err)
			}
			if got := id.String(); got != tt.input {
				t.Fatalf("String() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestParseIsCaseInsensitiveForHex(t *testing.T) {
	id, err := ParseAudioObjectID("AO_100a")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.String() != "AO_100A" {
		t.Fatalf("expected canonical upper case, got %q", id.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		parse func(string) error
	}{
		{"wrong prefix", "ACO_1001", func(s string) error { _, err := ParseAudioProgrammeID(s); return err }},
		{"short hex", "AO_101", func(s string) error { _, err := ParseAudioObjectID(s); return err }},
		{"bad hex", "AO_10G1", func(s string) error { _, err := ParseAudioObjectID(s); return err }},
		{"unknown type", "AP_00091001", func(s string) error { _, err := ParseAudioPackFormatID(s); return err }},
		{"missing counter", "AB_00031001", func(s string) error { _, err := ParseAudioBlockFormatID(s); return err }},
		{"extra field", "AT_00031001_01_01", func(s string) error { _, err := ParseAudioTrackFormatID(s); return err }},
		{"empty", "", func(s string) error { _, err := ParseAudioTrackUIDID(s); return err }},
		{"frame width", "FF_0001", func(s string) error { _, err := ParseFrameFormatID(s); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.input)
			if !errors.Is(err, admerr.ErrMalformedID) {
				t.Fatalf("expected malformed id for %q, got %v", tt.input, err)
			}
		})
	}
}

func TestBlockChannel(t *testing.T) {
	block, err := ParseAudioBlockFormatID("AB_00031002_00000003")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := block.Channel().String(); got != "AC_00031002" {
		t.Fatalf("Channel() = %q", got)
	}
}

func TestTypeDefinitionCodec(t *testing.T) {
	typ, err := ParseTypeLabel("0004")
	if err != nil || typ != TypeHOA {
		t.Fatalf("ParseTypeLabel = %v, %v", typ, err)
	}
	typ, err = ParseTypeDefinition("directspeakers")
	if err != nil || typ != TypeDirectSpeakers {
		t.Fatalf("ParseTypeDefinition = %v, %v", typ, err)
	}
	if TypeObjects.Label() != "0003" || TypeObjects.Definition() != "Objects" {
		t.Fatalf("unexpected objects codec %q/%q", TypeObjects.Label(), TypeObjects.Definition())
	}
	if _, err := ParseTypeLabel("0006"); !errors.Is(err, admerr.ErrMalformedID) {
		t.Fatalf("expected malformed type label, got %v", err)
	}
}

func TestIsCommonDefinition(t *testing.T) {
	if !IsCommonDefinition(AudioPackFormatID{Type: TypeDirectSpeakers, Value: 0x0002}) {
		t.Fatal("expected AP_00010002 to be a common definition")
	}
	if IsCommonDefinition(AudioPackFormatID{Type: TypeObjects, Value: 0x1001}) {
		t.Fatal("expected AP_00031001 to be custom")
	}
	if !IsCommonDefinition(SilentTrackUID) {
		t.Fatal("expected ATU_00000000 to be reserved")
	}
	if IsCommonDefinition(AudioTrackUIDID{Value: 1}) {
		t.Fatal("expected ATU_00000001 to be custom")
	}
	if IsCommonDefinition(AudioObjectID{Value: 1}) {
		t.Fatal("objects are never common definitions")
	}
}

func TestFrameFormatNext(t *testing.T) {
	id := FrameFormatID{Value: 9, Chunk: 3, HasChunk: true}
	if got := id.Next().String(); got != "FF_0000000000A" {
		t.Fatalf("Next() = %q", got)
	}
}
