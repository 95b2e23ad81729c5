package admid

import (
	"fmt"
	"strconv"
	"strings"

	"admkit/internal/admerr"
)

// ID is implemented by every identifier type.
type ID interface {
	fmt.Stringer
	IsZero() bool
}

// AudioProgrammeID is `APR_xxxx`.
type AudioProgrammeID struct{ Value uint16 }

// AudioContentID is `ACO_xxxx`.
type AudioContentID struct{ Value uint16 }

// AudioObjectID is `AO_xxxx`.
type AudioObjectID struct{ Value uint16 }

// AudioPackFormatID is `AP_yyyyxxxx`.
type AudioPackFormatID struct {
	Type  TypeDefinition
	Value uint16
}

// AudioChannelFormatID is `AC_yyyyxxxx`.
type AudioChannelFormatID struct {
	Type  TypeDefinition
	Value uint16
}

// AudioBlockFormatID is `AB_yyyyxxxx_zzzzzzzz`.
type AudioBlockFormatID struct {
	Type    TypeDefinition
	Value   uint16
	Counter uint32
}

// AudioStreamFormatID is `AS_yyyyxxxx`.
type AudioStreamFormatID struct {
	Type  TypeDefinition
	Value uint16
}

// AudioTrackFormatID is `AT_yyyyxxxx_zz`.
type AudioTrackFormatID struct {
	Type    TypeDefinition
	Value   uint16
	Counter uint8
}

// AudioTrackUIDID is `ATU_xxxxxxxx`.
type AudioTrackUIDID struct{ Value uint32 }

// FrameFormatID is `FF_xxxxxxxxxxx` with an optional `_zz` chunk suffix for
// divided frames.
type FrameFormatID struct {
	Value    uint64
	Chunk    uint8
	HasChunk bool
}

// TransportID is `TP_xxxx`.
type TransportID struct{ Value uint16 }

const maxFrameFormatValue = 1<<44 - 1

func (id AudioProgrammeID) String() string { return fmt.Sprintf("APR_%04X", id.Value) }
func (id AudioProgrammeID) IsZero() bool   { return id.Value == 0 }

func (id AudioContentID) String() string { return fmt.Sprintf("ACO_%04X", id.Value) }
func (id AudioContentID) IsZero() bool   { return id.Value == 0 }

func (id AudioObjectID) String() string { return fmt.Sprintf("AO_%04X", id.Value) }
func (id AudioObjectID) IsZero() bool   { return id.Value == 0 }

func (id AudioPackFormatID) String() string {
	return fmt.Sprintf("AP_%04X%04X", uint16(id.Type), id.Value)
}
func (id AudioPackFormatID) IsZero() bool { return id.Type == TypeUndefined && id.Value == 0 }

func (id AudioChannelFormatID) String() string {
	return fmt.Sprintf("AC_%04X%04X", uint16(id.Type), id.Value)
}
func (id AudioChannelFormatID) IsZero() bool { return id.Type == TypeUndefined && id.Value == 0 }

func (id AudioBlockFormatID) String() string {
	return fmt.Sprintf("AB_%04X%04X_%08X", uint16(id.Type), id.Value, id.Counter)
}
func (id AudioBlockFormatID) IsZero() bool {
	return id.Type == TypeUndefined && id.Value == 0 && id.Counter == 0
}

// Channel returns the channel format ID this block ID belongs to.
func (id AudioBlockFormatID) Channel() AudioChannelFormatID {
	return AudioChannelFormatID{Type: id.Type, Value: id.Value}
}

func (id AudioStreamFormatID) String() string {
	return fmt.Sprintf("AS_%04X%04X", uint16(id.Type), id.Value)
}
func (id AudioStreamFormatID) IsZero() bool { return id.Type == TypeUndefined && id.Value == 0 }

func (id AudioTrackFormatID) String() string {
	return fmt.Sprintf("AT_%04X%04X_%02X", uint16(id.Type), id.Value, id.Counter)
}
func (id AudioTrackFormatID) IsZero() bool {
	return id.Type == TypeUndefined && id.Value == 0 && id.Counter == 0
}

func (id AudioTrackUIDID) String() string { return fmt.Sprintf("ATU_%08X", id.Value) }
func (id AudioTrackUIDID) IsZero() bool   { return id.Value == 0 }

func (id FrameFormatID) String() string {
	if id.HasChunk {
		return fmt.Sprintf("FF_%011X_%02X", id.Value, id.Chunk)
	}
	return fmt.Sprintf("FF_%011X", id.Value)
}
func (id FrameFormatID) IsZero() bool { return id.Value == 0 && !id.HasChunk }

// Next returns the frame format ID of the following frame.
func (id FrameFormatID) Next() FrameFormatID {
	return FrameFormatID{Value: (id.Value + 1) & maxFrameFormatValue}
}

func (id TransportID) String() string { return fmt.Sprintf("TP_%04X", id.Value) }
func (id TransportID) IsZero() bool   { return id.Value == 0 }

// ParseAudioProgrammeID parses `APR_xxxx`.
func ParseAudioProgrammeID(text string) (AudioProgrammeID, error) {
	fields, err := split(text, "audioProgrammeID", "APR", 4)
	if err != nil {
		return AudioProgrammeID{}, err
	}
	return AudioProgrammeID{Value: uint16(fields[0])}, nil
}

// ParseAudioContentID parses `ACO_xxxx`.
func ParseAudioContentID(text string) (AudioContentID, error) {
	fields, err := split(text, "audioContentID", "ACO", 4)
	if err != nil {
		return AudioContentID{}, err
	}
	return AudioContentID{Value: uint16(fields[0])}, nil
}

// ParseAudioObjectID parses `AO_xxxx`.
func ParseAudioObjectID(text string) (AudioObjectID, error) {
	fields, err := split(text, "audioObjectID", "AO", 4)
	if err != nil {
		return AudioObjectID{}, err
	}
	return AudioObjectID{Value: uint16(fields[0])}, nil
}

// ParseAudioPackFormatID parses `AP_yyyyxxxx`.
func ParseAudioPackFormatID(text string) (AudioPackFormatID, error) {
	typ, value, _, err := parseTyped(text, "audioPackFormatID", "AP", 0)
	if err != nil {
		return AudioPackFormatID{}, err
	}
	return AudioPackFormatID{Type: typ, Value: value}, nil
}

// ParseAudioChannelFormatID parses `AC_yyyyxxxx`.
func ParseAudioChannelFormatID(text string) (AudioChannelFormatID, error) {
	typ, value, _, err := parseTyped(text, "audioChannelFormatID", "AC", 0)
	if err != nil {
		return AudioChannelFormatID{}, err
	}
	return AudioChannelFormatID{Type: typ, Value: value}, nil
}

// ParseAudioBlockFormatID parses `AB_yyyyxxxx_zzzzzzzz`.
func ParseAudioBlockFormatID(text string) (AudioBlockFormatID, error) {
	typ, value, counter, err := parseTyped(text, "audioBlockFormatID", "AB", 8)
	if err != nil {
		return AudioBlockFormatID{}, err
	}
	return AudioBlockFormatID{Type: typ, Value: value, Counter: uint32(counter)}, nil
}

// ParseAudioStreamFormatID parses `AS_yyyyxxxx`.
func ParseAudioStreamFormatID(text string) (AudioStreamFormatID, error) {
	typ, value, _, err := parseTyped(text, "audioStreamFormatID", "AS", 0)
	if err != nil {
		return AudioStreamFormatID{}, err
	}
	return AudioStreamFormatID{Type: typ, Value: value}, nil
}

// ParseAudioTrackFormatID parses `AT_yyyyxxxx_zz`.
func ParseAudioTrackFormatID(text string) (AudioTrackFormatID, error) {
	typ, value, counter, err := parseTyped(text, "audioTrackFormatID", "AT", 2)
	if err != nil {
		return AudioTrackFormatID{}, err
	}
	return AudioTrackFormatID{Type: typ, Value: value, Counter: uint8(counter)}, nil
}

// ParseAudioTrackUIDID parses `ATU_xxxxxxxx`.
func ParseAudioTrackUIDID(text string) (AudioTrackUIDID, error) {
	fields, err := split(text, "audioTrackUID", "ATU", 8)
	if err != nil {
		return AudioTrackUIDID{}, err
	}
	return AudioTrackUIDID{Value: uint32(fields[0])}, nil
}

// ParseFrameFormatID parses `FF_xxxxxxxxxxx` or `FF_xxxxxxxxxxx_zz`.
func ParseFrameFormatID(text string) (FrameFormatID, error) {
	if fields, err := split(text, "frameFormatID", "FF", 11, 2); err == nil {
		return FrameFormatID{Value: fields[0], Chunk: uint8(fields[1]), HasChunk: true}, nil
	}
	fields, err := split(text, "frameFormatID", "FF", 11)
	if err != nil {
		return FrameFormatID{}, err
	}
	return FrameFormatID{Value: fields[0]}, nil
}

// ParseTransportID parses `TP_xxxx`.
func ParseTransportID(text string) (TransportID, error) {
	fields, err := split(text, "transportID", "TP", 4)
	if err != nil {
		return TransportID{}, err
	}
	return TransportID{Value: uint16(fields[0])}, nil
}

func parseTyped(text, entity, prefix string, counterWidth int) (TypeDefinition, uint16, uint64, error) {
	widths := []int{8}
	if counterWidth > 0 {
		widths = append(widths, counterWidth)
	}
	fields, err := split(text, entity, prefix, widths...)
	if err != nil {
		return TypeUndefined, 0, 0, err
	}
	typ := TypeDefinition(fields[0] >> 16)
	if !typ.Valid() {
		return TypeUndefined, 0, 0, admerr.MalformedID(entity, text, "unknown type definition "+typ.Label())
	}
	var counter uint64
	if counterWidth > 0 {
		counter = fields[1]
	}
	return typ, uint16(fields[0] & 0xFFFF), counter, nil
}

// split checks `PREFIX_field[_field...]` where each field is upper or lower
// case hex of exactly the given width.
func split(text, entity, prefix string, widths ...int) ([]uint64, error) {
	parts := strings.Split(text, "_")
	if len(parts) != len(widths)+1 {
		return nil, admerr.MalformedID(entity, text, fmt.Sprintf("expected %d fields", len(widths)+1))
	}
	if parts[0] != prefix {
		return nil, admerr.MalformedID(entity, text, "expected prefix "+prefix+"_")
	}
	values := make([]uint64, len(widths))
	for i, width := range widths {
		value, ok := hexField(parts[i+1], width)
		if !ok {
			return nil, admerr.MalformedID(entity, text, fmt.Sprintf("field %d must be %d hex digits", i+1, width))
		}
		values[i] = value
	}
	return values, nil
}

func hexField(text string, width int) (uint64, bool) {
	if len(text) != width {
		return 0, false
	}
	value, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
