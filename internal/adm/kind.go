package adm

import (
	"fmt"
	"strings"

	"admkit/internal/admerr"
	"admkit/internal/admid"
)

// Kind identifies an indexed entity kind.
type Kind int

const (
	KindProgramme Kind = iota
	KindContent
	KindObject
	KindPackFormat
	KindChannelFormat
	KindStreamFormat
	KindTrackFormat
	KindTrackUID
)

// Kinds lists every indexed kind in document order.
var Kinds = []Kind{
	KindProgramme,
	KindContent,
	KindObject,
	KindPackFormat,
	KindChannelFormat,
	KindStreamFormat,
	KindTrackFormat,
	KindTrackUID,
}

var kindNames = map[Kind]string{
	KindProgramme:     "audioProgramme",
	KindContent:       "audioContent",
	KindObject:        "audioObject",
	KindPackFormat:    "audioPackFormat",
	KindChannelFormat: "audioChannelFormat",
	KindStreamFormat:  "audioStreamFormat",
	KindTrackFormat:   "audioTrackFormat",
	KindTrackUID:      "audioTrackUID",
}

// String returns the XML element name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// CanonicalID parses text with the grammar of kind and returns its canonical
// spelling.
func CanonicalID(kind Kind, text string) (string, error) {
	var (
		id  admid.ID
		err error
	)
	switch kind {
	case KindProgramme:
		id, err = admid.ParseAudioProgrammeID(text)
	case KindContent:
		id, err = admid.ParseAudioContentID(text)
	case KindObject:
		id, err = admid.ParseAudioObjectID(text)
	case KindPackFormat:
		id, err = admid.ParseAudioPackFormatID(text)
	case KindChannelFormat:
		id, err = admid.ParseAudioChannelFormatID(text)
	case KindStreamFormat:
		id, err = admid.ParseAudioStreamFormatID(text)
	case KindTrackFormat:
		id, err = admid.ParseAudioTrackFormatID(text)
	case KindTrackUID:
		id, err = admid.ParseAudioTrackUIDID(text)
	default:
		return "", admerr.InvalidOperation(kind.String(), "", "unknown kind")
	}
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// TimeReference selects the naming of block time windows.
type TimeReference int

const (
	// TimeReferenceTotal names block windows rtime/duration.
	TimeReferenceTotal TimeReference = iota
	// TimeReferenceLocal names block windows lstart/lduration.
	TimeReferenceLocal
)

func (t TimeReference) String() string {
	if t == TimeReferenceLocal {
		return "local"
	}
	return "total"
}

// ParseTimeReference parses "total" or "local".
func ParseTimeReference(text string) (TimeReference, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "total":
		return TimeReferenceTotal, nil
	case "local":
		return TimeReferenceLocal, nil
	default:
		return TimeReferenceTotal, admerr.InvalidOperation("frameFormat", "timeReference", fmt.Sprintf("%q: expected total or local", text))
	}
}
