package admid

// commonDefinitionsMax is the highest `xxxx` reserved for the ITU common
// definitions (BS.2094) in format IDs.
const commonDefinitionsMax = 0x0FFF

// SilentTrackUID is the reserved track UID that stands for a silent track.
var SilentTrackUID = AudioTrackUIDID{}

// IsCommonDefinition reports whether id lies in the reserved common
// definitions range. IDs of content-part kinds (programme, content, object)
// are never reserved.
func IsCommonDefinition(id ID) bool {
	switch v := id.(type) {
	case AudioPackFormatID:
		return v.Value <= commonDefinitionsMax
	case AudioChannelFormatID:
		return v.Value <= commonDefinitionsMax
	case AudioBlockFormatID:
		return v.Value <= commonDefinitionsMax
	case AudioStreamFormatID:
		return v.Value <= commonDefinitionsMax
	case AudioTrackFormatID:
		return v.Value <= commonDefinitionsMax
	case AudioTrackUIDID:
		return v == SilentTrackUID
	default:
		return false
	}
}
