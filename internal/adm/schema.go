package adm

import (
	"time"

	"github.com/google/uuid"

	"admkit/internal/admid"
	"admkit/internal/attr"
)

// Attribute keys. The same key may carry different value types on different
// entities (e.g. KeyDialogue is a DialogueKind on audioContent and an int on
// audioObject); each schema fixes the type.
const (
	KeyName             attr.Key = "name"
	KeyLanguage         attr.Key = "language"
	KeyStart            attr.Key = "start"
	KeyEnd              attr.Key = "end"
	KeyDuration         attr.Key = "duration"
	KeyMaxDuckingDepth  attr.Key = "maxDuckingDepth"
	KeyDialogue         attr.Key = "dialogue"
	KeyImportance       attr.Key = "importance"
	KeyInteract         attr.Key = "interact"
	KeyDisableDucking   attr.Key = "disableDucking"
	KeyGain             attr.Key = "gain"
	KeyHeadLocked       attr.Key = "headLocked"
	KeyMute             attr.Key = "mute"
	KeyPositionOffset   attr.Key = "positionOffset"
	KeyInteraction      attr.Key = "audioObjectInteraction"
	KeyFrequency        attr.Key = "frequency"
	KeyRtime            attr.Key = "rtime"
	KeyInitializeBlock  attr.Key = "initializeBlock"
	KeyPosition         attr.Key = "position"
	KeyWidth            attr.Key = "width"
	KeyHeight           attr.Key = "height"
	KeyDepth            attr.Key = "depth"
	KeyCartesian        attr.Key = "cartesian"
	KeyDiffuse          attr.Key = "diffuse"
	KeyChannelLock      attr.Key = "channelLock"
	KeyObjectDivergence attr.Key = "objectDivergence"
	KeyJumpPosition     attr.Key = "jumpPosition"
	KeyScreenRef        attr.Key = "screenRef"
	KeyOrder            attr.Key = "order"
	KeyDegree           attr.Key = "degree"
	KeyNfcRefDist       attr.Key = "nfcRefDist"
	KeyNormalization    attr.Key = "normalization"
	KeyEquation         attr.Key = "equation"
	KeyFormat           attr.Key = "format"
	KeySampleRate       attr.Key = "sampleRate"
	KeyBitDepth         attr.Key = "bitDepth"

	KeyFrameType         attr.Key = "type"
	KeyTimeReference     attr.Key = "timeReference"
	KeyFlowID            attr.Key = "flowID"
	KeyCountToFull       attr.Key = "countToFull"
	KeyNumMetadataChunks attr.Key = "numMetadataChunks"
	KeyCountToSameChunk  attr.Key = "countToSameChunk"
	KeyTransportName     attr.Key = "transportName"
	KeyNumTracks         attr.Key = "numTracks"
	KeyNumIDs            attr.Key = "numIDs"
)

var (
	programmeSchema = attr.NewSchema("audioProgramme",
		attr.Required[string](KeyName),
		attr.Optional[string](KeyLanguage),
		attr.Defaulted(KeyStart, time.Duration(0)),
		attr.Optional[time.Duration](KeyEnd),
		attr.Optional[float64](KeyMaxDuckingDepth),
	)

	contentSchema = attr.NewSchema("audioContent",
		attr.Required[string](KeyName),
		attr.Optional[string](KeyLanguage),
		attr.Optional[DialogueKind](KeyDialogue),
	)

	objectSchema = attr.NewSchema("audioObject",
		attr.Required[string](KeyName),
		attr.Defaulted(KeyStart, time.Duration(0)),
		attr.Optional[time.Duration](KeyDuration),
		attr.Optional[int](KeyDialogue),
		attr.Optional[int](KeyImportance),
		attr.Optional[bool](KeyInteract),
		attr.Optional[bool](KeyDisableDucking),
		attr.Defaulted(KeyGain, LinearGain(1)),
		attr.Defaulted(KeyHeadLocked, false),
		attr.Defaulted(KeyMute, false),
		attr.Optional[PositionOffset](KeyPositionOffset),
		attr.Optional[AudioObjectInteraction](KeyInteraction),
	)

	packFormatSchema = attr.NewSchema("audioPackFormat",
		attr.Required[string](KeyName),
		attr.Optional[int](KeyImportance),
	)

	channelFormatSchema = attr.NewSchema("audioChannelFormat",
		attr.Required[string](KeyName),
		attr.Optional[Frequency](KeyFrequency),
	)

	streamFormatSchema = attr.NewSchema("audioStreamFormat",
		attr.Required[string](KeyName),
		attr.Defaulted(KeyFormat, admid.FormatPCM),
	)

	trackFormatSchema = attr.NewSchema("audioTrackFormat",
		attr.Required[string](KeyName),
		attr.Defaulted(KeyFormat, admid.FormatPCM),
	)

	trackUIDSchema = attr.NewSchema("audioTrackUID",
		attr.Optional[int](KeySampleRate),
		attr.Optional[int](KeyBitDepth),
	)

	blockCommonSchema = attr.NewSchema("audioBlockFormat",
		attr.DefaultedUnless(KeyRtime, time.Duration(0), KeyDuration),
		attr.Optional[time.Duration](KeyDuration),
		attr.Optional[bool](KeyInitializeBlock),
		attr.Defaulted(KeyGain, LinearGain(1)),
		attr.Defaulted(KeyImportance, 10),
		attr.Defaulted(KeyHeadLocked, false),
	)

	directSpeakersSchema = blockCommonSchema.Extend("audioBlockFormat(DirectSpeakers)",
		attr.Required[SpeakerPosition](KeyPosition),
	)

	matrixSchema = blockCommonSchema.Extend("audioBlockFormat(Matrix)")

	objectsSchema = blockCommonSchema.Extend("audioBlockFormat(Objects)",
		attr.Required[Position](KeyPosition),
		attr.Defaulted(KeyWidth, 0.0),
		attr.Defaulted(KeyHeight, 0.0),
		attr.Defaulted(KeyDepth, 0.0),
		attr.Defaulted(KeyCartesian, false),
		attr.Defaulted(KeyDiffuse, 0.0),
		attr.Optional[ChannelLock](KeyChannelLock),
		attr.Optional[ObjectDivergence](KeyObjectDivergence),
		attr.Optional[JumpPosition](KeyJumpPosition),
		attr.Defaulted(KeyScreenRef, false),
	)

	hoaSchema = blockCommonSchema.Extend("audioBlockFormat(HOA)",
		attr.Required[int](KeyOrder),
		attr.Required[int](KeyDegree),
		attr.Defaulted(KeyNfcRefDist, 0.0),
		attr.Defaulted(KeyScreenRef, false),
		attr.Defaulted(KeyNormalization, "SN3D"),
		attr.Optional[string](KeyEquation),
	)

	binauralSchema = blockCommonSchema.Extend("audioBlockFormat(Binaural)")

	frameFormatSchema = attr.NewSchema("frameFormat",
		attr.Required[time.Duration](KeyStart),
		attr.Required[time.Duration](KeyDuration),
		attr.Required[FrameType](KeyFrameType),
		attr.Defaulted(KeyTimeReference, TimeReferenceTotal),
		attr.Optional[uuid.UUID](KeyFlowID),
		attr.Optional[int](KeyCountToFull),
		attr.Optional[int](KeyNumMetadataChunks),
		attr.Optional[int](KeyCountToSameChunk),
	)

	transportSchema = attr.NewSchema("transportTrackFormat",
		attr.Optional[string](KeyTransportName),
		attr.Optional[int](KeyNumTracks),
		attr.Optional[int](KeyNumIDs),
	)
)
