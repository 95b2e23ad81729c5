package adm

import (
	"fmt"
	"math"
)

// Gain is a linear factor or a level in dB, kept in the unit it was given.
type Gain struct {
	Value   float64
	Decibel bool
}

// LinearGain returns a gain expressed as a linear factor.
func LinearGain(v float64) Gain { return Gain{Value: v} }

// DecibelGain returns a gain expressed in dB.
func DecibelGain(v float64) Gain { return Gain{Value: v, Decibel: true} }

// Linear returns the gain as a linear factor.
func (g Gain) Linear() float64 {
	if g.Decibel {
		return math.Pow(10, g.Value/20)
	}
	return g.Value
}

// DB returns the gain in dB.
func (g Gain) DB() float64 {
	if g.Decibel {
		return g.Value
	}
	return 20 * math.Log10(g.Value)
}

// Label is a human readable name in an optional language.
type Label struct {
	Value    string
	Language string
}

// LoudnessMetadata describes one loudness measurement.
type LoudnessMetadata struct {
	Method             string
	RecType            string
	CorrectionType     string
	IntegratedLoudness *float64
	LoudnessRange      *float64
	MaxTruePeak        *float64
	MaxMomentary       *float64
	MaxShortTerm       *float64
	DialogueLoudness   *float64
}

// Content kind codes carried by the dialogue element.
type (
	NonDialogueContentKind uint8
	DialogueContentKind    uint8
	MixedContentKind       uint8
)

// DialogueKind is a sum of the three dialogue shapes of audioContent.
// Exactly one pointer must be populated.
type DialogueKind struct {
	NonDialogue *NonDialogueContentKind
	Dialogue    *DialogueContentKind
	Mixed       *MixedContentKind
}

// NonDialogue builds a non-dialogue content kind.
func NonDialogue(kind NonDialogueContentKind) DialogueKind {
	return DialogueKind{NonDialogue: &kind}
}

// Dialogue builds a dialogue content kind.
func Dialogue(kind DialogueContentKind) DialogueKind {
	return DialogueKind{Dialogue: &kind}
}

// Mixed builds a mixed content kind.
func Mixed(kind MixedContentKind) DialogueKind {
	return DialogueKind{Mixed: &kind}
}

// Populated reports how many tags are set.
func (d DialogueKind) Populated() int {
	return countSet(d.NonDialogue != nil, d.Dialogue != nil, d.Mixed != nil)
}

// SphericalPosition is an object position in degrees and normalised distance.
type SphericalPosition struct {
	Azimuth   float64
	Elevation float64
	Distance  *float64
}

// CartesianPosition is an object position in normalised room coordinates.
type CartesianPosition struct {
	X float64
	Y float64
	Z *float64
}

// Position is the object block position. Exactly one pointer must be
// populated.
type Position struct {
	Spherical *SphericalPosition
	Cartesian *CartesianPosition
}

// Spherical builds a spherical object position.
func Spherical(azimuth, elevation float64) Position {
	return Position{Spherical: &SphericalPosition{Azimuth: azimuth, Elevation: elevation}}
}

// Cartesian builds a cartesian object position.
func Cartesian(x, y float64) Position {
	return Position{Cartesian: &CartesianPosition{X: x, Y: y}}
}

// Populated reports how many tags are set.
func (p Position) Populated() int {
	return countSet(p.Spherical != nil, p.Cartesian != nil)
}

// ScreenEdgeLock pins a speaker coordinate to a screen edge.
type ScreenEdgeLock struct {
	Horizontal string
	Vertical   string
}

// Bounded is a coordinate value with optional min and max bounds.
type Bounded struct {
	Value float64
	Min   *float64
	Max   *float64
}

// SphericalSpeakerPosition locates a loudspeaker in degrees.
type SphericalSpeakerPosition struct {
	Azimuth        Bounded
	Elevation      Bounded
	Distance       *Bounded
	ScreenEdgeLock ScreenEdgeLock
}

// CartesianSpeakerPosition locates a loudspeaker in room coordinates.
type CartesianSpeakerPosition struct {
	X              Bounded
	Y              Bounded
	Z              *Bounded
	ScreenEdgeLock ScreenEdgeLock
}

// SpeakerPosition is the DirectSpeakers block position. Exactly one pointer
// must be populated.
type SpeakerPosition struct {
	Spherical *SphericalSpeakerPosition
	Cartesian *CartesianSpeakerPosition
}

// SphericalSpeaker builds a spherical speaker position without bounds.
func SphericalSpeaker(azimuth, elevation float64) SpeakerPosition {
	return SpeakerPosition{Spherical: &SphericalSpeakerPosition{
		Azimuth:   Bounded{Value: azimuth},
		Elevation: Bounded{Value: elevation},
	}}
}

// CartesianSpeaker builds a cartesian speaker position without bounds.
func CartesianSpeaker(x, y float64) SpeakerPosition {
	return SpeakerPosition{Cartesian: &CartesianSpeakerPosition{
		X: Bounded{Value: x},
		Y: Bounded{Value: y},
	}}
}

// Populated reports how many tags are set.
func (p SpeakerPosition) Populated() int {
	return countSet(p.Spherical != nil, p.Cartesian != nil)
}

// SphericalPositionOffset shifts an object in degrees.
type SphericalPositionOffset struct {
	Azimuth   *float64
	Elevation *float64
	Distance  *float64
}

// CartesianPositionOffset shifts an object in room coordinates.
type CartesianPositionOffset struct {
	X *float64
	Y *float64
	Z *float64
}

// PositionOffset is the audioObject offset. Exactly one pointer must be
// populated.
type PositionOffset struct {
	Spherical *SphericalPositionOffset
	Cartesian *CartesianPositionOffset
}

// Populated reports how many tags are set.
func (p PositionOffset) Populated() int {
	return countSet(p.Spherical != nil, p.Cartesian != nil)
}

// Frequency holds the cut-off frequencies of a channel in Hz.
type Frequency struct {
	LowPass  *float64
	HighPass *float64
}

// ChannelLock snaps an object to the nearest loudspeaker.
type ChannelLock struct {
	Flag        bool
	MaxDistance *float64
}

// ObjectDivergence spreads an object into phantom sources.
type ObjectDivergence struct {
	Value         float64
	AzimuthRange  *float64
	PositionRange *float64
}

// JumpPosition controls interpolation towards the block position. The
// interpolation length is in seconds.
type JumpPosition struct {
	Flag                bool
	InterpolationLength *float64
}

// InteractionBound is one positionInteractionRange entry.
type InteractionBound struct {
	Coordinate string
	Bound      string
	Value      float64
}

// AudioObjectInteraction lists which object parameters a listener may change.
type AudioObjectInteraction struct {
	OnOffInteract    bool
	GainInteract     *bool
	PositionInteract *bool
	GainMin          *Gain
	GainMax          *Gain
	PositionRange    []InteractionBound
}

// FrameType is the S-ADM frame type.
type FrameType string

const (
	FrameTypeHeader       FrameType = "header"
	FrameTypeFull         FrameType = "full"
	FrameTypeDivided      FrameType = "divided"
	FrameTypeIntermediate FrameType = "intermediate"
	FrameTypeAll          FrameType = "all"
)

// ParseFrameType validates a frame type string.
func ParseFrameType(text string) (FrameType, error) {
	switch t := FrameType(text); t {
	case FrameTypeHeader, FrameTypeFull, FrameTypeDivided, FrameTypeIntermediate, FrameTypeAll:
		return t, nil
	default:
		return "", fmt.Errorf("unknown frame type %q", text)
	}
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// Float returns a pointer to v, for the optional numeric fields above.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
