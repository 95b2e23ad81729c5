package testsupport

import (
	"testing"
	"time"

	"admkit/internal/adm"
	"admkit/internal/admid"
	"admkit/internal/attr"
)

// Fixture IDs used by SampleDocument.
var (
	ProgrammeID      = admid.AudioProgrammeID{Value: 0x1001}
	ContentID        = admid.AudioContentID{Value: 0x1001}
	VoiceObjectID    = admid.AudioObjectID{Value: 0x1001}
	AmbienceObjectID = admid.AudioObjectID{Value: 0x1002}
	ObjectsPackID    = admid.AudioPackFormatID{Type: admid.TypeObjects, Value: 0x1001}
	ObjectsChannelID = admid.AudioChannelFormatID{Type: admid.TypeObjects, Value: 0x1001}
	SpeakerPackID    = admid.AudioPackFormatID{Type: admid.TypeDirectSpeakers, Value: 0x1001}
	SpeakerChannelID = admid.AudioChannelFormatID{Type: admid.TypeDirectSpeakers, Value: 0x1001}
	HOAChannelID     = admid.AudioChannelFormatID{Type: admid.TypeHOA, Value: 0x1001}
	StreamID         = admid.AudioStreamFormatID{Type: admid.TypeObjects, Value: 0x1001}
	TrackID          = admid.AudioTrackFormatID{Type: admid.TypeObjects, Value: 0x1001, Counter: 1}
	TrackUID         = admid.AudioTrackUIDID{Value: 1}
)

// SampleDocument builds a graph touching every entity kind and block variant.
// The silent track UID is added last, the way the parser creates it.
func SampleDocument(t testing.TB) *adm.Document {
	t.Helper()
	doc := adm.NewDocument()

	prog := adm.NewAudioProgramme(ProgrammeID, "Evening news")
	must(t, attr.Set(prog, adm.KeyLanguage, "en"))
	must(t, attr.Set(prog, adm.KeyEnd, 10*time.Second))
	prog.LoudnessMetadata = []adm.LoudnessMetadata{{
		Method:             "ITU-R BS.1770",
		IntegratedLoudness: adm.Float(-23),
		MaxTruePeak:        adm.Float(-1.5),
	}}
	prog.Labels = []adm.Label{{Value: "News", Language: "en"}}

	content := adm.NewAudioContent(ContentID, "Presenter")
	must(t, attr.Set(content, adm.KeyDialogue, adm.Dialogue(1)))
	content.Labels = []adm.Label{{Value: "Presenter"}}

	voice := adm.NewAudioObject(VoiceObjectID, "Voice")
	must(t, attr.Set(voice, adm.KeyImportance, 8))
	must(t, attr.Set(voice, adm.KeyGain, adm.DecibelGain(-3)))
	must(t, attr.Set(voice, adm.KeyInteraction, adm.AudioObjectInteraction{
		OnOffInteract: true,
		GainInteract:  adm.Bool(true),
		GainMin:       &adm.Gain{Value: -6, Decibel: true},
		GainMax:       &adm.Gain{Value: 3, Decibel: true},
	}))
	must(t, attr.Set(voice, adm.KeyPositionOffset, adm.PositionOffset{
		Spherical: &adm.SphericalPositionOffset{Azimuth: adm.Float(5)},
	}))
	ambience := adm.NewAudioObject(AmbienceObjectID, "Ambience")
	must(t, attr.Set(ambience, adm.KeyMute, true))

	objectsPack := adm.NewAudioPackFormat(ObjectsPackID, "Voice pack")
	speakerPack := adm.NewAudioPackFormat(SpeakerPackID, "Centre pack")

	objectsChannel := adm.NewAudioChannelFormat(ObjectsChannelID, "Voice channel")
	first := adm.NewBlockObjects(blockID(ObjectsChannelID, 1), adm.Spherical(30, 0))
	must(t, attr.Set(first, adm.KeyDuration, time.Second))
	must(t, attr.Set(first, adm.KeyWidth, 10.0))
	second := adm.NewBlockObjects(blockID(ObjectsChannelID, 2), adm.Cartesian(0.5, -0.25))
	must(t, attr.Set(second, adm.KeyRtime, time.Second))
	must(t, attr.Set(second, adm.KeyDuration, 500*time.Millisecond))
	must(t, attr.Set(second, adm.KeyCartesian, true))
	must(t, attr.Set(second, adm.KeyJumpPosition, adm.JumpPosition{Flag: true, InterpolationLength: adm.Float(0.05)}))
	must(t, attr.Set(second, adm.KeyChannelLock, adm.ChannelLock{Flag: true, MaxDistance: adm.Float(0.2)}))
	must(t, attr.Set(second, adm.KeyObjectDivergence, adm.ObjectDivergence{Value: 0.5, PositionRange: adm.Float(0.1)}))
	must(t, objectsChannel.AddBlockFormat(first))
	must(t, objectsChannel.AddBlockFormat(second))

	speakerChannel := adm.NewAudioChannelFormat(SpeakerChannelID, "Centre")
	must(t, attr.Set(speakerChannel, adm.KeyFrequency, adm.Frequency{HighPass: adm.Float(80)}))
	centre := adm.NewBlockDirectSpeakers(blockID(SpeakerChannelID, 1), adm.SpeakerPosition{
		Spherical: &adm.SphericalSpeakerPosition{
			Azimuth:        adm.Bounded{Value: 0, Min: adm.Float(-5), Max: adm.Float(5)},
			Elevation:      adm.Bounded{Value: 0},
			Distance:       &adm.Bounded{Value: 1},
			ScreenEdgeLock: adm.ScreenEdgeLock{Horizontal: "left"},
		},
	})
	centre.SpeakerLabels = []string{"M+000"}
	must(t, speakerChannel.AddBlockFormat(centre))

	hoaChannel := adm.NewAudioChannelFormat(HOAChannelID, "W")
	hoa := adm.NewBlockHOA(blockID(HOAChannelID, 1), 0, 0)
	must(t, attr.Set(hoa, adm.KeyEquation, "1"))
	must(t, hoaChannel.AddBlockFormat(hoa))

	stream := adm.NewAudioStreamFormat(StreamID, "Voice stream")
	track := adm.NewAudioTrackFormat(TrackID, "Voice track")
	uid := adm.NewAudioTrackUID(TrackUID)
	must(t, attr.Set(uid, adm.KeySampleRate, 48000))
	must(t, attr.Set(uid, adm.KeyBitDepth, 24))
	silent := adm.NewAudioTrackUID(admid.SilentTrackUID)

	for _, e := range []adm.Entity{
		prog, content, voice, ambience, objectsPack, speakerPack,
		objectsChannel, speakerChannel, hoaChannel, stream, track, uid, silent,
	} {
		must(t, doc.Add(e))
	}

	must(t, prog.AddContent(content))
	must(t, content.AddObject(voice))
	must(t, voice.AddObject(ambience))
	must(t, voice.AddPackFormat(objectsPack))
	must(t, voice.AddTrackUID(uid))
	must(t, ambience.AddTrackUID(silent))
	must(t, objectsPack.AddChannelFormat(objectsChannel))
	must(t, speakerPack.AddChannelFormat(speakerChannel))
	must(t, stream.SetChannelFormat(objectsChannel))
	must(t, stream.AddTrackFormat(track))
	must(t, track.SetStreamFormat(stream))
	must(t, uid.SetTrackFormat(track))
	must(t, uid.SetPackFormat(objectsPack))
	return doc
}

func blockID(channel admid.AudioChannelFormatID, counter uint32) admid.AudioBlockFormatID {
	return admid.AudioBlockFormatID{Type: channel.Type, Value: channel.Value, Counter: counter}
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
}
