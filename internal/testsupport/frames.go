package testsupport

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"admkit/internal/adm"
	"admkit/internal/admid"
	"admkit/internal/attr"
)

// FrameDuration is the length of every frame built by SampleFrame.
const FrameDuration = 500 * time.Millisecond

// SampleFrame builds frame n (counting from 1) of flowID using the local
// time reference. The frame holds an object, its track UID and one Objects
// channel with a block per azimuth; block k starts k*100ms into the frame.
func SampleFrame(t testing.TB, flowID uuid.UUID, n uint64, azimuths ...float64) *adm.Frame {
	t.Helper()

	start := time.Duration(n-1) * FrameDuration
	format := adm.NewFrameFormat(admid.FrameFormatID{Value: n}, start, FrameDuration, adm.FrameTypeFull)
	must(t, attr.Set(format, adm.KeyFlowID, flowID))
	must(t, attr.Set(format, adm.KeyTimeReference, adm.TimeReferenceLocal))
	frame := adm.NewFrame(format)
	frame.SetTimeReference(adm.TimeReferenceLocal)

	transport := adm.NewTransportTrackFormat(admid.TransportID{Value: 1})
	must(t, attr.Set(transport, adm.KeyNumTracks, 1))
	transport.Tracks = []adm.AudioTrack{{
		TrackID: 1,
		Format:  admid.FormatPCM,
		UIDRefs: []admid.AudioTrackUIDID{TrackUID},
	}}
	frame.Header.TransportTracks = []*adm.TransportTrackFormat{transport}

	channel := adm.NewAudioChannelFormat(ObjectsChannelID, "Voice")
	for k, az := range azimuths {
		block := adm.NewBlockObjects(blockID(ObjectsChannelID, uint32(k+1)), adm.Spherical(az, 0))
		must(t, attr.Set(block, adm.KeyRtime, time.Duration(k)*100*time.Millisecond))
		must(t, attr.Set(block, adm.KeyDuration, 100*time.Millisecond))
		must(t, channel.AddBlockFormat(block))
	}
	object := adm.NewAudioObject(VoiceObjectID, "Voice")
	uid := adm.NewAudioTrackUID(TrackUID)
	for _, e := range []adm.Entity{object, channel, uid} {
		must(t, frame.Add(e))
	}
	must(t, object.AddTrackUID(uid))
	return frame
}
