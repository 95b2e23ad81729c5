package admxml_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
	"admkit/internal/admxml"
	"admkit/internal/attr"
)

func sampleFrame(t *testing.T) *adm.Frame {
	t.Helper()
	format := adm.NewFrameFormat(admid.FrameFormatID{Value: 1}, 0, 500*time.Millisecond, adm.FrameTypeFull)
	for key, value := range map[attr.Key]any{
		adm.KeyTimeReference: adm.TimeReferenceLocal,
		adm.KeyFlowID:        adm.NewFlowID(),
		adm.KeyCountToFull:   2,
	} {
		if err := format.SetValue(key, value); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	format.ChangedIDs = adm.ChangedIDs{
		{Kind: adm.KindChannelFormat, ID: "AC_00031001", Status: adm.StatusChanged},
		{Kind: adm.KindObject, ID: "AO_1001", Status: adm.StatusNew},
	}
	frame := adm.NewFrame(format)

	transport := adm.NewTransportTrackFormat(admid.TransportID{Value: 1})
	if err := attr.Set(transport, adm.KeyNumTracks, 1); err != nil {
		t.Fatal(err)
	}
	transport.Tracks = []adm.AudioTrack{{
		TrackID: 1,
		Format:  admid.FormatPCM,
		UIDRefs: []admid.AudioTrackUIDID{{Value: 1}, admid.SilentTrackUID},
	}}
	frame.Header.TransportTracks = []*adm.TransportTrackFormat{transport}
	frame.Header.Profiles = &adm.ProfileList{Profiles: []adm.Profile{
		{Value: "Emission profile", Name: "Emission", Version: "1.0", Level: 1},
	}}

	channelID := admid.AudioChannelFormatID{Type: admid.TypeObjects, Value: 0x1001}
	channel := adm.NewAudioChannelFormat(channelID, "Voice")
	block := adm.NewBlockObjects(admid.AudioBlockFormatID{Type: admid.TypeObjects, Value: 0x1001, Counter: 1}, adm.Spherical(-30, 10))
	if err := attr.Set(block, adm.KeyRtime, 100*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := attr.Set(block, adm.KeyDuration, 400*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := channel.AddBlockFormat(block); err != nil {
		t.Fatal(err)
	}
	object := adm.NewAudioObject(admid.AudioObjectID{Value: 0x1001}, "Voice")
	uid := adm.NewAudioTrackUID(admid.AudioTrackUIDID{Value: 1})
	for _, e := range []adm.Entity{object, channel, uid} {
		if err := frame.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := object.AddTrackUID(uid); err != nil {
		t.Fatal(err)
	}
	return frame
}

func TestFrameRoundTrip(t *testing.T) {
	frame := sampleFrame(t)
	var buf bytes.Buffer
	if err := admxml.WriteFrame(&buf, frame, admxml.WriterOptions{Indent: 2}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<frame version="ITU-R_BS.2125-1">`,
		`<audioFormatExtended version="ITU-R_BS.2076-2">`,
		`timeReference="local"`,
		`lstart="00:00:00.100000" lduration="00:00:00.400000"`,
		`<audioTrackUIDRef>ATU_00000000</audioTrackUIDRef>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if strings.Index(out, "audioChannelFormatIDRef") > strings.Index(out, `status="new"`) {
		t.Error("changedIDs not in canonical order")
	}

	parsed, err := admxml.ParseFrame(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseFrame: %v\n%s", err, out)
	}
	if !frame.Equal(parsed) {
		t.Fatalf("round trip changed the frame\n%s", out)
	}
	if parsed.TimeReference() != adm.TimeReferenceLocal {
		t.Fatalf("time reference = %v", parsed.TimeReference())
	}
	flow, _ := frame.Header.Format.FlowID()
	if got, ok := parsed.Header.Format.FlowID(); !ok || got != flow {
		t.Fatalf("flowID = %v, want %v", got, flow)
	}
}

func TestParseFrameErrors(t *testing.T) {
	const header = `<frame version="ITU-R_BS.2125-1"><frameHeader>` +
		`<frameFormat frameFormatID="FF_00000000001" start="00:00:00.00000" duration="00:00:00.50000" type="full" timeReference="local"/>`
	tests := []struct {
		name string
		xml  string
		kind error
	}{
		{
			name: "total naming under local",
			xml: header + `</frameHeader><audioFormatExtended>
				<audioChannelFormat audioChannelFormatID="AC_00031001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00031001_00000001" rtime="00:00:00.00000">
				<position coordinate="azimuth">0</position><position coordinate="elevation">0</position>
				</audioBlockFormat></audioChannelFormat></audioFormatExtended></frame>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "transport references unknown uid",
			xml: header + `<transportTrackFormat transportID="TP_0001"><audioTrack trackID="1">
				<audioTrackUIDRef>ATU_00000005</audioTrackUIDRef></audioTrack></transportTrackFormat>
				</frameHeader><audioFormatExtended/></frame>`,
			kind: admerr.ErrUnresolvedReference,
		},
		{
			name: "missing frame format",
			xml:  `<frame><frameHeader/></frame>`,
			kind: admerr.ErrMissingValue,
		},
		{
			name: "bad changed id",
			xml: `<frame><frameHeader><frameFormat frameFormatID="FF_00000000001" start="00:00:00.0" duration="00:00:00.5" type="full">
				<changedIDs><audioObjectIDRef status="new">AO_1</audioObjectIDRef></changedIDs>
				</frameFormat></frameHeader></frame>`,
			kind: admerr.ErrMalformedID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admxml.ParseFrame(strings.NewReader(tt.xml))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestParseFrameAcceptsSilentTransportRef(t *testing.T) {
	const xml = `<frame><frameHeader>
		<frameFormat frameFormatID="FF_00000000001" start="00:00:00.0" duration="00:00:00.5" type="header"/>
		<transportTrackFormat transportID="TP_0001" numTracks="1"><audioTrack trackID="1">
		<audioTrackUIDRef>ATU_00000000</audioTrackUIDRef></audioTrack></transportTrackFormat>
		</frameHeader></frame>`
	frame, err := admxml.ParseFrame(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if got := frame.Header.TransportTracks[0].Tracks[0].Format; got != admid.FormatPCM {
		t.Fatalf("track format = %v", got)
	}
	if frame.TimeReference() != adm.TimeReferenceTotal {
		t.Fatal("time reference should default to total")
	}
}
