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
	"admkit/internal/testsupport"
)

func write(t *testing.T, doc *adm.Document, opts admxml.WriterOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := admxml.Write(&buf, doc, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func parse(t *testing.T, data []byte) *adm.Document {
	t.Helper()
	doc, err := admxml.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, data)
	}
	return doc
}

func TestRoundTripWithDefaults(t *testing.T) {
	for _, itu := range []bool{false, true} {
		doc := testsupport.SampleDocument(t)
		data := write(t, doc, admxml.WriterOptions{WriteDefaultValues: true, ITUStructure: itu, Indent: 2})
		parsed := parse(t, data)
		if !doc.Equal(parsed) {
			t.Fatalf("itu=%v: round trip changed the document\n%s", itu, data)
		}
	}
}

func TestRoundTripWithoutDefaults(t *testing.T) {
	doc := testsupport.SampleDocument(t)
	parsed := parse(t, write(t, doc, admxml.WriterOptions{}))
	if !doc.Equal(parsed) {
		t.Fatal("round trip without defaults changed the document")
	}
}

func TestElisionIsIdempotent(t *testing.T) {
	first := write(t, testsupport.SampleDocument(t), admxml.WriterOptions{Indent: 2})
	second := write(t, parse(t, first), admxml.WriterOptions{Indent: 2})
	if !bytes.Equal(first, second) {
		t.Fatalf("second write differs\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestWriteElidesDefaults(t *testing.T) {
	out := string(write(t, testsupport.SampleDocument(t), admxml.WriterOptions{}))
	for _, absent := range []string{"<importance>10</importance>", `formatLabel="0001"`, "<normalization>", `start="00:00:00`} {
		if strings.Contains(out, absent) {
			t.Errorf("default %q written", absent)
		}
	}
	full := string(write(t, testsupport.SampleDocument(t), admxml.WriterOptions{WriteDefaultValues: true}))
	for _, present := range []string{"<importance>10</importance>", `formatLabel="0001"`, "<normalization>SN3D</normalization>"} {
		if !strings.Contains(full, present) {
			t.Errorf("default %q missing with WriteDefaultValues", present)
		}
	}
}

func TestWrapperStructure(t *testing.T) {
	ebu := string(write(t, adm.NewDocument(), admxml.WriterOptions{}))
	if !strings.HasPrefix(ebu, "<?xml") || !strings.Contains(ebu, `<ebuCoreMain xmlns:dc=`) ||
		!strings.Contains(ebu, "<coreMetadata><format><audioFormatExtended/>") {
		t.Fatalf("unexpected EBU structure: %s", ebu)
	}
	itu := string(write(t, adm.NewDocument(), admxml.WriterOptions{ITUStructure: true}))
	if !strings.Contains(itu, `<ituADM xmlns="urn:metadata-schema:adm">`) {
		t.Fatalf("unexpected ITU structure: %s", itu)
	}
}

func TestSilentTrackUIDIsNotWritten(t *testing.T) {
	out := string(write(t, testsupport.SampleDocument(t), admxml.WriterOptions{}))
	if strings.Contains(out, `UID="ATU_00000000"`) {
		t.Fatal("silent track UID element written")
	}
	if !strings.Contains(out, "<audioTrackUIDRef>ATU_00000000</audioTrackUIDRef>") {
		t.Fatal("reference to the silent track UID missing")
	}
	if !strings.Contains(out, `UID="ATU_00000001"`) {
		t.Fatal("regular track UID missing")
	}
}

func TestTrackUIDWithoutFormatRoundTrips(t *testing.T) {
	doc := adm.NewDocument()
	object := adm.NewAudioObject(admid.AudioObjectID{Value: 0x1001}, "Voice")
	uid := adm.NewAudioTrackUID(admid.AudioTrackUIDID{Value: 1})
	for _, e := range []adm.Entity{object, uid} {
		if err := doc.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := object.AddTrackUID(uid); err != nil {
		t.Fatal(err)
	}

	for _, defaults := range []bool{true, false} {
		data := write(t, doc, admxml.WriterOptions{WriteDefaultValues: defaults})
		if !strings.Contains(string(data), `UID="ATU_00000001"`) {
			t.Fatalf("defaults=%v: referenced track UID not written\n%s", defaults, data)
		}
		if parsed := parse(t, data); !doc.Equal(parsed) {
			t.Fatalf("defaults=%v: round trip changed the document\n%s", defaults, data)
		}
	}
}

func TestBlockTimeNamingFollowsTimeReference(t *testing.T) {
	doc := testsupport.SampleDocument(t)
	total := string(write(t, doc, admxml.WriterOptions{}))
	if !strings.Contains(total, `rtime="00:00:01.000000"`) || strings.Contains(total, "lstart") {
		t.Fatalf("expected rtime naming:\n%s", total)
	}
	doc.SetTimeReference(adm.TimeReferenceLocal)
	local := string(write(t, doc, admxml.WriterOptions{}))
	if !strings.Contains(local, `lstart="00:00:01.000000"`) || !strings.Contains(local, `lduration=`) ||
		strings.Contains(local, "rtime") {
		t.Fatalf("expected lstart naming:\n%s", local)
	}
}

func TestRtimeOnlyWrittenWithDuration(t *testing.T) {
	doc := adm.NewDocument()
	channel := adm.NewAudioChannelFormat(testsupport.ObjectsChannelID, "c")
	open := adm.NewBlockObjects(admid.AudioBlockFormatID{Type: admid.TypeObjects, Value: 0x1001, Counter: 1}, adm.Spherical(0, 0))
	if err := channel.AddBlockFormat(open); err != nil {
		t.Fatal(err)
	}
	if err := doc.Add(channel); err != nil {
		t.Fatal(err)
	}
	if out := string(write(t, doc, admxml.WriterOptions{})); strings.Contains(out, "rtime") {
		t.Fatalf("rtime written without duration:\n%s", out)
	}
	if err := attr.Set(open, adm.KeyDuration, 2*time.Second); err != nil {
		t.Fatal(err)
	}
	if out := string(write(t, doc, admxml.WriterOptions{})); !strings.Contains(out, `rtime="00:00:00.000000" duration="00:00:02.000000"`) {
		t.Fatalf("rtime missing next to duration:\n%s", out)
	}
}

func TestWriteRejectsUnpopulatedVariant(t *testing.T) {
	tests := []struct {
		name  string
		block func(id admid.AudioBlockFormatID) adm.BlockFormat
	}{
		{
			name: "missing position",
			block: func(id admid.AudioBlockFormatID) adm.BlockFormat {
				b, _ := adm.NewBlockFormat(admid.TypeObjects, id)
				return b
			},
		},
		{
			name: "both positions",
			block: func(id admid.AudioBlockFormatID) adm.BlockFormat {
				p := adm.Spherical(0, 0)
				p.Cartesian = &adm.CartesianPosition{X: 1}
				return adm.NewBlockObjects(id, p)
			},
		},
		{
			name: "no position",
			block: func(id admid.AudioBlockFormatID) adm.BlockFormat {
				return adm.NewBlockObjects(id, adm.Position{})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := adm.NewDocument()
			channel := adm.NewAudioChannelFormat(testsupport.ObjectsChannelID, "c")
			id := admid.AudioBlockFormatID{Type: admid.TypeObjects, Value: 0x1001, Counter: 1}
			if err := channel.AddBlockFormat(tt.block(id)); err != nil {
				t.Fatal(err)
			}
			if err := doc.Add(channel); err != nil {
				t.Fatal(err)
			}
			err := admxml.Write(&bytes.Buffer{}, doc, admxml.WriterOptions{})
			if !errors.Is(err, admerr.ErrInvalidState) {
				t.Fatalf("expected invalid state, got %v", err)
			}
		})
	}
}

const programmeHeader = `<?xml version="1.0"?><ituADM><coreMetadata><format><audioFormatExtended>`
const programmeFooter = `</audioFormatExtended></format></coreMetadata></ituADM>`

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		kind   error
		detail string
	}{
		{
			name: "duplicate id",
			body: `<audioObject audioObjectID="AO_1001" audioObjectName="a"/>
				<audioObject audioObjectID="AO_1001" audioObjectName="b"/>`,
			kind: admerr.ErrDuplicateID,
		},
		{
			name: "duplicate id in other spelling",
			body: `<audioObject audioObjectID="AO_100a" audioObjectName="a"/>
				<audioObject audioObjectID="AO_100A" audioObjectName="b"/>`,
			kind: admerr.ErrDuplicateID,
		},
		{
			name: "unresolved reference",
			body: `<audioContent audioContentID="ACO_1001" audioContentName="c">
				<audioObjectIDRef>AO_1001</audioObjectIDRef></audioContent>`,
			kind:   admerr.ErrUnresolvedReference,
			detail: "AO_1001",
		},
		{
			name: "unresolved pack format reference",
			body: `<audioObject audioObjectID="AO_1001" audioObjectName="o">
				<audioPackFormatIDRef>AP_00031009</audioPackFormatIDRef></audioObject>`,
			kind:   admerr.ErrUnresolvedReference,
			detail: "AP_00031009",
		},
		{
			name: "malformed reference",
			body: `<audioContent audioContentID="ACO_1001" audioContentName="c">
				<audioObjectIDRef>AO_1</audioObjectIDRef></audioContent>`,
			kind: admerr.ErrMalformedID,
		},
		{
			name: "missing name",
			body: `<audioObject audioObjectID="AO_1001"/>`,
			kind: admerr.ErrMissingValue,
		},
		{
			name: "malformed timecode",
			body: `<audioObject audioObjectID="AO_1001" audioObjectName="a" start="1:2:3"/>`,
			kind: admerr.ErrMalformedTimecode,
		},
		{
			name: "local naming under total",
			body: `<audioChannelFormat audioChannelFormatID="AC_00031001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00031001_00000001" lstart="00:00:00.00000">
				<position coordinate="azimuth">0</position><position coordinate="elevation">0</position>
				</audioBlockFormat></audioChannelFormat>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "position without coordinates",
			body: `<audioChannelFormat audioChannelFormatID="AC_00031001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00031001_00000001"/></audioChannelFormat>`,
			kind: admerr.ErrMissingValue,
		},
		{
			name: "speaker coordinate with bounds only",
			body: `<audioChannelFormat audioChannelFormatID="AC_00011001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00011001_00000001">
				<position coordinate="azimuth" bound="min">-5</position><position coordinate="azimuth" bound="max">5</position>
				<position coordinate="elevation">0</position>
				</audioBlockFormat></audioChannelFormat>`,
			kind:   admerr.ErrMissingValue,
			detail: "azimuth",
		},
		{
			name: "optional distance with bounds only",
			body: `<audioChannelFormat audioChannelFormatID="AC_00011001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00011001_00000001">
				<position coordinate="azimuth">0</position><position coordinate="elevation">0</position>
				<position coordinate="distance" bound="max">2</position>
				</audioBlockFormat></audioChannelFormat>`,
			kind:   admerr.ErrMissingValue,
			detail: "distance",
		},
		{
			name: "block of another channel",
			body: `<audioChannelFormat audioChannelFormatID="AC_00031001" audioChannelFormatName="c">
				<audioBlockFormat audioBlockFormatID="AB_00031002_00000001">
				<position coordinate="X">0</position><position coordinate="Y">0</position>
				</audioBlockFormat></audioChannelFormat>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "type label mismatch",
			body: `<audioPackFormat audioPackFormatID="AP_00031001" audioPackFormatName="p" typeLabel="0001"/>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "stream with channel and pack",
			body: `<audioStreamFormat audioStreamFormatID="AS_00031001" audioStreamFormatName="s">
				<audioChannelFormatIDRef>AC_00031001</audioChannelFormatIDRef>
				<audioPackFormatIDRef>AP_00031001</audioPackFormatIDRef></audioStreamFormat>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "two stream refs on a track",
			body: `<audioTrackFormat audioTrackFormatID="AT_00031001_01" audioTrackFormatName="t">
				<audioStreamFormatIDRef>AS_00031001</audioStreamFormatIDRef>
				<audioStreamFormatIDRef>AS_00031002</audioStreamFormatIDRef></audioTrackFormat>`,
			kind: admerr.ErrInvalidOperation,
		},
		{
			name: "object cycle",
			body: `<audioObject audioObjectID="AO_1001" audioObjectName="a"><audioObjectIDRef>AO_1002</audioObjectIDRef></audioObject>
				<audioObject audioObjectID="AO_1002" audioObjectName="b"><audioObjectIDRef>AO_1001</audioObjectIDRef></audioObject>`,
			kind: admerr.ErrInvalidOperation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admxml.Parse(strings.NewReader(programmeHeader + tt.body + programmeFooter))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var pe *admxml.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if tt.detail != "" && !strings.Contains(err.Error(), tt.detail) {
				t.Fatalf("error %q does not name %s", err, tt.detail)
			}
		})
	}
}

func TestParseWithoutFormatExtended(t *testing.T) {
	_, err := admxml.Parse(strings.NewReader(`<ebuCoreMain/>`))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseResolvesForwardReferences(t *testing.T) {
	body := `<audioProgramme audioProgrammeID="APR_1001" audioProgrammeName="p">
			<audioContentIDRef>ACO_1001</audioContentIDRef></audioProgramme>
		<audioContent audioContentID="ACO_1001" audioContentName="c">
			<dialogue mixedContentKind="3">2</dialogue>
			<audioObjectIDRef>AO_1001</audioObjectIDRef></audioContent>
		<audioObject audioObjectID="AO_1001" audioObjectName="o">
			<audioTrackUIDRef>ATU_00000000</audioTrackUIDRef></audioObject>`
	doc, err := admxml.Parse(strings.NewReader(programmeHeader + body + programmeFooter))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, ok := doc.Programme(admid.AudioProgrammeID{Value: 0x1001})
	if !ok {
		t.Fatal("programme missing")
	}
	contents := prog.Contents()
	if len(contents) != 1 || len(contents[0].Objects()) != 1 {
		t.Fatalf("references not resolved: %d contents", len(contents))
	}
	kind, err := attr.Get[adm.DialogueKind](contents[0], adm.KeyDialogue)
	if err != nil || kind.Mixed == nil || *kind.Mixed != 3 {
		t.Fatalf("dialogue = %+v, %v", kind, err)
	}
	uids := contents[0].Objects()[0].TrackUIDs()
	if len(uids) != 1 || !uids[0].IsSilent() {
		t.Fatalf("expected the silent track UID, got %v", uids)
	}
}

func TestParseBlockVariants(t *testing.T) {
	body := `<audioChannelFormat audioChannelFormatID="AC_00011001" audioChannelFormatName="L">
			<frequency typeDefinition="lowPass">120</frequency>
			<audioBlockFormat audioBlockFormatID="AB_00011001_00000001">
				<speakerLabel>M+030</speakerLabel>
				<position coordinate="azimuth" screenEdgeLock="left">30</position>
				<position coordinate="azimuth" bound="min">25</position>
				<position coordinate="elevation">0</position>
			</audioBlockFormat></audioChannelFormat>`
	doc, err := admxml.Parse(strings.NewReader(programmeHeader + body + programmeFooter))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	channel, _ := doc.ChannelFormat(admid.AudioChannelFormatID{Type: admid.TypeDirectSpeakers, Value: 0x1001})
	blocks := channel.BlockFormats()
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	speaker, ok := blocks[0].(*adm.BlockDirectSpeakers)
	if !ok {
		t.Fatalf("unexpected block type %T", blocks[0])
	}
	pos, err := attr.Get[adm.SpeakerPosition](speaker, adm.KeyPosition)
	if err != nil || pos.Spherical == nil {
		t.Fatalf("position = %+v, %v", pos, err)
	}
	az := pos.Spherical.Azimuth
	if az.Value != 30 || az.Min == nil || *az.Min != 25 || az.Max != nil {
		t.Fatalf("azimuth = %+v", az)
	}
	if pos.Spherical.ScreenEdgeLock.Horizontal != "left" {
		t.Fatalf("screen edge lock = %+v", pos.Spherical.ScreenEdgeLock)
	}
	if len(speaker.SpeakerLabels) != 1 || speaker.SpeakerLabels[0] != "M+030" {
		t.Fatalf("labels = %v", speaker.SpeakerLabels)
	}
	freq, ok := attr.Lookup[adm.Frequency](channel, adm.KeyFrequency)
	if !ok || freq.LowPass == nil || *freq.LowPass != 120 {
		t.Fatalf("frequency = %+v", freq)
	}
}
