package admxml

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
	"admkit/internal/logging"
)

// ParseFrame reads one S-ADM frame. The frame's audioFormatExtended is
// parsed with the time reference declared by its frameFormat.
func ParseFrame(r io.Reader, opts ...Option) (*adm.Frame, error) {
	settings := newParseSettings(opts)
	tree, err := readTree(r)
	if err != nil {
		return nil, err
	}
	root := tree.Root()
	if root == nil || root.Tag != "frame" {
		return nil, &ParseError{Element: "frame", Err: structureError("frame", "root element is not frame")}
	}
	headerEl := root.SelectElement("frameHeader")
	if headerEl == nil {
		return nil, &ParseError{Element: "frame", Err: admerr.MissingValue("frame", "frameHeader")}
	}
	formatEl := headerEl.SelectElement("frameFormat")
	if formatEl == nil {
		return nil, &ParseError{Element: "frameHeader", Err: admerr.MissingValue("frameHeader", "frameFormat")}
	}
	format, err := parseFrameFormat(formatEl)
	if err != nil {
		return nil, err
	}
	frame := adm.NewFrame(format)
	frame.Document.SetTimeReference(format.TimeReference())

	for _, el := range headerEl.SelectElements("transportTrackFormat") {
		transport, err := parseTransport(el)
		if err != nil {
			return nil, err
		}
		frame.Header.TransportTracks = append(frame.Header.TransportTracks, transport)
	}
	if el := headerEl.SelectElement("profileList"); el != nil {
		profiles, err := parseProfileList(el)
		if err != nil {
			return nil, wrapParse(el.Tag, "", err)
		}
		frame.Header.Profiles = profiles
	}

	p := newParser(frame.Document, format.TimeReference(), settings.logger)
	if afe := root.SelectElement("audioFormatExtended"); afe != nil {
		if err := p.parseFormatExtended(afe); err != nil {
			return nil, err
		}
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	if err := checkTransportRefs(frame); err != nil {
		return nil, err
	}
	p.logSummary()
	settings.logger.Debug("adm frame parsed",
		logging.String("frame_format_id", format.ID().String()),
		logging.Int("transport_tracks", len(frame.Header.TransportTracks)),
		logging.Int("changed_ids", len(format.ChangedIDs)),
	)
	return frame, nil
}

func parseFrameFormat(el *etree.Element) (*adm.FrameFormat, error) {
	idText, err := requireAttr(el, "frameFormatID")
	if err != nil {
		return nil, wrapParse(el.Tag, "", err)
	}
	id, err := admid.ParseFrameFormatID(idText)
	if err != nil {
		return nil, wrapParse(el.Tag, idText, err)
	}
	var values [3]string
	for i, name := range []string{"start", "duration", "type"} {
		if values[i], err = requireAttr(el, name); err != nil {
			return nil, wrapParse(el.Tag, idText, err)
		}
	}
	start, err := parseTime(values[0])
	if err != nil {
		return nil, wrapParse(el.Tag, idText, fmt.Errorf("start: %w", err))
	}
	duration, err := parseTime(values[1])
	if err != nil {
		return nil, wrapParse(el.Tag, idText, fmt.Errorf("duration: %w", err))
	}
	typ, err := adm.ParseFrameType(values[2])
	if err != nil {
		return nil, wrapParse(el.Tag, idText, err)
	}
	format := adm.NewFrameFormat(id, start, duration, typ)
	s := newScanner(el, format)
	scanAttr(s, "timeReference", adm.KeyTimeReference, adm.ParseTimeReference)
	scanAttr(s, "flowID", adm.KeyFlowID, uuid.Parse)
	scanAttr(s, "countToFull", adm.KeyCountToFull, parseInt)
	scanAttr(s, "numMetadataChunks", adm.KeyNumMetadataChunks, parseInt)
	scanAttr(s, "countToSameChunk", adm.KeyCountToSameChunk, parseInt)
	if s.err != nil {
		return nil, wrapParse(el.Tag, idText, s.err)
	}
	if changed := el.SelectElement("changedIDs"); changed != nil {
		if format.ChangedIDs, err = parseChangedIDs(changed); err != nil {
			return nil, wrapParse(el.Tag, idText, err)
		}
	}
	return format, nil
}

func parseChangedIDs(el *etree.Element) (adm.ChangedIDs, error) {
	kinds := make(map[string]adm.Kind, len(changedIDElements))
	for kind, tag := range changedIDElements {
		kinds[tag] = kind
	}
	var out adm.ChangedIDs
	for _, child := range el.ChildElements() {
		kind, ok := kinds[child.Tag]
		if !ok {
			return nil, fmt.Errorf("changedIDs: unexpected element %s", child.Tag)
		}
		id, err := adm.CanonicalID(kind, elementText(child))
		if err != nil {
			return nil, err
		}
		statusText, err := requireAttr(child, "status")
		if err != nil {
			return nil, err
		}
		status, err := adm.ParseChangedIDStatus(statusText)
		if err != nil {
			return nil, fmt.Errorf("changedIDs %s: %w", id, err)
		}
		out = append(out, adm.ChangedID{Kind: kind, ID: id, Status: status})
	}
	return out, nil
}

func parseTransport(el *etree.Element) (*adm.TransportTrackFormat, error) {
	idText, err := requireAttr(el, "transportID")
	if err != nil {
		return nil, wrapParse(el.Tag, "", err)
	}
	id, err := admid.ParseTransportID(idText)
	if err != nil {
		return nil, wrapParse(el.Tag, idText, err)
	}
	transport := adm.NewTransportTrackFormat(id)
	s := newScanner(el, transport)
	scanAttr(s, "transportName", adm.KeyTransportName, parseString)
	scanAttr(s, "numTracks", adm.KeyNumTracks, parseInt)
	scanAttr(s, "numIDs", adm.KeyNumIDs, parseInt)
	if s.err != nil {
		return nil, wrapParse(el.Tag, idText, s.err)
	}
	for _, trackEl := range el.SelectElements("audioTrack") {
		track, err := parseAudioTrack(trackEl)
		if err != nil {
			return nil, wrapParse(el.Tag, idText, err)
		}
		transport.Tracks = append(transport.Tracks, track)
	}
	return transport, nil
}

func parseAudioTrack(el *etree.Element) (adm.AudioTrack, error) {
	var track adm.AudioTrack
	idText, err := requireAttr(el, "trackID")
	if err != nil {
		return track, err
	}
	if track.TrackID, err = parseInt(idText); err != nil {
		return track, fmt.Errorf("audioTrack trackID: %w", err)
	}
	track.Format = admid.FormatPCM
	if a := el.SelectAttr("formatLabel"); a != nil {
		if track.Format, err = admid.ParseFormatLabel(a.Value); err != nil {
			return track, err
		}
	} else if a := el.SelectAttr("formatDefinition"); a != nil {
		if track.Format, err = admid.ParseFormatDefinition(a.Value); err != nil {
			return track, err
		}
	}
	for _, ref := range el.SelectElements("audioTrackUIDRef") {
		uid, err := admid.ParseAudioTrackUIDID(elementText(ref))
		if err != nil {
			return track, err
		}
		track.UIDRefs = append(track.UIDRefs, uid)
	}
	return track, nil
}

func parseProfileList(el *etree.Element) (*adm.ProfileList, error) {
	list := &adm.ProfileList{}
	for _, child := range el.SelectElements("profile") {
		profile := adm.Profile{
			Value:   elementText(child),
			Name:    child.SelectAttrValue("profileName", ""),
			Version: child.SelectAttrValue("profileVersion", ""),
		}
		if a := child.SelectAttr("profileLevel"); a != nil {
			level, err := parseInt(a.Value)
			if err != nil {
				return nil, fmt.Errorf("profileLevel: %w", err)
			}
			profile.Level = level
		}
		list.Profiles = append(list.Profiles, profile)
	}
	return list, nil
}

// checkTransportRefs verifies that transport tracks only carry UIDs defined
// in the frame. The silent UID needs no definition.
func checkTransportRefs(frame *adm.Frame) error {
	for _, transport := range frame.Header.TransportTracks {
		for _, track := range transport.Tracks {
			for _, uid := range track.UIDRefs {
				if uid == admid.SilentTrackUID {
					continue
				}
				if _, ok := frame.TrackUID(uid); !ok {
					return &ParseError{
						Element: "transportTrackFormat",
						ID:      transport.ID().String(),
						Err: admerr.UnresolvedReference("audioTrack", uid.String(),
							fmt.Sprintf("referenced by trackID %d", track.TrackID)),
					}
				}
			}
		}
	}
	return nil
}
