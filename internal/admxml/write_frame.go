package admxml

import (
	"github.com/beevik/etree"
	"github.com/google/uuid"

	"admkit/internal/adm"
)

func (e *emitter) writeFrameHeader(el *etree.Element, h adm.FrameHeader) {
	e.writeFrameFormat(el.CreateElement("frameFormat"), h.Format)
	if h.Profiles != nil {
		list := el.CreateElement("profileList")
		for _, p := range h.Profiles.Profiles {
			child := list.CreateElement("profile")
			child.CreateAttr("profileName", p.Name)
			child.CreateAttr("profileVersion", p.Version)
			child.CreateAttr("profileLevel", formatInt(p.Level))
			child.SetText(p.Value)
		}
	}
	for _, t := range h.TransportTracks {
		e.writeTransport(el.CreateElement("transportTrackFormat"), t)
	}
}

func (e *emitter) writeFrameFormat(el *etree.Element, f *adm.FrameFormat) {
	el.CreateAttr("frameFormatID", f.ID().String())
	putAttr(e, el, f, "start", adm.KeyStart, formatTime)
	putAttr(e, el, f, "duration", adm.KeyDuration, formatTime)
	putAttr(e, el, f, "type", adm.KeyFrameType, func(t adm.FrameType) string { return string(t) })
	putAttr(e, el, f, "timeReference", adm.KeyTimeReference, adm.TimeReference.String)
	putAttr(e, el, f, "flowID", adm.KeyFlowID, uuid.UUID.String)
	putAttr(e, el, f, "countToFull", adm.KeyCountToFull, formatInt)
	putAttr(e, el, f, "numMetadataChunks", adm.KeyNumMetadataChunks, formatInt)
	putAttr(e, el, f, "countToSameChunk", adm.KeyCountToSameChunk, formatInt)
	if len(f.ChangedIDs) == 0 {
		return
	}
	changed := el.CreateElement("changedIDs")
	for _, entry := range f.ChangedIDs.Canonical() {
		child := changed.CreateElement(changedIDElements[entry.Kind])
		child.CreateAttr("status", string(entry.Status))
		child.SetText(entry.ID)
	}
}

func (e *emitter) writeTransport(el *etree.Element, t *adm.TransportTrackFormat) {
	el.CreateAttr("transportID", t.ID().String())
	putAttr(e, el, t, "transportName", adm.KeyTransportName, formatString)
	putAttr(e, el, t, "numTracks", adm.KeyNumTracks, formatInt)
	putAttr(e, el, t, "numIDs", adm.KeyNumIDs, formatInt)
	for _, track := range t.Tracks {
		child := el.CreateElement("audioTrack")
		child.CreateAttr("trackID", formatInt(track.TrackID))
		child.CreateAttr("formatLabel", track.Format.Label())
		child.CreateAttr("formatDefinition", track.Format.Definition())
		for _, uid := range track.UIDRefs {
			child.CreateElement("audioTrackUIDRef").SetText(uid.String())
		}
	}
}
