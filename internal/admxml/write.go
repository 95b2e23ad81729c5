package admxml

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/beevik/etree"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
	"admkit/internal/attr"
	"admkit/internal/logging"
)

const (
	frameVersion          = "ITU-R_BS.2125-1"
	formatExtendedVersion = "ITU-R_BS.2076-2"
)

// Write serialises a static document inside an EBU Core or ITU wrapper.
func Write(w io.Writer, doc *adm.Document, opts WriterOptions) error {
	if doc == nil {
		return admerr.InvalidOperation("document", "", "nil document")
	}
	tree := newTree()
	var root *etree.Element
	if opts.ITUStructure {
		root = tree.CreateElement("ituADM")
		root.CreateAttr("xmlns", "urn:metadata-schema:adm")
	} else {
		root = tree.CreateElement("ebuCoreMain")
		root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
		root.CreateAttr("xmlns", "urn:ebu:metadata-schema:ebuCore_2014")
		root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
		root.CreateAttr("schema", "EBU_CORE_20140201.xsd")
		root.CreateAttr("xml:lang", "en")
	}
	afe := root.CreateElement("coreMetadata").CreateElement("format").CreateElement("audioFormatExtended")

	e := &emitter{writeDefaults: opts.WriteDefaultValues}
	written := e.writeEntities(afe, doc, doc.TimeReference())
	if e.err != nil {
		return e.err
	}
	logWrite(opts.Logger, "adm document written", written, e.suppressed)
	return flush(w, tree, opts.Indent)
}

// WriteFrame serialises an S-ADM frame with its header.
func WriteFrame(w io.Writer, frame *adm.Frame, opts WriterOptions) error {
	if frame == nil || frame.Header.Format == nil {
		return admerr.InvalidOperation("frame", "frameFormat", "frame has no frameFormat")
	}
	tree := newTree()
	root := tree.CreateElement("frame")
	root.CreateAttr("version", frameVersion)

	e := &emitter{writeDefaults: opts.WriteDefaultValues}
	e.writeFrameHeader(root.CreateElement("frameHeader"), frame.Header)
	afe := root.CreateElement("audioFormatExtended")
	afe.CreateAttr("version", formatExtendedVersion)
	written := e.writeEntities(afe, frame.Document, frame.TimeReference())
	if e.err != nil {
		return e.err
	}
	logWrite(opts.Logger, "adm frame written", written, e.suppressed)
	return flush(w, tree, opts.Indent)
}

func newTree() *etree.Document {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return tree
}

func flush(w io.Writer, tree *etree.Document, indent int) error {
	if indent > 0 {
		tree.Indent(indent)
	} else {
		tree.Indent(etree.NoIndent)
	}
	if _, err := tree.WriteTo(w); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

func logWrite(logger *slog.Logger, msg string, written, suppressed int) {
	logger = logging.NewComponentLogger(logger, "admxml")
	logger.Debug(msg,
		logging.Int("entities", written),
		logging.Int("suppressed_defaults", suppressed),
	)
}

// writeEntities emits every kind in document order and returns the number of
// entities written.
func (e *emitter) writeEntities(afe *etree.Element, doc *adm.Document, timeRef adm.TimeReference) int {
	written := 0
	for _, p := range doc.Programmes() {
		e.writeProgramme(afe.CreateElement("audioProgramme"), p)
		written++
	}
	for _, c := range doc.Contents() {
		e.writeContent(afe.CreateElement("audioContent"), c)
		written++
	}
	for _, o := range doc.Objects() {
		e.writeObject(afe.CreateElement("audioObject"), o)
		written++
	}
	for _, p := range doc.PackFormats() {
		e.writePackFormat(afe.CreateElement("audioPackFormat"), p)
		written++
	}
	for _, c := range doc.ChannelFormats() {
		e.writeChannelFormat(afe.CreateElement("audioChannelFormat"), c, timeRef)
		written++
	}
	for _, s := range doc.StreamFormats() {
		e.writeStreamFormat(afe.CreateElement("audioStreamFormat"), s)
		written++
	}
	for _, t := range doc.TrackFormats() {
		e.writeTrackFormat(afe.CreateElement("audioTrackFormat"), t)
		written++
	}
	for _, u := range doc.TrackUIDs() {
		if u.IsSilent() || admid.IsCommonDefinition(u.ID()) {
			continue
		}
		e.writeTrackUID(afe.CreateElement("audioTrackUID"), u)
		written++
	}
	return written
}

func (e *emitter) writeProgramme(el *etree.Element, p *adm.AudioProgramme) {
	el.CreateAttr("audioProgrammeID", p.IDText())
	putAttr(e, el, p, "audioProgrammeName", adm.KeyName, formatString)
	putAttr(e, el, p, "audioProgrammeLanguage", adm.KeyLanguage, formatString)
	putAttr(e, el, p, "start", adm.KeyStart, formatTime)
	putAttr(e, el, p, "end", adm.KeyEnd, formatTime)
	putAttr(e, el, p, "maxDuckingDepth", adm.KeyMaxDuckingDepth, formatFloat)
	writeRefs(el, p, adm.ProgrammeContents)
	writeLoudness(el, p.LoudnessMetadata)
	writeLabels(el, "audioProgrammeLabel", p.Labels)
}

func (e *emitter) writeContent(el *etree.Element, c *adm.AudioContent) {
	el.CreateAttr("audioContentID", c.IDText())
	putAttr(e, el, c, "audioContentName", adm.KeyName, formatString)
	putAttr(e, el, c, "audioContentLanguage", adm.KeyLanguage, formatString)
	writeRefs(el, c, adm.ContentObjects)
	writeLoudness(el, c.LoudnessMetadata)
	putElem(e, el, c, "dialogue", adm.KeyDialogue, writeDialogueKind)
	writeLabels(el, "audioContentLabel", c.Labels)
}

func (e *emitter) writeObject(el *etree.Element, o *adm.AudioObject) {
	el.CreateAttr("audioObjectID", o.IDText())
	putAttr(e, el, o, "audioObjectName", adm.KeyName, formatString)
	putAttr(e, el, o, "start", adm.KeyStart, formatTime)
	putAttr(e, el, o, "duration", adm.KeyDuration, formatTime)
	putAttr(e, el, o, "dialogue", adm.KeyDialogue, formatInt)
	putAttr(e, el, o, "importance", adm.KeyImportance, formatInt)
	putAttr(e, el, o, "interact", adm.KeyInteract, formatBool)
	putAttr(e, el, o, "disableDucking", adm.KeyDisableDucking, formatBool)
	putElem(e, el, o, "audioObjectInteraction", adm.KeyInteraction, writeInteraction)
	writeRefs(el, o, adm.ObjectPackFormats, adm.ObjectObjects, adm.ObjectComplementaries, adm.ObjectTrackUIDs)
	writeLabels(el, "audioObjectLabel", o.Labels)
	putElem(e, el, o, "gain", adm.KeyGain, writeGain)
	putElem(e, el, o, "headLocked", adm.KeyHeadLocked, setText(formatBool))
	putFunc(e, el, o, adm.KeyPositionOffset, writePositionOffset)
	putElem(e, el, o, "mute", adm.KeyMute, setText(formatBool))
}

func (e *emitter) writePackFormat(el *etree.Element, p *adm.AudioPackFormat) {
	el.CreateAttr("audioPackFormatID", p.IDText())
	putAttr(e, el, p, "audioPackFormatName", adm.KeyName, formatString)
	el.CreateAttr("typeLabel", p.Type().Label())
	el.CreateAttr("typeDefinition", p.Type().Definition())
	putAttr(e, el, p, "importance", adm.KeyImportance, formatInt)
	writeRefs(el, p, adm.PackChannelFormats, adm.PackPackFormats)
}

func (e *emitter) writeChannelFormat(el *etree.Element, c *adm.AudioChannelFormat, timeRef adm.TimeReference) {
	el.CreateAttr("audioChannelFormatID", c.IDText())
	putAttr(e, el, c, "audioChannelFormatName", adm.KeyName, formatString)
	el.CreateAttr("typeLabel", c.Type().Label())
	el.CreateAttr("typeDefinition", c.Type().Definition())
	putFunc(e, el, c, adm.KeyFrequency, writeFrequency)
	for _, b := range c.BlockFormats() {
		e.writeBlock(el.CreateElement("audioBlockFormat"), b, timeRef)
	}
}

func (e *emitter) writeStreamFormat(el *etree.Element, s *adm.AudioStreamFormat) {
	el.CreateAttr("audioStreamFormatID", s.IDText())
	putAttr(e, el, s, "audioStreamFormatName", adm.KeyName, formatString)
	writeFormatDescriptor(e, el, s)
	writeRefs(el, s, adm.StreamChannelFormat, adm.StreamPackFormat, adm.StreamTrackFormats)
}

func (e *emitter) writeTrackFormat(el *etree.Element, t *adm.AudioTrackFormat) {
	el.CreateAttr("audioTrackFormatID", t.IDText())
	putAttr(e, el, t, "audioTrackFormatName", adm.KeyName, formatString)
	writeFormatDescriptor(e, el, t)
	writeRefs(el, t, adm.TrackStreamFormat)
}

func (e *emitter) writeTrackUID(el *etree.Element, u *adm.AudioTrackUID) {
	el.CreateAttr("UID", u.IDText())
	putAttr(e, el, u, "sampleRate", adm.KeySampleRate, formatInt)
	putAttr(e, el, u, "bitDepth", adm.KeyBitDepth, formatInt)
	writeRefs(el, u, adm.TrackUIDTrackFormat, adm.TrackUIDChannelFormat, adm.TrackUIDPackFormat)
}

func writeFormatDescriptor(e *emitter, el *etree.Element, h attr.Holder) {
	if f, ok := fetch[admid.FormatDefinition](e, h, adm.KeyFormat); ok {
		el.CreateAttr("formatLabel", f.Label())
		el.CreateAttr("formatDefinition", f.Definition())
	}
}
