package admxml

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
	"admkit/internal/attr"
	"admkit/internal/language"
	"admkit/internal/logging"
)

// Parse reads a static ADM document. The first audioFormatExtended element
// anywhere in the input is used, so both EBU and ITU wrappers are accepted.
func Parse(r io.Reader, opts ...Option) (*adm.Document, error) {
	settings := newParseSettings(opts)
	tree, err := readTree(r)
	if err != nil {
		return nil, err
	}
	afe := tree.FindElement("//audioFormatExtended")
	if afe == nil {
		return nil, &ParseError{Element: "audioFormatExtended", Err: structureError("document", "no audioFormatExtended element")}
	}
	doc := adm.NewDocument()
	p := newParser(doc, adm.TimeReferenceTotal, settings.logger)
	if err := p.parseFormatExtended(afe); err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	p.logSummary()
	return doc, nil
}

func readTree(r io.Reader) (*etree.Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, &ParseError{Element: "document", Err: fmt.Errorf("read xml: %w", err)}
	}
	return tree, nil
}

type pendingRef struct {
	source   adm.Entity
	relation adm.Relation
	id       string
}

type parser struct {
	doc      *adm.Document
	timeRef  adm.TimeReference
	pending  []pendingRef
	logger   *slog.Logger
	skipped  int
	entities int
}

func newParser(doc *adm.Document, timeRef adm.TimeReference, logger *slog.Logger) *parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &parser{doc: doc, timeRef: timeRef, logger: logger}
}

func (p *parser) parseFormatExtended(afe *etree.Element) error {
	for _, child := range afe.ChildElements() {
		var err error
		switch child.Tag {
		case "audioProgramme":
			err = p.parseProgramme(child)
		case "audioContent":
			err = p.parseContent(child)
		case "audioObject":
			err = p.parseObject(child)
		case "audioPackFormat":
			err = p.parsePackFormat(child)
		case "audioChannelFormat":
			err = p.parseChannelFormat(child)
		case "audioStreamFormat":
			err = p.parseStreamFormat(child)
		case "audioTrackFormat":
			err = p.parseTrackFormat(child)
		case "audioTrackUID":
			err = p.parseTrackUID(child)
		default:
			p.skipped++
			p.logger.Debug("skipping unsupported element", logging.String("element", child.Tag))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) logSummary() {
	p.logger.Debug("adm document parsed",
		logging.Int("entities", p.entities),
		logging.Int("references", len(p.pending)),
		logging.Int("skipped_elements", p.skipped),
		logging.String("time_reference", p.timeRef.String()),
	)
}

// add registers e and its pending references.
func (p *parser) add(e adm.Entity, el *etree.Element, rels ...adm.Relation) error {
	if err := p.doc.Add(e); err != nil {
		return err
	}
	p.entities++
	for _, rel := range rels {
		tag := refElements[rel]
		refs := el.SelectElements(tag)
		if rel.Single() && len(refs) > 1 {
			return admerr.InvalidOperation(el.Tag, tag, "at most one reference allowed")
		}
		for _, ref := range refs {
			id, err := adm.CanonicalID(rel.Target(), elementText(ref))
			if err != nil {
				return err
			}
			p.pending = append(p.pending, pendingRef{source: e, relation: rel, id: id})
		}
	}
	return nil
}

func (p *parser) checkLanguage(h attr.Holder, entity, id string) {
	code, ok := attr.Lookup[string](h, adm.KeyLanguage)
	if !ok || language.Valid(code) {
		return
	}
	logging.WarnWithContext(p.logger, "unrecognized language code", "adm_language_unknown",
		logging.String("entity", entity),
		logging.String("id", id),
		logging.String("language", code),
		logging.String(logging.FieldErrorHint, "use an ISO 639 language code"),
		logging.String(logging.FieldImpact, "the value is kept as written"),
	)
}

func (p *parser) parseProgramme(el *etree.Element) error {
	idText, name, err := header(el, "audioProgrammeID", "audioProgrammeName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioProgrammeID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	prog := adm.NewAudioProgramme(id, name)
	s := newScanner(el, prog)
	scanAttr(s, "audioProgrammeLanguage", adm.KeyLanguage, parseString)
	scanAttr(s, "start", adm.KeyStart, parseTime)
	scanAttr(s, "end", adm.KeyEnd, parseTime)
	scanAttr(s, "maxDuckingDepth", adm.KeyMaxDuckingDepth, parseFloat)
	if s.err != nil {
		return wrapParse(el.Tag, idText, s.err)
	}
	if prog.LoudnessMetadata, err = parseLoudnessList(el); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	prog.Labels = parseLabels(el, "audioProgrammeLabel")
	p.checkLanguage(prog, el.Tag, idText)
	return wrapParse(el.Tag, idText, p.add(prog, el, adm.ProgrammeContents))
}

func (p *parser) parseContent(el *etree.Element) error {
	idText, name, err := header(el, "audioContentID", "audioContentName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioContentID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	content := adm.NewAudioContent(id, name)
	s := newScanner(el, content)
	scanAttr(s, "audioContentLanguage", adm.KeyLanguage, parseString)
	scanElem(s, "dialogue", adm.KeyDialogue, parseDialogueKind)
	if s.err != nil {
		return wrapParse(el.Tag, idText, s.err)
	}
	if content.LoudnessMetadata, err = parseLoudnessList(el); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	content.Labels = parseLabels(el, "audioContentLabel")
	p.checkLanguage(content, el.Tag, idText)
	return wrapParse(el.Tag, idText, p.add(content, el, adm.ContentObjects))
}

func (p *parser) parseObject(el *etree.Element) error {
	idText, name, err := header(el, "audioObjectID", "audioObjectName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioObjectID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	obj := adm.NewAudioObject(id, name)
	s := newScanner(el, obj)
	scanAttr(s, "start", adm.KeyStart, parseTime)
	scanAttr(s, "duration", adm.KeyDuration, parseTime)
	scanAttr(s, "dialogue", adm.KeyDialogue, parseInt)
	scanAttr(s, "importance", adm.KeyImportance, parseInt)
	scanAttr(s, "interact", adm.KeyInteract, parseBool)
	scanAttr(s, "disableDucking", adm.KeyDisableDucking, parseBool)
	scanElem(s, "audioObjectInteraction", adm.KeyInteraction, parseInteraction)
	scanElem(s, "gain", adm.KeyGain, parseGain)
	scanElem(s, "headLocked", adm.KeyHeadLocked, textOf(parseBool))
	scanElem(s, "mute", adm.KeyMute, textOf(parseBool))
	if offsets := el.SelectElements("positionOffset"); len(offsets) > 0 && s.err == nil {
		offset, err := parsePositionOffset(offsets)
		if err != nil {
			s.fail("positionOffset", err)
		} else {
			s.set("positionOffset", adm.KeyPositionOffset, offset)
		}
	}
	if s.err != nil {
		return wrapParse(el.Tag, idText, s.err)
	}
	obj.Labels = parseLabels(el, "audioObjectLabel")
	return wrapParse(el.Tag, idText, p.add(obj, el,
		adm.ObjectPackFormats, adm.ObjectObjects, adm.ObjectComplementaries, adm.ObjectTrackUIDs))
}

func (p *parser) parsePackFormat(el *etree.Element) error {
	idText, name, err := header(el, "audioPackFormatID", "audioPackFormatName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioPackFormatID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	if err := checkTypeDescriptor(el, id.Type); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	pack := adm.NewAudioPackFormat(id, name)
	s := newScanner(el, pack)
	scanAttr(s, "importance", adm.KeyImportance, parseInt)
	if s.err != nil {
		return wrapParse(el.Tag, idText, s.err)
	}
	return wrapParse(el.Tag, idText, p.add(pack, el, adm.PackChannelFormats, adm.PackPackFormats))
}

func (p *parser) parseStreamFormat(el *etree.Element) error {
	idText, name, err := header(el, "audioStreamFormatID", "audioStreamFormatName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioStreamFormatID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	stream := adm.NewAudioStreamFormat(id, name)
	if err := scanFormatDescriptor(el, stream); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	if el.SelectElement("audioChannelFormatIDRef") != nil && el.SelectElement("audioPackFormatIDRef") != nil {
		return wrapParse(el.Tag, idText, admerr.InvalidOperation(el.Tag, "audioPackFormatIDRef",
			"a stream references either a channel format or a pack format, not both"))
	}
	return wrapParse(el.Tag, idText, p.add(stream, el,
		adm.StreamChannelFormat, adm.StreamPackFormat, adm.StreamTrackFormats))
}

func (p *parser) parseTrackFormat(el *etree.Element) error {
	idText, name, err := header(el, "audioTrackFormatID", "audioTrackFormatName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioTrackFormatID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	track := adm.NewAudioTrackFormat(id, name)
	if err := scanFormatDescriptor(el, track); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	return wrapParse(el.Tag, idText, p.add(track, el, adm.TrackStreamFormat))
}

func (p *parser) parseTrackUID(el *etree.Element) error {
	idText, err := requireAttr(el, "UID")
	if err != nil {
		return wrapParse(el.Tag, "", err)
	}
	id, err := admid.ParseAudioTrackUIDID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	uid := adm.NewAudioTrackUID(id)
	s := newScanner(el, uid)
	scanAttr(s, "sampleRate", adm.KeySampleRate, parseInt)
	scanAttr(s, "bitDepth", adm.KeyBitDepth, parseInt)
	if s.err != nil {
		return wrapParse(el.Tag, idText, s.err)
	}
	return wrapParse(el.Tag, idText, p.add(uid, el,
		adm.TrackUIDTrackFormat, adm.TrackUIDChannelFormat, adm.TrackUIDPackFormat))
}

// header reads the ID and name attributes shared by most entities.
func header(el *etree.Element, idAttr, nameAttr string) (string, string, error) {
	id, err := requireAttr(el, idAttr)
	if err != nil {
		return "", "", err
	}
	name, err := requireAttr(el, nameAttr)
	if err != nil {
		return id, "", err
	}
	return id, name, nil
}

// checkTypeDescriptor verifies typeLabel/typeDefinition against the type
// carried by the ID.
func checkTypeDescriptor(el *etree.Element, want admid.TypeDefinition) error {
	if a := el.SelectAttr("typeLabel"); a != nil {
		got, err := admid.ParseTypeLabel(a.Value)
		if err != nil {
			return err
		}
		if got != want {
			return admerr.InvalidOperation(el.Tag, "typeLabel",
				fmt.Sprintf("%s does not match id type %s", got.Label(), want.Label()))
		}
	}
	if a := el.SelectAttr("typeDefinition"); a != nil {
		got, err := admid.ParseTypeDefinition(a.Value)
		if err != nil {
			return err
		}
		if got != want {
			return admerr.InvalidOperation(el.Tag, "typeDefinition",
				fmt.Sprintf("%s does not match id type %s", got, want))
		}
	}
	return nil
}

func scanFormatDescriptor(el *etree.Element, h attr.Holder) error {
	var formats []admid.FormatDefinition
	if a := el.SelectAttr("formatLabel"); a != nil {
		f, err := admid.ParseFormatLabel(a.Value)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if a := el.SelectAttr("formatDefinition"); a != nil {
		f, err := admid.ParseFormatDefinition(a.Value)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil
	}
	if len(formats) == 2 && formats[0] != formats[1] {
		return admerr.InvalidOperation(el.Tag, "formatDefinition", "formatLabel and formatDefinition disagree")
	}
	return attr.Set(h, adm.KeyFormat, formats[0])
}

func parseLabels(el *etree.Element, tag string) []adm.Label {
	children := el.SelectElements(tag)
	if len(children) == 0 {
		return nil
	}
	labels := make([]adm.Label, 0, len(children))
	for _, child := range children {
		labels = append(labels, adm.Label{
			Value:    elementText(child),
			Language: child.SelectAttrValue("language", ""),
		})
	}
	return labels
}

func parseLoudnessList(el *etree.Element) ([]adm.LoudnessMetadata, error) {
	children := el.SelectElements("loudnessMetadata")
	if len(children) == 0 {
		return nil, nil
	}
	out := make([]adm.LoudnessMetadata, 0, len(children))
	for _, child := range children {
		lm := adm.LoudnessMetadata{
			Method:         child.SelectAttrValue("loudnessMethod", ""),
			RecType:        child.SelectAttrValue("loudnessRecType", ""),
			CorrectionType: child.SelectAttrValue("loudnessCorrectionType", ""),
		}
		for tag, dst := range map[string]**float64{
			"integratedLoudness": &lm.IntegratedLoudness,
			"loudnessRange":      &lm.LoudnessRange,
			"maxTruePeak":        &lm.MaxTruePeak,
			"maxMomentary":       &lm.MaxMomentary,
			"maxShortTerm":       &lm.MaxShortTerm,
			"dialogueLoudness":   &lm.DialogueLoudness,
		} {
			value := child.SelectElement(tag)
			if value == nil {
				continue
			}
			v, err := parseFloat(elementText(value))
			if err != nil {
				return nil, fmt.Errorf("loudnessMetadata %s: %w", tag, err)
			}
			*dst = adm.Float(v)
		}
		out = append(out, lm)
	}
	return out, nil
}

func parseDialogueKind(el *etree.Element) (adm.DialogueKind, error) {
	var kinds []adm.DialogueKind
	for _, name := range []string{"nonDialogueContentKind", "dialogueContentKind", "mixedContentKind"} {
		a := el.SelectAttr(name)
		if a == nil {
			continue
		}
		v, err := parseInt(a.Value)
		if err != nil || v < 0 || v > 255 {
			return adm.DialogueKind{}, fmt.Errorf("%s: invalid kind %q", name, a.Value)
		}
		switch name {
		case "nonDialogueContentKind":
			kinds = append(kinds, adm.NonDialogue(adm.NonDialogueContentKind(v)))
		case "dialogueContentKind":
			kinds = append(kinds, adm.Dialogue(adm.DialogueContentKind(v)))
		default:
			kinds = append(kinds, adm.Mixed(adm.MixedContentKind(v)))
		}
	}
	if len(kinds) > 1 {
		return adm.DialogueKind{}, errors.New("more than one content kind attribute")
	}
	if len(kinds) == 1 {
		return kinds[0], nil
	}
	// No kind attribute: the element value alone selects the shape.
	switch elementText(el) {
	case "0":
		return adm.NonDialogue(0), nil
	case "1":
		return adm.Dialogue(0), nil
	case "2":
		return adm.Mixed(0), nil
	default:
		return adm.DialogueKind{}, fmt.Errorf("invalid dialogue value %q", elementText(el))
	}
}

func parseInteraction(el *etree.Element) (adm.AudioObjectInteraction, error) {
	var out adm.AudioObjectInteraction
	onOff, err := requireAttr(el, "onOffInteract")
	if err != nil {
		return out, err
	}
	if out.OnOffInteract, err = parseBool(onOff); err != nil {
		return out, fmt.Errorf("onOffInteract: %w", err)
	}
	for name, dst := range map[string]**bool{"gainInteract": &out.GainInteract, "positionInteract": &out.PositionInteract} {
		a := el.SelectAttr(name)
		if a == nil {
			continue
		}
		v, err := parseBool(a.Value)
		if err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		*dst = adm.Bool(v)
	}
	for _, child := range el.SelectElements("gainInteractionRange") {
		g, err := parseGain(child)
		if err != nil {
			return out, fmt.Errorf("gainInteractionRange: %w", err)
		}
		switch bound := child.SelectAttrValue("bound", ""); bound {
		case "min":
			out.GainMin = &g
		case "max":
			out.GainMax = &g
		default:
			return out, fmt.Errorf("gainInteractionRange: invalid bound %q", bound)
		}
	}
	for _, child := range el.SelectElements("positionInteractionRange") {
		v, err := parseFloat(elementText(child))
		if err != nil {
			return out, fmt.Errorf("positionInteractionRange: %w", err)
		}
		out.PositionRange = append(out.PositionRange, adm.InteractionBound{
			Coordinate: child.SelectAttrValue("coordinate", ""),
			Bound:      child.SelectAttrValue("bound", ""),
			Value:      v,
		})
	}
	return out, nil
}

func parsePositionOffset(els []*etree.Element) (adm.PositionOffset, error) {
	var spherical adm.SphericalPositionOffset
	var cartesian adm.CartesianPositionOffset
	var nSpherical, nCartesian int
	for _, el := range els {
		v, err := parseFloat(elementText(el))
		if err != nil {
			return adm.PositionOffset{}, err
		}
		switch coord := el.SelectAttrValue("coordinate", ""); coord {
		case "azimuth":
			spherical.Azimuth, nSpherical = adm.Float(v), nSpherical+1
		case "elevation":
			spherical.Elevation, nSpherical = adm.Float(v), nSpherical+1
		case "distance":
			spherical.Distance, nSpherical = adm.Float(v), nSpherical+1
		case "X":
			cartesian.X, nCartesian = adm.Float(v), nCartesian+1
		case "Y":
			cartesian.Y, nCartesian = adm.Float(v), nCartesian+1
		case "Z":
			cartesian.Z, nCartesian = adm.Float(v), nCartesian+1
		default:
			return adm.PositionOffset{}, fmt.Errorf("unknown coordinate %q", coord)
		}
	}
	switch {
	case nSpherical > 0 && nCartesian == 0:
		return adm.PositionOffset{Spherical: &spherical}, nil
	case nCartesian > 0 && nSpherical == 0:
		return adm.PositionOffset{Cartesian: &cartesian}, nil
	default:
		return adm.PositionOffset{}, errors.New("mixes spherical and cartesian coordinates")
	}
}

// coordinateName normalises the case of cartesian coordinate names.
func coordinateName(el *etree.Element) string {
	coord := el.SelectAttrValue("coordinate", "")
	switch strings.ToLower(coord) {
	case "x", "y", "z":
		return strings.ToUpper(coord)
	default:
		return coord
	}
}
