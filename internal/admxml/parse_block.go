package admxml

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"admkit/internal/adm"
	"admkit/internal/admerr"
	"admkit/internal/admid"
)

// windowNames returns the start and duration attribute names for ref.
func windowNames(ref adm.TimeReference) (start, duration string) {
	if ref == adm.TimeReferenceLocal {
		return "lstart", "lduration"
	}
	return "rtime", "duration"
}

func (p *parser) parseChannelFormat(el *etree.Element) error {
	idText, name, err := header(el, "audioChannelFormatID", "audioChannelFormatName")
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	id, err := admid.ParseAudioChannelFormatID(idText)
	if err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	if err := checkTypeDescriptor(el, id.Type); err != nil {
		return wrapParse(el.Tag, idText, err)
	}
	channel := adm.NewAudioChannelFormat(id, name)
	if freqs := el.SelectElements("frequency"); len(freqs) > 0 {
		f, err := parseFrequency(freqs)
		if err != nil {
			return wrapParse(el.Tag, idText, fmt.Errorf("frequency: %w", err))
		}
		if err := channel.SetValue(adm.KeyFrequency, f); err != nil {
			return wrapParse(el.Tag, idText, err)
		}
	}
	for _, blockEl := range el.SelectElements("audioBlockFormat") {
		block, err := p.parseBlock(blockEl, id.Type)
		if err != nil {
			return err
		}
		if err := channel.AddBlockFormat(block); err != nil {
			return wrapParse(blockEl.Tag, block.ID().String(), err)
		}
	}
	return wrapParse(el.Tag, idText, p.add(channel, el))
}

func parseFrequency(els []*etree.Element) (adm.Frequency, error) {
	var f adm.Frequency
	for _, el := range els {
		v, err := parseFloat(elementText(el))
		if err != nil {
			return f, err
		}
		switch def := el.SelectAttrValue("typeDefinition", ""); def {
		case "lowPass":
			f.LowPass = adm.Float(v)
		case "highPass":
			f.HighPass = adm.Float(v)
		default:
			return f, fmt.Errorf("unknown typeDefinition %q", def)
		}
	}
	return f, nil
}

func (p *parser) parseBlock(el *etree.Element, typ admid.TypeDefinition) (adm.BlockFormat, error) {
	idText, err := requireAttr(el, "audioBlockFormatID")
	if err != nil {
		return nil, wrapParse(el.Tag, "", err)
	}
	id, err := admid.ParseAudioBlockFormatID(idText)
	if err != nil {
		return nil, wrapParse(el.Tag, idText, err)
	}
	if id.Type != typ {
		return nil, wrapParse(el.Tag, idText, admerr.InvalidOperation(el.Tag, "audioBlockFormatID",
			fmt.Sprintf("type %s does not match channel type %s", id.Type.Label(), typ.Label())))
	}
	block, err := adm.NewBlockFormat(typ, id)
	if err != nil {
		return nil, wrapParse(el.Tag, idText, err)
	}

	startName, durationName := windowNames(p.timeRef)
	otherRef := adm.TimeReferenceLocal
	if p.timeRef == adm.TimeReferenceLocal {
		otherRef = adm.TimeReferenceTotal
	}
	otherStart, otherDuration := windowNames(otherRef)
	for _, other := range []string{otherStart, otherDuration} {
		if el.SelectAttr(other) != nil {
			return nil, wrapParse(el.Tag, idText, admerr.InvalidOperation(el.Tag, other,
				fmt.Sprintf("not allowed with time reference %s", p.timeRef)))
		}
	}

	s := newScanner(el, block)
	scanAttr(s, startName, adm.KeyRtime, parseTime)
	scanAttr(s, durationName, adm.KeyDuration, parseTime)
	scanAttr(s, "initializeBlock", adm.KeyInitializeBlock, parseBool)
	scanElem(s, "gain", adm.KeyGain, parseGain)
	scanElem(s, "importance", adm.KeyImportance, textOf(parseInt))
	scanElem(s, "headLocked", adm.KeyHeadLocked, textOf(parseBool))

	switch b := block.(type) {
	case *adm.BlockDirectSpeakers:
		for _, label := range el.SelectElements("speakerLabel") {
			b.SpeakerLabels = append(b.SpeakerLabels, elementText(label))
		}
		if s.err == nil {
			pos, err := parseSpeakerPosition(el.SelectElements("position"))
			if err != nil {
				s.fail("position", err)
			} else {
				s.set("position", adm.KeyPosition, pos)
			}
		}
	case *adm.BlockObjects:
		if s.err == nil {
			pos, err := parseObjectPosition(el.SelectElements("position"))
			if err != nil {
				s.fail("position", err)
			} else {
				s.set("position", adm.KeyPosition, pos)
			}
		}
		scanElem(s, "width", adm.KeyWidth, textOf(parseFloat))
		scanElem(s, "height", adm.KeyHeight, textOf(parseFloat))
		scanElem(s, "depth", adm.KeyDepth, textOf(parseFloat))
		scanElem(s, "cartesian", adm.KeyCartesian, textOf(parseBool))
		scanElem(s, "diffuse", adm.KeyDiffuse, textOf(parseFloat))
		scanElem(s, "channelLock", adm.KeyChannelLock, parseChannelLock)
		scanElem(s, "objectDivergence", adm.KeyObjectDivergence, parseObjectDivergence)
		scanElem(s, "jumpPosition", adm.KeyJumpPosition, parseJumpPosition)
		scanElem(s, "screenRef", adm.KeyScreenRef, textOf(parseBool))
	case *adm.BlockHOA:
		requireElem(s, "order", adm.KeyOrder, textOf(parseInt))
		requireElem(s, "degree", adm.KeyDegree, textOf(parseInt))
		scanElem(s, "nfcRefDist", adm.KeyNfcRefDist, textOf(parseFloat))
		scanElem(s, "screenRef", adm.KeyScreenRef, textOf(parseBool))
		scanElem(s, "normalization", adm.KeyNormalization, textOf(parseString))
		scanElem(s, "equation", adm.KeyEquation, textOf(parseString))
	}
	if s.err != nil {
		return nil, wrapParse(el.Tag, idText, s.err)
	}
	return block, nil
}

// coordinates groups position children by coordinate and bound.
type coordinates struct {
	values map[string]*adm.Bounded
	locks  map[string]string
}

// collectCoordinates fails with MissingValue when a coordinate only has
// bound="min" or bound="max" children.

func collectCoordinates(els []*etree.Element) (coordinates, error) {
	c := coordinates{values: make(map[string]*adm.Bounded), locks: make(map[string]string)}
	plain := make(map[string]bool)
	for _, el := range els {
		coord := coordinateName(el)
		v, err := parseFloat(elementText(el))
		if err != nil {
			return c, fmt.Errorf("%s: %w", coord, err)
		}
		b := c.values[coord]
		if b == nil {
			b = &adm.Bounded{}
			c.values[coord] = b
		}
		switch bound := el.SelectAttrValue("bound", ""); bound {
		case "":
			b.Value = v
			plain[coord] = true
			if lock := el.SelectAttrValue("screenEdgeLock", ""); lock != "" {
				c.locks[coord] = lock
			}
		case "min":
			b.Min = adm.Float(v)
		case "max":
			b.Max = adm.Float(v)
		default:
			return c, fmt.Errorf("%s: unknown bound %q", coord, bound)
		}
	}
	for _, el := range els {
		if coord := coordinateName(el); !plain[coord] {
			return c, admerr.MissingValue("position", coord)
		}
	}
	return c, nil
}

// pick reports which of the spherical and cartesian coordinate sets is used.
func (c coordinates) pick(spherical, cartesian []string) (bool, error) {
	hasSpherical := c.any(spherical...)
	hasCartesian := c.any(cartesian...)
	switch {
	case hasSpherical && hasCartesian:
		return false, errors.New("mixes spherical and cartesian coordinates")
	case hasSpherical:
		return true, c.require(spherical[:2]...)
	case hasCartesian:
		return false, c.require(cartesian[:2]...)
	default:
		return false, admerr.MissingValue("audioBlockFormat", "position")
	}
}

func (c coordinates) any(names ...string) bool {
	for _, name := range names {
		if _, ok := c.values[name]; ok {
			return true
		}
	}
	return false
}

func (c coordinates) require(names ...string) error {
	for _, name := range names {
		if _, ok := c.values[name]; !ok {
			return admerr.MissingValue("position", name)
		}
	}
	return nil
}

func (c coordinates) value(name string) float64 {
	if b := c.values[name]; b != nil {
		return b.Value
	}
	return 0
}

func (c coordinates) optional(name string) *float64 {
	if b := c.values[name]; b != nil {
		return adm.Float(b.Value)
	}
	return nil
}

var (
	sphericalCoords = []string{"azimuth", "elevation", "distance"}
	cartesianCoords = []string{"X", "Y", "Z"}
)

func parseSpeakerPosition(els []*etree.Element) (adm.SpeakerPosition, error) {
	c, err := collectCoordinates(els)
	if err != nil {
		return adm.SpeakerPosition{}, err
	}
	spherical, err := c.pick(sphericalCoords, cartesianCoords)
	if err != nil {
		return adm.SpeakerPosition{}, err
	}
	if spherical {
		return adm.SpeakerPosition{Spherical: &adm.SphericalSpeakerPosition{
			Azimuth:   *c.values["azimuth"],
			Elevation: *c.values["elevation"],
			Distance:  c.values["distance"],
			ScreenEdgeLock: adm.ScreenEdgeLock{
				Horizontal: c.locks["azimuth"],
				Vertical:   c.locks["elevation"],
			},
		}}, nil
	}
	return adm.SpeakerPosition{Cartesian: &adm.CartesianSpeakerPosition{
		X: *c.values["X"],
		Y: *c.values["Y"],
		Z: c.values["Z"],
		ScreenEdgeLock: adm.ScreenEdgeLock{
			Horizontal: c.locks["X"],
			Vertical:   c.locks["Z"],
		},
	}}, nil
}

func parseObjectPosition(els []*etree.Element) (adm.Position, error) {
	c, err := collectCoordinates(els)
	if err != nil {
		return adm.Position{}, err
	}
	spherical, err := c.pick(sphericalCoords, cartesianCoords)
	if err != nil {
		return adm.Position{}, err
	}
	if spherical {
		return adm.Position{Spherical: &adm.SphericalPosition{
			Azimuth:   c.value("azimuth"),
			Elevation: c.value("elevation"),
			Distance:  c.optional("distance"),
		}}, nil
	}
	return adm.Position{Cartesian: &adm.CartesianPosition{
		X: c.value("X"),
		Y: c.value("Y"),
		Z: c.optional("Z"),
	}}, nil
}

func parseChannelLock(el *etree.Element) (adm.ChannelLock, error) {
	flag, err := parseBool(elementText(el))
	if err != nil {
		return adm.ChannelLock{}, err
	}
	out := adm.ChannelLock{Flag: flag}
	if a := el.SelectAttr("maxDistance"); a != nil {
		v, err := parseFloat(a.Value)
		if err != nil {
			return out, fmt.Errorf("maxDistance: %w", err)
		}
		out.MaxDistance = adm.Float(v)
	}
	return out, nil
}

func parseObjectDivergence(el *etree.Element) (adm.ObjectDivergence, error) {
	v, err := parseFloat(elementText(el))
	if err != nil {
		return adm.ObjectDivergence{}, err
	}
	out := adm.ObjectDivergence{Value: v}
	for name, dst := range map[string]**float64{"azimuthRange": &out.AzimuthRange, "positionRange": &out.PositionRange} {
		a := el.SelectAttr(name)
		if a == nil {
			continue
		}
		r, err := parseFloat(a.Value)
		if err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		*dst = adm.Float(r)
	}
	return out, nil
}

func parseJumpPosition(el *etree.Element) (adm.JumpPosition, error) {
	flag, err := parseBool(elementText(el))
	if err != nil {
		return adm.JumpPosition{}, err
	}
	out := adm.JumpPosition{Flag: flag}
	if a := el.SelectAttr("interpolationLength"); a != nil {
		v, err := parseFloat(a.Value)
		if err != nil {
			return out, fmt.Errorf("interpolationLength: %w", err)
		}
		out.InterpolationLength = adm.Float(v)
	}
	return out, nil
}
