package admxml

import (
	"github.com/beevik/etree"

	"admkit/internal/adm"
)

func (e *emitter) writeBlock(el *etree.Element, b adm.BlockFormat, timeRef adm.TimeReference) {
	el.CreateAttr("audioBlockFormatID", b.ID().String())
	startName, durationName := windowNames(timeRef)
	putAttr(e, el, b, startName, adm.KeyRtime, formatTime)
	putAttr(e, el, b, durationName, adm.KeyDuration, formatTime)
	putAttr(e, el, b, "initializeBlock", adm.KeyInitializeBlock, formatBool)

	switch block := b.(type) {
	case *adm.BlockDirectSpeakers:
		for _, label := range block.SpeakerLabels {
			el.CreateElement("speakerLabel").SetText(label)
		}
		putFunc(e, el, b, adm.KeyPosition, writeSpeakerPosition)
		e.writeBlockTail(el, b)
	case *adm.BlockObjects:
		putFunc(e, el, b, adm.KeyPosition, writeObjectPosition)
		putElem(e, el, b, "width", adm.KeyWidth, setText(formatFloat))
		putElem(e, el, b, "height", adm.KeyHeight, setText(formatFloat))
		putElem(e, el, b, "depth", adm.KeyDepth, setText(formatFloat))
		putElem(e, el, b, "cartesian", adm.KeyCartesian, setText(formatBool))
		putElem(e, el, b, "gain", adm.KeyGain, writeGain)
		putElem(e, el, b, "diffuse", adm.KeyDiffuse, setText(formatFloat))
		putElem(e, el, b, "channelLock", adm.KeyChannelLock, writeChannelLock)
		putElem(e, el, b, "objectDivergence", adm.KeyObjectDivergence, writeObjectDivergence)
		putElem(e, el, b, "jumpPosition", adm.KeyJumpPosition, writeJumpPosition)
		putElem(e, el, b, "screenRef", adm.KeyScreenRef, setText(formatBool))
		putElem(e, el, b, "headLocked", adm.KeyHeadLocked, setText(formatBool))
		putElem(e, el, b, "importance", adm.KeyImportance, setText(formatInt))
	case *adm.BlockHOA:
		putElem(e, el, b, "order", adm.KeyOrder, setText(formatInt))
		putElem(e, el, b, "degree", adm.KeyDegree, setText(formatInt))
		putElem(e, el, b, "nfcRefDist", adm.KeyNfcRefDist, setText(formatFloat))
		putElem(e, el, b, "screenRef", adm.KeyScreenRef, setText(formatBool))
		putElem(e, el, b, "normalization", adm.KeyNormalization, setText(formatString))
		putElem(e, el, b, "equation", adm.KeyEquation, setText(formatString))
		e.writeBlockTail(el, b)
	default:
		e.writeBlockTail(el, b)
	}
}

// writeBlockTail emits the common trailing block elements.
func (e *emitter) writeBlockTail(el *etree.Element, b adm.BlockFormat) {
	putElem(e, el, b, "headLocked", adm.KeyHeadLocked, setText(formatBool))
	putElem(e, el, b, "gain", adm.KeyGain, writeGain)
	putElem(e, el, b, "importance", adm.KeyImportance, setText(formatInt))
}

func writeObjectPosition(parent *etree.Element, p adm.Position) error {
	if n := p.Populated(); n != 1 {
		return variantError("audioBlockFormat", adm.KeyPosition, n)
	}
	var coords []namedValue
	if s := p.Spherical; s != nil {
		coords = []namedValue{{"azimuth", &s.Azimuth}, {"elevation", &s.Elevation}, {"distance", s.Distance}}
	} else {
		c := p.Cartesian
		coords = []namedValue{{"X", &c.X}, {"Y", &c.Y}, {"Z", c.Z}}
	}
	for _, coord := range coords {
		if coord.v == nil {
			continue
		}
		child := parent.CreateElement("position")
		child.CreateAttr("coordinate", coord.name)
		child.SetText(formatFloat(*coord.v))
	}
	return nil
}

type boundedCoord struct {
	name string
	v    *adm.Bounded
	lock string
}

func writeSpeakerPosition(parent *etree.Element, p adm.SpeakerPosition) error {
	if n := p.Populated(); n != 1 {
		return variantError("audioBlockFormat", adm.KeyPosition, n)
	}
	var coords []boundedCoord
	if s := p.Spherical; s != nil {
		coords = []boundedCoord{
			{"azimuth", &s.Azimuth, s.ScreenEdgeLock.Horizontal},
			{"elevation", &s.Elevation, s.ScreenEdgeLock.Vertical},
			{"distance", s.Distance, ""},
		}
	} else {
		c := p.Cartesian
		coords = []boundedCoord{
			{"X", &c.X, c.ScreenEdgeLock.Horizontal},
			{"Y", &c.Y, ""},
			{"Z", c.Z, c.ScreenEdgeLock.Vertical},
		}
	}
	for _, coord := range coords {
		if coord.v == nil {
			continue
		}
		child := parent.CreateElement("position")
		child.CreateAttr("coordinate", coord.name)
		if coord.lock != "" {
			child.CreateAttr("screenEdgeLock", coord.lock)
		}
		child.SetText(formatFloat(coord.v.Value))
		for _, bound := range []namedValue{{"min", coord.v.Min}, {"max", coord.v.Max}} {
			if bound.v == nil {
				continue
			}
			b := parent.CreateElement("position")
			b.CreateAttr("coordinate", coord.name)
			b.CreateAttr("bound", bound.name)
			b.SetText(formatFloat(*bound.v))
		}
	}
	return nil
}

func writeChannelLock(el *etree.Element, c adm.ChannelLock) error {
	if c.MaxDistance != nil {
		el.CreateAttr("maxDistance", formatFloat(*c.MaxDistance))
	}
	el.SetText(formatBool(c.Flag))
	return nil
}

func writeObjectDivergence(el *etree.Element, d adm.ObjectDivergence) error {
	if d.AzimuthRange != nil {
		el.CreateAttr("azimuthRange", formatFloat(*d.AzimuthRange))
	}
	if d.PositionRange != nil {
		el.CreateAttr("positionRange", formatFloat(*d.PositionRange))
	}
	el.SetText(formatFloat(d.Value))
	return nil
}

func writeJumpPosition(el *etree.Element, j adm.JumpPosition) error {
	if j.InterpolationLength != nil {
		el.CreateAttr("interpolationLength", formatFloat(*j.InterpolationLength))
	}
	el.SetText(formatBool(j.Flag))
	return nil
}
