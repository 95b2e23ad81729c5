package admxml

import (
	"github.com/beevik/etree"

	"admkit/internal/adm"
)

func writeGain(el *etree.Element, g adm.Gain) error {
	formatGain(el, g)
	return nil
}

func writeLabels(el *etree.Element, tag string, labels []adm.Label) {
	for _, label := range labels {
		child := el.CreateElement(tag)
		if label.Language != "" {
			child.CreateAttr("language", label.Language)
		}
		child.SetText(label.Value)
	}
}

func writeLoudness(el *etree.Element, list []adm.LoudnessMetadata) {
	for _, lm := range list {
		child := el.CreateElement("loudnessMetadata")
		for _, a := range [][2]string{
			{"loudnessMethod", lm.Method},
			{"loudnessRecType", lm.RecType},
			{"loudnessCorrectionType", lm.CorrectionType},
		} {
			if a[1] != "" {
				child.CreateAttr(a[0], a[1])
			}
		}
		for _, value := range []struct {
			tag string
			v   *float64
		}{
			{"integratedLoudness", lm.IntegratedLoudness},
			{"loudnessRange", lm.LoudnessRange},
			{"maxTruePeak", lm.MaxTruePeak},
			{"maxMomentary", lm.MaxMomentary},
			{"maxShortTerm", lm.MaxShortTerm},
			{"dialogueLoudness", lm.DialogueLoudness},
		} {
			if value.v != nil {
				child.CreateElement(value.tag).SetText(formatFloat(*value.v))
			}
		}
	}
}

func writeDialogueKind(el *etree.Element, d adm.DialogueKind) error {
	if n := d.Populated(); n != 1 {
		return variantError("audioContent", adm.KeyDialogue, n)
	}
	switch {
	case d.NonDialogue != nil:
		el.CreateAttr("nonDialogueContentKind", formatInt(int(*d.NonDialogue)))
		el.SetText("0")
	case d.Dialogue != nil:
		el.CreateAttr("dialogueContentKind", formatInt(int(*d.Dialogue)))
		el.SetText("1")
	default:
		el.CreateAttr("mixedContentKind", formatInt(int(*d.Mixed)))
		el.SetText("2")
	}
	return nil
}

func writeInteraction(el *etree.Element, in adm.AudioObjectInteraction) error {
	el.CreateAttr("onOffInteract", formatBool(in.OnOffInteract))
	if in.GainInteract != nil {
		el.CreateAttr("gainInteract", formatBool(*in.GainInteract))
	}
	if in.PositionInteract != nil {
		el.CreateAttr("positionInteract", formatBool(*in.PositionInteract))
	}
	for _, bound := range []struct {
		name string
		g    *adm.Gain
	}{{"min", in.GainMin}, {"max", in.GainMax}} {
		if bound.g == nil {
			continue
		}
		child := el.CreateElement("gainInteractionRange")
		child.CreateAttr("bound", bound.name)
		formatGain(child, *bound.g)
	}
	for _, r := range in.PositionRange {
		child := el.CreateElement("positionInteractionRange")
		child.CreateAttr("coordinate", r.Coordinate)
		child.CreateAttr("bound", r.Bound)
		child.SetText(formatFloat(r.Value))
	}
	return nil
}

// writePositionOffset emits one positionOffset element per coordinate.
func writePositionOffset(parent *etree.Element, offset adm.PositionOffset) error {
	if n := offset.Populated(); n != 1 {
		return variantError("audioObject", adm.KeyPositionOffset, n)
	}
	var coords []namedValue
	if s := offset.Spherical; s != nil {
		coords = []namedValue{{"azimuth", s.Azimuth}, {"elevation", s.Elevation}, {"distance", s.Distance}}
	} else {
		c := offset.Cartesian
		coords = []namedValue{{"X", c.X}, {"Y", c.Y}, {"Z", c.Z}}
	}
	for _, coord := range coords {
		if coord.v == nil {
			continue
		}
		child := parent.CreateElement("positionOffset")
		child.CreateAttr("coordinate", coord.name)
		child.SetText(formatFloat(*coord.v))
	}
	return nil
}

type namedValue struct {
	name string
	v    *float64
}

func writeFrequency(parent *etree.Element, f adm.Frequency) error {
	for _, cut := range []namedValue{{"lowPass", f.LowPass}, {"highPass", f.HighPass}} {
		if cut.v == nil {
			continue
		}
		child := parent.CreateElement("frequency")
		child.CreateAttr("typeDefinition", cut.name)
		child.SetText(formatFloat(*cut.v))
	}
	return nil
}
