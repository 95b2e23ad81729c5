package adm

import (
	"reflect"
	"slices"
)

// Equal compares two entities by kind, ID, attributes, references and the
// per-kind lists (labels, loudness metadata, blocks). References compare by
// ID, so entities from different documents can be equal.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() || a.IDText() != b.IDText() {
		return false
	}
	ea, eb := a.base(), b.base()
	if !ea.Table.Equal(&eb.Table) || !refsEqual(ea.refs, eb.refs) {
		return false
	}
	switch x := a.(type) {
	case *AudioProgramme:
		y := b.(*AudioProgramme)
		return reflect.DeepEqual(x.LoudnessMetadata, y.LoudnessMetadata) && slices.Equal(x.Labels, y.Labels)
	case *AudioContent:
		y := b.(*AudioContent)
		return reflect.DeepEqual(x.LoudnessMetadata, y.LoudnessMetadata) && slices.Equal(x.Labels, y.Labels)
	case *AudioObject:
		return slices.Equal(x.Labels, b.(*AudioObject).Labels)
	case *AudioChannelFormat:
		return slices.EqualFunc(x.blocks, b.(*AudioChannelFormat).blocks, BlockEqual)
	default:
		return true
	}
}

// BlockEqual compares two block formats by variant, ID and attributes.
func BlockEqual(a, b BlockFormat) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || a.ID() != b.ID() {
		return false
	}
	if !a.Attributes().Equal(b.Attributes()) {
		return false
	}
	if x, ok := a.(*BlockDirectSpeakers); ok {
		return slices.Equal(x.SpeakerLabels, b.(*BlockDirectSpeakers).SpeakerLabels)
	}
	return true
}

// Equal compares two documents kind by kind in insertion order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.timeReference == other.timeReference && d.entitiesEqual(other)
}

func (d *Document) entitiesEqual(other *Document) bool {
	for _, k := range Kinds {
		if !slices.EqualFunc(d.order[k], other.order[k], Equal) {
			return false
		}
	}
	return true
}

func refsEqual(a, b map[Relation][]string) bool {
	for _, rel := range Relations {
		if !slices.Equal(a[rel], b[rel]) {
			return false
		}
	}
	return true
}

// Equal compares two frames by header and entity graph. The time reference
// is part of the frame format.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if !f.Header.Format.Equal(other.Header.Format) ||
		!reflect.DeepEqual(f.Header.Profiles, other.Header.Profiles) ||
		!slices.EqualFunc(f.Header.TransportTracks, other.Header.TransportTracks, transportEqual) {
		return false
	}
	return f.Document.entitiesEqual(other.Document)
}

func transportEqual(a, b *TransportTrackFormat) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.id == b.id && a.Table.Equal(&b.Table) && reflect.DeepEqual(a.Tracks, b.Tracks)
}

// Extends reports whether next is prev with further blocks appended: the
// channel attributes and references match and prev's blocks are an equal,
// strictly shorter prefix of next's.
func Extends(prev, next *AudioChannelFormat) bool {
	if prev == nil || next == nil || prev.id != next.id {
		return false
	}
	if !prev.Table.Equal(&next.Table) || !refsEqual(prev.refs, next.refs) {
		return false
	}
	if len(next.blocks) <= len(prev.blocks) {
		return false
	}
	return slices.EqualFunc(prev.blocks, next.blocks[:len(prev.blocks)], BlockEqual)
}
