package adm

import (
	"slices"

	"admkit/internal/admerr"
	"admkit/internal/admid"
)

// Document owns a static ADM entity graph.
type Document struct {
	timeReference TimeReference
	entities      map[Kind]map[string]Entity
	order         map[Kind][]Entity
}

// NewDocument returns an empty document using the total time reference.
func NewDocument() *Document {
	d := &Document{
		entities: make(map[Kind]map[string]Entity, len(Kinds)),
		order:    make(map[Kind][]Entity, len(Kinds)),
	}
	for _, k := range Kinds {
		d.entities[k] = make(map[string]Entity)
	}
	return d
}

// TimeReference returns the naming used for block time windows.
func (d *Document) TimeReference() TimeReference { return d.timeReference }

// SetTimeReference changes the naming used for block time windows.
func (d *Document) SetTimeReference(t TimeReference) { d.timeReference = t }

// Add takes ownership of e.
func (d *Document) Add(e Entity) error {
	if e == nil {
		return admerr.InvalidOperation("document", "", "nil entity")
	}
	b := e.base()
	if b.owner != nil {
		return admerr.InvalidOperation(entityLabel(e), "", "entity already belongs to a document")
	}
	index, ok := d.entities[e.Kind()]
	if !ok {
		return admerr.InvalidOperation(entityLabel(e), "", "unknown kind")
	}
	id := e.IDText()
	if _, dup := index[id]; dup {
		return admerr.DuplicateID(e.Kind().String(), id)
	}
	index[id] = e
	d.order[e.Kind()] = append(d.order[e.Kind()], e)
	b.owner = d
	return nil
}

// Remove deletes e and clears every reference pointing at it.
func (d *Document) Remove(e Entity) error {
	if e == nil || e.base().owner != d {
		return admerr.InvalidOperation(entityLabel(e), "", "entity does not belong to this document")
	}
	kind, id := e.Kind(), e.IDText()
	delete(d.entities[kind], id)
	d.order[kind] = slices.DeleteFunc(d.order[kind], func(other Entity) bool { return other == e })
	for _, rel := range Relations {
		if rel.Target() != kind {
			continue
		}
		for _, source := range d.order[rel.Source()] {
			source.base().dropRef(rel, id)
		}
	}
	b := e.base()
	b.owner = nil
	clear(b.refs)
	return nil
}

// Lookup finds an entity by kind and ID text in any accepted spelling.
func (d *Document) Lookup(kind Kind, idText string) Entity {
	canonical, err := CanonicalID(kind, idText)
	if err != nil {
		return nil
	}
	return d.entities[kind][canonical]
}

// Entities returns the entities of kind in insertion order.
func (d *Document) Entities(kind Kind) []Entity {
	return slices.Clone(d.order[kind])
}

// Len returns the number of entities of kind.
func (d *Document) Len(kind Kind) int {
	return len(d.order[kind])
}

func lookup[T Entity](d *Document, kind Kind, id string) (T, bool) {
	e, ok := d.entities[kind][id].(T)
	return e, ok
}

func all[T Entity](d *Document, kind Kind) []T {
	out := make([]T, 0, len(d.order[kind]))
	for _, e := range d.order[kind] {
		out = append(out, e.(T))
	}
	return out
}

func (d *Document) Programme(id admid.AudioProgrammeID) (*AudioProgramme, bool) {
	return lookup[*AudioProgramme](d, KindProgramme, id.String())
}

func (d *Document) Content(id admid.AudioContentID) (*AudioContent, bool) {
	return lookup[*AudioContent](d, KindContent, id.String())
}

func (d *Document) Object(id admid.AudioObjectID) (*AudioObject, bool) {
	return lookup[*AudioObject](d, KindObject, id.String())
}

func (d *Document) PackFormat(id admid.AudioPackFormatID) (*AudioPackFormat, bool) {
	return lookup[*AudioPackFormat](d, KindPackFormat, id.String())
}

func (d *Document) ChannelFormat(id admid.AudioChannelFormatID) (*AudioChannelFormat, bool) {
	return lookup[*AudioChannelFormat](d, KindChannelFormat, id.String())
}

func (d *Document) StreamFormat(id admid.AudioStreamFormatID) (*AudioStreamFormat, bool) {
	return lookup[*AudioStreamFormat](d, KindStreamFormat, id.String())
}

func (d *Document) TrackFormat(id admid.AudioTrackFormatID) (*AudioTrackFormat, bool) {
	return lookup[*AudioTrackFormat](d, KindTrackFormat, id.String())
}

func (d *Document) TrackUID(id admid.AudioTrackUIDID) (*AudioTrackUID, bool) {
	return lookup[*AudioTrackUID](d, KindTrackUID, id.String())
}

func (d *Document) Programmes() []*AudioProgramme {
	return all[*AudioProgramme](d, KindProgramme)
}

func (d *Document) Contents() []*AudioContent {
	return all[*AudioContent](d, KindContent)
}

func (d *Document) Objects() []*AudioObject {
	return all[*AudioObject](d, KindObject)
}

func (d *Document) PackFormats() []*AudioPackFormat {
	return all[*AudioPackFormat](d, KindPackFormat)
}

func (d *Document) ChannelFormats() []*AudioChannelFormat {
	return all[*AudioChannelFormat](d, KindChannelFormat)
}

func (d *Document) StreamFormats() []*AudioStreamFormat {
	return all[*AudioStreamFormat](d, KindStreamFormat)
}

func (d *Document) TrackFormats() []*AudioTrackFormat {
	return all[*AudioTrackFormat](d, KindTrackFormat)
}

func (d *Document) TrackUIDs() []*AudioTrackUID {
	return all[*AudioTrackUID](d, KindTrackUID)
}
