package adm

import (
	"fmt"
	"slices"

	"admkit/internal/admerr"
)

// Relation names one kind of outgoing reference.
type Relation int

const (
	ProgrammeContents Relation = iota
	ContentObjects
	ObjectObjects
	ObjectPackFormats
	ObjectTrackUIDs
	ObjectComplementaries
	PackChannelFormats
	PackPackFormats
	StreamChannelFormat
	StreamPackFormat
	StreamTrackFormats
	TrackStreamFormat
	TrackUIDTrackFormat
	TrackUIDChannelFormat
	TrackUIDPackFormat
)

type relationInfo struct {
	name    string
	source  Kind
	target  Kind
	single  bool
	acyclic bool
}

var relationTable = map[Relation]relationInfo{
	ProgrammeContents:     {"contents", KindProgramme, KindContent, false, false},
	ContentObjects:        {"objects", KindContent, KindObject, false, false},
	ObjectObjects:         {"objects", KindObject, KindObject, false, true},
	ObjectPackFormats:     {"packFormats", KindObject, KindPackFormat, false, false},
	ObjectTrackUIDs:       {"trackUIDs", KindObject, KindTrackUID, false, false},
	ObjectComplementaries: {"complementaryObjects", KindObject, KindObject, false, false},
	PackChannelFormats:    {"channelFormats", KindPackFormat, KindChannelFormat, false, false},
	PackPackFormats:       {"packFormats", KindPackFormat, KindPackFormat, false, true},
	StreamChannelFormat:   {"channelFormat", KindStreamFormat, KindChannelFormat, true, false},
	StreamPackFormat:      {"packFormat", KindStreamFormat, KindPackFormat, true, false},
	StreamTrackFormats:    {"trackFormats", KindStreamFormat, KindTrackFormat, false, false},
	TrackStreamFormat:     {"streamFormat", KindTrackFormat, KindStreamFormat, true, false},
	TrackUIDTrackFormat:   {"trackFormat", KindTrackUID, KindTrackFormat, true, false},
	TrackUIDChannelFormat: {"channelFormat", KindTrackUID, KindChannelFormat, true, false},
	TrackUIDPackFormat:    {"packFormat", KindTrackUID, KindPackFormat, true, false},
}

// Relations lists every relation in a stable order.
var Relations = []Relation{
	ProgrammeContents, ContentObjects, ObjectObjects, ObjectPackFormats,
	ObjectTrackUIDs, ObjectComplementaries, PackChannelFormats, PackPackFormats,
	StreamChannelFormat, StreamPackFormat, StreamTrackFormats, TrackStreamFormat,
	TrackUIDTrackFormat, TrackUIDChannelFormat, TrackUIDPackFormat,
}

func (r Relation) String() string {
	if info, ok := relationTable[r]; ok {
		return info.source.String() + "." + info.name
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// Source is the kind a relation starts from.
func (r Relation) Source() Kind { return relationTable[r].source }

// Target is the kind a relation points to.
func (r Relation) Target() Kind { return relationTable[r].target }

// Single reports whether the relation holds at most one target.
func (r Relation) Single() bool { return relationTable[r].single }

// exclusive returns the relation cleared when r is set.
func (r Relation) exclusive() (Relation, bool) {
	switch r {
	case StreamChannelFormat:
		return StreamPackFormat, true
	case StreamPackFormat:
		return StreamChannelFormat, true
	default:
		return 0, false
	}
}

// Connect records a reference from source to target. Single-valued relations
// are replaced; list relations ignore a target that is already present.
func Connect(source Entity, rel Relation, target Entity) error {
	info, ok := relationTable[rel]
	if !ok {
		return admerr.InvalidOperation(entityLabel(source), "", fmt.Sprintf("unknown relation %d", int(rel)))
	}
	if source == nil || target == nil {
		return admerr.InvalidOperation(info.source.String(), info.name, "nil entity")
	}
	if source.Kind() != info.source || target.Kind() != info.target {
		return admerr.InvalidOperation(entityLabel(source), info.name,
			fmt.Sprintf("relation %s cannot point at %s", rel, entityLabel(target)))
	}
	src, dst := source.base(), target.base()
	if src.owner == nil || src.owner != dst.owner {
		return admerr.InvalidOperation(entityLabel(source), info.name,
			entityLabel(target)+" is not in the same document")
	}
	if info.acyclic && src.owner.reaches(target, rel, source.IDText()) {
		return admerr.InvalidOperation(entityLabel(source), info.name,
			"referencing "+target.IDText()+" would create a cycle")
	}
	id := target.IDText()
	if info.single {
		if other, ok := rel.exclusive(); ok {
			delete(src.refs, other)
		}
		src.refs[rel] = []string{id}
		return nil
	}
	if !slices.Contains(src.refs[rel], id) {
		src.refs[rel] = append(src.refs[rel], id)
	}
	return nil
}

// Disconnect removes the reference from source to target, if present.
func Disconnect(source Entity, rel Relation, target Entity) {
	if source == nil || target == nil {
		return
	}
	source.base().dropRef(rel, target.IDText())
}

// reaches reports whether following rel from start arrives at id.
func (d *Document) reaches(start Entity, rel Relation, id string) bool {
	target := relationTable[rel].target
	seen := map[string]bool{}
	stack := []string{start.IDText()}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == id {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if e := d.entities[target][cur]; e != nil {
			stack = append(stack, e.base().refs[rel]...)
		}
	}
	return false
}

func entityLabel(e Entity) string {
	if e == nil {
		return "<nil>"
	}
	return e.Kind().String() + " " + e.IDText()
}
