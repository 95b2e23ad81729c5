package adm

import (
	"slices"

	"admkit/internal/attr"
)

// Entity is implemented by every indexed entity kind.
type Entity interface {
	attr.Holder
	Kind() Kind
	IDText() string
	RefIDs(rel Relation) []string
	base() *element
}

// element carries the state shared by all entities.
type element struct {
	attr.Table
	owner *Document
	refs  map[Relation][]string
}

func newElement(schema *attr.Schema) element {
	return element{Table: attr.NewTable(schema), refs: make(map[Relation][]string)}
}

func (e *element) base() *element { return e }

// Document returns the container the entity was added to, or nil.
func (e *element) Document() *Document { return e.owner }

// RefIDs returns the canonical ID text of every target of rel.
func (e *element) RefIDs(rel Relation) []string {
	return slices.Clone(e.refs[rel])
}

// Name returns the name attribute, or "" when the schema has none.
func (e *element) Name() string {
	v, _ := attr.Lookup[string](e, KeyName)
	return v
}

func (e *element) dropRef(rel Relation, id string) {
	ids := e.refs[rel]
	i := slices.Index(ids, id)
	if i < 0 {
		return
	}
	ids = slices.Delete(ids, i, i+1)
	if len(ids) == 0 {
		delete(e.refs, rel)
		return
	}
	e.refs[rel] = ids
}

func (e *element) hasRefs(rels ...Relation) bool {
	for _, rel := range rels {
		if len(e.refs[rel]) > 0 {
			return true
		}
	}
	return false
}

// resolve looks every target of rel up in the owning document.
func resolve[T Entity](e *element, rel Relation) []T {
	if e.owner == nil {
		return nil
	}
	target := rel.Target()
	out := make([]T, 0, len(e.refs[rel]))
	for _, id := range e.refs[rel] {
		if found, ok := e.owner.entities[target][id].(T); ok {
			out = append(out, found)
		}
	}
	return out
}

func resolveOne[T Entity](e *element, rel Relation) (T, bool) {
	found := resolve[T](e, rel)
	if len(found) == 0 {
		var zero T
		return zero, false
	}
	return found[0], true
}
