package admxml

import (
	"fmt"

	"github.com/beevik/etree"

	"admkit/internal/admerr"
	"admkit/internal/attr"
)

// scanner copies XML attributes and child elements into an attribute table.
// The first failure sticks; later calls are no-ops.
type scanner struct {
	el     *etree.Element
	holder attr.Holder
	err    error
}

func newScanner(el *etree.Element, holder attr.Holder) *scanner {
	return &scanner{el: el, holder: holder}
}

func (s *scanner) fail(name string, err error) {
	if s.err != nil {
		return
	}
	if admerr.Kind(err) != nil {
		s.err = err
		return
	}
	s.err = fmt.Errorf("%s: %w", name, err)
}

func (s *scanner) set(name string, key attr.Key, value any) {
	if err := s.holder.Attributes().SetValue(key, value); err != nil {
		s.fail(name, err)
	}
}

// scanAttr sets key from the XML attribute name when it is present.
func scanAttr[T any](s *scanner, name string, key attr.Key, parse func(string) (T, error)) {
	if s.err != nil {
		return
	}
	a := s.el.SelectAttr(name)
	if a == nil {
		return
	}
	v, err := parse(a.Value)
	if err != nil {
		s.fail(name, err)
		return
	}
	s.set(name, key, v)
}

// scanElem sets key from the first child element tag when it is present.
func scanElem[T any](s *scanner, tag string, key attr.Key, parse func(*etree.Element) (T, error)) {
	if s.err != nil {
		return
	}
	child := s.el.SelectElement(tag)
	if child == nil {
		return
	}
	v, err := parse(child)
	if err != nil {
		s.fail(tag, err)
		return
	}
	s.set(tag, key, v)
}

// requireElem is scanElem for elements that must be present.
func requireElem[T any](s *scanner, tag string, key attr.Key, parse func(*etree.Element) (T, error)) {
	if s.err != nil {
		return
	}
	if s.el.SelectElement(tag) == nil {
		s.fail(tag, admerr.MissingValue(s.holder.Attributes().Schema().Entity(), tag))
		return
	}
	scanElem(s, tag, key, parse)
}

func requireAttr(el *etree.Element, name string) (string, error) {
	a := el.SelectAttr(name)
	if a == nil {
		return "", admerr.MissingValue(el.Tag, name)
	}
	return a.Value, nil
}
