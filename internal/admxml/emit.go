package admxml

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"admkit/internal/admerr"
	"admkit/internal/attr"
)

// emitter applies the write policy to attribute tables. Like scanner, the
// first failure sticks.
type emitter struct {
	writeDefaults bool
	suppressed    int
	err           error
}

func (e *emitter) fail(entity string, key attr.Key, err error) {
	if e.err != nil {
		return
	}
	if errors.Is(err, admerr.ErrMissingValue) {
		err = admerr.InvalidState(entity, string(key), "required attribute has no value")
	}
	e.err = err
}

// fetch returns the value of key and whether the write policy emits it.
// Required fields are always emitted; others only when present and, unless
// defaults are written, not default.
func fetch[T any](e *emitter, h attr.Holder, key attr.Key) (T, bool) {
	var zero T
	if e.err != nil {
		return zero, false
	}
	t := h.Attributes()
	field, ok := t.Schema().Field(key)
	if !ok {
		e.fail(t.Schema().Entity(), key, admerr.InvalidOperation(t.Schema().Entity(), string(key), "unknown attribute"))
		return zero, false
	}
	if field.Policy != attr.PolicyRequired {
		if !t.Has(key) {
			return zero, false
		}
		if !e.writeDefaults && t.IsDefault(key) {
			e.suppressed++
			return zero, false
		}
	}
	v, err := attr.Get[T](h, key)
	if err != nil {
		e.fail(t.Schema().Entity(), key, err)
		return zero, false
	}
	return v, true
}

func putAttr[T any](e *emitter, el *etree.Element, h attr.Holder, name string, key attr.Key, format func(T) string) {
	if v, ok := fetch[T](e, h, key); ok {
		el.CreateAttr(name, format(v))
	}
}

func putElem[T any](e *emitter, el *etree.Element, h attr.Holder, tag string, key attr.Key, fill func(*etree.Element, T) error) {
	v, ok := fetch[T](e, h, key)
	if !ok {
		return
	}
	if err := fill(el.CreateElement(tag), v); err != nil {
		e.fail(h.Attributes().Schema().Entity(), key, err)
	}
}

// putFunc hands the value to emit, which creates whatever elements it needs.
func putFunc[T any](e *emitter, el *etree.Element, h attr.Holder, key attr.Key, emit func(*etree.Element, T) error) {
	v, ok := fetch[T](e, h, key)
	if !ok {
		return
	}
	if err := emit(el, v); err != nil {
		e.fail(h.Attributes().Schema().Entity(), key, err)
	}
}

func variantError(entity string, key attr.Key, populated int) error {
	return admerr.InvalidState(entity, string(key), fmt.Sprintf("%d variants populated, want exactly one", populated))
}
