package attr

import (
	"fmt"
	"reflect"

	"admkit/internal/admerr"
)

// Holder is implemented by anything that carries an attribute table.
type Holder interface {
	Attributes() *Table
}

// Table stores the explicitly set values of one entity.
type Table struct {
	schema *Schema
	values map[Key]any
}

// NewTable returns an empty table bound to schema.
func NewTable(schema *Schema) Table {
	return Table{schema: schema, values: make(map[Key]any)}
}

// Attributes implements Holder.
func (t *Table) Attributes() *Table {
	return t
}

// Schema returns the schema the table is bound to.
func (t *Table) Schema() *Schema {
	return t.schema
}

// IsSet reports whether key carries an explicitly set value.
func (t *Table) IsSet(key Key) bool {
	_, ok := t.values[key]
	return ok
}

// Has reports whether key is set or falls back to a default.
func (t *Table) Has(key Key) bool {
	if t.IsSet(key) {
		return true
	}
	_, ok := t.schema.DefaultFor(key)
	return ok
}

// IsDefault reports whether the value of key is its default. Computed
// fields follow the presence of their controller, not their own value.
// Keys outside the schema have no default and report false.
func (t *Table) IsDefault(key Key) bool {
	f, ok := t.schema.Field(key)
	if !ok {
		return false
	}
	if f.Policy == PolicyComputed {
		return !t.IsSet(f.Controller)
	}
	return !t.IsSet(key)
}

// Value returns the value of key, falling back to its default.
func (t *Table) Value(key Key) (any, error) {
	if _, ok := t.schema.Field(key); !ok {
		return nil, admerr.InvalidOperation(t.schema.entity, string(key), "unknown attribute")
	}
	if v, ok := t.values[key]; ok {
		return v, nil
	}
	if v, ok := t.schema.DefaultFor(key); ok {
		return v, nil
	}
	return nil, admerr.MissingValue(t.schema.entity, string(key))
}

// SetValue stores value under key after checking its type.
func (t *Table) SetValue(key Key, value any) error {
	f, ok := t.schema.Field(key)
	if !ok {
		return admerr.InvalidOperation(t.schema.entity, string(key), "unknown attribute")
	}
	if value == nil || reflect.TypeOf(value) != f.valueType {
		return admerr.InvalidOperation(t.schema.entity, string(key),
			fmt.Sprintf("expected %s, got %T", f.valueType, value))
	}
	if t.values == nil {
		t.values = make(map[Key]any)
	}
	t.values[key] = value
	return nil
}

// Unset clears key. Fields with a default read as that default afterwards.
func (t *Table) Unset(key Key) error {
	f, ok := t.schema.Field(key)
	if !ok {
		return admerr.InvalidOperation(t.schema.entity, string(key), "unknown attribute")
	}
	if f.Policy == PolicyRequired {
		return admerr.InvalidOperation(t.schema.entity, string(key), "required attribute cannot be unset")
	}
	delete(t.values, key)
	return nil
}

// Keys returns, in schema order, every key for which Has is true.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.schema.order))
	for _, key := range t.schema.order {
		if t.Has(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Equal compares two tables by schema, presence and resolved value.
// Explicitly setting a field to its default is equal to leaving it unset.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.schema != other.schema {
		return false
	}
	for _, key := range t.schema.order {
		if t.Has(key) != other.Has(key) {
			return false
		}
		if !t.Has(key) {
			continue
		}
		a, _ := t.Value(key)
		b, _ := other.Value(key)
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of t. Values are copied shallowly.
func (t *Table) Clone() Table {
	out := NewTable(t.schema)
	for k, v := range t.values {
		out.values[k] = v
	}
	return out
}

// Get returns the typed value of key on h.
func Get[T any](h Holder, key Key) (T, error) {
	var zero T
	t := h.Attributes()
	v, err := t.Value(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, admerr.InvalidOperation(t.schema.entity, string(key),
			fmt.Sprintf("value is %T, not %s", v, reflect.TypeFor[T]()))
	}
	return typed, nil
}

// Lookup returns the typed value of key and whether Has is true. Type
// mismatches and missing values both report false.
func Lookup[T any](h Holder, key Key) (T, bool) {
	if !h.Attributes().Has(key) {
		var zero T
		return zero, false
	}
	v, err := Get[T](h, key)
	return v, err == nil
}

// Set stores value under key on h.
func Set[T any](h Holder, key Key, value T) error {
	return h.Attributes().SetValue(key, value)
}
