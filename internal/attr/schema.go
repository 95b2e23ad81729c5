package attr

import (
	"reflect"
)

// Key names one attribute of an entity.
type Key string

// Policy controls how a field behaves when it has not been set.
type Policy int

const (
	// PolicyRequired fields must be set; Unset is rejected.
	PolicyRequired Policy = iota
	// PolicyOptional fields have no value until set.
	PolicyOptional
	// PolicyStatic fields fall back to a fixed default.
	PolicyStatic
	// PolicyComputed fields fall back to a fixed default, but whether the
	// current value counts as default depends on a controlling sibling being
	// present.
	PolicyComputed
)

func (p Policy) String() string {
	switch p {
	case PolicyRequired:
		return "required"
	case PolicyOptional:
		return "optional"
	case PolicyStatic:
		return "static default"
	case PolicyComputed:
		return "computed default"
	default:
		return "unknown"
	}
}

// Field describes a single attribute of a schema.
type Field struct {
	Key        Key
	Policy     Policy
	Default    any
	Controller Key

	valueType reflect.Type
}

// ValueType reports the Go type stored under the field.
func (f Field) ValueType() reflect.Type {
	return f.valueType
}

// Required declares a field that must always carry a value.
func Required[T any](key Key) Field {
	return Field{Key: key, Policy: PolicyRequired, valueType: reflect.TypeFor[T]()}
}

// Optional declares a field without a default.
func Optional[T any](key Key) Field {
	return Field{Key: key, Policy: PolicyOptional, valueType: reflect.TypeFor[T]()}
}

// Defaulted declares a field that reads as value while unset.
func Defaulted[T any](key Key, value T) Field {
	return Field{Key: key, Policy: PolicyStatic, Default: value, valueType: reflect.TypeFor[T]()}
}

// DefaultedUnless declares a field that reads as value while unset and that
// counts as default exactly while controller is unset.
func DefaultedUnless[T any](key Key, value T, controller Key) Field {
	return Field{
		Key:        key,
		Policy:     PolicyComputed,
		Default:    value,
		Controller: controller,
		valueType:  reflect.TypeFor[T](),
	}
}

// Schema is the immutable field table of one entity kind.
type Schema struct {
	entity string
	fields map[Key]Field
	order  []Key
}

// NewSchema builds a schema. Field order is preserved by Keys.
func NewSchema(entity string, fields ...Field) *Schema {
	s := &Schema{
		entity: entity,
		fields: make(map[Key]Field, len(fields)),
		order:  make([]Key, 0, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.fields[f.Key]; dup {
			panic("attr: duplicate field " + string(f.Key) + " in schema " + entity)
		}
		s.fields[f.Key] = f
		s.order = append(s.order, f.Key)
	}
	return s
}

// Extend returns a new schema with the fields of s followed by fields.
func (s *Schema) Extend(entity string, fields ...Field) *Schema {
	all := make([]Field, 0, len(s.order)+len(fields))
	for _, key := range s.order {
		all = append(all, s.fields[key])
	}
	return NewSchema(entity, append(all, fields...)...)
}

// Entity returns the entity name used in error messages.
func (s *Schema) Entity() string {
	return s.entity
}

// Field looks up a field by key.
func (s *Schema) Field(key Key) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Fields returns all fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.fields[key])
	}
	return out
}

// DefaultFor returns the fallback value of key, if the field has one.
func (s *Schema) DefaultFor(key Key) (any, bool) {
	f, ok := s.fields[key]
	if !ok {
		return nil, false
	}
	switch f.Policy {
	case PolicyStatic, PolicyComputed:
		return f.Default, true
	default:
		return nil, false
	}
}
