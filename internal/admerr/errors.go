package admerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedID         = errors.New("malformed id")
	ErrMalformedTimecode   = errors.New("malformed timecode")
	ErrMissingValue        = errors.New("missing value")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrInvalidState        = errors.New("invalid state")
)

// Classifier allows errors to declare their classification without exposing
// the concrete type.
type Classifier interface {
	// ErrorKind returns one of the snake_case kind names, e.g. "duplicate_id".
	ErrorKind() string
}

// Error is the typed failure surfaced by every ADM package. Kind is always one
// of the sentinel markers above.
type Error struct {
	Kind      error
	Entity    string
	Attribute string
	ID        string
	Detail    string
	Err       error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 5)
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Entity != "" {
		parts = append(parts, e.Entity)
	}
	if e.Attribute != "" {
		parts = append(parts, "attribute "+e.Attribute)
	}
	if e.ID != "" {
		parts = append(parts, fmt.Sprintf("id %q", e.ID))
	}
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		parts = append(parts, detail)
	}
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind marker and the underlying cause.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// ErrorKind implements Classifier.
func (e *Error) ErrorKind() string {
	return KindName(e.Kind)
}

// KindName maps a sentinel marker to its snake_case name.
func KindName(kind error) string {
	switch kind {
	case ErrMalformedID:
		return "malformed_id"
	case ErrMalformedTimecode:
		return "malformed_timecode"
	case ErrMissingValue:
		return "missing_value"
	case ErrInvalidOperation:
		return "invalid_operation"
	case ErrDuplicateID:
		return "duplicate_id"
	case ErrUnresolvedReference:
		return "unresolved_reference"
	case ErrInvalidState:
		return "invalid_state"
	default:
		return "unknown"
	}
}

// New builds an Error with a formatted detail message.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// MalformedID reports an identifier that does not match its grammar.
func MalformedID(entity, text, detail string) *Error {
	return &Error{Kind: ErrMalformedID, Entity: entity, ID: text, Detail: detail}
}

// MalformedTimecode reports timecode text that does not match the grammar.
func MalformedTimecode(text, detail string) *Error {
	return &Error{Kind: ErrMalformedTimecode, Detail: fmt.Sprintf("%q: %s", text, detail)}
}

// MissingValue reports a get on an attribute with neither value nor default.
func MissingValue(entity, attribute string) *Error {
	return &Error{Kind: ErrMissingValue, Entity: entity, Attribute: attribute}
}

// InvalidOperation reports a contract violation by the caller.
func InvalidOperation(entity, attribute, detail string) *Error {
	return &Error{Kind: ErrInvalidOperation, Entity: entity, Attribute: attribute, Detail: detail}
}

// DuplicateID reports a second entity with an ID already present in its container.
func DuplicateID(entity, id string) *Error {
	return &Error{Kind: ErrDuplicateID, Entity: entity, ID: id}
}

// UnresolvedReference reports a reference from entity to an ID that is not in the container.
func UnresolvedReference(entity, id, detail string) *Error {
	return &Error{Kind: ErrUnresolvedReference, Entity: entity, ID: id, Detail: detail}
}

// InvalidState reports a graph that could not have been built through the
// attribute contract, e.g. a variant with no populated tag.
func InvalidState(entity, attribute, detail string) *Error {
	return &Error{Kind: ErrInvalidState, Entity: entity, Attribute: attribute, Detail: detail}
}

// Kind returns the sentinel marker carried by err, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrMalformedID, ErrMalformedTimecode, ErrMissingValue, ErrInvalidOperation,
		ErrDuplicateID, ErrUnresolvedReference, ErrInvalidState,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
