package admxml

import (
	"errors"
	"fmt"

	"admkit/internal/admerr"
)

// ParseError reports where parsing stopped. Err carries the typed cause and
// errors.Is matches the admerr sentinels through it.
type ParseError struct {
	Element string
	ID      string
	Err     error
}

func (e *ParseError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("admxml: %s %s: %v", e.Element, e.ID, e.Err)
	}
	return fmt.Sprintf("admxml: %s: %v", e.Element, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func wrapParse(element, id string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Element: element, ID: id, Err: err}
}

// errStructure marks XML that does not have the expected element layout.
var errStructure = errors.New("unexpected document structure")

func structureError(entity, detail string) error {
	return &admerr.Error{Kind: admerr.ErrInvalidOperation, Entity: entity, Detail: detail, Err: errStructure}
}
