package admid

import (
	"fmt"
	"strings"

	"admkit/internal/admerr"
)

// TypeDefinition is the `yyyy` field shared by format IDs and the
// typeLabel/typeDefinition attributes.
type TypeDefinition uint16

const (
	TypeUndefined      TypeDefinition = 0
	TypeDirectSpeakers TypeDefinition = 1
	TypeMatrix         TypeDefinition = 2
	TypeObjects        TypeDefinition = 3
	TypeHOA            TypeDefinition = 4
	TypeBinaural       TypeDefinition = 5
)

var typeDefinitionNames = map[TypeDefinition]string{
	TypeDirectSpeakers: "DirectSpeakers",
	TypeMatrix:         "Matrix",
	TypeObjects:        "Objects",
	TypeHOA:            "HOA",
	TypeBinaural:       "Binaural",
}

// Valid reports whether t is one of the five defined type definitions.
func (t TypeDefinition) Valid() bool {
	_, ok := typeDefinitionNames[t]
	return ok
}

// Label returns the four-digit typeLabel text, e.g. "0003".
func (t TypeDefinition) Label() string {
	return fmt.Sprintf("%04X", uint16(t))
}

// Definition returns the typeDefinition text, e.g. "Objects".
func (t TypeDefinition) Definition() string {
	if name, ok := typeDefinitionNames[t]; ok {
		return name
	}
	return "undefined"
}

func (t TypeDefinition) String() string {
	return t.Definition()
}

// ParseTypeLabel parses a typeLabel such as "0001".
func ParseTypeLabel(text string) (TypeDefinition, error) {
	value, ok := hexField(text, 4)
	if !ok || !TypeDefinition(value).Valid() {
		return TypeUndefined, admerr.MalformedID("typeLabel", text, "expected 0001-0005")
	}
	return TypeDefinition(value), nil
}

// ParseTypeDefinition parses a typeDefinition such as "DirectSpeakers".
func ParseTypeDefinition(text string) (TypeDefinition, error) {
	for t, name := range typeDefinitionNames {
		if strings.EqualFold(name, strings.TrimSpace(text)) {
			return t, nil
		}
	}
	return TypeUndefined, admerr.MalformedID("typeDefinition", text, "unknown type definition")
}

// FormatDefinition is the formatLabel/formatDefinition pair of stream and
// track formats. Only PCM is defined.
type FormatDefinition uint16

const (
	FormatUndefined FormatDefinition = 0
	FormatPCM       FormatDefinition = 1
)

// Label returns the formatLabel text.
func (f FormatDefinition) Label() string {
	return fmt.Sprintf("%04X", uint16(f))
}

// Definition returns the formatDefinition text.
func (f FormatDefinition) Definition() string {
	if f == FormatPCM {
		return "PCM"
	}
	return "undefined"
}

func (f FormatDefinition) String() string {
	return f.Definition()
}

// ParseFormatLabel parses a formatLabel such as "0001".
func ParseFormatLabel(text string) (FormatDefinition, error) {
	value, ok := hexField(text, 4)
	if !ok || FormatDefinition(value) != FormatPCM {
		return FormatUndefined, admerr.MalformedID("formatLabel", text, "expected 0001")
	}
	return FormatPCM, nil
}

// ParseFormatDefinition parses a formatDefinition such as "PCM".
func ParseFormatDefinition(text string) (FormatDefinition, error) {
	if strings.EqualFold(strings.TrimSpace(text), "PCM") {
		return FormatPCM, nil
	}
	return FormatUndefined, admerr.MalformedID("formatDefinition", text, "expected PCM")
}
