// Package admid parses and formats the identifier grammars of every ADM and
// S-ADM entity kind.
//
// Each kind gets its own value type so an AudioPackFormatID can never be
// passed where an AudioChannelFormatID is expected. Parsing is
// case-insensitive for hexadecimal digits; String always renders upper case,
// so String(Parse(x)) is the canonical spelling used as lookup key by the
// entity graph.
package admid
