// Package admxml reads and writes ADM and S-ADM XML.
//
// Parsing is two-phase: the entity pass builds every entity with its scalar
// and variant attributes and records each ID reference as pending; the
// resolution pass then looks every pending reference up in the document, so
// references may point forward in document order. Any failure aborts the
// parse and is returned as a *ParseError wrapping a typed admerr cause.
//
// Writing walks the graph in a fixed kind order. Required attributes are
// always emitted; optional attributes only when present and, unless
// WriterOptions.WriteDefaultValues is set, not default. Block time windows
// are named rtime/duration or lstart/lduration after the time reference of
// the document or frame.
package admxml
