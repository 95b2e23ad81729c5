// Package admerr defines the error taxonomy shared by the ADM codecs, the
// entity graph, and the XML parser and writer.
//
// Every failure carries one of the exported sentinel markers so callers can
// branch with errors.Is, plus the offending entity, attribute, or ID text for
// diagnostics. Grammar-level markers (ErrMalformedID, ErrMalformedTimecode)
// come from the leaf codecs; ErrMissingValue and ErrInvalidOperation come from
// the attribute system; ErrDuplicateID, ErrUnresolvedReference, and
// ErrInvalidState come from the graph, resolver, and writer.
package admerr
