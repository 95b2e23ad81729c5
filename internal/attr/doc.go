// Package attr implements per-entity attribute tables.
//
// Each entity kind declares a Schema listing its fields and their policy:
// required, optional without default, optional with a static default, or
// optional with a computed default whose default status follows a sibling
// field. Entities embed a Table bound to their schema and expose it through
// the Holder interface, so one calling convention (Get, Set, Has, IsDefault,
// Unset) covers every attribute of every entity.
package attr
