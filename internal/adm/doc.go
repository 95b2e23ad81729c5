// Package adm holds the Audio Definition Model entity graph.
//
// A Document owns every entity, indexed by kind and canonical ID text.
// Relations between entities are stored as ID keys per Relation and are
// resolved through the owning Document on access, so shared sub-packs and
// nested objects never form ownership cycles. Frames pair a Document with an
// S-ADM frame header.
//
// Entity attributes go through the attr package: every entity embeds an
// attr.Table bound to its schema, so attr.Get, attr.Set, Has, IsDefault and
// Unset work uniformly on all of them.
package adm
