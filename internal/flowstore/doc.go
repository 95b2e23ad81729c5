// Package flowstore persists S-ADM frame history in SQLite.
//
// Each row is one serialised frame of a flow (identified by the frame
// format's flowID) together with its timing and changedIDs counts. The
// store assigns a per-flow sequence number on Append, so the most recent
// frame of a flow is always the one with the highest sequence. Callers use
// Latest to diff an incoming frame against its predecessor.
//
// The schema is embedded and versioned; a database created by an older
// build fails Open with ErrSchemaMismatch rather than being migrated in
// place. All write paths retry on SQLITE_BUSY with bounded backoff.
package flowstore
