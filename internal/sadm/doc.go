// Package sadm tracks serial ADM flows: it computes the changedIDs of a
// frame against the previous frame of the same flow and records ingested
// frames in a flowstore.
package sadm
