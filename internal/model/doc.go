// Package model holds the versioned content-model tree consumed by the
// transform synthesizer.
//
// A Tree stores every node once, keyed by a stable NodeID, with one Snapshot
// per Version the node is present in. Snapshots carry the per-version data:
// parent, element label, multiplicity bounds and structural-representative
// alias. The tree is built once by the host (see package schema) and treated
// as read-only afterwards.
package model
