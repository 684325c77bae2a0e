// Package xpath provides the path algebra of the synthesizer.
//
// A Path is an immutable sequence of location steps; Alternatives is a union
// of paths. The Projector turns absolute old-version paths of tree nodes into
// paths relative to the current generation position, across content-group
// boundaries (the "$cg" marker) and structural-representative aliases.
//
// All operations are total: an empty Path is the "not applicable" sentinel
// and callers must check it with IsEmpty.
package xpath
