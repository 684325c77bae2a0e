// Package classify defines the contract of the external change classifier
// consumed by the synthesizer, plus Table, a static implementation filled
// from an input document.
//
// The classification is fixed for a synthesis run: every content-bearing
// node of the new version falls into exactly one of MustRegenerate,
// CopyThrough or Unchanged, and carries a placement State (AsItWas, Moved,
// Added).
package classify
