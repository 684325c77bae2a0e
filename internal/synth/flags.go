package synth

import "strings"

// Flags is the set of behavior flags active while generating.
type Flags uint8

const (
	// FlagForceCallable generates new content instead of matching existing input.
	FlagForceCallable Flags = 1 << iota
	// FlagForceGroupAware generates as if inside a content group, addressing
	// content through the group selection.
	FlagForceGroupAware
)

// Has reports whether every flag of f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// With returns fl with f added.
func (fl Flags) With(f Flags) Flags {
	return fl | f
}

// String lists the set flags.
func (fl Flags) String() string {
	var parts []string
	if fl.Has(FlagForceCallable) {
		parts = append(parts, "force-callable")
	}

	if fl.Has(FlagForceGroupAware) {
		parts = append(parts, "force-group-aware")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "|")
}
