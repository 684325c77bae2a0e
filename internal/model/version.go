package model

import (
	"strconv"

	"schema-evolver/internal/common"
)

// Version is an opaque token selecting one of the two schema versions.
type Version int

const (
	Old Version = iota
	New
)

// String returns "old" or "new".
func (v Version) String() string {
	switch v {
	case Old:
		return "old"
	case New:
		return "new"
	default:
		return common.UnknownStr
	}
}

// Other returns the opposite version.
func (v Version) Other() Version {
	if v == Old {
		return New
	}

	return Old
}

func (v Version) valid() bool {
	return v == Old || v == New
}

// Unbounded is the upper bound of a multiplicity without limit.
const Unbounded = -1

// Multiplicity holds the occurrence bounds of a node.
type Multiplicity struct {
	Lower int
	Upper int // Unbounded for "*"
}

// One is the 1..1 multiplicity.
var One = Multiplicity{Lower: 1, Upper: 1}

// IsUnbounded reports whether the upper bound is "*".
func (m Multiplicity) IsUnbounded() bool {
	return m.Upper == Unbounded
}

// IsOptional reports whether the node may be absent.
func (m Multiplicity) IsOptional() bool {
	return m.Lower == 0
}

// IsRepeated reports whether more than one occurrence is allowed.
func (m Multiplicity) IsRepeated() bool {
	return m.IsUnbounded() || m.Upper > 1
}

// String formats the bounds as "lower..upper".
func (m Multiplicity) String() string {
	upper := "*"
	if !m.IsUnbounded() {
		upper = strconv.Itoa(m.Upper)
	}

	return strconv.Itoa(m.Lower) + ".." + upper
}
