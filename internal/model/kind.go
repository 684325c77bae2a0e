package model

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind is the variant tag of a tree node.
type Kind int

const (
	_ Kind = iota // zero value is an invalid kind

	KindElementClass
	KindAttribute
	KindContentContainer
	KindContentGroup
	KindChoice
	KindUnion
	KindRepresentative

	// KindTotal is the number of valid kinds plus the invalid zero value.
	KindTotal = int(iota)
)

// kindNames maps the textual form used by input documents to a Kind.
var kindNames = map[string]Kind{
	"element-class":     KindElementClass,
	"attribute":         KindAttribute,
	"content-container": KindContentContainer,
	"content-group":     KindContentGroup,
	"choice":            KindChoice,
	"union":             KindUnion,
	"representative":    KindRepresentative,
}

// ParseKind converts the document form of a kind ("element-class",
// "content-group", ...) to a Kind.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindNames[s]
	return k, ok
}

// IsValid reports whether k is one of the closed set of kinds.
func (k Kind) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

// IsElementBearing reports whether nodes of this kind produce an element of
// their own in documents.
func (k Kind) IsElementBearing() bool {
	switch k {
	default:
		return false
	case KindElementClass, KindContentContainer, KindRepresentative:
		return true
	}
}

// IsContentBearing reports whether nodes of this kind carry content that the
// classification partitions into MustRegenerate, CopyThrough and Unchanged.
func (k Kind) IsContentBearing() bool {
	switch k {
	default:
		return false
	case KindElementClass, KindContentContainer, KindContentGroup, KindRepresentative:
		return true
	}
}

// IsLabeled reports whether nodes of this kind contribute a step to paths.
func (k Kind) IsLabeled() bool {
	return k.IsElementBearing() || k == KindAttribute
}
