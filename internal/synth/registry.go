package synth

import (
	"fmt"
	"sort"
	"strings"

	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// Variant selects one of the independently memoized subroutines of a node.
type Variant uint8

const (
	// VariantContentGroup is the subroutine of a content group's items.
	VariantContentGroup Variant = 1 << iota
	// VariantForceCallable generates fresh content without reading the
	// context node.
	VariantForceCallable
	// VariantRepresentedAttributes generates the attributes an alias
	// target lends to its representatives.
	VariantRepresentedAttributes
	// VariantRepresentedElements generates the content an alias target
	// lends to its representatives.
	VariantRepresentedElements
	// VariantUnion is the subroutine choosing among a union's classes.
	VariantUnion
)

var variantSuffixes = []struct {
	v      Variant
	suffix string
}{
	{VariantContentGroup, "CG"},
	{VariantRepresentedAttributes, "ATTS"},
	{VariantRepresentedElements, "ELS"},
	{VariantUnion, "UNION"},
	{VariantForceCallable, "FC"},
}

// Has reports whether every bit of f is set.
func (v Variant) Has(f Variant) bool {
	return v&f == f
}

// With returns v with f added.
func (v Variant) With(f Variant) Variant {
	return v | f
}

func (v Variant) suffix() string {
	var parts []string

	for _, s := range variantSuffixes {
		if v.Has(s.v) {
			parts = append(parts, s.suffix)
		}
	}

	return strings.Join(parts, "-")
}

// TemplateKey identifies one subroutine: a node and its variant.
type TemplateKey struct {
	Node    model.NodeID
	Variant Variant
}

// ForceCallable reports whether the key names a generating subroutine.
func (k TemplateKey) ForceCallable() bool {
	return k.Variant.Has(VariantForceCallable)
}

// String formats the key as "node/SUFFIX".
func (k TemplateKey) String() string {
	if s := k.Variant.suffix(); s != "" {
		return string(k.Node) + "/" + s
	}

	return string(k.Node)
}

type keyState int

const (
	stateNamed keyState = iota
	stateQueued
	stateInProgress
	stateDone
)

// Registry memoizes subroutine names per TemplateKey and tracks emission
// progress. Its scope is exactly one synthesis run.
type Registry struct {
	projector *xpath.Projector
	tree      *model.Tree

	names  map[TemplateKey]string
	owners map[string]TemplateKey
	states map[TemplateKey]keyState
}

// NewRegistry creates an empty registry.
func NewRegistry(tree *model.Tree, projector *xpath.Projector) *Registry {
	r := &Registry{tree: tree, projector: projector}
	r.Reset()

	return r
}

// Reset clears all names and progress.
func (r *Registry) Reset() {
	r.names = make(map[TemplateKey]string)
	r.owners = make(map[string]TemplateKey)
	r.states = make(map[TemplateKey]keyState)
}

// Exists reports whether a name was minted or registered for key.
func (r *Registry) Exists(key TemplateKey) bool {
	_, ok := r.names[key]
	return ok
}

// Name returns the name of key if one exists.
func (r *Registry) Name(key TemplateKey) (string, bool) {
	name, ok := r.names[key]
	return name, ok
}

// GetOrCreateName returns the name of (node, variant), minting it on first use.
func (r *Registry) GetOrCreateName(node model.NodeID, variant Variant) string {
	key := TemplateKey{Node: node, Variant: variant}
	if name, ok := r.names[key]; ok {
		return name
	}

	base := r.baseName(node)
	if s := variant.suffix(); s != "" {
		base += "-" + s
	}

	name := base
	for i := 2; ; i++ {
		if _, taken := r.owners[name]; !taken {
			break
		}

		name = fmt.Sprintf("%s-%d", base, i)
	}

	r.names[key] = name
	r.owners[name] = key

	return name
}

// Register pre-seeds the name of key with a name minted for another key,
// so later lookups resolve to it instead of minting a duplicate.
func (r *Registry) Register(key TemplateKey, name string) error {
	if existing, ok := r.names[key]; ok {
		if existing == name {
			return nil
		}

		return fmt.Errorf("%w: %s already named %q, cannot register %q", ErrInvariant, key, existing, name)
	}

	if _, ok := r.owners[name]; !ok {
		return fmt.Errorf("%w: %q was not minted by this registry", ErrInvariant, name)
	}

	r.names[key] = name

	return nil
}

// Keys returns every named key in name order.
func (r *Registry) Keys() []TemplateKey {
	keys := make([]TemplateKey, 0, len(r.names))
	for k := range r.names {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return r.names[keys[i]] < r.names[keys[j]] ||
			(r.names[keys[i]] == r.names[keys[j]] && keys[i].String() < keys[j].String())
	})

	return keys
}

// markQueued records that key waits in the work queue. It reports false if
// the key was queued, started or emitted before.
func (r *Registry) markQueued(key TemplateKey) bool {
	if r.states[key] != stateNamed {
		return false
	}

	r.states[key] = stateQueued

	return true
}

// begin marks key in progress. It reports false if the key was already
// started.
func (r *Registry) begin(key TemplateKey) bool {
	if r.states[key] == stateInProgress || r.states[key] == stateDone {
		return false
	}

	r.states[key] = stateInProgress

	return true
}

// inProgress reports whether the body of key is being emitted.
func (r *Registry) inProgress(key TemplateKey) bool {
	return r.states[key] == stateInProgress
}

func (r *Registry) complete(key TemplateKey) {
	r.states[key] = stateDone
}

// Done reports whether the body of key was emitted.
func (r *Registry) Done(key TemplateKey) bool {
	return r.states[key] == stateDone
}

// baseName derives a name from the node's old-version path, or from its
// new-version path when it has no old counterpart.
func (r *Registry) baseName(node model.NodeID) string {
	v := model.Old
	if n, ok := r.tree.Node(node); ok && !n.Exists(model.Old) {
		v = model.New
	}

	name := normalizeName(r.projector.PathForNode(node, v).String())
	if name == "" {
		name = normalizeName(string(node))
	}

	if name == "" || !isNameStart(name[0]) {
		name = "n-" + name
	}

	return strings.TrimSuffix(name, "-")
}

// normalizeName maps path separators and other non-name characters to "-",
// collapsing runs and trimming both ends.
func normalizeName(s string) string {
	var sb strings.Builder

	dash := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isNameChar(c) {
			sb.WriteByte(c)

			dash = false

			continue
		}

		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')

			dash = true
		}
	}

	return strings.TrimRight(sb.String(), "-")
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '.'
}

// aliased reports whether the name of key was minted for another key.
func (r *Registry) aliased(key TemplateKey) bool {
	name, ok := r.names[key]
	return ok && r.owners[name] != key
}
