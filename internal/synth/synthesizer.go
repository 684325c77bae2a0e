package synth

import (
	"fmt"
	"log/slog"
	"strings"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/diagnostic"
	"schema-evolver/internal/helpers"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

// Result is the outcome of a synthesis run.
type Result struct {
	Program     *ir.Program
	Diagnostics diagnostic.Diagnostics
}

// Synthesizer builds the transformation program for one classified tree.
// A Synthesizer may be run repeatedly; every run starts from a clean state.
type Synthesizer struct {
	config     Config
	logger     *slog.Logger
	tree       *model.Tree
	classifier classify.Classifier
	projector  *xpath.Projector
	registry   *Registry

	program *ir.Program
	queue   []TemplateKey
	newReps map[model.NodeID]bool
	diags   diagnostic.Diagnostics
}

// New creates a Synthesizer over tree and its classification.
func New(tree *model.Tree, classifier classify.Classifier, config Config) *Synthesizer {
	projector := xpath.NewProjector(tree)

	return &Synthesizer{
		config:     config,
		logger:     config.logger(),
		tree:       tree,
		classifier: classifier,
		projector:  projector,
		registry:   NewRegistry(tree, projector),
	}
}

// Registry returns the template registry of the current run.
func (s *Synthesizer) Registry() *Registry {
	return s.registry
}

// Run synthesizes the program. Invariant violations and unknown kinds abort
// the run; authoring problems are reported as diagnostics.
func (s *Synthesizer) Run() (*Result, error) {
	s.reset()

	if err := classify.CheckPartition(s.tree, s.classifier); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	if err := s.seed(); err != nil {
		return nil, err
	}

	for len(s.queue) > 0 {
		key := s.queue[0]
		s.queue = s.queue[1:]

		if err := s.emit(key); err != nil {
			return nil, fmt.Errorf("emit %s: %w", key, err)
		}
	}

	if err := s.emitBoundaries(); err != nil {
		return nil, err
	}

	s.logger.Debug("synthesis finished",
		slog.Int("templates", len(s.program.Templates)),
		slog.Int("warnings", len(s.diags.Warnings)))

	return &Result{Program: s.program, Diagnostics: s.diags}, nil
}

func (s *Synthesizer) reset() {
	s.registry.Reset()
	s.program = &ir.Program{
		Version: s.config.StylesheetVersion,
		Output:  ir.Output{Method: s.config.OutputMethod, Indent: s.config.Indent},
		Imports: []string{s.config.HelpersHref},
	}
	s.queue = nil
	s.diags = diagnostic.Diagnostics{}

	s.newReps = make(map[model.NodeID]bool)
	for _, id := range s.classifier.FindNewStructuralRepresentatives() {
		s.newReps[id] = true
	}
}

// seed queues the subroutines of every MustRegenerate node.
func (s *Synthesizer) seed() error {
	for _, id := range s.classifier.MustRegenerate() {
		n, ok := s.tree.Node(id)
		if !ok {
			return fmt.Errorf("%w: classified node %s is not in the tree", ErrInvariant, id)
		}

		if !n.Exists(model.New) {
			continue
		}

		switch {
		case n.Kind.IsElementBearing():
			if err := s.seedElement(n); err != nil {
				return err
			}
		case n.Kind == model.KindContentGroup:
			// Emitted when a parent body references it.
		case n.Kind == model.KindAttribute, n.Kind == model.KindChoice, n.Kind == model.KindUnion:
			if err := s.redirectSeed(n); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownKind, n)
		}
	}

	return nil
}

// seedElement queues the regular subroutine of n. A node of which nothing
// existed before is only ever generated: its regular name resolves to the
// force-callable subroutine, which is emitted once a parent requests it.
func (s *Synthesizer) seedElement(n *model.Node) error {
	key := TemplateKey{Node: n.ID}

	if !s.existedHere(n) && !s.hasExistingDescendants(n.ID) {
		s.logger.Debug("generated on demand", slog.String("node", string(n.ID)))

		return s.registry.Register(key, s.registry.GetOrCreateName(n.ID, VariantForceCallable))
	}

	_, err := s.request(key)

	return err
}

// redirectSeed regenerates a construct without its own subroutine through
// the nearest element that owns it.
func (s *Synthesizer) redirectSeed(n *model.Node) error {
	path := s.projector.PathForNode(n.ID, model.Old).String()

	for _, a := range s.tree.Ancestors(model.New, n.ID) {
		if !a.Kind.IsElementBearing() {
			continue
		}

		if cat, _ := s.classifier.Category(a.ID); cat != classify.MustRegenerate {
			s.diags.AddWarning(diagnostic.CodeUnreachableNode,
				fmt.Sprintf("%s must be regenerated but its element %s is %s", n, a.ID, cat),
				string(n.ID), path)

			return nil
		}

		s.diags.AddInfo(diagnostic.CodeSeedRedirected,
			fmt.Sprintf("%s is regenerated by the subroutine of %s", n, a.ID),
			string(n.ID), path)

		return s.seedElement(a)
	}

	s.diags.AddWarning(diagnostic.CodeUnreachableNode,
		fmt.Sprintf("%s must be regenerated but has no enclosing element", n),
		string(n.ID), path)

	return nil
}

// request returns the name of key and queues its body unless it was queued
// before or the name belongs to another key. A body requesting its own key
// would call itself unconditionally and fails with ErrCircular.
func (s *Synthesizer) request(key TemplateKey) (string, error) {
	name := s.registry.GetOrCreateName(key.Node, key.Variant)
	if s.registry.aliased(key) {
		return name, nil
	}

	if s.registry.inProgress(key) {
		return "", fmt.Errorf("%w: %s requests itself", ErrCircular, key)
	}

	if s.registry.markQueued(key) {
		s.queue = append(s.queue, key)
	}

	return name, nil
}

func (s *Synthesizer) emit(key TemplateKey) error {
	if !s.registry.begin(key) {
		return nil
	}

	n, ok := s.tree.Node(key.Node)
	if !ok {
		return fmt.Errorf("%w: node %s is not in the tree", ErrInvariant, key.Node)
	}

	s.logger.Debug("emit subroutine",
		slog.String("key", key.String()),
		slog.String("name", s.registry.GetOrCreateName(key.Node, key.Variant)))

	var err error

	switch {
	case key.Variant.Has(VariantRepresentedElements), key.Variant.Has(VariantRepresentedAttributes):
		err = s.emitRepresented(key, n)
	case key.Variant.Has(VariantUnion):
		err = s.emitUnion(key, n)
	case key.Variant.Has(VariantContentGroup):
		err = s.emitGroup(key, n)
	default:
		err = s.emitNode(key, n)
	}

	if err != nil {
		return err
	}

	s.registry.complete(key)

	return nil
}

// emitNode emits the subroutine of an element-bearing node.
func (s *Synthesizer) emitNode(key TemplateKey, n *model.Node) error {
	if !n.Kind.IsElementBearing() {
		return fmt.Errorf("%w: %s has no element subroutine", ErrInvariant, n)
	}

	tpl := s.newTemplate(key, n)

	if !key.ForceCallable() && s.existedHere(n) {
		matches := s.projector.PathsWhereElementAppears(n.ID)
		if matches.IsEmpty() {
			return fmt.Errorf("%w: %s has no old-version occurrence", ErrInvariant, n)
		}

		tpl.Kind = ir.TemplateApplied
		tpl.Match = matches.String()
	}

	ctx := s.templateContext(key, tpl, n.ID)
	if err := s.emitElement(ctx, n); err != nil {
		return err
	}

	s.program.Templates = append(s.program.Templates, tpl)

	return nil
}

func (s *Synthesizer) emitElement(ctx Context, n *model.Node) error {
	el := &ir.Element{Name: n.Label(model.New)}
	ctx.Cursor().Add(el)

	inner := ctx.WithCursor(&el.Body)
	if err := s.emitAttributePart(inner, n); err != nil {
		return err
	}

	return s.emitContentPart(inner, n)
}

func (s *Synthesizer) newTemplate(key TemplateKey, n *model.Node) *ir.Template {
	return &ir.Template{
		Kind:    ir.TemplateNamed,
		Name:    s.registry.GetOrCreateName(key.Node, key.Variant),
		Comment: s.describe(key, n),
	}
}

func (s *Synthesizer) templateContext(key TemplateKey, tpl *ir.Template, position model.NodeID) Context {
	ctx := Context{s: s}.
		WithPosition(position).
		WithCursor(&tpl.Body).
		WithFocus(NodeFocus{ID: position})

	if key.ForceCallable() {
		ctx = ctx.WithFlags(FlagForceCallable)
	}

	return ctx
}

func (s *Synthesizer) describe(key TemplateKey, n *model.Node) string {
	parts := []string{string(n.ID), n.Kind.String()}

	if key.ForceCallable() {
		parts = append(parts, "generated")
	} else {
		parts = append(parts, s.classifier.State(n.ID).String())
	}

	if s.classifier.IsUnderContentGroup(n.ID) {
		parts = append(parts, "in content group")
	}

	return strings.Join(parts, ", ")
}

// existedHere reports whether n has an old counterpart that input documents
// can hold.
func (s *Synthesizer) existedHere(n *model.Node) bool {
	return n.Exists(model.Old) && s.classifier.State(n.ID).Existed()
}

func (s *Synthesizer) hasExistingDescendants(id model.NodeID) bool {
	for _, c := range s.tree.Children(model.New, id) {
		if c.Exists(model.Old) || s.hasExistingDescendants(c.ID) {
			return true
		}
	}

	return false
}

// mustGenerate reports whether the new bounds of id may require occurrences
// that old documents lack.
func (s *Synthesizer) mustGenerate(id model.NodeID) bool {
	mc, ok := s.classifier.MultiplicityChange(id)
	return ok && mc.CanRequireGenerating()
}

// elementOwner returns the nearest element-bearing ancestor of id in v.
func (s *Synthesizer) elementOwner(v model.Version, id model.NodeID) model.NodeID {
	for _, a := range s.tree.Ancestors(v, id) {
		if a.Kind.IsElementBearing() {
			return a.ID
		}
	}

	return ""
}

// contentChildren returns the non-attribute children of id in the new version.
func (s *Synthesizer) contentChildren(id model.NodeID) []*model.Node {
	var out []*model.Node

	for _, c := range s.tree.Children(model.New, id) {
		if c.Kind != model.KindAttribute {
			out = append(out, c)
		}
	}

	return out
}

// contentItems returns the element-bearing nodes reached from id in v
// without crossing another element.
func (s *Synthesizer) contentItems(v model.Version, id model.NodeID) []*model.Node {
	var out []*model.Node

	for _, c := range s.tree.Children(v, id) {
		switch {
		case c.Kind.IsElementBearing():
			out = append(out, c)
		case c.Kind != model.KindAttribute:
			out = append(out, s.contentItems(v, c.ID)...)
		}
	}

	return out
}

// ownedAttributes returns the attributes of id in v, including those
// promoted from nested content groups.
func (s *Synthesizer) ownedAttributes(v model.Version, id model.NodeID) []*model.Node {
	var out []*model.Node

	for _, c := range s.tree.Children(v, id) {
		switch c.Kind {
		case model.KindAttribute:
			out = append(out, c)
		case model.KindContentGroup:
			out = append(out, s.ownedAttributes(v, c.ID)...)
		}
	}

	return out
}

func helperCall(name string, exclude []string) *ir.Call {
	call := &ir.Call{Name: name}
	if len(exclude) > 0 {
		call.Params = []ir.WithParam{{Name: helpers.ExcludeParam, Select: sequence(exclude)}}
	}

	return call
}

// sequence renders names as a string sequence literal.
func sequence(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	return "(" + strings.Join(quoted, ", ") + ")"
}

// passGroup forwards the caller's group selection.
func passGroup() []ir.WithParam {
	return []ir.WithParam{
		{Name: xpath.GroupVar, Select: "$" + xpath.GroupVar},
		{Name: xpath.AttributesVar, Select: "$" + xpath.AttributesVar},
	}
}

func selectOrEmpty(a xpath.Alternatives) string {
	if a.IsEmpty() {
		return "()"
	}

	return a.String()
}
