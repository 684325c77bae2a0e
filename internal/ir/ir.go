package ir

// Program is a complete transformation program.
type Program struct {
	// Version is the declared program-language version.
	Version string
	Output  Output
	// Imports are hrefs of imported helper libraries, in order.
	Imports   []string
	Templates []*Template
}

// Output declares the serialization of the transformation result.
type Output struct {
	Method string
	Indent bool
}

// TemplateKind records why a template was synthesized.
type TemplateKind int

const (
	// TemplateApplied templates dispatch by match pattern.
	TemplateApplied TemplateKind = iota
	// TemplateNamed templates are invoked explicitly by name.
	TemplateNamed
	// TemplateBoundary covers the copy-through, unchanged and catch-all templates.
	TemplateBoundary
)

// Template is one subroutine of the program. Exactly one of Name or Match is
// set, except that applied templates may carry both.
type Template struct {
	Kind     TemplateKind
	Name     string
	Match    string
	Priority string
	// Comment documents the source node of the template.
	Comment string
	Params  []Param
	Body    Block
}

// Param is a template parameter with an optional default selection.
type Param struct {
	Name   string
	Select string
}

// WithParam passes a selection to a template parameter.
type WithParam struct {
	Name   string
	Select string
}

// Block is an ordered sequence of operations. A *Block is the output cursor
// the synthesizer appends to.
type Block struct {
	Ops []Op
}

// Add appends ops to the block.
func (b *Block) Add(ops ...Op) {
	b.Ops = append(b.Ops, ops...)
}

// Len returns the number of operations.
func (b *Block) Len() int {
	return len(b.Ops)
}

// OpKind identifies an operation type.
type OpKind int

const (
	OpElement OpKind = iota
	OpAttribute
	OpCall
	OpApply
	OpCopyOf
	OpCopy
	OpLoop
	OpChoose
	OpIf
	OpMessage
	OpComment
)

// Op is one operation of a template body.
type Op interface {
	Kind() OpKind
}

// Element constructs a new element.
type Element struct {
	Name string
	Body Block
}

// Attribute constructs an attribute from a selection or a literal value.
type Attribute struct {
	Name   string
	Select string
	Value  string
}

// Call invokes a named template.
type Call struct {
	Name   string
	Params []WithParam
}

// Apply dispatches the selected nodes to matching templates.
type Apply struct {
	Select string
	Params []WithParam
}

// CopyOf deep-copies the selected nodes.
type CopyOf struct {
	Select string
}

// Copy shallow-copies the context node and runs Body inside it.
type Copy struct {
	Body Block
}

// Loop runs Body Count times; Count is an expression and non-positive
// values run nothing.
type Loop struct {
	Count string
	Body  Block
}

// Branch is one alternative of a Choose.
type Branch struct {
	Test string
	Body Block
}

// Choose runs the first branch whose test holds, else Otherwise if present.
type Choose struct {
	Branches  []Branch
	Otherwise *Block
}

// If runs Body when Test holds.
type If struct {
	Test string
	Body Block
}

// Message reports a diagnostic while the program runs.
type Message struct {
	Text      string
	Select    string
	Terminate bool
}

// Comment is emitted verbatim as a comment.
type Comment struct {
	Text string
}

func (*Element) Kind() OpKind   { return OpElement }
func (*Attribute) Kind() OpKind { return OpAttribute }
func (*Call) Kind() OpKind      { return OpCall }
func (*Apply) Kind() OpKind     { return OpApply }
func (*CopyOf) Kind() OpKind    { return OpCopyOf }
func (*Copy) Kind() OpKind      { return OpCopy }
func (*Loop) Kind() OpKind      { return OpLoop }
func (*Choose) Kind() OpKind    { return OpChoose }
func (*If) Kind() OpKind        { return OpIf }
func (*Message) Kind() OpKind   { return OpMessage }
func (*Comment) Kind() OpKind   { return OpComment }

// Template returns the template with the given name.
func (p *Program) Template(name string) (*Template, bool) {
	for _, t := range p.Templates {
		if t.Name == name {
			return t, true
		}
	}

	return nil, false
}

// Walk visits every operation of b depth-first. Returning false from fn
// skips the operation's nested blocks.
func Walk(b *Block, fn func(Op) bool) {
	for _, op := range b.Ops {
		if !fn(op) {
			continue
		}

		for _, nested := range Children(op) {
			Walk(nested, fn)
		}
	}
}

// Children returns the nested blocks of op.
func Children(op Op) []*Block {
	switch o := op.(type) {
	case *Element:
		return []*Block{&o.Body}
	case *Copy:
		return []*Block{&o.Body}
	case *Loop:
		return []*Block{&o.Body}
	case *If:
		return []*Block{&o.Body}
	case *Choose:
		out := make([]*Block, 0, len(o.Branches)+1)
		for i := range o.Branches {
			out = append(out, &o.Branches[i].Body)
		}

		if o.Otherwise != nil {
			out = append(out, o.Otherwise)
		}

		return out
	default:
		return nil
	}
}

// Find returns every operation of b for which match holds.
func Find(b *Block, match func(Op) bool) []Op {
	var out []Op

	Walk(b, func(op Op) bool {
		if match(op) {
			out = append(out, op)
		}

		return true
	})

	return out
}
