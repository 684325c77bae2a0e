package ir

import (
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
)

// Dump writes the program as an indented tree.
func Dump(w io.Writer, p *Program) error {
	root := gtree.NewRoot(fmt.Sprintf("program version=%s imports=%d", p.Version, len(p.Imports)))

	for i, t := range p.Templates {
		node := root.Add(fmt.Sprintf("[%d] %s", i, describeTemplate(t)))
		for j, param := range t.Params {
			node.Add(fmt.Sprintf("(p%d) param %s=%q", j, param.Name, param.Select))
		}

		dumpBlock(node, &t.Body)
	}

	return gtree.OutputFromRoot(w, root)
}

func dumpBlock(parent *gtree.Node, b *Block) {
	for i, op := range b.Ops {
		node := parent.Add(fmt.Sprintf("[%d] %s", i, Describe(op)))

		switch o := op.(type) {
		case *Choose:
			for j := range o.Branches {
				branch := node.Add(fmt.Sprintf("(b%d) when %s", j, o.Branches[j].Test))
				dumpBlock(branch, &o.Branches[j].Body)
			}

			if o.Otherwise != nil {
				dumpBlock(node.Add("otherwise"), o.Otherwise)
			}
		default:
			for _, nested := range Children(op) {
				dumpBlock(node, nested)
			}
		}
	}
}

func describeTemplate(t *Template) string {
	switch {
	case t.Name != "" && t.Match != "":
		return fmt.Sprintf("template name=%s match=%s", t.Name, t.Match)
	case t.Name != "":
		return "template name=" + t.Name
	default:
		return "template match=" + t.Match
	}
}

// Describe returns a one-line summary of op.
func Describe(op Op) string {
	switch o := op.(type) {
	case *Element:
		return "element " + o.Name
	case *Attribute:
		if o.Select != "" {
			return fmt.Sprintf("attribute %s select=%s", o.Name, o.Select)
		}

		return fmt.Sprintf("attribute %s value=%q", o.Name, o.Value)
	case *Call:
		return "call " + o.Name + describeParams(o.Params)
	case *Apply:
		return "apply " + o.Select + describeParams(o.Params)
	case *CopyOf:
		return "copy-of " + o.Select
	case *Copy:
		return "copy"
	case *Loop:
		return "loop " + o.Count
	case *Choose:
		return "choose"
	case *If:
		return "if " + o.Test
	case *Message:
		return fmt.Sprintf("message %q", o.Text)
	case *Comment:
		return "comment " + o.Text
	default:
		return fmt.Sprintf("op(%d)", op.Kind())
	}
}

func describeParams(params []WithParam) string {
	s := ""
	for _, p := range params {
		s += fmt.Sprintf(" %s=%s", p.Name, p.Select)
	}

	return s
}
