package synth

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
)

// fixture builds a versioned tree and its classification for one test.
type fixture struct {
	t     *testing.T
	tree  *model.Tree
	table *classify.Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tree := model.NewTree()

	return &fixture{t: t, tree: tree, table: classify.NewTable(tree)}
}

func m(lower, upper int) model.Multiplicity {
	return model.Multiplicity{Lower: lower, Upper: upper}
}

func (f *fixture) put(v model.Version, id model.NodeID, kind model.Kind, s model.Snapshot) *fixture {
	f.t.Helper()
	require.NoError(f.t, f.tree.Put(id, kind, v, s))

	return f
}

// node declares id in both versions under the same parent and label.
func (f *fixture) node(id model.NodeID, kind model.Kind, parent model.NodeID, label string, old, cur model.Multiplicity) *fixture {
	f.t.Helper()
	f.put(model.Old, id, kind, model.Snapshot{Parent: parent, Label: label, Multiplicity: old})

	return f.put(model.New, id, kind, model.Snapshot{Parent: parent, Label: label, Multiplicity: cur})
}

// added declares id in the new version only.
func (f *fixture) added(id model.NodeID, kind model.Kind, parent model.NodeID, label string, cur model.Multiplicity) *fixture {
	f.t.Helper()

	return f.put(model.New, id, kind, model.Snapshot{Parent: parent, Label: label, Multiplicity: cur})
}

func (f *fixture) classify(c classify.Category, ids ...model.NodeID) *fixture {
	f.t.Helper()

	for _, id := range ids {
		require.NoError(f.t, f.table.Set(id, classify.Entry{Category: c}))
	}

	return f
}

func (f *fixture) entry(id model.NodeID, e classify.Entry) *fixture {
	f.t.Helper()
	require.NoError(f.t, f.table.Set(id, e))

	return f
}

func (f *fixture) synthesizer() *Synthesizer {
	return New(f.tree, f.table, DefaultConfig())
}

func (f *fixture) run() *Result {
	f.t.Helper()

	res, err := f.synthesizer().Run()
	require.NoError(f.t, err)

	return res
}

func template(t *testing.T, p *ir.Program, name string) *ir.Template {
	t.Helper()

	tpl, ok := p.Template(name)
	require.True(t, ok, "template %q not emitted, have:\n%s", name, spew.Sdump(templateNames(p)))

	return tpl
}

func templateNames(p *ir.Program) []string {
	var out []string

	for _, tpl := range p.Templates {
		if tpl.Name != "" {
			out = append(out, tpl.Name)
		}
	}

	return out
}

func boundary(t *testing.T, p *ir.Program, comment string) *ir.Template {
	t.Helper()

	for _, tpl := range p.Templates {
		if tpl.Kind == ir.TemplateBoundary && tpl.Comment == comment {
			return tpl
		}
	}

	require.Failf(t, "missing boundary template", "%q in\n%s", comment, spew.Sdump(p.Templates))

	return nil
}

func calls(b *ir.Block, name string) int {
	return len(ir.Find(b, func(op ir.Op) bool {
		c, ok := op.(*ir.Call)
		return ok && c.Name == name
	}))
}

func ops(ops ...ir.Op) ir.Block {
	return ir.Block{Ops: ops}
}
