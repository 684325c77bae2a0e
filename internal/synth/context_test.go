package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/classify"
	"schema-evolver/internal/ir"
	"schema-evolver/internal/model"
)

func contextFixture(t *testing.T) *fixture {
	t.Helper()

	f := newFixture(t).
		node("person", model.KindElementClass, "", "person", model.One, model.One).
		node("name", model.KindContentGroup, "person", "", model.One, model.One).
		node("first", model.KindElementClass, "name", "first", model.One, model.One).
		node("age", model.KindElementClass, "person", "age", m(0, 1), m(0, 1)).
		node("lang", model.KindAttribute, "name", "lang", m(0, 1), m(0, 1))

	f.entry("name", classify.Entry{Category: classify.MustRegenerate, GroupState: classify.Moved})

	return f
}

func TestContext_CopyWithOverride(t *testing.T) {
	f := contextFixture(t)
	s := f.synthesizer()

	var b1, b2 ir.Block

	base := Context{s: s, position: "person", cursor: &b1, focus: NodeFocus{ID: "person"}}
	derived := base.WithPosition("first").WithFocus(NodeFocus{ID: "age"}).WithCursor(&b2).WithFlags(FlagForceCallable).WithGroup("name")

	assert.Equal(t, model.NodeID("person"), base.Position())
	assert.Same(t, &b1, base.Cursor())
	assert.False(t, base.ForceCallable())
	assert.False(t, base.InGroup())

	assert.Equal(t, model.NodeID("first"), derived.Position())
	assert.Equal(t, NodeFocus{ID: "person"}, base.Focus())
	assert.Equal(t, model.NodeID("age"), derived.Focus().FocusNode())
	assert.Same(t, &b2, derived.Cursor())
	assert.True(t, derived.ForceCallable())
	assert.True(t, derived.InGroup())

	cp := derived.CreateCopy().WithFlags(FlagForceGroupAware)
	assert.False(t, derived.Flags().Has(FlagForceGroupAware))
	assert.True(t, cp.Flags().Has(FlagForceCallable|FlagForceGroupAware))
}

func TestContext_ActiveGroup(t *testing.T) {
	s := contextFixture(t).synthesizer()

	ctx := Context{s: s, position: "person"}
	_, ok := ctx.ActiveGroup()
	assert.False(t, ok)

	g, ok := ctx.WithFlags(FlagForceGroupAware).ActiveGroup()
	assert.True(t, ok)
	assert.Equal(t, model.NodeID("person"), g)

	g, ok = ctx.WithFlags(FlagForceGroupAware).WithGroup("name").ActiveGroup()
	assert.True(t, ok)
	assert.Equal(t, model.NodeID("name"), g)
}

func TestContext_NodeToProcessedPath(t *testing.T) {
	s := contextFixture(t).synthesizer()

	ctx := Context{s: s, position: "name"}

	p, err := ctx.NodeToProcessedPath("first")
	require.NoError(t, err)
	assert.Equal(t, "/person/first", p.String())

	inGroup := ctx.WithGroup("name")

	p, err = inGroup.ProcessedPath()
	require.NoError(t, err)
	assert.Equal(t, "/person/$cg", p.String())

	p, err = inGroup.NodeToProcessedPath("first")
	require.NoError(t, err)
	assert.Equal(t, "/person/$cg/first", p.String())

	_, err = Context{s: s, position: "first"}.WithGroup("first").NodeToProcessedPath("age")
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestContext_Project(t *testing.T) {
	s := contextFixture(t).synthesizer()

	inGroup := Context{s: s, position: "name"}.WithGroup("name")

	p, err := inGroup.Project("first")
	require.NoError(t, err)
	assert.Equal(t, "$cg/self::first", p.String())

	p, err = inGroup.Project("lang")
	require.NoError(t, err)
	assert.Equal(t, "$attributes/self::attribute(lang)", p.String())

	p, err = Context{s: s, position: "person"}.Project("first")
	require.NoError(t, err)
	assert.Equal(t, "first", p.String())
}

func TestContext_FocusState(t *testing.T) {
	s := contextFixture(t).synthesizer()
	ctx := Context{s: s, position: "person"}

	assert.Equal(t, classify.AsItWas, ctx.FocusState())
	assert.Equal(t, classify.Moved, ctx.WithFocus(GroupFocus{ID: "name"}).FocusState())
	assert.Equal(t, classify.AsItWas, ctx.WithFocus(NodeFocus{ID: "name"}).FocusState())
	assert.Equal(t, model.NodeID("lang"), AttributeFocus{ID: "lang"}.FocusNode())
}
