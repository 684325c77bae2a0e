package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-evolver/internal/model"
	"schema-evolver/internal/xpath"
)

func registryTree(t *testing.T) *model.Tree {
	t.Helper()

	f := newFixture(t).
		node("order", model.KindElementClass, "", "order", model.One, model.One).
		node("item", model.KindElementClass, "order", "item", m(1, 3), m(2, 5)).
		node("g1", model.KindContentGroup, "order", "", model.One, model.One).
		node("g2", model.KindContentGroup, "order", "", model.One, model.One).
		added("note", model.KindElementClass, "item", "note", model.One)

	return f.tree
}

func TestRegistry_GetOrCreateName(t *testing.T) {
	tree := registryTree(t)
	r := NewRegistry(tree, xpath.NewProjector(tree))

	first := r.GetOrCreateName("item", VariantForceCallable)
	assert.Equal(t, "order-item-FC", first)
	assert.Equal(t, first, r.GetOrCreateName("item", VariantForceCallable))

	assert.Equal(t, "order-item", r.GetOrCreateName("item", 0))
	assert.Equal(t, "order-item-note", r.GetOrCreateName("note", 0))
	assert.Equal(t, "order-CG-FC", r.GetOrCreateName("g1", VariantContentGroup|VariantForceCallable))
	assert.True(t, r.Exists(TemplateKey{Node: "item", Variant: VariantForceCallable}))
	assert.False(t, r.Exists(TemplateKey{Node: "order"}))
}

func TestRegistry_Collisions(t *testing.T) {
	tree := registryTree(t)
	r := NewRegistry(tree, xpath.NewProjector(tree))

	assert.Equal(t, "order-CG", r.GetOrCreateName("g1", VariantContentGroup))
	assert.Equal(t, "order-CG-2", r.GetOrCreateName("g2", VariantContentGroup))
	assert.Equal(t, "order-CG", r.GetOrCreateName("g1", VariantContentGroup))
}

func TestRegistry_Register(t *testing.T) {
	tree := registryTree(t)
	r := NewRegistry(tree, xpath.NewProjector(tree))

	name := r.GetOrCreateName("note", VariantForceCallable)
	key := TemplateKey{Node: "note"}

	require.NoError(t, r.Register(key, name))
	require.NoError(t, r.Register(key, name))
	assert.Equal(t, name, r.GetOrCreateName("note", 0))
	assert.True(t, r.aliased(key))

	err := r.Register(key, "other")
	assert.ErrorIs(t, err, ErrInvariant)

	err = r.Register(TemplateKey{Node: "item"}, "never-minted")
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestRegistry_Progress(t *testing.T) {
	tree := registryTree(t)
	r := NewRegistry(tree, xpath.NewProjector(tree))
	key := TemplateKey{Node: "item"}

	assert.True(t, r.markQueued(key))
	assert.False(t, r.markQueued(key))

	assert.True(t, r.begin(key))
	assert.True(t, r.inProgress(key))
	assert.False(t, r.begin(key))

	r.complete(key)
	assert.True(t, r.Done(key))
	assert.False(t, r.inProgress(key))
	assert.False(t, r.begin(key))
	assert.False(t, r.markQueued(key))

	r.Reset()
	assert.False(t, r.Done(key))
	assert.Empty(t, r.Keys())
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"/order/item":        "order-item",
		"/order/item/@id":    "order-item-id",
		"/a//b/":             "a-b",
		"$cg/self::x":        "cg-self-x",
		"":                   "",
		"/ns:order/ns:item ": "ns-order-ns-item",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizeName(in), in)
	}
}

func TestVariant(t *testing.T) {
	v := VariantContentGroup.With(VariantForceCallable)
	assert.True(t, v.Has(VariantContentGroup))
	assert.False(t, v.Has(VariantUnion))
	assert.Equal(t, "CG-FC", v.suffix())
	assert.Equal(t, "item/ATTS-FC", TemplateKey{Node: "item", Variant: VariantRepresentedAttributes | VariantForceCallable}.String())
}

func TestFlags(t *testing.T) {
	var fl Flags
	assert.Equal(t, "none", fl.String())

	fl = fl.With(FlagForceGroupAware)
	assert.True(t, fl.Has(FlagForceGroupAware))
	assert.False(t, fl.Has(FlagForceCallable))
	assert.Equal(t, "force-callable|force-group-aware", fl.With(FlagForceCallable).String())
}
