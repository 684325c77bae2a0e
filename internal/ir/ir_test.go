package ir

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgram() *Program {
	loop := &Loop{Count: "2 - count(item)"}
	loop.Body.Add(&Call{Name: "order-item-FC"})

	el := &Element{Name: "order"}
	el.Body.Add(
		&Call{Name: "copy-attributes"},
		&Apply{Select: "item"},
		loop,
		&Choose{
			Branches:  []Branch{{Test: "a", Body: Block{Ops: []Op{&Apply{Select: "a"}}}}},
			Otherwise: &Block{Ops: []Op{&Comment{Text: "none"}}},
		},
	)

	return &Program{
		Version: "2.0",
		Imports: []string{"helpers.xsl"},
		Templates: []*Template{
			{Kind: TemplateApplied, Match: "/order", Body: Block{Ops: []Op{el}}},
			{Kind: TemplateNamed, Name: "order-item-FC", Body: Block{Ops: []Op{&Element{Name: "item"}}}},
		},
	}
}

func TestWalkAndFind(t *testing.T) {
	p := sampleProgram()

	calls := Find(&p.Templates[0].Body, func(op Op) bool { return op.Kind() == OpCall })
	require.Len(t, calls, 2)

	want := []Op{&Call{Name: "copy-attributes"}, &Call{Name: "order-item-FC"}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	var kinds []OpKind
	Walk(&p.Templates[0].Body, func(op Op) bool {
		kinds = append(kinds, op.Kind())
		return op.Kind() != OpLoop
	})

	assert.Equal(t, []OpKind{OpElement, OpCall, OpApply, OpLoop, OpChoose, OpApply, OpComment}, kinds)
}

func TestProgram_Template(t *testing.T) {
	p := sampleProgram()

	tpl, ok := p.Template("order-item-FC")
	require.True(t, ok)
	assert.Equal(t, TemplateNamed, tpl.Kind)

	_, ok = p.Template("missing")
	assert.False(t, ok)
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, sampleProgram()))

	out := buf.String()
	assert.Contains(t, out, "program version=2.0 imports=1")
	assert.Contains(t, out, "template match=/order")
	assert.Contains(t, out, "loop 2 - count(item)")
	assert.Contains(t, out, "(b0) when a")
	assert.Contains(t, out, "otherwise")
	assert.Contains(t, out, "call order-item-FC")
}
