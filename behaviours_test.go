package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef(t *testing.T) {
	doc := mustParse(t, `<p id="a"></p><p id="b"></p>`)
	a := mustFind(t, doc, "#a")
	all, err := FindAll(doc, "p")
	require.NoError(t, err)

	tests := []struct {
		name         string
		ref          Ref
		wantExists   bool
		wantElement  *Element
		wantElements NodeList
	}{
		{name: "single", ref: Single(a), wantExists: true, wantElement: a, wantElements: NodeList{a}},
		{name: "nil single", ref: Single(nil), wantExists: false},
		{name: "zero ref", ref: Ref{}, wantExists: false},
		{name: "collection", ref: Collection(all), wantExists: true, wantElement: a, wantElements: all},
		{name: "empty collection", ref: Collection(NodeList{}), wantExists: false, wantElements: NodeList{}},
		{name: "nil collection", ref: Collection(nil), wantExists: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantExists, tt.ref.Exists())
			assert.Equal(t, tt.wantElement, tt.ref.Element())
			assert.Equal(t, tt.wantElements, tt.ref.Elements())
		})
	}
}

func TestCallFnWithElementsIfExist(t *testing.T) {
	doc := mustParse(t, `<form id="f"><input id="i"></form>`)
	form := mustFind(t, doc, "#f")
	input := mustFind(t, doc, "#i")
	inputs, err := FindAll(doc, "input")
	require.NoError(t, err)
	missing, err := Find(doc, "#missing")
	require.NoError(t, err)
	none, err := FindAll(doc, "select")
	require.NoError(t, err)

	tests := []struct {
		name     string
		required []Ref
		optional []Ref
		wantArgs int
	}{
		{
			name:     "all required exist",
			required: []Ref{Single(form), Collection(inputs)},
			wantArgs: 2,
		},
		{
			name:     "optional are passed along",
			required: []Ref{Single(form)},
			optional: []Ref{Single(missing), Collection(none)},
			wantArgs: 3,
		},
		{
			name:     "no required",
			optional: []Ref{Single(input)},
			wantArgs: 1,
		},
		{
			name:     "missing element",
			required: []Ref{Single(form), Single(missing)},
			wantArgs: -1,
		},
		{
			name:     "empty collection",
			required: []Ref{Collection(none), Single(form)},
			wantArgs: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := -1
			CallFnWithElementsIfExist(func(refs ...Ref) {
				got = len(refs)
				if len(tt.required) > 0 {
					assert.Equal(t, tt.required[0], refs[0])
				}
			}, tt.required, tt.optional...)

			assert.Equal(t, tt.wantArgs, got)
		})
	}
}

func TestCallFnWDomElsIfExist(t *testing.T) {
	doc := mustParse(t, `<p id="a"></p>`)
	a := mustFind(t, doc, "#a")

	var got []Ref
	CallFnWDomElsIfExist(func(refs ...Ref) { got = refs }, Single(a))
	require.Len(t, got, 1)
	assert.Same(t, a, got[0].Element())

	called := false
	CallFnWDomElsIfExist(func(...Ref) { called = true }, Single(a), Single(nil))
	assert.False(t, called)

	CallFnWDomElsIfExist(func(...Ref) { called = true })
	assert.True(t, called)
}
