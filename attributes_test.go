package dom

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasses(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		edit   func(el *Element)
		want   string
	}{
		{
			name:   "add to element without class",
			markup: `<div id="x"></div>`,
			edit:   func(el *Element) { AddClass(el, "on") },
			want:   `<div id="x" class="on"></div>`,
		},
		{
			name:   "add existing class",
			markup: `<div id="x" class="a on"></div>`,
			edit:   func(el *Element) { AddClass(el, "on") },
			want:   `<div id="x" class="a on"></div>`,
		},
		{
			name:   "remove every occurrence",
			markup: `<div id="x" class="on a on"></div>`,
			edit:   func(el *Element) { RemoveClass(el, "on") },
			want:   `<div id="x" class="a"></div>`,
		},
		{
			name:   "remove last class keeps the attribute",
			markup: `<div id="x" class="on"></div>`,
			edit:   func(el *Element) { RemoveClass(el, "on") },
			want:   `<div id="x" class=""></div>`,
		},
		{
			name:   "remove from element without class",
			markup: `<div id="x"></div>`,
			edit:   func(el *Element) { RemoveClass(el, "on") },
			want:   `<div id="x"></div>`,
		},
		{
			name:   "toggle on",
			markup: `<div id="x" class="a"></div>`,
			edit:   func(el *Element) { ToggleClass(el, "b") },
			want:   `<div id="x" class="a b"></div>`,
		},
		{
			name:   "toggle off",
			markup: `<div id="x" class="a b"></div>`,
			edit:   func(el *Element) { ToggleClass(el, "a") },
			want:   `<div id="x" class="b"></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.markup)
			el := mustFind(t, doc, "#x")

			tt.edit(el)

			assert.Equal(t, tt.want, GetOuterHTML(el))
		})
	}
}

func TestClasses_properties(t *testing.T) {
	doc := mustParse(t, `<div id="x" class="a"></div>`)
	el := mustFind(t, doc, "#x")

	require.NoError(t, AddClass(el, "c"))
	assert.True(t, HasClass(el, "c"))

	require.NoError(t, RemoveClass(el, "c"))
	assert.False(t, HasClass(el, "c"))
	assert.True(t, HasClass(el, "a"))

	before := HasClass(el, "d")
	require.NoError(t, ToggleClass(el, "d"))
	require.NoError(t, ToggleClass(el, "d"))
	assert.Equal(t, before, HasClass(el, "d"))
}

func TestClasses_invalidName(t *testing.T) {
	edits := map[string]func(el *Element, className string) error{
		"add":    AddClass,
		"remove": RemoveClass,
		"toggle": ToggleClass,
	}
	names := []string{"", "a b", " a", "a\t", "a\nb"}

	for op, edit := range edits {
		for _, name := range names {
			t.Run(op+" "+strconv.Quote(name), func(t *testing.T) {
				doc := mustParse(t, `<p id="x" class="a"></p>`)
				el := mustFind(t, doc, "#x")

				err := edit(el, name)

				assert.ErrorIs(t, err, ErrSyntax)
				assert.Equal(t, `<p id="x" class="a"></p>`, GetOuterHTML(el))
				assert.False(t, HasClass(el, name))
			})
		}
	}
}

func TestAttributes(t *testing.T) {
	doc := mustParse(t, `<a id="x" href="/home">home</a>`)
	el := mustFind(t, doc, "#x")

	v, ok := GetAttribute(el, "HREF")
	assert.True(t, ok)
	assert.Equal(t, "/home", v)

	assert.False(t, HasAttribute(el, "title"))
	v, ok = GetAttribute(el, "title")
	assert.False(t, ok)
	assert.Empty(t, v)

	SetAttribute(el, "title", "Home")
	assert.True(t, HasAttribute(el, "title"))
	v, _ = GetAttribute(el, "title")
	assert.Equal(t, "Home", v)

	SetAttribute(el, "title", "")
	v, ok = GetAttribute(el, "title")
	assert.True(t, ok)
	assert.Empty(t, v)

	RemoveAttribute(el, "Title")
	assert.False(t, HasAttribute(el, "title"))

	RemoveAttribute(el, "missing")
	assert.Equal(t, `<a id="x" href="/home">home</a>`, GetOuterHTML(el))
}
