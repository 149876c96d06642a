package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	doc := mustParse(t, `<div id="x">Hello <b>big</b> world</div>`)
	el := mustFind(t, doc, "#x")

	assert.Equal(t, "Hello big world", GetText(el))

	for _, text := range []string{"plain", "<b>not markup</b>", ""} {
		SetText(el, text)
		assert.Equal(t, text, GetText(el))
	}

	SetText(el, "a < b")
	assert.Equal(t, "a &lt; b", GetHTML(el))
}

func TestHTML(t *testing.T) {
	doc := mustParse(t, `<ul id="x"><li>one</li></ul>`)
	el := mustFind(t, doc, "#x")

	assert.Equal(t, "<li>one</li>", GetHTML(el))
	assert.Equal(t, `<ul id="x"><li>one</li></ul>`, GetOuterHTML(el))

	require.NoError(t, SetHTML(el, "<li>a</li><li>b</li>"))
	assert.Equal(t, "<li>a</li><li>b</li>", GetHTML(el))

	items, err := FindChildren(el, "li")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, SetHTML(el, ""))
	assert.Empty(t, GetHTML(el))
}

func TestValue(t *testing.T) {
	doc := mustParse(t, `<form>
<input id="text" value="a">
<input id="empty">
<input id="box" type="checkbox">
<textarea id="area">some text</textarea>
<select id="sel">
  <option value="1">One</option>
  <optgroup><option selected>Two</option></optgroup>
</select>
<select id="nosel"><option value="x">X</option><option value="y">Y</option></select>
</form>`)

	tests := []struct {
		selector string
		want     string
	}{
		{selector: "#text", want: "a"},
		{selector: "#empty", want: ""},
		{selector: "#box", want: "on"},
		{selector: "#area", want: "some text"},
		{selector: "#sel", want: "Two"},
		{selector: "#nosel", want: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, GetValue(mustFind(t, doc, tt.selector)))
		})
	}
}

func TestSetValue(t *testing.T) {
	doc := mustParse(t, `<form>
<input id="text" value="a">
<textarea id="area">old</textarea>
<select id="sel"><option value="1" selected>One</option><option value="2">Two</option></select>
</form>`)

	tests := []struct {
		selector string
		value    string
	}{
		{selector: "#text", value: "b"},
		{selector: "#area", value: "new text"},
		{selector: "#sel", value: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			el := mustFind(t, doc, tt.selector)

			SetValue(el, tt.value)

			assert.Equal(t, tt.value, GetValue(el))
		})
	}

	selected, err := FindAll(doc, "#sel option[selected]")
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "2", GetValue(selected[0]))
}

func TestIsChecked(t *testing.T) {
	doc := mustParse(t, `<input id="on" type="checkbox" checked><input id="off" type="checkbox">`)

	assert.True(t, IsChecked(mustFind(t, doc, "#on")))
	assert.False(t, IsChecked(mustFind(t, doc, "#off")))
}
