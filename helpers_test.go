package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, markup string, opts ...Option) *Document {
	t.Helper()

	doc, err := Parse(strings.NewReader(markup), opts...)
	require.NoError(t, err)

	return doc
}

func mustFind(t *testing.T, doc *Document, selector string) *Element {
	t.Helper()

	el, err := Find(doc, selector)
	require.NoError(t, err)
	require.NotNil(t, el, "no element matches %q", selector)

	return el
}

// ids returns the id attributes of list, in order.
func ids(list NodeList) []string {
	out := make([]string, 0, len(list))
	for _, el := range list {
		id, _ := GetAttribute(el, "id")
		out = append(out, id)
	}

	return out
}
