package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InsertPosition is a position relative to an element, used by InsertHTML.
type InsertPosition string

const (
	// BeforeBegin inserts before the element itself.
	BeforeBegin InsertPosition = "beforebegin"

	// AfterBegin inserts inside the element, before its first child.
	AfterBegin InsertPosition = "afterbegin"

	// BeforeEnd inserts inside the element, after its last child.
	BeforeEnd InsertPosition = "beforeend"

	// AfterEnd inserts after the element itself.
	AfterEnd InsertPosition = "afterend"
)

// Find returns the first element of doc matching the CSS selector, or nil.
func Find(doc *Document, selector string) (*Element, error) {
	list, err := FindAll(doc, selector)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	return list[0], nil
}

// FindAll returns all the elements of doc matching the CSS selector.
func FindAll(doc *Document, selector string) (NodeList, error) {
	doc.mu.RLock()
	defer doc.mu.RUnlock()

	nodes, err := query(doc.root, selector)
	if err != nil {
		return nil, err
	}

	return doc.wrapAll(nodes), nil
}

// FindChild returns the first descendant of el matching the CSS selector, or
// nil.
func FindChild(el *Element, selector string) (*Element, error) {
	list, err := FindChildren(el, selector)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	return list[0], nil
}

// FindChildren returns all the descendants of el matching the CSS selector.
// The selector is matched against the whole tree of el, so its ancestors can
// take part in the match.
func FindChildren(el *Element, selector string) (NodeList, error) {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	top := el.node
	for top.Parent != nil {
		top = top.Parent
	}

	nodes, err := query(top, selector)
	if err != nil {
		return nil, err
	}

	inside := nodes[:0]
	for _, n := range nodes {
		if n != el.node && el.contains(n) {
			inside = append(inside, n)
		}
	}

	return el.doc.wrapAll(inside), nil
}

// GetParent returns the parent element of el, or nil when el is detached or
// is the document element.
func GetParent(el *Element) *Element {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return el.doc.wrap(el.node.Parent)
}

// GetPrevious returns the previous sibling element of el, or nil.
func GetPrevious(el *Element) *Element {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	for n := el.node.PrevSibling; n != nil; n = n.PrevSibling {
		if n.Type == html.ElementNode {
			return el.doc.wrap(n)
		}
	}

	return nil
}

// GetNext returns the next sibling element of el, or nil.
func GetNext(el *Element) *Element {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	for n := el.node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return el.doc.wrap(n)
		}
	}

	return nil
}

// Create returns a new detached element of doc named tagName.
func Create(doc *Document, tagName string) *Element {
	name := strings.ToLower(tagName)

	return doc.wrap(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(name)),
		Data:     name,
	})
}

// Clone returns a detached copy of el. The copy includes the descendants of
// el unless deep is given and false. Listeners are not copied.
func Clone(el *Element, deep ...bool) *Element {
	withChildren := len(deep) == 0 || deep[0]

	el.doc.mu.RLock()
	n := cloneNode(el.node, withChildren)
	el.doc.mu.RUnlock()

	return el.doc.wrap(n)
}

// Append inserts children after the last child of parent, in order. Children
// already in a tree are moved.
func Append(parent *Element, children ...*Element) error {
	parent.doc.mu.Lock()
	defer parent.doc.mu.Unlock()

	for _, child := range children {
		if child.contains(parent.node) {
			return fmt.Errorf("%w: cannot append <%s> into itself", ErrHierarchy, child.node.Data)
		}
	}

	for _, child := range children {
		if child.node.Parent != nil {
			child.node.Parent.RemoveChild(child.node)
		}
		parent.node.AppendChild(child.node)
	}

	return nil
}

// AppendText inserts a text node for each of texts after the last child of
// parent.
func AppendText(parent *Element, texts ...string) {
	parent.doc.mu.Lock()
	defer parent.doc.mu.Unlock()

	for _, text := range texts {
		parent.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InsertHTML parses text as HTML and inserts the resulting nodes at position
// relative to el.
func InsertHTML(el *Element, position InsertPosition, text string) error {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	pos := InsertPosition(strings.ToLower(string(position)))

	context := el.node
	switch pos {
	case BeforeBegin, AfterEnd:
		context = el.node.Parent
		if context == nil || context.Type != html.ElementNode {
			return fmt.Errorf("%w: <%s> has no parent element", ErrNotFound, el.node.Data)
		}
	case AfterBegin, BeforeEnd:
	default:
		return fmt.Errorf("%w: invalid position %q", ErrSyntax, position)
	}

	nodes, err := html.ParseFragment(strings.NewReader(text), context)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var ref *html.Node
	switch pos {
	case BeforeBegin:
		ref = el.node
	case AfterEnd:
		ref = el.node.NextSibling
	case AfterBegin:
		ref = el.node.FirstChild
	}

	for _, n := range nodes {
		context.InsertBefore(n, ref)
	}

	return nil
}

// Remove detaches el from its parent.
func Remove(el *Element) {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	if el.node.Parent != nil {
		el.node.Parent.RemoveChild(el.node)
		el.doc.release(el.node)
	}
}

// RemoveChild detaches child from parent and returns it.
func RemoveChild(parent, child *Element) (*Element, error) {
	parent.doc.mu.Lock()
	defer parent.doc.mu.Unlock()

	if child.node.Parent != parent.node {
		return nil, fmt.Errorf("%w: <%s> is not a child of <%s>",
			ErrNotFound, child.node.Data, parent.node.Data)
	}

	parent.node.RemoveChild(child.node)
	parent.doc.release(child.node)

	return child, nil
}

func cloneNode(n *html.Node, deep bool) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]html.Attribute, len(n.Attr)),
	}
	copy(c.Attr, n.Attr)

	if deep {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			c.AppendChild(cloneNode(child, true))
		}
	}

	return c
}
