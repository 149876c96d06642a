package dom

import (
	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document. Each node has a
// single Element, so handles can be compared with ==. A nil *Element stands
// for "no element".
type Element struct {
	node *html.Node
	doc  *Document

	// Guarded by doc.mu.
	scrollLeft float64
	scrollTop  float64

	listeners listenerSet
}

// NodeList is a list of elements in document order.
type NodeList []*Element

// Node returns the underlying node. It must not be modified while other
// goroutines use the document.
func (el *Element) Node() *html.Node {
	return el.node
}

// Document returns the document owning the element.
func (el *Element) Document() *Document {
	return el.doc
}

// Tag returns the lower-case tag name of the element.
func (el *Element) Tag() string {
	return el.node.Data
}

// String returns the outer HTML of the element.
func (el *Element) String() string {
	return GetOuterHTML(el)
}

func (el *Element) attr(name string) (string, bool) {
	for _, a := range el.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}

	return "", false
}

func (el *Element) setAttr(name, val string) {
	for i, a := range el.node.Attr {
		if a.Namespace == "" && a.Key == name {
			el.node.Attr[i].Val = val

			return
		}
	}

	el.node.Attr = append(el.node.Attr, html.Attribute{Key: name, Val: val})
}

func (el *Element) removeAttr(name string) {
	for i, a := range el.node.Attr {
		if a.Namespace == "" && a.Key == name {
			el.node.Attr = append(el.node.Attr[:i], el.node.Attr[i+1:]...)

			return
		}
	}
}

// contains reports whether n is el or one of its descendants.
func (el *Element) contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == el.node {
			return true
		}
	}

	return false
}

// stateful reports whether el carries listeners or scroll offsets. The caller
// must hold the document lock.
func (el *Element) stateful() bool {
	return el.scrollLeft != 0 || el.scrollTop != 0 || !el.listeners.empty()
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
