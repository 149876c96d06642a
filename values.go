package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GetText returns the text content of el and its descendants.
func GetText(el *Element) string {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return htmlquery.InnerText(el.node)
}

// SetText replaces the children of el with a single text node.
func SetText(el *Element, text string) {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	setText(el.node, text)
}

// GetHTML returns the serialized children of el.
func GetHTML(el *Element) string {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return htmlquery.OutputHTML(el.node, false)
}

// GetOuterHTML returns el serialized along with its children.
func GetOuterHTML(el *Element) string {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return htmlquery.OutputHTML(el.node, true)
}

// SetHTML parses markup in the context of el and replaces the children of el
// with the result.
func SetHTML(el *Element, markup string) error {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	nodes, err := html.ParseFragment(strings.NewReader(markup), el.node)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	removeChildren(el.node)
	for _, n := range nodes {
		el.node.AppendChild(n)
	}

	return nil
}

// GetValue returns the value of a form control: the value attribute of an
// input, the text of a textarea, or the value of the selected option of a
// select.
func GetValue(el *Element) string {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	switch el.node.DataAtom {
	case atom.Textarea:
		return htmlquery.InnerText(el.node)
	case atom.Select:
		if opt := selectedOption(el.node); opt != nil {
			return optionValue(opt)
		}

		return ""
	case atom.Option:
		return optionValue(el.node)
	}

	v, ok := el.attr("value")
	if !ok && el.node.DataAtom == atom.Input && isToggle(el) {
		return "on"
	}

	return v
}

// SetValue sets the value of a form control. On a select, the first option
// with the value val becomes the only selected one.
func SetValue(el *Element, val string) {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	switch el.node.DataAtom {
	case atom.Textarea:
		setText(el.node, val)
	case atom.Select:
		found := false
		for _, opt := range options(el.node) {
			o := el.doc.wrap(opt)
			if !found && optionValue(opt) == val {
				o.setAttr("selected", "")
				found = true
			} else {
				o.removeAttr("selected")
			}
		}
	default:
		el.setAttr("value", val)
	}
}

// IsChecked reports whether a checkbox or radio button el is checked.
func IsChecked(el *Element) bool {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	_, ok := el.attr("checked")

	return ok
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// isToggle reports whether el is a checkbox or radio input. The caller must
// hold the lock.
func isToggle(el *Element) bool {
	if el.node.DataAtom != atom.Input {
		return false
	}

	typ, _ := el.attr("type")
	typ = strings.ToLower(typ)

	return typ == "checkbox" || typ == "radio"
}

func options(sel *html.Node) []*html.Node {
	var opts []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Option {
				opts = append(opts, c)
			} else if c.DataAtom == atom.Optgroup {
				walk(c)
			}
		}
	}
	walk(sel)

	return opts
}

func selectedOption(sel *html.Node) *html.Node {
	opts := options(sel)
	for _, opt := range opts {
		for _, a := range opt.Attr {
			if a.Key == "selected" {
				return opt
			}
		}
	}

	if len(opts) > 0 {
		return opts[0]
	}

	return nil
}

func optionValue(opt *html.Node) string {
	for _, a := range opt.Attr {
		if a.Key == "value" {
			return a.Val
		}
	}

	return strings.TrimSpace(htmlquery.InnerText(opt))
}
