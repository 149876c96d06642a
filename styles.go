package dom

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// inheritedProperties lists the properties whose value is taken from the
// parent when an element does not declare one.
var inheritedProperties = map[string]bool{
	"color":           true,
	"cursor":          true,
	"direction":       true,
	"font":            true,
	"font-family":     true,
	"font-size":       true,
	"font-style":      true,
	"font-variant":    true,
	"font-weight":     true,
	"letter-spacing":  true,
	"line-height":     true,
	"list-style":      true,
	"list-style-type": true,
	"text-align":      true,
	"text-indent":     true,
	"text-transform":  true,
	"visibility":      true,
	"white-space":     true,
	"word-spacing":    true,
}

var initialValues = map[string]string{
	"color":            "rgb(0, 0, 0)",
	"background-color": "rgba(0, 0, 0, 0)",
	"font-size":        "16px",
	"font-style":       "normal",
	"font-weight":      "400",
	"line-height":      "normal",
	"opacity":          "1",
	"position":         "static",
	"visibility":       "visible",
	"white-space":      "normal",
	"text-align":       "start",
	"width":            "auto",
	"height":           "auto",
	"top":              "auto",
	"right":            "auto",
	"bottom":           "auto",
	"left":             "auto",
	"overflow":         "visible",
	"z-index":          "auto",
	"cursor":           "auto",
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Html: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Ul: true,
}

var hiddenElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true,
	atom.Meta: true, atom.Link: true, atom.Template: true,
}

// GetStyle returns the computed value of the CSS property prop of el: its
// inline declaration, else the value inherited from its parent for inherited
// properties, else the initial value. Property names may be given in
// camelCase or kebab-case.
func GetStyle(el *Element, prop string) string {
	name := propertyName(prop)

	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return computedStyle(el.doc, el.node, name)
}

// SetStyle sets the inline declaration of the CSS property prop of el. An
// empty value removes the declaration.
//
// The error wraps ErrSyntax when prop is not a property name, or when val is
// not a single value, such as "red; display: none" or "red !important".
func SetStyle(el *Element, prop, val string) error {
	name := propertyName(prop)
	val = strings.TrimSpace(val)

	if err := checkDeclaration(name, val); err != nil {
		return err
	}

	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	decls := inlineStyle(el.doc, el.node)

	kept := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.Property != name {
			kept = append(kept, d)

			continue
		}
		if val != "" && !replaced {
			d.Value, d.Important = val, false
			kept = append(kept, d)
			replaced = true
		}
	}
	if val != "" && !replaced {
		kept = append(kept, &css.Declaration{Property: name, Value: val})
	}

	if len(kept) == 0 {
		el.removeAttr("style")

		return nil
	}

	el.setAttr("style", serializeStyle(kept))

	return nil
}

// checkDeclaration reports an error unless "name: val" parses back as exactly
// that one declaration. An empty val only checks the name.
func checkDeclaration(name, val string) error {
	v := val
	if v == "" {
		v = "initial"
	}

	decls, err := parser.ParseDeclarations(name + ": " + v + ";")
	if err == nil && len(decls) == 1 {
		d := decls[0]
		if strings.TrimSpace(d.Property) == name &&
			strings.TrimSpace(d.Value) == v && !d.Important {
			return nil
		}
	}

	if val == "" {
		return fmt.Errorf("%w: invalid style property %q", ErrSyntax, name)
	}

	return fmt.Errorf("%w: invalid value %q for style property %q", ErrSyntax, val, name)
}

// computedStyle resolves the property name of n. The caller must hold the
// lock.
func computedStyle(d *Document, n *html.Node, name string) string {
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		for _, decl := range inlineStyle(d, cur) {
			if decl.Property == name {
				return decl.Value
			}
		}

		if !inheritedProperties[name] {
			break
		}
	}

	if name == "display" {
		return defaultDisplay(n)
	}

	return initialValues[name]
}

// inlineStyle returns the declarations of the style attribute of n. Invalid
// declarations are dropped. The caller must hold the lock.
func inlineStyle(d *Document, n *html.Node) []*css.Declaration {
	var text string
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			text = a.Val

			break
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// The parser only keeps declarations closed by a semicolon.
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}

	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		d.logger.Debug("Ignoring invalid inline style",
			zap.String("tag", n.Data),
			zap.String("style", text),
			zap.Error(err),
		)

		return nil
	}

	kept := decls[:0]
	for _, decl := range decls {
		decl.Property = strings.ToLower(strings.TrimSpace(decl.Property))
		decl.Value = strings.TrimSpace(decl.Value)
		if decl.Property != "" {
			kept = append(kept, decl)
		}
	}

	return kept
}

func serializeStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		s := d.Property + ": " + d.Value
		if d.Important {
			s += " !important"
		}
		parts = append(parts, s+";")
	}

	return strings.Join(parts, " ")
}

func defaultDisplay(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "hidden" {
			return "none"
		}
	}

	switch {
	case hiddenElements[n.DataAtom]:
		return "none"
	case blockElements[n.DataAtom]:
		return "block"
	case n.DataAtom == atom.Li:
		return "list-item"
	case n.DataAtom == atom.Table:
		return "table"
	case n.DataAtom == atom.Tr:
		return "table-row"
	case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
		return "table-cell"
	}

	return "inline"
}

// propertyName converts a camelCase property name such as backgroundColor to
// its CSS form background-color. Custom properties are kept as they are.
func propertyName(prop string) string {
	prop = strings.TrimSpace(prop)
	if strings.HasPrefix(prop, "--") {
		return prop
	}

	var sb strings.Builder
	for i, r := range prop {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))

			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}
