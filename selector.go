package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// query returns the elements under top matching the CSS selector sel, in
// document order.
func query(top *html.Node, sel string) ([]*html.Node, error) {
	expr, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}

	nodes, err := htmlquery.QueryAll(top, expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, sel, err)
	}

	if len(nodes) < 2 {
		return nodes, nil
	}

	return documentOrder(top, nodes), nil
}

// documentOrder sorts nodes in tree order and drops duplicates, which XPath
// unions do not guarantee.
func documentOrder(top *html.Node, nodes []*html.Node) []*html.Node {
	found := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		found[n] = true
	}

	ordered := make([]*html.Node, 0, len(found))

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found[c] {
				ordered = append(ordered, c)
			}
			walk(c)
		}
	}
	walk(top)

	return ordered
}

// compileSelector translates a CSS selector list into an XPath expression.
//
// Supported: type and universal selectors, #id, .class, attribute selectors
// with the =, ~=, |=, ^=, $= and *= operators, the descendant, child (>),
// adjacent (+) and general (~) sibling combinators, selector lists, and the
// :first-child, :last-child, :only-child, :empty, :root, :checked and
// :disabled pseudo-classes.
func compileSelector(sel string) (string, error) {
	p := &selectorParser{src: sel}

	var paths []string
	for {
		p.skipSpace()

		path, err := p.complex()
		if err != nil {
			return "", err
		}
		paths = append(paths, path)

		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != ',' {
			return "", p.errorf("unexpected %q", p.peek())
		}
		p.pos++
	}

	return strings.Join(paths, " | "), nil
}

type selectorParser struct {
	src string
	pos int
}

func (p *selectorParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *selectorParser) peek() byte {
	return p.src[p.pos]
}

func (p *selectorParser) skipSpace() bool {
	start := p.pos
	for !p.eof() && strings.IndexByte(" \t\n\r\f", p.peek()) >= 0 {
		p.pos++
	}

	return p.pos > start
}

func (p *selectorParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: selector %q at offset %d: %s",
		ErrSyntax, p.src, p.pos, fmt.Sprintf(format, args...))
}

// complex parses compound selectors joined by combinators, up to the end of
// the input or the next comma.
func (p *selectorParser) complex() (string, error) {
	var sb strings.Builder

	// The first compound may match the context node itself, which is the
	// detached root element when querying outside a document.
	combinator := byte(0)
	for {
		step, err := p.compound(combinator)
		if err != nil {
			return "", err
		}
		sb.WriteString(step)

		spaced := p.skipSpace()
		if p.eof() || p.peek() == ',' {
			return sb.String(), nil
		}

		switch c := p.peek(); c {
		case '>', '+', '~':
			combinator = c
			p.pos++
			p.skipSpace()
		default:
			if !spaced {
				return "", p.errorf("unexpected %q", c)
			}
			combinator = ' '
		}
	}
}

// compound parses one compound selector and returns it as an XPath location
// step reached through combinator.
func (p *selectorParser) compound(combinator byte) (string, error) {
	tag := "*"
	var preds []string
	consumed := false

	if !p.eof() && p.peek() == '*' {
		p.pos++
		consumed = true
	} else if name := p.ident(); name != "" {
		tag = strings.ToLower(name)
		consumed = true
	}

loop:
	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			name := p.ident()
			if name == "" {
				return "", p.errorf("expected id")
			}
			preds = append(preds, "@id="+xpathLiteral(name))
		case '.':
			p.pos++
			name := p.ident()
			if name == "" {
				return "", p.errorf("expected class name")
			}
			preds = append(preds, tokenMatch("@class", name))
		case '[':
			pred, err := p.attribute()
			if err != nil {
				return "", err
			}
			preds = append(preds, pred)
		case ':':
			pred, err := p.pseudo()
			if err != nil {
				return "", err
			}
			preds = append(preds, pred)
		default:
			break loop
		}
		consumed = true
	}

	if !consumed {
		if p.eof() {
			return "", p.errorf("expected selector")
		}

		return "", p.errorf("unexpected %q", p.peek())
	}

	var sb strings.Builder
	switch combinator {
	case '>':
		sb.WriteString("/" + tag)
	case '~':
		sb.WriteString("/following-sibling::" + tag)
	case '+':
		sb.WriteString("/following-sibling::*[1]")
		if tag != "*" {
			sb.WriteString("[self::" + tag + "]")
		}
	case 0:
		sb.WriteString("descendant-or-self::" + tag)
	default:
		sb.WriteString("//" + tag)
	}

	for _, pred := range preds {
		sb.WriteString("[" + pred + "]")
	}

	return sb.String(), nil
}

func (p *selectorParser) attribute() (string, error) {
	p.pos++ // [
	p.skipSpace()

	name := strings.ToLower(p.ident())
	if name == "" {
		return "", p.errorf("expected attribute name")
	}
	attr := "@" + name

	p.skipSpace()
	if p.eof() {
		return "", p.errorf("unterminated attribute selector")
	}

	if p.peek() == ']' {
		p.pos++

		return attr, nil
	}

	var op string
	if p.peek() == '=' {
		op = "="
		p.pos++
	} else if p.pos+1 < len(p.src) && p.src[p.pos+1] == '=' &&
		strings.IndexByte("~|^$*", p.peek()) >= 0 {
		op = p.src[p.pos : p.pos+2]
		p.pos += 2
	} else {
		return "", p.errorf("unexpected %q in attribute selector", p.peek())
	}

	p.skipSpace()
	val, err := p.value()
	if err != nil {
		return "", err
	}

	p.skipSpace()
	if p.eof() || p.peek() != ']' {
		return "", p.errorf("unterminated attribute selector")
	}
	p.pos++

	lit := xpathLiteral(val)
	switch op {
	case "=":
		return attr + "=" + lit, nil
	case "~=":
		if val == "" || strings.ContainsAny(val, " \t\n\r\f") {
			return "false()", nil
		}

		return tokenMatch(attr, val), nil
	case "|=":
		return attr + "=" + lit + " or starts-with(" + attr + ", " + xpathLiteral(val+"-") + ")", nil
	}

	if val == "" {
		return "false()", nil
	}

	switch op {
	case "^=":
		return "starts-with(" + attr + ", " + lit + ")", nil
	case "$=":
		return "substring(" + attr + ", string-length(" + attr + ") - string-length(" +
			lit + ") + 1) = " + lit, nil
	default: // *=
		return "contains(" + attr + ", " + lit + ")", nil
	}
}

var pseudoClasses = map[string]string{
	"first-child": "not(preceding-sibling::*)",
	"last-child":  "not(following-sibling::*)",
	"only-child":  "not(preceding-sibling::*) and not(following-sibling::*)",
	"empty":       "not(*) and not(text())",
	"root":        "not(parent::*)",
	"checked":     "@checked or (self::option and @selected)",
	"disabled":    "@disabled",
}

func (p *selectorParser) pseudo() (string, error) {
	p.pos++ // :

	name := strings.ToLower(p.ident())
	if name == "" {
		return "", p.errorf("expected pseudo-class")
	}

	pred, ok := pseudoClasses[name]
	if !ok {
		return "", p.errorf("unsupported pseudo-class %q", name)
	}

	return pred, nil
}

func (p *selectorParser) value() (string, error) {
	if p.eof() {
		return "", p.errorf("expected value")
	}

	q := p.peek()
	if q != '"' && q != '\'' {
		v := p.ident()
		if v == "" {
			return "", p.errorf("expected value")
		}

		return v, nil
	}

	end := strings.IndexByte(p.src[p.pos+1:], q)
	if end < 0 {
		return "", p.errorf("unterminated string")
	}

	v := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2

	return v, nil
}

// ident consumes a CSS identifier, without escapes.
func (p *selectorParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		isName := c == '-' || c == '_' || c >= 0x80 ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if !isName && !(isDigit && p.pos > start) {
			break
		}
		p.pos++
	}

	return p.src[start:p.pos]
}

// tokenMatch matches attr values holding tok as a whitespace separated token.
func tokenMatch(attr, tok string) string {
	return "contains(concat(' ', normalize-space(" + attr + "), ' '), " +
		xpathLiteral(" "+tok+" ") + ")"
}

// xpathLiteral quotes s as an XPath string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+part+"'")
	}

	return "concat(" + strings.Join(quoted, ", ") + ")"
}
