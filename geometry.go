package dom

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Rect is a rectangle in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the smallest y coordinate of the rectangle.
func (r Rect) Top() float64 { return math.Min(r.Y, r.Y+r.Height) }

// Right returns the largest x coordinate of the rectangle.
func (r Rect) Right() float64 { return math.Max(r.X, r.X+r.Width) }

// Bottom returns the largest y coordinate of the rectangle.
func (r Rect) Bottom() float64 { return math.Max(r.Y, r.Y+r.Height) }

// Left returns the smallest x coordinate of the rectangle.
func (r Rect) Left() float64 { return math.Min(r.X, r.X+r.Width) }

// Box holds the measurements of an element.
type Box struct {
	// Rect is the border box, relative to the top left corner of the page.
	Rect Rect

	OffsetWidth  float64
	OffsetHeight float64
	ClientWidth  float64
	ClientHeight float64
	ScrollWidth  float64
	ScrollHeight float64
}

// Layout measures elements.
type Layout interface {
	Box(el *Element) Box
}

// StyleLayout measures elements from the pixel values of their styles. Boxes
// are sized by width, height, padding and border widths, and positioned by
// left, top and margins relative to their parent's content box. No flow
// layout is done.
type StyleLayout struct{}

// Box implements Layout.
func (StyleLayout) Box(el *Element) Box {
	d := el.doc

	d.mu.RLock()
	defer d.mu.RUnlock()

	b := measure(d, el.node)
	b.Rect.X, b.Rect.Y = position(d, el.node)

	return b
}

// measure sizes n. The caller must hold the lock.
func measure(d *Document, n *html.Node) Box {
	pad := edges(d, n, "padding", "")
	border := edges(d, n, "border", "-width")

	width := pixels(computedStyle(d, n, "width"))
	height := pixels(computedStyle(d, n, "height"))

	b := Box{
		ClientWidth:  width + pad.left + pad.right,
		ClientHeight: height + pad.top + pad.bottom,
	}
	b.OffsetWidth = b.ClientWidth + border.left + border.right
	b.OffsetHeight = b.ClientHeight + border.top + border.bottom
	b.Rect.Width, b.Rect.Height = b.OffsetWidth, b.OffsetHeight

	b.ScrollWidth, b.ScrollHeight = b.ClientWidth, b.ClientHeight
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		cb := measure(d, c)
		x, y := offset(d, c)
		b.ScrollWidth = math.Max(b.ScrollWidth, pad.left+x+cb.OffsetWidth)
		b.ScrollHeight = math.Max(b.ScrollHeight, pad.top+y+cb.OffsetHeight)
	}

	return b
}

// position returns the page coordinates of the border box of n. The caller
// must hold the lock.
func position(d *Document, n *html.Node) (x, y float64) {
	x, y = offset(d, n)

	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		pad := edges(d, p, "padding", "")
		border := edges(d, p, "border", "-width")
		px, py := offset(d, p)

		x += px + border.left + pad.left
		y += py + border.top + pad.top

		if el, ok := d.lookup(p); ok {
			x -= el.scrollLeft
			y -= el.scrollTop
		}
	}

	return x, y
}

// offset returns the position of n relative to the content box of its
// parent.
func offset(d *Document, n *html.Node) (x, y float64) {
	margin := edges(d, n, "margin", "")

	return pixels(computedStyle(d, n, "left")) + margin.left,
		pixels(computedStyle(d, n, "top")) + margin.top
}

type sides struct {
	top, right, bottom, left float64
}

// edges resolves the four sides of a box property such as padding, from its
// shorthand and its longhands. The longhands of prop are named
// prop-side+suffix.
func edges(d *Document, n *html.Node, prop, suffix string) sides {
	var s sides

	short := computedStyle(d, n, prop+suffix)
	if short == "" && suffix != "" {
		short = firstLength(computedStyle(d, n, prop))
	}
	if short != "" {
		s = shorthand(short)
	}

	for _, side := range []struct {
		name string
		v    *float64
	}{
		{"top", &s.top}, {"right", &s.right}, {"bottom", &s.bottom}, {"left", &s.left},
	} {
		if v := computedStyle(d, n, prop+"-"+side.name+suffix); v != "" {
			*side.v = pixels(v)
		}
	}

	return s
}

// shorthand expands one to four lengths the way CSS box shorthands do.
func shorthand(v string) sides {
	f := strings.Fields(v)
	vals := make([]float64, len(f))
	for i, s := range f {
		vals[i] = pixels(s)
	}

	switch len(vals) {
	case 1:
		return sides{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return sides{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		return sides{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		return sides{vals[0], vals[1], vals[2], vals[3]}
	}

	return sides{}
}

// firstLength returns the first pixel length of a shorthand such as
// "1px solid red".
func firstLength(v string) string {
	for _, f := range strings.Fields(v) {
		if strings.HasSuffix(f, "px") || f == "0" {
			return f
		}
	}

	return ""
}

// pixels parses a CSS length in pixels. Other units and keywords count as 0.
func pixels(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}

	return f
}

// Side is a side of a rectangle.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Coordinates are the sides of the bounding rectangle of an element,
// relative to the viewport.
type Coordinates struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Side returns the coordinate of side s, and false when s is not a side.
func (c Coordinates) Side(s Side) (float64, bool) {
	switch s {
	case SideTop:
		return c.Top, true
	case SideRight:
		return c.Right, true
	case SideBottom:
		return c.Bottom, true
	case SideLeft:
		return c.Left, true
	}

	return 0, false
}

// Measure selects how GetWidth and GetHeight measure an element.
type Measure string

const (
	// BoundingClient measures the bounding rectangle. It is the default.
	BoundingClient Measure = "boundingClient"

	OffsetWidth  Measure = "offsetWidth"
	ClientWidth  Measure = "clientWidth"
	ScrollWidth  Measure = "scrollWidth"
	OffsetHeight Measure = "offsetHeight"
	ClientHeight Measure = "clientHeight"
	ScrollHeight Measure = "scrollHeight"
)

// GetCoordinates returns the bounding rectangle of el relative to the
// viewport.
func GetCoordinates(el *Element) Coordinates {
	r := viewportRect(el)

	return Coordinates{
		Top:    r.Top(),
		Right:  r.Right(),
		Bottom: r.Bottom(),
		Left:   r.Left(),
	}
}

// GetWidth returns the width of el measured with method, or its bounding
// rectangle width for any other method.
func GetWidth(el *Element, method Measure) float64 {
	b := el.doc.layout.Box(el)

	switch method {
	case OffsetWidth:
		return b.OffsetWidth
	case ClientWidth:
		return b.ClientWidth
	case ScrollWidth:
		return b.ScrollWidth
	}

	return b.Rect.Width
}

// GetHeight returns the height of el measured with method, or its bounding
// rectangle height for any other method.
func GetHeight(el *Element, method Measure) float64 {
	b := el.doc.layout.Box(el)

	switch method {
	case OffsetHeight:
		return b.OffsetHeight
	case ClientHeight:
		return b.ClientHeight
	case ScrollHeight:
		return b.ScrollHeight
	}

	return b.Rect.Height
}

func pageRect(el *Element) Rect {
	return el.doc.layout.Box(el).Rect
}

func viewportRect(el *Element) Rect {
	r := pageRect(el)
	x, y := el.doc.window.Scroll()
	r.X -= x
	r.Y -= y

	return r
}
