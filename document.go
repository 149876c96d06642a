package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"weak"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyState is the loading state of a document.
type ReadyState string

const (
	// Loading means the document markup is still being written.
	Loading ReadyState = "loading"

	// Interactive means the markup has been parsed, and DOMContentLoaded is
	// being dispatched.
	Interactive ReadyState = "interactive"

	// Complete means the document and the window load event are done.
	Complete ReadyState = "complete"
)

var (
	// ErrClosed is returned when writing to, or closing, a document which is
	// no longer loading.
	ErrClosed = errors.New("dom: document is closed")

	// ErrSyntax is wrapped by errors caused by invalid selectors, positions
	// or markup.
	ErrSyntax = errors.New("dom: syntax error")

	// ErrNotFound is wrapped by errors caused by a node which is not where
	// the operation expects it.
	ErrNotFound = errors.New("dom: node not found")

	// ErrHierarchy is wrapped by errors caused by inserting a node where it
	// would become its own ancestor.
	ErrHierarchy = errors.New("dom: hierarchy request error")
)

// Document is an HTML document along with the browser state the helpers of
// this package rely on: readiness, window, focus, scrolling and listeners.
//
// The tree is guarded by the document, so helpers may be called from timer
// callbacks. Listeners are never invoked while the tree lock is held.
type Document struct {
	mu     sync.RWMutex
	root   *html.Node
	state  ReadyState
	buf    bytes.Buffer
	active *Element

	// Handles are held weakly, so that unused ones can be collected, and
	// pinned while they carry listeners or scroll offsets.
	emu      sync.Mutex
	elements map[*html.Node]weak.Pointer[Element]
	pinned   map[*html.Node]*Element

	window    *Window
	layout    Layout
	logger    *zap.Logger
	listeners listenerSet
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used by the document. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger.Named("dom")
		}
	}
}

// WithConfig applies the window configuration c.
func WithConfig(c *Config) Option {
	return func(d *Document) {
		if c != nil {
			d.window.configure(c)
		}
	}
}

// WithLayout sets the source of element geometry. The default is
// StyleLayout.
func WithLayout(layout Layout) Option {
	return func(d *Document) {
		if layout != nil {
			d.layout = layout
		}
	}
}

// New returns an empty document in the Loading state. Markup is written to it
// with Write, and Close finishes loading it.
func New(opts ...Option) *Document {
	d := &Document{
		root:     &html.Node{Type: html.DocumentNode},
		state:    Loading,
		elements: map[*html.Node]weak.Pointer[Element]{},
		pinned:   map[*html.Node]*Element{},
		layout:   StyleLayout{},
		logger:   zap.NewNop(),
	}
	d.window = newWindow(d)

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Parse reads a complete HTML document from r. The returned document is in
// the Complete state.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	d := New(opts...)

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	d.root = root
	d.state = Complete

	return d, nil
}

// Write buffers markup of a loading document.
func (d *Document) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Loading {
		return 0, ErrClosed
	}

	return d.buf.Write(p)
}

// Close parses the written markup, then moves the document to Interactive and
// dispatches DOMContentLoaded, then to Complete and dispatches the window load
// event.
func (d *Document) Close() error {
	d.mu.Lock()
	if d.state != Loading {
		d.mu.Unlock()

		return ErrClosed
	}

	root, err := html.Parse(&d.buf)
	if err != nil {
		d.mu.Unlock()

		return fmt.Errorf("parse document: %w", err)
	}

	d.root = root
	d.buf.Reset()
	d.state = Interactive
	d.mu.Unlock()

	d.logger.Debug("Document ready state changed", zap.String("state", string(Interactive)))
	d.DispatchEvent(NewEvent("DOMContentLoaded", true, false))

	d.mu.Lock()
	d.state = Complete
	d.mu.Unlock()

	d.logger.Debug("Document ready state changed", zap.String("state", string(Complete)))
	d.window.DispatchEvent(NewEvent("load", false, false))

	return nil
}

// ReadyState returns the loading state of the document.
func (d *Document) ReadyState() ReadyState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.state
}

// Root returns the document node of the parsed tree.
func (d *Document) Root() *html.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.root
}

// Window returns the window the document is displayed in.
func (d *Document) Window() *Window {
	return d.window
}

// Logger returns the logger of the document.
func (d *Document) Logger() *zap.Logger {
	return d.logger
}

// DocumentElement returns the root html element, or nil.
func (d *Document) DocumentElement() *Element {
	return d.child(atom.Html, nil)
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	if root := d.DocumentElement(); root != nil {
		return d.child(atom.Head, root)
	}

	return nil
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	if root := d.DocumentElement(); root != nil {
		return d.child(atom.Body, root)
	}

	return nil
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.active
}

// Render writes the document as HTML to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return html.Render(w, d.root)
}

// String returns the document as HTML.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}

	return sb.String()
}

func (d *Document) child(a atom.Atom, parent *Element) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := d.root
	if parent != nil {
		n = parent.node
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return d.wrap(c)
		}
	}

	return nil
}

// wrap returns the canonical element of n, so that element pointers can be
// compared and carry state. It returns nil for nil and non-element nodes.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}

	d.emu.Lock()
	defer d.emu.Unlock()

	if el := d.elements[n].Value(); el != nil {
		return el
	}

	el := &Element{node: n, doc: d}
	d.elements[n] = weak.Make(el)
	runtime.AddCleanup(el, d.forget, n)

	return el
}

// forget drops the entry of n once its element has been collected, unless a
// new element was created for n since.
func (d *Document) forget(n *html.Node) {
	d.emu.Lock()
	defer d.emu.Unlock()

	if wp, ok := d.elements[n]; ok && wp.Value() == nil {
		delete(d.elements, n)
	}
}

// lookup returns the element of n if one is alive.
func (d *Document) lookup(n *html.Node) (*Element, bool) {
	d.emu.Lock()
	defer d.emu.Unlock()

	el := d.elements[n].Value()

	return el, el != nil
}

// pin keeps el alive with the document while it carries state.
func (d *Document) pin(el *Element) {
	d.emu.Lock()
	defer d.emu.Unlock()

	d.pinned[el.node] = el
}

// release unpins the elements of the subtree of n which no longer carry any
// state. The caller must hold d.mu.
func (d *Document) release(n *html.Node) {
	d.emu.Lock()
	defer d.emu.Unlock()

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if el, ok := d.pinned[n]; ok && !el.stateful() {
			delete(d.pinned, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
}

func (d *Document) wrapAll(nodes []*html.Node) NodeList {
	list := make(NodeList, 0, len(nodes))
	for _, n := range nodes {
		if el := d.wrap(n); el != nil {
			list = append(list, el)
		}
	}

	return list
}
