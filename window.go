package dom

import (
	"fmt"
	"math"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// ScrollBehavior tells whether a scroll is instant or animated.
type ScrollBehavior string

const (
	// ScrollAuto scrolls instantly.
	ScrollAuto ScrollBehavior = "auto"

	// ScrollSmooth scrolls with an animation.
	ScrollSmooth ScrollBehavior = "smooth"
)

// ScrollDetail is the Detail of the scroll events dispatched by ScrollIn and
// ScrollTo.
type ScrollDetail struct {
	Left     float64
	Top      float64
	Behavior ScrollBehavior
}

// Window is the browsing context of a document: its location, session
// history, viewport size and scroll position.
type Window struct {
	doc *Document

	mu       sync.RWMutex
	location *url.URL
	history  []string
	width    int
	height   int
	scrollX  float64
	scrollY  float64

	listeners listenerSet
}

func newWindow(d *Document) *Window {
	c := DefaultConfig()
	w := &Window{doc: d}
	w.configure(c)

	return w
}

// configure resets the window to c. Fields of c left nil keep their value.
func (w *Window) configure(c *Config) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c.URL != nil {
		// LoadConfig validated the URL.
		if u, err := url.Parse(*c.URL); err == nil {
			w.location = u
			w.history = []string{u.String()}
		}
	}
	if c.Width != nil {
		w.width = *c.Width
	}
	if c.Height != nil {
		w.height = *c.Height
	}
}

// Location returns a copy of the current URL.
func (w *Window) Location() *url.URL {
	w.mu.RLock()
	defer w.mu.RUnlock()

	u := *w.location

	return &u
}

// History returns the session history, oldest first. The last entry is the
// current location.
func (w *Window) History() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]string(nil), w.history...)
}

// Scroll returns the scroll position of the viewport.
func (w *Window) Scroll() (x, y float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.scrollX, w.scrollY
}

// Resize sets the inner size of the viewport and dispatches resize.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()

	w.DispatchEvent(NewEvent("resize", false, false))
}

// GetURL returns the current URL, or only its path when pathName is true.
func GetURL(w *Window, pathName bool) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if pathName {
		return w.location.Path
	}

	return w.location.String()
}

// GetURLParamValue returns the first value of the query parameter name of the
// current URL, and whether it is present.
func GetURLParamValue(w *Window, name string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	values, ok := w.location.Query()[name]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

// GetURLQueryString returns the query string of the current URL including the
// leading "?", or "" when it has none.
func GetURLQueryString(w *Window) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.location.RawQuery == "" {
		return ""
	}

	return "?" + w.location.RawQuery
}

// NavigateTo moves the window to rawURL, resolved against the current URL.
// The new location is pushed on the history, or replaces the current entry
// when redirect is true.
func NavigateTo(w *Window, rawURL string, redirect bool) error {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("navigate to %q: %w", rawURL, err)
	}

	w.mu.Lock()
	from := w.location.String()
	w.location = w.location.ResolveReference(ref)
	to := w.location.String()
	if redirect {
		w.history[len(w.history)-1] = to
	} else {
		w.history = append(w.history, to)
	}
	w.mu.Unlock()

	w.doc.logger.Debug("Navigated",
		zap.String("from", from),
		zap.String("to", to),
		zap.Bool("redirect", redirect),
	)

	return nil
}

// GetWindowWidth returns the inner width of the viewport.
func GetWindowWidth(w *Window) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.width
}

// GetWindowHeight returns the inner height of the viewport.
func GetWindowHeight(w *Window) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.height
}

// ScrollIn scrolls the content of el to the left and top offsets, clamped to
// its scrollable range, and dispatches scroll on el.
func ScrollIn(el *Element, left, top float64, smooth bool) {
	box := el.doc.layout.Box(el)

	el.doc.mu.Lock()
	el.scrollLeft = clamp(left, box.ScrollWidth-box.ClientWidth)
	el.scrollTop = clamp(top, box.ScrollHeight-box.ClientHeight)
	el.doc.pin(el)
	detail := ScrollDetail{Left: el.scrollLeft, Top: el.scrollTop, Behavior: behavior(smooth)}
	el.doc.mu.Unlock()

	el.doc.logger.Debug("Scrolled element",
		zap.String("tag", el.Tag()),
		zap.Float64("left", detail.Left),
		zap.Float64("top", detail.Top),
		zap.String("behavior", string(detail.Behavior)),
	)

	e := NewEvent("scroll", false, false)
	e.Detail = detail
	el.DispatchEvent(e)
}

// ScrollTo scrolls the viewport so that el is at its top left corner, and
// dispatches scroll on the document.
func ScrollTo(el *Element, smooth bool) {
	rect := pageRect(el)
	w := el.doc.window

	w.mu.Lock()
	w.scrollX = math.Max(rect.X, 0)
	w.scrollY = math.Max(rect.Y, 0)
	detail := ScrollDetail{Left: w.scrollX, Top: w.scrollY, Behavior: behavior(smooth)}
	w.mu.Unlock()

	el.doc.logger.Debug("Scrolled into view",
		zap.String("tag", el.Tag()),
		zap.Float64("x", detail.Left),
		zap.Float64("y", detail.Top),
		zap.String("behavior", string(detail.Behavior)),
	)

	e := NewEvent("scroll", true, false)
	e.Detail = detail
	el.doc.DispatchEvent(e)
}

// SmoothScrollTo scrolls el into view with an animation.
func SmoothScrollTo(el *Element) {
	ScrollTo(el, true)
}

func behavior(smooth bool) ScrollBehavior {
	if smooth {
		return ScrollSmooth
	}

	return ScrollAuto
}

func clamp(v, limit float64) float64 {
	if limit < 0 {
		limit = 0
	}

	return math.Min(math.Max(v, 0), limit)
}
