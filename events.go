package dom

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event is dispatched to the listeners of an EventTarget.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Detail     any
	TimeStamp  time.Time

	target           EventTarget
	currentTarget    EventTarget
	defaultPrevented bool
	stopped          bool
}

// NewEvent returns an event of type typ, ready to be dispatched.
func NewEvent(typ string, bubbles, cancelable bool) *Event {
	return &Event{
		Type:       typ,
		Bubbles:    bubbles,
		Cancelable: cancelable,
		TimeStamp:  time.Now(),
	}
}

// Target returns the target the event was dispatched to.
func (e *Event) Target() EventTarget {
	return e.target
}

// CurrentTarget returns the target whose listeners are being invoked, or nil
// outside of dispatch.
func (e *Event) CurrentTarget() EventTarget {
	return e.currentTarget
}

// PreventDefault cancels the default action of a cancelable event.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called on a cancelable
// event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation keeps the event from reaching further targets. The other
// listeners of the current target are still invoked.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event.
type Listener func(e *Event)

// ListenerID identifies a registered listener, so that it can be removed.
type ListenerID uuid.UUID

// String returns the canonical form of the id.
func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

// ListenerOption configures a listener registration.
type ListenerOption func(*listenerEntry)

// WithOnce removes the listener before its first invocation.
func WithOnce() ListenerOption {
	return func(l *listenerEntry) {
		l.once = true
	}
}

// EventTarget is implemented by *Element, *Document and *Window.
type EventTarget interface {
	// AddEventListener registers fn for events of type typ.
	AddEventListener(typ string, fn Listener, opts ...ListenerOption) ListenerID

	// RemoveEventListener unregisters the listener id of type typ, and reports
	// whether it was registered.
	RemoveEventListener(typ string, id ListenerID) bool

	// DispatchEvent dispatches e with the target as its target, and returns
	// false if the default action was prevented.
	DispatchEvent(e *Event) bool

	eventListeners() *listenerSet
	parentTarget() EventTarget
	eventLogger() *zap.Logger
}

type listenerEntry struct {
	id      ListenerID
	fn      Listener
	once    bool
	removed bool
}

// listenerSet holds the listeners of a target. The zero value is ready to use.
type listenerSet struct {
	mu     sync.Mutex
	byType map[string][]*listenerEntry
}

func (s *listenerSet) add(typ string, fn Listener, opts ...ListenerOption) ListenerID {
	l := &listenerEntry{id: ListenerID(uuid.New()), fn: fn}
	for _, opt := range opts {
		opt(l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byType == nil {
		s.byType = map[string][]*listenerEntry{}
	}
	s.byType[typ] = append(s.byType[typ], l)

	return l.id
}

func (s *listenerSet) remove(typ string, id ListenerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(typ, id)
}

func (s *listenerSet) removeLocked(typ string, id ListenerID) bool {
	list := s.byType[typ]
	for i, l := range list {
		if l.id == id {
			l.removed = true
			s.byType[typ] = append(list[:i:i], list[i+1:]...)
			if len(s.byType[typ]) == 0 {
				delete(s.byType, typ)
			}

			return true
		}
	}

	return false
}

// take reports whether l is still registered, and unregisters it if it is a
// once listener.
func (s *listenerSet) take(typ string, l *listenerEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.removed {
		return false
	}
	if l.once {
		s.removeLocked(typ, l.id)
	}

	return true
}

func (s *listenerSet) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byType) == 0
}

func (s *listenerSet) snapshot(typ string) []*listenerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byType[typ]
	if len(list) == 0 {
		return nil
	}

	return append([]*listenerEntry(nil), list...)
}

// invoke calls the listeners of e.Type registered on t in registration order.
// Listeners added during the call are not invoked.
func (s *listenerSet) invoke(t EventTarget, e *Event) {
	for _, l := range s.snapshot(e.Type) {
		if !s.take(e.Type, l) {
			continue
		}
		call(t.eventLogger(), l.fn, e)
	}
}

func call(logger *zap.Logger, fn Listener, e *Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Listener panicked",
				zap.String("event", e.Type),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	fn(e)
}

// dispatch runs e through the propagation path of target. The path is fixed
// before any listener runs.
func dispatch(target EventTarget, e *Event) bool {
	e.target = target
	e.stopped = false

	path := []EventTarget{target}
	if e.Bubbles {
		for p := target.parentTarget(); p != nil; p = p.parentTarget() {
			path = append(path, p)
		}
	}

	for _, t := range path {
		e.currentTarget = t
		t.eventListeners().invoke(t, e)
		if e.stopped {
			break
		}
	}
	e.currentTarget = nil

	return !e.defaultPrevented
}

// AddEventListener implements EventTarget.
func (el *Element) AddEventListener(typ string, fn Listener, opts ...ListenerOption) ListenerID {
	el.doc.pin(el)

	return el.listeners.add(typ, fn, opts...)
}

// RemoveEventListener implements EventTarget.
func (el *Element) RemoveEventListener(typ string, id ListenerID) bool {
	return el.listeners.remove(typ, id)
}

// DispatchEvent implements EventTarget. Events bubble through the ancestors
// of the element, then the document and the window when it is attached.
func (el *Element) DispatchEvent(e *Event) bool {
	return dispatch(el, e)
}

func (el *Element) eventListeners() *listenerSet { return &el.listeners }

func (el *Element) eventLogger() *zap.Logger { return el.doc.logger }

func (el *Element) parentTarget() EventTarget {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	p := el.node.Parent
	switch {
	case p == nil:
		return nil
	case p.Type == html.ElementNode:
		return el.doc.wrap(p)
	case p == el.doc.root:
		return el.doc
	}

	return nil
}

// AddEventListener implements EventTarget.
func (d *Document) AddEventListener(typ string, fn Listener, opts ...ListenerOption) ListenerID {
	return d.listeners.add(typ, fn, opts...)
}

// RemoveEventListener implements EventTarget.
func (d *Document) RemoveEventListener(typ string, id ListenerID) bool {
	return d.listeners.remove(typ, id)
}

// DispatchEvent implements EventTarget. Events bubble to the window.
func (d *Document) DispatchEvent(e *Event) bool {
	return dispatch(d, e)
}

func (d *Document) eventListeners() *listenerSet { return &d.listeners }

func (d *Document) eventLogger() *zap.Logger { return d.logger }

func (d *Document) parentTarget() EventTarget { return d.window }

// AddEventListener implements EventTarget.
func (w *Window) AddEventListener(typ string, fn Listener, opts ...ListenerOption) ListenerID {
	return w.listeners.add(typ, fn, opts...)
}

// RemoveEventListener implements EventTarget.
func (w *Window) RemoveEventListener(typ string, id ListenerID) bool {
	return w.listeners.remove(typ, id)
}

// DispatchEvent implements EventTarget.
func (w *Window) DispatchEvent(e *Event) bool {
	return dispatch(w, e)
}

func (w *Window) eventListeners() *listenerSet { return &w.listeners }

func (w *Window) eventLogger() *zap.Logger { return w.doc.logger }

func (w *Window) parentTarget() EventTarget { return nil }

// On registers fn for action events on target.
func On(target EventTarget, action string, fn Listener) ListenerID {
	return target.AddEventListener(action, fn)
}

// Once registers fn for the next action event on target only.
func Once(target EventTarget, action string, fn Listener) ListenerID {
	return target.AddEventListener(action, fn, WithOnce())
}

// Off removes the listener id registered for action events on target.
func Off(target EventTarget, action string, id ListenerID) bool {
	return target.RemoveEventListener(action, id)
}

// OnAll registers fn for action events on each of targets. The returned ids
// follow the order of targets.
func OnAll[T EventTarget](targets []T, action string, fn Listener) []ListenerID {
	ids := make([]ListenerID, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, On(t, action, fn))
	}

	return ids
}

// OffAll removes the listeners registered by OnAll, and returns how many were
// still registered.
func OffAll[T EventTarget](targets []T, action string, ids []ListenerID) int {
	n := 0
	for i, t := range targets {
		if i < len(ids) && Off(t, action, ids[i]) {
			n++
		}
	}

	return n
}

// GetEventTarget returns the element e was dispatched to, or nil when its
// target is not an element.
func GetEventTarget(e *Event) *Element {
	el, _ := e.target.(*Element)

	return el
}

// PreventDefault cancels the default action of e.
func PreventDefault(e *Event) {
	e.PreventDefault()
}

// Click dispatches a click event on el and runs its default action unless a
// listener prevents it. Checkbox and radio inputs are toggled before dispatch
// and restored when the click is prevented; they then fire input and change.
// Links navigate the window to their href. Disabled form controls ignore the
// click. It returns false if the default action was prevented or skipped.
func Click(el *Element) bool {
	doc := el.doc

	doc.mu.Lock()
	if isDisabled(el) {
		doc.mu.Unlock()

		return false
	}

	var (
		restore func()
		changed bool
	)
	if isToggle(el) {
		restore, changed = activate(el)
	}
	href, isLink := "", false
	if el.node.DataAtom == atom.A || el.node.DataAtom == atom.Area {
		href, isLink = el.attr("href")
	}
	doc.mu.Unlock()

	if !el.DispatchEvent(NewEvent("click", true, true)) {
		if restore != nil {
			doc.mu.Lock()
			restore()
			doc.mu.Unlock()
		}

		return false
	}

	if changed {
		el.DispatchEvent(NewEvent("input", true, false))
		el.DispatchEvent(NewEvent("change", true, false))
	}

	if isLink {
		if err := NavigateTo(doc.window, href, false); err != nil {
			doc.logger.Warn("Link navigation failed", zap.String("href", href), zap.Error(err))
		}
	}

	return true
}

// Focus makes el the active element of its document. The previously active
// element receives blur, then el receives focus.
func Focus(el *Element) {
	doc := el.doc

	doc.mu.Lock()
	prev := doc.active
	if prev == el {
		doc.mu.Unlock()

		return
	}
	doc.active = el
	doc.mu.Unlock()

	if prev != nil {
		prev.DispatchEvent(NewEvent("blur", false, false))
	}
	el.DispatchEvent(NewEvent("focus", false, false))
}

// Ready calls fn once the markup of doc is parsed: right away if it already
// is, otherwise on DOMContentLoaded.
func Ready(doc *Document, fn func()) {
	doc.mu.RLock()
	loading := doc.state == Loading
	if loading {
		// Registered under the lock so Close cannot dispatch in between.
		Once(doc, "DOMContentLoaded", func(*Event) { fn() })
	}
	doc.mu.RUnlock()

	if !loading {
		fn()
	}
}

// activate checks a checkbox or radio input ahead of a click. It returns a
// func restoring the previous state, and whether the state changed. The
// caller must hold the lock.
func activate(el *Element) (restore func(), changed bool) {
	_, checked := el.attr("checked")

	typ, _ := el.attr("type")
	if strings.ToLower(typ) == "checkbox" {
		if checked {
			el.removeAttr("checked")
		} else {
			el.setAttr("checked", "")
		}

		return func() {
			if checked {
				el.setAttr("checked", "")
			} else {
				el.removeAttr("checked")
			}
		}, true
	}

	if checked {
		return nil, false
	}

	var prev []*Element
	for _, r := range radioGroup(el) {
		if _, ok := r.attr("checked"); ok {
			prev = append(prev, r)
			r.removeAttr("checked")
		}
	}
	el.setAttr("checked", "")

	return func() {
		el.removeAttr("checked")
		for _, r := range prev {
			r.setAttr("checked", "")
		}
	}, true
}

// radioGroup returns the other radio inputs sharing the name of el within
// its form, or within its tree when it has no form.
func radioGroup(el *Element) []*Element {
	name, ok := el.attr("name")
	if !ok || name == "" {
		return nil
	}

	top := el.node
	for top.Parent != nil && top.DataAtom != atom.Form {
		top = top.Parent
	}

	var group []*Element

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c != el.node && c.DataAtom == atom.Input {
				r := el.doc.wrap(c)
				typ, _ := r.attr("type")
				if rn, _ := r.attr("name"); rn == name && strings.ToLower(typ) == "radio" {
					group = append(group, r)
				}
			}
			walk(c)
		}
	}
	walk(top)

	return group
}

// isDisabled reports whether el is a disabled form control. The caller must
// hold the lock.
func isDisabled(el *Element) bool {
	switch el.node.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea, atom.Option, atom.Fieldset:
		_, ok := el.attr("disabled")

		return ok
	}

	return false
}
