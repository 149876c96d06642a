// Package dom provides thin helper functions over an HTML document: element
// selection, class and attribute edits, styles, text and form values, event
// listeners, navigation, scrolling and geometry.
//
// A Document wraps a tree parsed by golang.org/x/net/html, along with the
// browser state the helpers need: ready state, window location and history,
// viewport, focus and listeners. Every node has a single *Element handle, so
// handles returned by different helpers can be compared.
//
//	doc, err := dom.Parse(strings.NewReader(page))
//	if err != nil {
//		return err
//	}
//
//	btn, err := dom.Find(doc, "form > button.submit")
//	if err != nil || btn == nil {
//		return err
//	}
//
//	dom.On(btn, "click", func(e *dom.Event) {
//		_ = dom.AddClass(dom.GetEventTarget(e), "clicked")
//	})
//	dom.Click(btn)
//
// Debouncing and throttling of listeners live in the debounce package.
package dom
