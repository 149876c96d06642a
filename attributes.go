package dom

import (
	"fmt"
	"strings"
)

// HasClass reports whether el has the class className. An empty or spaced
// className is never present.
func HasClass(el *Element, className string) bool {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	for _, c := range classes(el) {
		if c == className {
			return true
		}
	}

	return false
}

// AddClass adds the class className to el, unless it is already there. The
// error wraps ErrSyntax when className is empty or contains whitespace.
func AddClass(el *Element, className string) error {
	if err := checkClass(className); err != nil {
		return err
	}

	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	addClass(el, className)

	return nil
}

// RemoveClass removes every occurrence of the class className from el. The
// error wraps ErrSyntax when className is empty or contains whitespace.
func RemoveClass(el *Element, className string) error {
	if err := checkClass(className); err != nil {
		return err
	}

	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	removeClass(el, className)

	return nil
}

// ToggleClass removes the class className from el if it has it, and adds it
// otherwise. The error wraps ErrSyntax when className is empty or contains
// whitespace.
func ToggleClass(el *Element, className string) error {
	if err := checkClass(className); err != nil {
		return err
	}

	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	if !removeClass(el, className) {
		addClass(el, className)
	}

	return nil
}

// HasAttribute reports whether el has the attribute attr.
func HasAttribute(el *Element, attr string) bool {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	_, ok := el.attr(attrName(attr))

	return ok
}

// GetAttribute returns the value of the attribute attr of el, and whether it
// is set.
func GetAttribute(el *Element, attr string) (string, bool) {
	el.doc.mu.RLock()
	defer el.doc.mu.RUnlock()

	return el.attr(attrName(attr))
}

// SetAttribute adds the attribute attr to el, or replaces its value.
func SetAttribute(el *Element, attr, val string) {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	el.setAttr(attrName(attr), val)
}

// RemoveAttribute removes the attribute attr from el.
func RemoveAttribute(el *Element, attr string) {
	el.doc.mu.Lock()
	defer el.doc.mu.Unlock()

	el.removeAttr(attrName(attr))
}

// checkClass rejects class names which cannot be a single class token.
func checkClass(className string) error {
	if className == "" {
		return fmt.Errorf("%w: empty class name", ErrSyntax)
	}
	if strings.ContainsAny(className, " \t\n\r\f") {
		return fmt.Errorf("%w: class name %q contains whitespace", ErrSyntax, className)
	}

	return nil
}

// addClass appends className to the class list of el. The caller must hold
// the lock.
func addClass(el *Element, className string) {
	list := classes(el)
	for _, c := range list {
		if c == className {
			return
		}
	}

	el.setAttr("class", strings.Join(append(list, className), " "))
}

// removeClass drops className from the class list of el, and reports whether
// it was there. The caller must hold the lock.
func removeClass(el *Element, className string) bool {
	if _, ok := el.attr("class"); !ok {
		return false
	}

	list := classes(el)
	kept := list[:0]
	for _, c := range list {
		if c != className {
			kept = append(kept, c)
		}
	}
	el.setAttr("class", strings.Join(kept, " "))

	return len(kept) < len(list)
}

// classes returns the class list of el. The caller must hold the lock.
func classes(el *Element) []string {
	v, _ := el.attr("class")

	return strings.Fields(v)
}

// attrName lower-cases attribute names, as HTML documents do.
func attrName(name string) string {
	return strings.ToLower(name)
}
