package dom

// Ref refers to either a single element or a collection of elements, as
// returned by Find and FindAll.
type Ref struct {
	single     *Element
	collection NodeList
	isList     bool
}

// Single returns a Ref to el.
func Single(el *Element) Ref {
	return Ref{single: el}
}

// Collection returns a Ref to list.
func Collection(list NodeList) Ref {
	return Ref{collection: list, isList: true}
}

// Exists reports whether the element is not nil, or whether the collection
// is not empty.
func (r Ref) Exists() bool {
	if r.isList {
		return len(r.collection) > 0
	}

	return r.single != nil
}

// IsCollection reports whether r was built by Collection.
func (r Ref) IsCollection() bool {
	return r.isList
}

// Element returns the element of a single Ref, or the first element of a
// collection.
func (r Ref) Element() *Element {
	if r.isList {
		if len(r.collection) == 0 {
			return nil
		}

		return r.collection[0]
	}

	return r.single
}

// Elements returns the elements of a collection, or a list holding the single
// element when it exists.
func (r Ref) Elements() NodeList {
	if r.isList {
		return r.collection
	}
	if r.single == nil {
		return nil
	}

	return NodeList{r.single}
}

// CallFnWithElementsIfExist calls fn with required followed by optional when
// every required reference exists. Optional references are passed as they
// are. Nothing happens otherwise.
func CallFnWithElementsIfExist(fn func(refs ...Ref), required []Ref, optional ...Ref) {
	for _, r := range required {
		if !r.Exists() {
			return
		}
	}

	refs := make([]Ref, 0, len(required)+len(optional))
	refs = append(refs, required...)
	refs = append(refs, optional...)

	fn(refs...)
}

// CallFnWDomElsIfExist calls fn with refs when all of them exist.
func CallFnWDomElsIfExist(fn func(refs ...Ref), refs ...Ref) {
	CallFnWithElementsIfExist(fn, refs)
}
