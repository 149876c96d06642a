package dom_test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/romdo/go-dom"
	"github.com/romdo/go-dom/debounce"
)

func ExampleFindAll() {
	doc, err := dom.Parse(strings.NewReader(`<ul>
<li class="done">Write</li>
<li>Review</li>
<li class="done">Ship</li>
</ul>`))
	if err != nil {
		panic(err)
	}

	items, err := dom.FindAll(doc, "li.done")
	if err != nil {
		panic(err)
	}

	for _, li := range items {
		fmt.Println(dom.GetText(li))
	}
	// Output:
	// Write
	// Ship
}

func ExampleClick() {
	doc, err := dom.Parse(strings.NewReader(`<button id="save">Save</button>`))
	if err != nil {
		panic(err)
	}

	btn, _ := dom.Find(doc, "#save")
	dom.Once(btn, "click", func(e *dom.Event) {
		_ = dom.AddClass(dom.GetEventTarget(e), "saved")
	})

	dom.Click(btn)
	dom.Click(btn)

	fmt.Println(dom.GetOuterHTML(btn))
	// Output:
	// <button id="save" class="saved">Save</button>
}

func ExampleReady() {
	doc := dom.New()

	dom.Ready(doc, func() {
		fmt.Println("ready:", doc.ReadyState())
	})

	fmt.Fprint(doc, `<p>Hello</p>`)
	fmt.Println("closing")
	if err := doc.Close(); err != nil {
		panic(err)
	}
	// Output:
	// closing
	// ready: interactive
}

func ExampleCallFnWithElementsIfExist() {
	doc, err := dom.Parse(strings.NewReader(`<form><input name="q"></form>`))
	if err != nil {
		panic(err)
	}

	form, _ := dom.Find(doc, "form")
	inputs, _ := dom.FindAll(doc, "input")
	submit, _ := dom.Find(doc, "button")

	dom.CallFnWithElementsIfExist(func(refs ...dom.Ref) {
		fmt.Println("form with", len(refs[1].Elements()), "input(s)")
	}, []dom.Ref{dom.Single(form), dom.Collection(inputs)}, dom.Single(submit))

	dom.CallFnWithElementsIfExist(func(refs ...dom.Ref) {
		fmt.Println("never printed")
	}, []dom.Ref{dom.Single(submit)})
	// Output:
	// form with 1 input(s)
}

func ExampleOn_debounced() {
	doc, err := dom.Parse(strings.NewReader(`<input id="search">`))
	if err != nil {
		panic(err)
	}
	input, _ := dom.Find(doc, "#search")

	var searches int32
	search, cancel := debounce.New(50*time.Millisecond, func() {
		atomic.AddInt32(&searches, 1)
	})
	defer cancel()

	dom.On(input, "input", func(*dom.Event) { search() })

	for _, v := range []string{"g", "go", "gop"} {
		dom.SetValue(input, v)
		input.DispatchEvent(dom.NewEvent("input", true, false))
	}

	time.Sleep(150 * time.Millisecond)
	fmt.Println("searches:", atomic.LoadInt32(&searches))
	// Output:
	// searches: 1
}
