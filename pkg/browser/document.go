package browser

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/entrhq/pagetour/pkg/dom"
)

//go:embed runtime.js
var runtimeJS string

//go:embed tour.css
var tourCSS string

// Stylesheet returns the CSS the overlay layers are styled with.
func Stylesheet() string { return tourCSS }

// RuntimeScript returns the page-side registry script the Document drives.
func RuntimeScript() string { return runtimeJS }

const callExpr = `([fn, args]) => window.__pagetour[fn](...args)`

// bindingName is the exposed function page listeners report through.
const bindingName = "__pagetourEvent"

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = element{}
)

// Evaluator runs JavaScript in a page. playwright.Page satisfies it.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Poster queues work onto the goroutine that owns the tour. *loop.Loop
// satisfies it.
type Poster interface {
	Post(fn func()) bool
}

// Document is a dom.Document backed by a live page. Every method is one
// round trip through the runtime script, so it must be installed first
// (see Session.Document).
//
// Page events (clicks on tour buttons, key presses, resizes) arrive on
// playwright's goroutine and are handed to the Poster; with no Poster they
// are dropped. The first evaluation failure is kept in Err and turns every
// later call into a no-op returning zero values.
type Document struct {
	page   Evaluator
	poster Poster

	mu              sync.Mutex
	err             error
	clicks          map[int][]func()
	nextListener    int
	keyListeners    map[int]func(dom.KeyEvent)
	resizeListeners map[int]func()
	keysBound       bool
	resizeBound     bool
}

// NewDocument wraps page. The runtime script must already be present in
// the page.
func NewDocument(page Evaluator, poster Poster) *Document {
	return &Document{
		page:            page,
		poster:          poster,
		clicks:          make(map[int][]func()),
		keyListeners:    make(map[int]func(dom.KeyEvent)),
		resizeListeners: make(map[int]func()),
	}
}

// Err returns the first failure talking to the page.
func (d *Document) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Document) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err == nil {
		d.err = err
		browserDebugLog.Errorf("Page call failed, document is now inert: %v", err)
	}
}

func (d *Document) call(fn string, args ...interface{}) interface{} {
	if d.Err() != nil {
		return nil
	}
	if args == nil {
		args = []interface{}{}
	}
	v, err := d.page.Evaluate(callExpr, []interface{}{fn, args})
	if err != nil {
		d.fail(fmt.Errorf("%s: %w", fn, err))
		return nil
	}
	return v
}

func (d *Document) wrap(v interface{}) dom.Element {
	id := toInt(v)
	if id <= 0 {
		return nil
	}
	return element{doc: d, id: id}
}

func (d *Document) wrapAll(v interface{}) []dom.Element {
	items, _ := v.([]interface{})
	out := make([]dom.Element, 0, len(items))
	for _, item := range items {
		if el := d.wrap(item); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// idOf returns el's registry id, or 0 if el belongs to another document.
func (d *Document) idOf(el dom.Element) int {
	e, ok := el.(element)
	if !ok || e.doc != d {
		return 0
	}
	return e.id
}

func (d *Document) Body() dom.Element { return d.wrap(d.call("body")) }

func (d *Document) QuerySelector(selector string) dom.Element {
	return d.wrap(d.call("query", 0, selector))
}

func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	return d.wrapAll(d.call("queryAll", 0, selector))
}

func (d *Document) CreateElement(tag string) dom.Element {
	return d.wrap(d.call("create", tag))
}

func (d *Document) Viewport() dom.Size {
	m, _ := d.call("viewport").(map[string]interface{})
	return dom.Size{Width: toFloat(m["width"]), Height: toFloat(m["height"])}
}

func (d *Document) Offset(el dom.Element) dom.Rect {
	id := d.idOf(el)
	if id == 0 {
		return dom.Rect{}
	}
	return toRect(d.call("offset", id))
}

func (d *Document) ClientRect(el dom.Element) dom.Rect {
	id := d.idOf(el)
	if id == 0 {
		return dom.Rect{}
	}
	return toRect(d.call("rect", id))
}

func (d *Document) InViewport(el dom.Element) bool {
	id := d.idOf(el)
	if id == 0 {
		return false
	}
	ok, _ := d.call("inViewport", id).(bool)
	return ok
}

func (d *Document) ComputedStyle(el dom.Element, prop string) string {
	id := d.idOf(el)
	if id == 0 {
		return ""
	}
	s, _ := d.call("computed", id, prop).(string)
	return s
}

func (d *Document) ScrollOffset() (x, y float64) {
	pair, _ := d.call("scroll").([]interface{})
	if len(pair) != 2 {
		return 0, 0
	}
	return toFloat(pair[0]), toFloat(pair[1])
}

func (d *Document) ScrollTo(x, y float64) { d.call("scrollTo", x, y) }

func (d *Document) ScrollBy(dx, dy float64) { d.call("scrollBy", dx, dy) }

func (d *Document) ActiveElement() dom.Element { return d.wrap(d.call("active")) }

// AddKeyListener registers fn for keydown events. The page calls
// preventDefault itself for Enter on tour buttons, so the PreventDefault
// hook delivered with each event does nothing.
func (d *Document) AddKeyListener(fn func(dom.KeyEvent)) func() {
	d.mu.Lock()
	d.nextListener++
	id := d.nextListener
	d.keyListeners[id] = fn
	bind := !d.keysBound
	d.keysBound = true
	d.mu.Unlock()

	if bind {
		d.call("bindKeys")
	}
	return func() {
		d.mu.Lock()
		delete(d.keyListeners, id)
		d.mu.Unlock()
	}
}

func (d *Document) AddResizeListener(fn func()) func() {
	d.mu.Lock()
	d.nextListener++
	id := d.nextListener
	d.resizeListeners[id] = fn
	bind := !d.resizeBound
	d.resizeBound = true
	d.mu.Unlock()

	if bind {
		d.call("bindResize")
	}
	return func() {
		d.mu.Lock()
		delete(d.resizeListeners, id)
		d.mu.Unlock()
	}
}

func (d *Document) onClick(id int, fn func()) {
	d.mu.Lock()
	d.clicks[id] = append(d.clicks[id], fn)
	d.mu.Unlock()
	d.call("bindClick", id)
}

// binding receives page events. It runs on playwright's goroutine.
func (d *Document) binding(args ...interface{}) interface{} {
	if len(args) < 2 {
		return nil
	}
	kind, _ := args[0].(string)
	d.dispatch(kind, args[1])
	return nil
}

func (d *Document) dispatch(kind string, payload interface{}) {
	if d.poster == nil {
		browserDebugLog.Debugf("Dropping %s event: no poster", kind)
		return
	}

	switch kind {
	case "click":
		id := toInt(payload)
		d.poster.Post(func() {
			d.mu.Lock()
			handlers := append([]func(){}, d.clicks[id]...)
			d.mu.Unlock()
			for _, fn := range handlers {
				fn()
			}
		})
	case "key":
		m, _ := payload.(map[string]interface{})
		key, _ := m["key"].(string)
		target := m["target"]
		d.poster.Post(func() {
			ev := dom.KeyEvent{
				Key:            key,
				Target:         d.wrap(target),
				PreventDefault: func() {},
			}
			for _, fn := range d.keySnapshot() {
				fn(ev)
			}
		})
	case "resize":
		d.poster.Post(func() {
			for _, fn := range d.resizeSnapshot() {
				fn()
			}
		})
	default:
		browserDebugLog.Warnf("Unknown page event %q", kind)
	}
}

func (d *Document) keySnapshot() []func(dom.KeyEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.keyListeners))
	for id := range d.keyListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(dom.KeyEvent), 0, len(ids))
	for _, id := range ids {
		out = append(out, d.keyListeners[id])
	}
	return out
}

func (d *Document) resizeSnapshot() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.resizeListeners))
	for id := range d.resizeListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, d.resizeListeners[id])
	}
	return out
}

// element is a handle into the page registry. Handles for the same node
// carry the same id, so they compare equal.
type element struct {
	doc *Document
	id  int
}

func (e element) TagName() string {
	s, _ := e.doc.call("tag", e.id).(string)
	return s
}

func (e element) Attr(name string) (string, bool) {
	pair, _ := e.doc.call("attr", e.id, name).([]interface{})
	if len(pair) != 2 {
		return "", false
	}
	v, _ := pair[0].(string)
	ok, _ := pair[1].(bool)
	return v, ok
}

func (e element) SetAttr(name, value string) { e.doc.call("setAttr", e.id, name, value) }

func (e element) RemoveAttr(name string) { e.doc.call("removeAttr", e.id, name) }

func (e element) ClassName() string {
	s, _ := e.doc.call("className", e.id).(string)
	return s
}

func (e element) SetClassName(className string) { e.doc.call("setClassName", e.id, className) }

func (e element) SetStyle(prop, value string) { e.doc.call("setStyle", e.id, prop, value) }

func (e element) Style(prop string) string {
	s, _ := e.doc.call("style", e.id, prop).(string)
	return s
}

func (e element) InnerHTML() string {
	s, _ := e.doc.call("innerHTML", e.id).(string)
	return s
}

func (e element) SetInnerHTML(html string) { e.doc.call("setInnerHTML", e.id, html) }

func (e element) AppendChild(child dom.Element) {
	if id := e.doc.idOf(child); id != 0 {
		e.doc.call("append", e.id, id)
	}
}

func (e element) Remove() { e.doc.call("remove", e.id) }

func (e element) Parent() dom.Element { return e.doc.wrap(e.doc.call("parent", e.id)) }

func (e element) Contains(other dom.Element) bool {
	id := e.doc.idOf(other)
	if id == 0 {
		return false
	}
	ok, _ := e.doc.call("contains", e.id, id).(bool)
	return ok
}

func (e element) Focus() { e.doc.call("focus", e.id) }

func (e element) OnClick(fn func()) { e.doc.onClick(e.id, fn) }

func (e element) QuerySelector(selector string) dom.Element {
	return e.doc.wrap(e.doc.call("query", e.id, selector))
}

func (e element) QuerySelectorAll(selector string) []dom.Element {
	return e.doc.wrapAll(e.doc.call("queryAll", e.id, selector))
}

// Playwright hands whole numbers back as int and the rest as float64.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func toInt(v interface{}) int {
	return int(toFloat(v))
}

func toRect(v interface{}) dom.Rect {
	m, _ := v.(map[string]interface{})
	return dom.Rect{
		Top:    toFloat(m["top"]),
		Left:   toFloat(m["left"]),
		Width:  toFloat(m["width"]),
		Height: toFloat(m["height"]),
	}
}
