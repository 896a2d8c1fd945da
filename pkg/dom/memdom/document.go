// Package memdom is an in-memory dom.Document parsed from HTML.
//
// There is no layout engine. Element boxes are absolute page coordinates
// taken, in order of precedence, from SetBox, from inline px styles
// (top/left/width/height), or from a per-class default size registered
// with SetDefaultSize. Everything else measures as an empty box at the page
// origin. Tests use it to drive tours without a browser.
package memdom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/entrhq/pagetour/pkg/dom"
)

// Document is an in-memory page.
type Document struct {
	root *html.Node
	body *html.Node

	elems     map[*html.Node]*Element
	boxes     map[*html.Node]dom.Rect
	defaults  map[string]dom.Size
	selectors map[string]cascadia.Selector

	viewport         dom.Size
	scrollX, scrollY float64
	active           *Element

	nextListener    int
	keyListeners    map[int]func(dom.KeyEvent)
	resizeListeners map[int]func()

	mu sync.Mutex
}

// Parse builds a document from an HTML string. The viewport defaults to
// 1024x768.
func Parse(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	d := &Document{
		root:            root,
		elems:           make(map[*html.Node]*Element),
		boxes:           make(map[*html.Node]dom.Rect),
		defaults:        make(map[string]dom.Size),
		selectors:       make(map[string]cascadia.Selector),
		viewport:        dom.Size{Width: 1024, Height: 768},
		keyListeners:    make(map[int]func(dom.KeyEvent)),
		resizeListeners: make(map[int]func()),
	}
	d.body = findFirst(root, atom.Body)
	if d.body == nil {
		return nil, fmt.Errorf("document has no body")
	}
	return d, nil
}

// MustParse is Parse for tests; it panics on error.
func MustParse(src string) *Document {
	d, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return d
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elems[n]; ok {
		return el
	}
	el := &Element{doc: d, n: n}
	d.elems[n] = el
	return el
}

// toElement converts a dom.Element to this document's *Element, returning
// nil for nil interfaces and foreign implementations.
func toElement(el dom.Element) *Element {
	if el == nil {
		return nil
	}
	e, ok := el.(*Element)
	if !ok || e == nil {
		return nil
	}
	return e
}

func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if sel, ok := d.selectors[selector]; ok {
		return sel, true
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, false
	}
	d.selectors[selector] = sel
	return sel, true
}

func (d *Document) queryAll(scope *html.Node, selector string) []dom.Element {
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	var out []dom.Element
	for _, n := range sel.MatchAll(scope) {
		if n == scope {
			continue
		}
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) queryFirst(scope *html.Node, selector string) dom.Element {
	all := d.queryAll(scope, selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Body returns the body element.
func (d *Document) Body() dom.Element { return d.wrap(d.body) }

// QuerySelector returns the first match in document order, or nil. Invalid
// selectors match nothing.
func (d *Document) QuerySelector(selector string) dom.Element {
	return d.queryFirst(d.root, selector)
}

// QuerySelectorAll returns every match in document order.
func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	return d.queryAll(d.root, selector)
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.wrap(n)
}

// SetViewport changes the viewport without firing resize listeners.
func (d *Document) SetViewport(width, height float64) {
	d.viewport = dom.Size{Width: width, Height: height}
}

// Resize changes the viewport and fires resize listeners.
func (d *Document) Resize(width, height float64) {
	d.SetViewport(width, height)
	for _, fn := range d.resizeSnapshot() {
		fn()
	}
}

// Viewport returns the viewport size.
func (d *Document) Viewport() dom.Size { return d.viewport }

// SetBox pins el's page box.
func (d *Document) SetBox(el dom.Element, r dom.Rect) {
	if e := toElement(el); e != nil {
		d.boxes[e.n] = r
	}
}

// SetDefaultSize gives every element carrying class a default size when it
// has no explicit box or inline size.
func (d *Document) SetDefaultSize(class string, s dom.Size) {
	d.defaults[class] = s
}

// Offset returns el's page box.
func (d *Document) Offset(el dom.Element) dom.Rect {
	e := toElement(el)
	if e == nil {
		return dom.Rect{}
	}
	if r, ok := d.boxes[e.n]; ok {
		return r
	}

	var r dom.Rect
	sized := false
	if v, ok := pxValue(e.Style("width")); ok {
		r.Width, sized = v, true
	}
	if v, ok := pxValue(e.Style("height")); ok {
		r.Height, sized = v, true
	}
	if v, ok := pxValue(e.Style("top")); ok {
		r.Top = v
	}
	if v, ok := pxValue(e.Style("left")); ok {
		r.Left = v
	}
	if sized {
		return r
	}

	for _, c := range strings.Fields(e.ClassName()) {
		if s, ok := d.defaults[c]; ok {
			r.Width, r.Height = s.Width, s.Height
			return r
		}
	}
	if e.n == d.body {
		r.Width, r.Height = d.viewport.Width, d.viewport.Height
	}
	return r
}

// ClientRect returns el's box relative to the scrolled viewport.
func (d *Document) ClientRect(el dom.Element) dom.Rect {
	r := d.Offset(el)
	r.Top -= d.scrollY
	r.Left -= d.scrollX
	return r
}

// InViewport reports whether any corner of el is inside the viewport.
// memdom has no stacking, so a corner is hit whenever it is on screen.
func (d *Document) InViewport(el dom.Element) bool {
	r := d.ClientRect(el)
	vw, vh := d.viewport.Width, d.viewport.Height
	if r.Right() < 0 || r.Bottom() < 0 || r.Left > vw || r.Top > vh {
		return false
	}
	corners := [][2]float64{
		{r.Left, r.Top}, {r.Right(), r.Top},
		{r.Right(), r.Bottom()}, {r.Left, r.Bottom()},
	}
	for _, c := range corners {
		if c[0] >= 0 && c[0] <= vw && c[1] >= 0 && c[1] <= vh {
			return true
		}
	}
	return false
}

var styleDefaults = map[string]string{
	"display":   "block",
	"position":  "static",
	"opacity":   "1",
	"transform": "none",
	"z-index":   "auto",
}

// ComputedStyle returns the inline value of prop, or the CSS initial value
// for the handful of properties tours inspect.
func (d *Document) ComputedStyle(el dom.Element, prop string) string {
	e := toElement(el)
	if e == nil {
		return ""
	}
	prop = strings.ToLower(prop)
	if v := e.Style(prop); v != "" {
		return strings.ToLower(v)
	}
	if prop == "display" {
		if _, hidden := e.Attr("hidden"); hidden {
			return "none"
		}
		switch e.n.DataAtom {
		case atom.Span, atom.A, atom.Em, atom.Strong, atom.Code:
			return "inline"
		}
	}
	return styleDefaults[prop]
}

// ScrollOffset returns the current scroll position.
func (d *Document) ScrollOffset() (float64, float64) { return d.scrollX, d.scrollY }

// ScrollTo sets the scroll position.
func (d *Document) ScrollTo(x, y float64) {
	d.scrollX, d.scrollY = clampScroll(x), clampScroll(y)
}

// ScrollBy moves the scroll position.
func (d *Document) ScrollBy(dx, dy float64) {
	d.ScrollTo(d.scrollX+dx, d.scrollY+dy)
}

func clampScroll(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ActiveElement returns the focused element while it is still attached.
func (d *Document) ActiveElement() dom.Element {
	if d.active == nil || !d.attached(d.active.n) {
		return nil
	}
	return d.active
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// AddKeyListener registers a keydown listener.
func (d *Document) AddKeyListener(fn func(dom.KeyEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	id := d.nextListener
	d.keyListeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.keyListeners, id)
	}
}

// AddResizeListener registers a resize listener.
func (d *Document) AddResizeListener(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	id := d.nextListener
	d.resizeListeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.resizeListeners, id)
	}
}

// KeyListenerCount returns the number of attached key listeners.
func (d *Document) KeyListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keyListeners)
}

// ResizeListenerCount returns the number of attached resize listeners.
func (d *Document) ResizeListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.resizeListeners)
}

// PressKey dispatches a keydown to every listener with the focused element
// as target. It reports whether any listener prevented the default action.
func (d *Document) PressKey(key string) bool {
	prevented := false
	ev := dom.KeyEvent{
		Key:            key,
		Target:         d.ActiveElement(),
		PreventDefault: func() { prevented = true },
	}
	d.mu.Lock()
	ids := make([]int, 0, len(d.keyListeners))
	for id := range d.keyListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(dom.KeyEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, d.keyListeners[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	return prevented
}

// Click fires el's click handlers.
func (d *Document) Click(el dom.Element) {
	e := toElement(el)
	if e == nil {
		return
	}
	handlers := append([]func(){}, e.clicks...)
	for _, fn := range handlers {
		fn()
	}
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	var b strings.Builder
	_ = html.Render(&b, d.root)
	return b.String()
}

func (d *Document) resizeSnapshot() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.resizeListeners))
	for id := range d.resizeListeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, d.resizeListeners[id])
	}
	return fns
}

var _ dom.Document = (*Document)(nil)
