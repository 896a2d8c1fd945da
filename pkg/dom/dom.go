// Package dom describes the page surface a tour runs against: element
// queries, geometry, computed styles and the small mutation and listener
// surface the overlay needs.
//
// Two implementations ship with pagetour: memdom, an in-memory tree parsed
// from HTML, and browser.Document, which drives a live page through
// Playwright. The interfaces deliberately return no errors; backends that can
// fail record the first failure and expose it through their own Err method.
package dom

// Rect is an element box in CSS pixels.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns Top+Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns Left+Width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Size is a width/height pair, used for the viewport.
type Size struct {
	Width  float64
	Height float64
}

// Element is a handle to a node in the document. Two handles for the same
// node compare equal with ==.
type Element interface {
	TagName() string

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	ClassName() string
	SetClassName(className string)

	// SetStyle sets one inline style property; an empty value removes it.
	SetStyle(prop, value string)
	Style(prop string) string

	InnerHTML() string
	SetInnerHTML(html string)

	AppendChild(child Element)
	Remove()
	Parent() Element
	Contains(other Element) bool

	Focus()
	OnClick(fn func())

	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
}

// Key names delivered in KeyEvent.Key.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEnter      = "Enter"
)

// KeyEvent is a keydown delivered to listeners.
type KeyEvent struct {
	Key string
	// Target is the focused element when the key was pressed, or nil.
	Target Element
	// PreventDefault suppresses the browser's default action. It may be nil.
	PreventDefault func()
}

// Document is the geometry provider plus the mutation surface.
type Document interface {
	// Body returns the page root element used for full-page tours.
	Body() Element
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	CreateElement(tag string) Element

	Viewport() Size
	// Offset returns the page-relative box accumulated through the
	// offset-parent chain.
	Offset(el Element) Rect
	// ClientRect returns the viewport-relative bounding box.
	ClientRect(el Element) Rect
	// InViewport reports whether any corner of el is visible, sampled by
	// point hit-testing.
	InViewport(el Element) bool
	ComputedStyle(el Element, prop string) string

	ScrollOffset() (x, y float64)
	ScrollTo(x, y float64)
	ScrollBy(dx, dy float64)

	// ActiveElement returns the focused element, or nil.
	ActiveElement() Element

	// AddKeyListener and AddResizeListener return a function that detaches
	// the listener.
	AddKeyListener(fn func(KeyEvent)) (remove func())
	AddResizeListener(fn func()) (remove func())
}

// HasClass reports whether el carries class in its class list.
func HasClass(el Element, class string) bool {
	if el == nil || class == "" {
		return false
	}
	for _, c := range splitClasses(el.ClassName()) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to el's class list unless it is already present.
func AddClass(el Element, class string) {
	if el == nil || class == "" || HasClass(el, class) {
		return
	}
	current := el.ClassName()
	if current == "" {
		el.SetClassName(class)
		return
	}
	el.SetClassName(current + " " + class)
}

// RemoveClassIf removes every class for which drop returns true.
func RemoveClassIf(el Element, drop func(class string) bool) {
	if el == nil {
		return
	}
	classes := splitClasses(el.ClassName())
	kept := classes[:0]
	for _, c := range classes {
		if !drop(c) {
			kept = append(kept, c)
		}
	}
	el.SetClassName(joinClasses(kept))
}

// RemoveClass removes class from el's class list.
func RemoveClass(el Element, class string) {
	RemoveClassIf(el, func(c string) bool { return c == class })
}

// IsRoot reports whether el is the document body or html element.
func IsRoot(el Element) bool {
	if el == nil {
		return false
	}
	switch el.TagName() {
	case "body", "html":
		return true
	}
	return false
}
