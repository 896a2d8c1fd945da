package memdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetour/pkg/dom"
)

const page = `<!DOCTYPE html>
<html><body>
  <div id="a" data-intro-text="first" data-intro-tooltipClass="wide"></div>
  <div id="wrap" style="opacity: 0.5">
    <span id="b" data-intro-key="b-key" class="x y"></span>
  </div>
  <p id="hidden" hidden></p>
</body></html>`

func TestQuerySelectors(t *testing.T) {
	d := MustParse(page)

	all := d.QuerySelectorAll("*[data-intro-text], *[data-intro-key]")
	require.Len(t, all, 2)
	assert.Equal(t, "div", all[0].TagName())
	assert.Equal(t, "span", all[1].TagName())

	wrap := d.QuerySelector("#wrap")
	require.NotNil(t, wrap)
	assert.Len(t, wrap.QuerySelectorAll("*"), 1)
	assert.Nil(t, wrap.QuerySelector("#a"))

	assert.Nil(t, d.QuerySelector("[[bad"))
}

func TestElementIdentity(t *testing.T) {
	d := MustParse(page)
	assert.True(t, d.QuerySelector("#b") == d.QuerySelector(".x"))
	assert.True(t, d.QuerySelector("#b").Parent() == d.QuerySelector("#wrap"))
}

func TestAttributesAreCaseInsensitive(t *testing.T) {
	d := MustParse(page)
	a := d.QuerySelector("#a")
	v, ok := a.Attr("data-intro-tooltipClass")
	assert.True(t, ok)
	assert.Equal(t, "wide", v)
}

func TestClassHelpers(t *testing.T) {
	d := MustParse(page)
	b := d.QuerySelector("#b")

	dom.AddClass(b, "introjs-showElement")
	dom.AddClass(b, "introjs-showElement")
	assert.Equal(t, "x y introjs-showElement", b.ClassName())

	dom.RemoveClass(b, "x")
	assert.Equal(t, "y introjs-showElement", b.ClassName())
	assert.True(t, dom.HasClass(b, "y"))
	assert.Equal(t, b, d.QuerySelector(".introjs-showElement"))
}

func TestStyleMutation(t *testing.T) {
	d := MustParse(page)
	el := d.CreateElement("div")
	el.SetStyle("width", "10px")
	el.SetStyle("top", "5px")
	el.SetStyle("width", "20px")
	assert.Equal(t, "20px", el.Style("width"))

	el.SetStyle("top", "")
	assert.Equal(t, "", el.Style("top"))
	v, _ := el.Attr("style")
	assert.Equal(t, "width: 20px;", v)
}

func TestGeometry(t *testing.T) {
	d := MustParse(page)
	d.SetViewport(800, 600)

	a := d.QuerySelector("#a")
	d.SetBox(a, dom.Rect{Top: 700, Left: 10, Width: 50, Height: 20})
	assert.False(t, d.InViewport(a))

	d.ScrollBy(0, 200)
	assert.Equal(t, dom.Rect{Top: 500, Left: 10, Width: 50, Height: 20}, d.ClientRect(a))
	assert.True(t, d.InViewport(a))

	el := d.CreateElement("div")
	el.SetStyle("width", "30px")
	el.SetStyle("height", "40px")
	el.SetStyle("top", "5px")
	assert.Equal(t, dom.Rect{Top: 5, Width: 30, Height: 40}, d.Offset(el))

	d.SetDefaultSize("introjs-tooltip", dom.Size{Width: 200, Height: 100})
	tip := d.CreateElement("div")
	tip.SetClassName("introjs-tooltip")
	assert.Equal(t, dom.Rect{Width: 200, Height: 100}, d.Offset(tip))

	assert.Equal(t, dom.Rect{Width: 800, Height: 600}, d.Offset(d.Body()))
}

func TestComputedStyle(t *testing.T) {
	d := MustParse(page)
	assert.Equal(t, "0.5", d.ComputedStyle(d.QuerySelector("#wrap"), "opacity"))
	assert.Equal(t, "none", d.ComputedStyle(d.QuerySelector("#hidden"), "display"))
	assert.Equal(t, "inline", d.ComputedStyle(d.QuerySelector("#b"), "display"))
	assert.Equal(t, "static", d.ComputedStyle(d.QuerySelector("#a"), "position"))
	assert.Equal(t, "none", d.ComputedStyle(d.QuerySelector("#a"), "transform"))
}

func TestInnerHTMLAndTree(t *testing.T) {
	d := MustParse(page)
	el := d.CreateElement("div")
	el.SetInnerHTML(`<b>bold</b> text`)
	assert.Equal(t, `<b>bold</b> text`, el.InnerHTML())

	d.Body().AppendChild(el)
	assert.True(t, d.Body().Contains(el))
	el.Remove()
	assert.False(t, d.Body().Contains(el))
	assert.Nil(t, el.Parent())
}

func TestListenersAndEvents(t *testing.T) {
	d := MustParse(page)

	var keys []string
	remove := d.AddKeyListener(func(ev dom.KeyEvent) {
		keys = append(keys, ev.Key)
		if ev.Key == dom.KeyEnter && ev.PreventDefault != nil {
			ev.PreventDefault()
		}
	})
	assert.Equal(t, 1, d.KeyListenerCount())
	assert.True(t, d.PressKey(dom.KeyEnter))
	assert.False(t, d.PressKey(dom.KeyArrowLeft))
	remove()
	d.PressKey(dom.KeyEscape)
	assert.Equal(t, []string{dom.KeyEnter, dom.KeyArrowLeft}, keys)
	assert.Equal(t, 0, d.KeyListenerCount())

	resized := 0
	d.AddResizeListener(func() { resized++ })
	d.Resize(320, 480)
	assert.Equal(t, 1, resized)
	assert.Equal(t, dom.Size{Width: 320, Height: 480}, d.Viewport())

	clicked := false
	btn := d.CreateElement("a")
	btn.OnClick(func() { clicked = true })
	d.Click(btn)
	assert.True(t, clicked)
}

func TestActiveElementRequiresAttachment(t *testing.T) {
	d := MustParse(page)
	btn := d.CreateElement("a")
	btn.Focus()
	assert.Nil(t, d.ActiveElement())

	d.Body().AppendChild(btn)
	assert.Equal(t, btn, d.ActiveElement())
}
