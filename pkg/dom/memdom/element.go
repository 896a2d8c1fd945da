package memdom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/pagetour/pkg/dom"
)

// Element is a node in a memdom Document.
type Element struct {
	doc    *Document
	n      *html.Node
	clicks []func()
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.n }

func (e *Element) TagName() string { return strings.ToLower(e.n.Data) }

// Attr looks up an attribute case-insensitively, as HTML documents do.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttr(name string) {
	kept := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if !strings.EqualFold(a.Key, name) {
			kept = append(kept, a)
		}
	}
	e.n.Attr = kept
}

func (e *Element) ClassName() string {
	v, _ := e.Attr("class")
	return v
}

func (e *Element) SetClassName(className string) {
	if className == "" {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", className)
}

func (e *Element) SetStyle(prop, value string) {
	raw, _ := e.Attr("style")
	decls := parseStyle(raw)
	prop = strings.ToLower(strings.TrimSpace(prop))

	replaced := false
	kept := decls[:0]
	for _, d := range decls {
		if d.prop == prop {
			if value == "" {
				continue
			}
			d.value = value
			replaced = true
		}
		kept = append(kept, d)
	}
	if !replaced && value != "" {
		kept = append(kept, declaration{prop: prop, value: value})
	}
	if len(kept) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(kept))
}

func (e *Element) Style(prop string) string {
	raw, _ := e.Attr("style")
	prop = strings.ToLower(strings.TrimSpace(prop))
	for _, d := range parseStyle(raw) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func (e *Element) SetInnerHTML(src string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), e.n)
	if err != nil {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: src})
		return
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		e.n.AppendChild(n)
	}
}

func (e *Element) AppendChild(child dom.Element) {
	c := toElement(child)
	if c == nil || c == e {
		return
	}
	if c.n.Parent != nil {
		c.n.Parent.RemoveChild(c.n)
	}
	e.n.AppendChild(c.n)
}

func (e *Element) Remove() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

func (e *Element) Parent() dom.Element {
	if p := e.n.Parent; p != nil && p.Type == html.ElementNode {
		return e.doc.wrap(p)
	}
	return nil
}

func (e *Element) Contains(other dom.Element) bool {
	o := toElement(other)
	if o == nil {
		return false
	}
	for n := o.n; n != nil; n = n.Parent {
		if n == e.n {
			return true
		}
	}
	return false
}

func (e *Element) Focus() { e.doc.active = e }

func (e *Element) OnClick(fn func()) { e.clicks = append(e.clicks, fn) }

func (e *Element) QuerySelector(selector string) dom.Element {
	return e.doc.queryFirst(e.n, selector)
}

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	return e.doc.queryAll(e.n, selector)
}

var _ dom.Element = (*Element)(nil)

type declaration struct {
	prop  string
	value string
}

func parseStyle(raw string) []declaration {
	var out []declaration
	for _, part := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, value: value})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ") + ";"
}

func pxValue(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
