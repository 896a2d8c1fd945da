package tour

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/placement"
)

// Annotation attributes read from the page.
const (
	AttrStep           = "data-intro-step"
	AttrText           = "data-intro-text"
	AttrKey            = "data-intro-key"
	AttrSkipLabel      = "data-intro-skiplabel"
	AttrPrevLabel      = "data-intro-prevlabel"
	AttrNextLabel      = "data-intro-nextlabel"
	AttrTooltipClass   = "data-intro-tooltipClass"
	AttrHighlightClass = "data-intro-highlightClass"
	AttrPosition       = "data-intro-position"
	AttrStepNumber     = "data-intro-stepnumber"

	// attrNextLabelLegacy is the misspelled name older pages annotate with.
	attrNextLabelLegacy = "data-intro-nextlebel"
)

const floatingClass = "introjsFloatingElement"

// collect discovers, orders and decorates the tour's steps.
func (t *Tour) collect() ([]*Step, error) {
	var (
		items []*Step
		defs  []*StepDef
		err   error
	)
	if len(t.opts.Steps) > 0 {
		items, defs = t.collectProgrammatic()
	} else {
		items, err = t.collectDeclarative()
		if err != nil {
			return nil, err
		}
		defs = make([]*StepDef, len(items))
	}

	for i, s := range items {
		t.decorate(s, i, len(items), defs[i])
		if _, err := renderIntroText(s.Intro, t.opts.ActiveRoles, t.opts.TextTemplate); err != nil {
			return nil, &StepError{Number: s.Number, Err: err}
		}
	}
	return items, nil
}

func (t *Tour) collectProgrammatic() ([]*Step, []*StepDef) {
	var (
		items []*Step
		defs  []*StepDef
	)
	for i := range t.opts.Steps {
		def := t.opts.Steps[i]
		s := &Step{
			Number:   len(items) + 1,
			Element:  def.Element,
			Selector: def.Selector,
			Position: def.Position,
		}

		if s.Element == nil && def.Selector != "" {
			s.Element = t.doc.QuerySelector(def.Selector)
		}

		if s.Element == nil {
			skip := t.opts.SkipMissingElements
			if t.opts.SkipMissingFunc != nil {
				skip = t.opts.SkipMissingFunc(i, def)
			}
			if !skip {
				s.Element = t.floatingElement()
				s.Position = placement.Floating
				def.Position = placement.Floating
			} else {
				t.log.Debugf("Skipping step %d: no element for %q", i+1, def.Selector)
			}
		}

		if s.Element != nil && t.doc.ComputedStyle(s.Element, "display") != "none" {
			items = append(items, s)
			defs = append(defs, &def)
		}
	}
	return items, defs
}

// collectDeclarative scans the tour root for annotated elements. Explicitly
// numbered elements are placed first, then the rest take the lowest free
// numbers in document order. Unused numbers leave no gap in the result.
func (t *Tour) collectDeclarative() ([]*Step, error) {
	suffix := ""
	if hidden := t.opts.hiddenSelector(); hidden != "" {
		suffix = ":not(" + hidden + ")"
	}
	selector := "*[" + AttrText + "]" + suffix + ", *[" + AttrKey + "]" + suffix

	candidates := t.root.QuerySelectorAll(selector)
	if len(candidates) == 0 {
		return nil, ErrNoSteps
	}

	usedKeys := make(map[string]bool)
	isDuplicate := func(el dom.Element) bool {
		key, ok := el.Attr(AttrKey)
		if !ok || key == "" {
			return false
		}
		if usedKeys[key] {
			return true
		}
		usedKeys[key] = true
		return false
	}

	numbered := make(map[int]*Step)
	for _, el := range candidates {
		raw, _ := el.Attr(AttrStep)
		n := leadingInt(raw)
		if n > 0 && !isDuplicate(el) {
			numbered[n] = &Step{Element: el, Number: n}
		}
	}

	next := 1
	for _, el := range candidates {
		if _, has := el.Attr(AttrStep); has || isDuplicate(el) {
			continue
		}
		for numbered[next] != nil {
			next++
		}
		numbered[next] = &Step{Element: el, Number: next}
	}

	items := make([]*Step, 0, len(numbered))
	for _, s := range numbered {
		items = append(items, s)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Number < items[j].Number
	})
	return items, nil
}

// decorate fills a step's display metadata from its element's annotations
// and the tour options, then applies the programmatic overrides in def.
func (t *Tour) decorate(s *Step, index, count int, def *StepDef) {
	el := s.Element
	attr := func(name string) string {
		v, _ := el.Attr(name)
		return v
	}
	or := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}

	s.Key = attr(AttrKey)
	s.Intro = t.introFor(el)
	s.TooltipClass = attr(AttrTooltipClass)
	s.HighlightClass = attr(AttrHighlightClass)
	if s.Position == "" {
		s.Position = placement.Side(strings.ToLower(attr(AttrPosition)))
	}
	if s.Position == "" {
		s.Position = t.opts.TooltipPosition
	}
	s.PrevLabel = or(attr(AttrPrevLabel), t.opts.PrevLabel)
	s.NextLabel = or(or(attr(AttrNextLabel), attr(attrNextLabelLegacy)), t.opts.NextLabel)

	skip := t.opts.DoneLabel
	if index+1 < count {
		skip = t.opts.SkipLabel
	}
	s.SkipLabel = or(attr(AttrSkipLabel), skip)

	if s.Selector == "" {
		s.Selector = describe(el)
	}

	if def == nil {
		return
	}
	if !def.Intro.IsZero() {
		s.Intro = def.Intro.clone()
	}
	if def.Position != "" {
		s.Position = def.Position
	}
	s.TooltipClass = or(def.TooltipClass, s.TooltipClass)
	s.HighlightClass = or(def.HighlightClass, s.HighlightClass)
	s.OverlayClass = def.OverlayClass
	s.HelperClass = def.HelperClass
	s.PrevLabel = or(def.PrevLabel, s.PrevLabel)
	s.NextLabel = or(def.NextLabel, s.NextLabel)
	s.SkipLabel = or(def.SkipLabel, s.SkipLabel)
	s.OffsetX = def.OffsetX
	s.OffsetY = def.OffsetY
	s.SkipOnMobile = def.SkipOnMobile
	s.OnShow = def.OnShow
	s.OnHide = def.OnHide
}

// introFor looks the element's key up in the text dictionary and falls
// back to its inline text.
func (t *Tour) introFor(el dom.Element) IntroText {
	if key, ok := el.Attr(AttrKey); ok && key != "" {
		if text, found := t.textData[key]; found {
			return text.clone()
		}
	}
	text, _ := el.Attr(AttrText)
	return IntroText{Default: text}
}

// floatingElement returns the shared placeholder for steps without a
// target, creating it under the body on first use.
func (t *Tour) floatingElement() dom.Element {
	if t.floating != nil {
		return t.floating
	}
	if existing := t.doc.QuerySelector("." + floatingClass); existing != nil {
		t.floating = existing
		return existing
	}
	el := t.doc.CreateElement("div")
	el.SetClassName(floatingClass)
	t.doc.Body().AppendChild(el)
	t.floating = el
	return el
}

// describe builds a short selector for logs and artifacts.
func describe(el dom.Element) string {
	if el == nil {
		return ""
	}
	if id, ok := el.Attr("id"); ok && id != "" {
		return "#" + id
	}
	if key, ok := el.Attr(AttrKey); ok && key != "" {
		return fmt.Sprintf("[%s=%q]", AttrKey, key)
	}
	if dom.HasClass(el, floatingClass) {
		return "." + floatingClass
	}
	return el.TagName()
}

// leadingInt parses the leading decimal digits of s, ignoring surrounding
// space, and returns 0 when there are none. Values saturate at MaxInt32.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (math.MaxInt32-d)/10 {
			n = math.MaxInt32
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
