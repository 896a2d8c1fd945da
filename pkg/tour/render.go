package tour

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/placement"
	"github.com/entrhq/pagetour/pkg/types"
)

const (
	// settleDelay lets the highlight's size transition finish before the
	// tooltip is measured and placed.
	settleDelay         = 350 * time.Millisecond
	overlayFadeDelay    = 500 * time.Millisecond
	overlayOpacityDelay = 10 * time.Millisecond

	scrollUpPadding   = 30
	scrollDownPadding = 100
)

var numericZIndex = regexp.MustCompile(`[0-9]+`)

// showStep renders s as the current step. On the first render it builds
// the layers; later renders move them and re-place the tooltip once the
// settle delay has passed. Text is resolved before anything on the page
// changes, so a missing text leaves the previous step on screen.
func (t *Tour) showStep(s *Step) error {
	text, err := renderIntroText(s.Intro, t.opts.ActiveRoles, t.opts.TextTemplate)
	if err != nil {
		return err
	}

	if t.onChange != nil {
		t.onChange(s.Element)
	}

	if t.shown >= 0 && t.shown < len(t.items) && t.shown != t.current {
		if hide := t.items[t.shown].OnHide; hide != nil {
			hide()
		}
	}
	if s.OnShow != nil {
		s.OnShow()
	}
	t.shown = t.current

	highlightClass := dom.ClassList(classHelperLayer, s.HighlightClass, t.opts.HighlightClass)

	if t.layers.helper != nil {
		t.updateLayers(s, text, highlightClass)
	} else {
		t.buildLayers(s, text, highlightClass)
	}

	if t.opts.DisableInteraction {
		t.disableInteraction()
	}

	t.updateButtons(s)
	t.markTarget(s)
	t.scrollIntoView(s)

	t.log.Debugf("Tour %s showing step %d (%s)", t.id, s.Number, s.Selector)
	t.emit(t.stepEvent(types.EventTypeStepShown, t.current))

	if t.onAfterChange != nil {
		t.onAfterChange(s.Element)
	}
	return nil
}

// updateLayers moves the existing layers to s and schedules the tooltip
// update. A pending update from an earlier transition is cancelled.
func (t *Tour) updateLayers(s *Step, text, highlightClass string) {
	l := t.layers

	l.helper.SetClassName(highlightClass)
	l.tooltip.SetStyle("opacity", "0")
	l.tooltip.SetStyle("display", "none")

	if l.helperNumber != nil {
		last := t.items[max(t.current-1, 0)]
		if (t.direction == Forward && last.Position == placement.Floating) ||
			(t.direction == Backward && s.Position == placement.Floating) {
			l.helperNumber.SetStyle("opacity", "0")
		}
	}

	l.next.SetInnerHTML(s.NextLabel)
	l.prev.SetInnerHTML(s.PrevLabel)
	l.skip.SetInnerHTML(s.SkipLabel)

	t.setHelperLayerPosition(l.helper)
	t.setHelperLayerPosition(l.reference)

	t.clearFixParents()
	t.clearShowElement()

	if t.settle != nil {
		t.settle.Stop()
	}
	t.settle = t.sched.AfterFunc(settleDelay, func() {
		t.settle = nil
		if t.layers == nil {
			return
		}
		t.afterSettle(s, text)
	})
}

func (t *Tour) afterSettle(s *Step, text string) {
	l := t.layers

	if l.helperNumber != nil {
		l.helperNumber.SetInnerHTML(itoa(s.Number))
	}
	l.stepNumberActive.SetInnerHTML(itoa(t.activeStepNumber(s.Number)))
	l.tooltipText.SetInnerHTML(text)
	l.tooltip.SetStyle("display", "block")

	t.placeAndReport(s)

	for _, b := range l.bullets {
		if b.number == s.Number {
			b.anchor.SetClassName("active")
		} else {
			b.anchor.SetClassName("")
		}
	}

	l.progressBar.SetAttr("style", "width:"+ftoa(t.Progress())+"%;")

	l.tooltip.SetStyle("opacity", "1")
	if l.helperNumber != nil {
		l.helperNumber.SetStyle("opacity", "1")
	}
}

func (t *Tour) placeAndReport(s *Step) {
	res := t.placeTooltip(s)
	t.emit(types.NewStepPlacedEvent(t.id, t.current, s.Number, len(t.items), types.Placement{
		Side:      string(res.Side),
		Arrow:     res.Arrow,
		Requested: string(s.Position),
	}).WithSelector(s.Selector))
}

// placeTooltip measures the target and tooltip and applies the resolved
// placement to the tooltip and arrow.
func (t *Tour) placeTooltip(s *Step) placement.Result {
	l := t.layers
	tip := l.tooltip

	for _, prop := range []string{"top", "right", "bottom", "left", "margin-left", "margin-top"} {
		tip.SetStyle(prop, "")
	}
	l.arrow.SetStyle("display", "inherit")
	if l.helperNumber != nil {
		l.helperNumber.SetStyle("top", "")
		l.helperNumber.SetStyle("left", "")
	}

	edge := ""
	if t.current == 0 {
		edge = classFirstTooltip
	}
	if t.current == len(t.items)-1 {
		edge = classLastTooltip
	}
	tip.SetClassName(dom.ClassList(t.opts.TooltipClass, s.TooltipClass, edge))
	l.overlay.SetClassName(dom.ClassList(classOverlay, s.OverlayClass))
	l.helper.SetClassName(dom.ClassList(classHelperLayer, s.HighlightClass, t.opts.HighlightClass, s.HelperClass))

	target := t.doc.Offset(s.Element)
	tooltip := t.doc.Offset(tip)
	viewport := t.doc.Viewport()

	res := placement.Compute(placement.Input{
		Target:          placement.Box{Top: target.Top, Left: target.Left, Width: target.Width, Height: target.Height},
		Tooltip:         placement.Size{Width: tooltip.Width, Height: tooltip.Height},
		Viewport:        placement.Size{Width: viewport.Width, Height: viewport.Height},
		Side:            s.Position,
		AutoDefault:     t.opts.TooltipPosition == placement.Auto,
		Precedence:      t.opts.PositionPrecedence,
		OffsetX:         s.OffsetX,
		OffsetY:         s.OffsetY,
		ShowStepNumbers: t.opts.ShowStepNumbers,
	})

	for _, kv := range res.Edges.Styles() {
		if kv[1] != "" {
			tip.SetStyle(kv[0], kv[1])
		}
	}
	if res.ShowArrow {
		l.arrow.SetClassName(classArrow + " " + res.Arrow)
	} else {
		l.arrow.SetStyle("display", "none")
	}

	t.log.Debugf("Tour %s step %d placed %s (requested %s)", t.id, s.Number, res.Side, s.Position)
	return res
}

// setHelperLayerPosition sizes el to the current target plus padding.
// Floating steps get no padding.
func (t *Tour) setHelperLayerPosition(el dom.Element) {
	if el == nil || t.current < 0 || t.current >= len(t.items) {
		return
	}
	s := t.items[t.current]
	pos := t.doc.Offset(s.Element)
	pad := t.opts.HelperElementPadding
	if s.Position == placement.Floating {
		pad = 0
	}
	el.SetAttr("style", fmt.Sprintf("width: %s; height: %s; top: %s; left: %s;",
		px(pos.Width+pad), px(pos.Height+pad), px(pos.Top-pad/2), px(pos.Left-pad/2)))
}

// updateButtons shows, hides and relabels the navigation buttons for the
// current position.
func (t *Tour) updateButtons(s *Step) {
	l := t.layers
	count := len(t.items)
	atCheckpoint := t.opts.isCheckpoint(t.current)

	l.prev.RemoveAttr("tabindex")
	l.next.RemoveAttr("tabindex")

	switch {
	case t.current == 0 && count > 1:
		l.prev.SetClassName(dom.ClassList(classButton, classPrevButton, classHidden))
		l.prev.SetAttr("tabindex", "-1")
		l.next.SetClassName(dom.ClassList(classButton, classOnlyNextButton))
		l.skip.SetInnerHTML(s.SkipLabel)
		if t.opts.FocusOnNextDoneButtons {
			l.next.Focus()
		}
	case t.current == count-1 && count > 1:
		prevClass := dom.ClassList(classButton, classOnlyPrevButton)
		if atCheckpoint {
			prevClass = dom.ClassList(prevClass, classHidden)
		}
		l.prev.SetClassName(prevClass)
		l.next.SetClassName(dom.ClassList(classButton, classNextButton, classHidden))
		l.next.SetAttr("tabindex", "-1")
		l.skip.SetInnerHTML(s.SkipLabel)
		if t.opts.FocusOnNextDoneButtons {
			l.skip.Focus()
		}
	case count == 1:
		l.prev.SetClassName(dom.ClassList(classButton, classPrevButton, classHidden))
		l.prev.SetAttr("tabindex", "-1")
		l.next.SetClassName(dom.ClassList(classButton, classNextButton, classHidden))
		l.next.SetAttr("tabindex", "-1")
		l.skip.SetInnerHTML(s.SkipLabel)
		if t.opts.FocusOnNextDoneButtons {
			l.skip.Focus()
		}
	default:
		if atCheckpoint {
			l.prev.SetClassName(dom.ClassList(classButton, classPrevButton, classHidden))
			l.next.SetClassName(dom.ClassList(classButton, classOnlyNextButton))
		} else {
			l.prev.SetClassName(dom.ClassList(classButton, classPrevButton))
			l.next.SetClassName(dom.ClassList(classButton, classNextButton))
		}
		l.skip.SetInnerHTML(s.SkipLabel)
		if t.opts.FocusOnNextDoneButtons {
			l.next.Focus()
		}
	}
}

// markTarget lifts the target above the overlay and marks every ancestor
// that would otherwise trap it in its own stacking context.
func (t *Tour) markTarget(s *Step) {
	l := t.layers
	el := s.Element

	dom.AddClass(el, classShowElement)
	l.showElement = el

	switch t.doc.ComputedStyle(el, "position") {
	case "absolute", "relative", "fixed":
	default:
		dom.AddClass(el, classRelativePosition)
	}

	for p := el.Parent(); p != nil && !dom.IsRoot(p); p = p.Parent() {
		zIndex := t.doc.ComputedStyle(p, "z-index")
		opacity, err := strconv.ParseFloat(t.doc.ComputedStyle(p, "opacity"), 64)
		if err != nil {
			opacity = 1
		}
		transform := t.doc.ComputedStyle(p, "transform")
		if numericZIndex.MatchString(zIndex) || opacity < 1 || (transform != "" && transform != "none") {
			dom.AddClass(p, classFixParent)
			l.fixParents = append(l.fixParents, p)
		}
	}
}

// scrollIntoView brings the target on screen. Whole-page steps scroll to
// the top.
func (t *Tour) scrollIntoView(s *Step) {
	el := s.Element
	if dom.IsRoot(el) {
		t.doc.ScrollTo(0, 0)
		return
	}
	if !t.opts.ScrollToElement || t.doc.InViewport(el) {
		return
	}

	rect := t.doc.ClientRect(el)
	winHeight := t.doc.Viewport().Height
	if rect.Top < 0 || rect.Height > winHeight {
		t.doc.ScrollBy(0, rect.Top-scrollUpPadding)
	} else {
		t.doc.ScrollBy(0, rect.Bottom()-winHeight+scrollDownPadding)
	}
}

// activeStepNumber is number minus the mobile-skipped steps before it.
func (t *Tour) activeStepNumber(number int) int {
	active := number
	for i := 0; i < number-1 && i < len(t.items); i++ {
		if t.skipped(t.items[i]) {
			active--
		}
	}
	return active
}

// numberOfSteps counts the steps that are not mobile-skipped.
func (t *Tour) numberOfSteps() int {
	n := len(t.items)
	for _, s := range t.items {
		if t.skipped(s) {
			n--
		}
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func px(f float64) string { return ftoa(f) + "px" }
