package tour

import (
	"regexp"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/loop"
)

// CSS classes the overlay is built from. The stylesheet keys off these.
const (
	classOverlay            = "introjs-overlay"
	classHelperLayer        = "introjs-helperLayer"
	classReferenceLayer     = "introjs-tooltipReferenceLayer"
	classArrow              = "introjs-arrow"
	classTooltip            = "introjs-tooltip"
	classTooltipText        = "introjs-tooltiptext"
	classStepsNumber        = "introjs-steps-number"
	classStepNumberActive   = "introjs-stepNumberActive"
	classStepNumberSep      = "introjs-stepNumberSeparator"
	classStepNumberAmount   = "introjs-stepNumberAmount"
	classBullets            = "introjs-bullets"
	classProgress           = "introjs-progress"
	classProgressBar        = "introjs-progressbar"
	classButtons            = "introjs-tooltipbuttons"
	classButton             = "introjs-button"
	classNextButton         = "introjs-nextbutton"
	classPrevButton         = "introjs-prevbutton"
	classOnlyNextButton     = "introjs-only-nextbutton"
	classOnlyPrevButton     = "introjs-only-prevbutton"
	classSkipButton         = "introjs-skipbutton"
	classHidden             = "introjs-hidden"
	classHelperNumberLayer  = "introjs-helperNumberLayer"
	classDisableInteraction = "introjs-disableInteraction"
	classShowElement        = "introjs-showElement"
	classRelativePosition   = "introjs-relativePosition"
	classFixParent          = "introjs-fixParent"
	classFirstTooltip       = "first-tooltip"
	classLastTooltip        = "last-tooltip"
)

// tourClass matches the marker classes a tour puts on a target element.
var tourClass = regexp.MustCompile(`^introjs-[a-zA-Z]+$`)

// layers holds every element a running tour added to or marked on the page.
// It is owned by one Tour, so several tours can share a document.
type layers struct {
	root dom.Element

	overlay      dom.Element
	opacityTimer loop.Timer

	helper             dom.Element
	reference          dom.Element
	helperNumber       dom.Element
	disableInteraction dom.Element

	tooltip          dom.Element
	tooltipText      dom.Element
	arrow            dom.Element
	stepsNumber      dom.Element
	stepNumberActive dom.Element
	stepNumberAmount dom.Element
	bullets          []bullet
	progressBar      dom.Element

	skip dom.Element
	prev dom.Element
	next dom.Element

	showElement dom.Element
	fixParents  []dom.Element
}

type bullet struct {
	number int
	anchor dom.Element
}

func (t *Tour) newDiv(class string) dom.Element {
	el := t.doc.CreateElement("div")
	el.SetClassName(class)
	return el
}

func (t *Tour) newButton(class, label string, onClick func()) dom.Element {
	el := t.doc.CreateElement("a")
	el.SetClassName(class)
	el.SetAttr("href", "javascript:void(0);")
	el.SetInnerHTML(label)
	el.OnClick(onClick)
	return el
}

// addOverlay covers target with the dimming layer. The overlay fades in
// after a short delay so the opacity transition runs.
func (t *Tour) addOverlay(target dom.Element) {
	l := t.layers
	overlay := t.newDiv(classOverlay)

	if target.TagName() == "body" {
		overlay.SetStyle("top", "0")
		overlay.SetStyle("bottom", "0")
		overlay.SetStyle("left", "0")
		overlay.SetStyle("right", "0")
		overlay.SetStyle("position", "fixed")
	} else {
		pos := t.doc.Offset(target)
		overlay.SetStyle("width", px(pos.Width))
		overlay.SetStyle("height", px(pos.Height))
		overlay.SetStyle("top", px(pos.Top))
		overlay.SetStyle("left", px(pos.Left))
	}

	target.AppendChild(overlay)
	overlay.OnClick(t.onOverlayClick)
	l.overlay = overlay

	opacity := ftoa(t.opts.OverlayOpacity)
	l.opacityTimer = t.sched.AfterFunc(overlayOpacityDelay, func() {
		overlay.SetStyle("opacity", opacity)
	})
}

// buildLayers creates the highlight, reference layer and tooltip for the
// first rendered step.
func (t *Tour) buildLayers(s *Step, text, highlightClass string) {
	l := t.layers

	l.helper = t.newDiv(highlightClass)
	l.reference = t.newDiv(classReferenceLayer)
	t.setHelperLayerPosition(l.helper)
	t.setHelperLayerPosition(l.reference)
	l.root.AppendChild(l.helper)
	l.root.AppendChild(l.reference)

	l.arrow = t.newDiv(classArrow)

	l.tooltipText = t.newDiv(classTooltipText)
	l.tooltipText.SetInnerHTML(text)

	l.stepsNumber = t.newDiv(classStepsNumber)
	if !t.opts.ShowStepNumber {
		l.stepsNumber.SetStyle("display", "none")
	}
	l.stepNumberActive = t.doc.CreateElement("span")
	l.stepNumberActive.SetClassName(classStepNumberActive)
	l.stepNumberActive.SetInnerHTML(itoa(t.activeStepNumber(s.Number)))
	sep := t.doc.CreateElement("span")
	sep.SetClassName(classStepNumberSep)
	separator := t.opts.StepNumberSeparator
	if separator == "" {
		separator = "|"
	}
	sep.SetInnerHTML(separator)
	l.stepNumberAmount = t.doc.CreateElement("span")
	l.stepNumberAmount.SetClassName(classStepNumberAmount)
	l.stepNumberAmount.SetInnerHTML(itoa(t.numberOfSteps()))
	l.stepsNumber.AppendChild(l.stepNumberActive)
	l.stepsNumber.AppendChild(sep)
	l.stepsNumber.AppendChild(l.stepNumberAmount)

	bullets := t.newDiv(classBullets)
	if !t.opts.ShowBullets {
		bullets.SetStyle("display", "none")
	}
	ul := t.doc.CreateElement("ul")
	l.bullets = l.bullets[:0]
	for _, item := range t.items {
		number := item.Number
		li := t.doc.CreateElement("li")
		a := t.doc.CreateElement("a")
		a.OnClick(func() { _ = t.GoToStepNumber(number) })
		if number == s.Number {
			a.SetClassName("active")
		}
		a.SetAttr("href", "javascript:void(0);")
		a.SetInnerHTML("&nbsp;")
		a.SetAttr(AttrStepNumber, itoa(number))
		li.AppendChild(a)
		ul.AppendChild(li)
		l.bullets = append(l.bullets, bullet{number: number, anchor: a})
	}
	bullets.AppendChild(ul)

	progress := t.newDiv(classProgress)
	if !t.opts.ShowProgress {
		progress.SetStyle("display", "none")
	}
	l.progressBar = t.newDiv(classProgressBar)
	l.progressBar.SetAttr("style", "width:"+ftoa(t.Progress())+"%;")
	progress.AppendChild(l.progressBar)

	buttons := t.newDiv(classButtons)
	if !t.opts.ShowButtons {
		buttons.SetStyle("display", "none")
	}

	l.tooltip = t.newDiv(classTooltip)
	l.tooltip.AppendChild(l.tooltipText)
	l.tooltip.AppendChild(l.stepsNumber)
	l.tooltip.AppendChild(bullets)
	l.tooltip.AppendChild(progress)

	if t.opts.ShowStepNumbers {
		l.helperNumber = t.newDiv(classHelperNumberLayer)
		l.helperNumber.SetInnerHTML(itoa(s.Number))
		l.reference.AppendChild(l.helperNumber)
	}

	l.tooltip.AppendChild(l.arrow)
	l.reference.AppendChild(l.tooltip)

	l.next = t.newButton(classButton+" "+classNextButton, s.NextLabel, func() {
		if t.layers != nil && len(t.items)-1 != t.current {
			_ = t.nextStep()
		}
	})
	l.prev = t.newButton(classButton+" "+classPrevButton, s.PrevLabel, func() {
		if t.layers != nil && t.current != 0 {
			_, _ = t.previousStep()
		}
	})
	l.skip = t.newButton(classButton+" "+classSkipButton, s.SkipLabel, t.onSkip)

	buttons.AppendChild(l.skip)
	if len(t.items) > 1 {
		buttons.AppendChild(l.prev)
		buttons.AppendChild(l.next)
	}
	l.tooltip.AppendChild(buttons)

	t.placeAndReport(s)
}

// disableInteraction covers the highlighted element with a transparent
// layer that swallows clicks.
func (t *Tour) disableInteraction() {
	l := t.layers
	if l.disableInteraction == nil {
		l.disableInteraction = t.newDiv(classDisableInteraction)
		l.root.AppendChild(l.disableInteraction)
	}
	t.setHelperLayerPosition(l.disableInteraction)
}

// teardown removes every layer and marker class. The overlay fades out
// before it is removed unless the configured opacity is zero.
func (t *Tour) teardown() {
	l := t.layers
	if l.opacityTimer != nil {
		l.opacityTimer.Stop()
	}

	if overlay := l.overlay; overlay != nil {
		if t.opts.OverlayOpacity == 0 {
			overlay.Remove()
		} else {
			overlay.SetStyle("opacity", "0")
			t.sched.AfterFunc(overlayFadeDelay, overlay.Remove)
		}
	}

	for _, el := range []dom.Element{l.helper, l.reference, l.disableInteraction} {
		if el != nil {
			el.Remove()
		}
	}

	t.clearShowElement()
	t.clearFixParents()
}

func (t *Tour) clearShowElement() {
	l := t.layers
	if l.showElement == nil {
		return
	}
	dom.RemoveClassIf(l.showElement, tourClass.MatchString)
	l.showElement = nil
}

func (t *Tour) clearFixParents() {
	l := t.layers
	for i := len(l.fixParents) - 1; i >= 0; i-- {
		dom.RemoveClass(l.fixParents[i], classFixParent)
	}
	l.fixParents = nil
}
