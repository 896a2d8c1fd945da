package tour

import (
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/types"
)

// HandleKey applies the keyboard contract: Escape exits when ExitOnEsc is
// set, the arrow keys move back and forth, and Enter activates whichever
// tour button has focus, defaulting to next. Enter's default action is
// always suppressed.
func (t *Tour) HandleKey(ev dom.KeyEvent) {
	if t.layers == nil {
		return
	}
	switch ev.Key {
	case dom.KeyEscape:
		if t.opts.ExitOnEsc {
			t.Exit()
		}
	case dom.KeyArrowLeft:
		_, _ = t.previousStep()
	case dom.KeyArrowRight:
		_ = t.nextStep()
	case dom.KeyEnter:
		target := ev.Target
		switch {
		case target != nil && (dom.HasClass(target, classPrevButton) || dom.HasClass(target, classOnlyPrevButton)):
			_, _ = t.previousStep()
		case target != nil && dom.HasClass(target, classSkipButton):
			t.onSkip()
		default:
			_ = t.nextStep()
		}
		if ev.PreventDefault != nil {
			ev.PreventDefault()
		}
	}
}

// handleResize re-derives the step counters, moves past a step that just
// became mobile-skipped, and re-places the tooltip and highlight.
func (t *Tour) handleResize() {
	l := t.layers
	if l == nil || t.current < 0 || t.current >= len(t.items) {
		return
	}

	if l.stepNumberActive != nil {
		l.stepNumberActive.SetInnerHTML(itoa(t.activeStepNumber(t.items[t.current].Number)))
	}
	if l.stepNumberAmount != nil {
		l.stepNumberAmount.SetInnerHTML(itoa(t.numberOfSteps()))
	}

	if t.skipped(t.items[t.current]) {
		_ = t.nextStep()
		if t.layers == nil {
			return
		}
	}

	t.placeTooltip(t.items[t.current])
	t.setHelperLayerPosition(t.layers.helper)
	t.setHelperLayerPosition(t.layers.reference)
	t.emit(t.stepEvent(types.EventTypeResized, t.current))
}
