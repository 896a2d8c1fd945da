package tour

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/dom/memdom"
	"github.com/entrhq/pagetour/pkg/logging"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/types"
)

const threeStepPage = `<html><body>
<div id="a" data-intro-text="One"></div>
<div id="b" data-intro-text="Two"></div>
<div id="c" data-intro-text="Three"></div>
</body></html>`

// recorder collects emitted events.
type recorder struct {
	events []*types.TourEvent
}

func (r *recorder) sink(ev *types.TourEvent) { r.events = append(r.events, ev) }

func (r *recorder) count(eventType types.TourEventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (r *recorder) last(eventType types.TourEventType) *types.TourEvent {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i]
		}
	}
	return nil
}

type harness struct {
	tour  *Tour
	doc   *memdom.Document
	clock *loop.Manual
	rec   *recorder
}

func newHarness(t *testing.T, page string, opts ...TourOption) *harness {
	t.Helper()
	doc, err := memdom.Parse(page)
	require.NoError(t, err)
	doc.SetDefaultSize(classTooltip, dom.Size{Width: 300, Height: 120})

	h := &harness{doc: doc, clock: loop.NewManual(), rec: &recorder{}}
	base := []TourOption{
		WithScheduler(h.clock),
		WithEventSink(h.rec.sink),
		WithLogger(logging.Discard()),
	}
	h.tour = New(doc, append(base, opts...)...)
	return h
}

func (h *harness) find(t *testing.T, selector string) dom.Element {
	t.Helper()
	el := h.doc.QuerySelector(selector)
	require.NotNil(t, el, "no element for %s", selector)
	return el
}

func (h *harness) index(t *testing.T) int {
	t.Helper()
	idx, ok := h.tour.CurrentStep()
	require.True(t, ok)
	return idx
}

func (h *harness) tooltipText(t *testing.T) string {
	t.Helper()
	return h.find(t, "."+classTooltipText).InnerHTML()
}

func optsWith(fn func(*Options)) TourOption {
	o := DefaultOptions()
	fn(&o)
	return WithOptions(o)
}
