// Package tour runs a guided tour over a dom.Document: it collects steps,
// moves through them, and keeps the overlay, highlight and tooltip in sync
// with the current step.
//
// A Tour is not safe for concurrent use and not reentrant. Callers that
// receive events on other goroutines (a browser binding, a terminal UI)
// must serialize calls, typically through a loop.Loop.
package tour

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/logging"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/types"
)

var tourDebugLog *logging.Logger

func init() {
	var err error
	tourDebugLog, err = logging.NewLogger("tour")
	if err != nil {
		tourDebugLog.Warnf("Failed to initialize tour logger, using stderr fallback: %v", err)
	}
}

// Direction is the direction of the last transition.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Tour is one guided tour instance.
type Tour struct {
	id       string
	doc      dom.Document
	root     dom.Element
	opts     Options
	textData map[string]IntroText
	sched    loop.Scheduler
	log      *logging.Logger
	sink     func(*types.TourEvent)

	items []*Step
	// current is -1 or more while moving; started is false until the first
	// forward transition assigns it.
	current   int
	started   bool
	direction Direction
	// shown is the index of the step whose tooltip is on screen, or -1.
	shown int

	layers   *layers
	floating dom.Element
	settle   loop.Timer

	removeKey    func()
	removeResize func()

	onBeforeChange func(dom.Element)
	onChange       func(dom.Element)
	onAfterChange  func(dom.Element)
	onComplete     func()
	onExit         func()
}

// TourOption configures a Tour.
type TourOption func(*Tour)

// WithRoot scopes the tour to el instead of the document body.
func WithRoot(el dom.Element) TourOption {
	return func(t *Tour) {
		if el != nil {
			t.root = el
		}
	}
}

// WithOptions replaces the default options.
func WithOptions(opts Options) TourOption {
	return func(t *Tour) {
		t.opts = opts.clone()
	}
}

// WithTextData sets the dictionary that maps data-intro-key values to text.
func WithTextData(data map[string]IntroText) TourOption {
	return func(t *Tour) {
		t.textData = copyTextData(data)
	}
}

// WithScheduler sets the scheduler used for the settle and fade delays.
func WithScheduler(s loop.Scheduler) TourOption {
	return func(t *Tour) {
		if s != nil {
			t.sched = s
		}
	}
}

// WithLogger sets the logger for this tour.
func WithLogger(l *logging.Logger) TourOption {
	return func(t *Tour) {
		if l != nil {
			t.log = l
		}
	}
}

// WithEventSink receives every event the tour emits.
func WithEventSink(fn func(*types.TourEvent)) TourOption {
	return func(t *Tour) {
		t.sink = fn
	}
}

// New creates a tour over doc. Without WithScheduler, delays run on a
// loop.Manual that nothing advances, so real callers should always pass one.
func New(doc dom.Document, opts ...TourOption) *Tour {
	t := &Tour{
		id:       uuid.New().String(),
		doc:      doc,
		opts:     DefaultOptions(),
		textData: make(map[string]IntroText),
		log:      tourDebugLog,
		shown:    -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.root == nil {
		t.root = doc.Body()
	}
	if t.sched == nil {
		t.sched = loop.NewManual()
	}
	return t
}

// ID returns the tour instance ID used in events.
func (t *Tour) ID() string { return t.id }

// Options returns a copy of the current options.
func (t *Tour) Options() Options { return t.opts.clone() }

// Steps returns the collected steps of the current or last run.
func (t *Tour) Steps() []*Step {
	return append([]*Step(nil), t.items...)
}

// Active reports whether the overlay is up.
func (t *Tour) Active() bool { return t.layers != nil }

// TooltipHTML returns the markup of this tour's tooltip text, or "" while
// the tour is not running.
func (t *Tour) TooltipHTML() string {
	if t.layers == nil || t.layers.tooltipText == nil {
		return ""
	}
	return t.layers.tooltipText.InnerHTML()
}

// CurrentStep returns the current 0-based index. ok is false until the
// first step was entered. After an exit the index is parked at 0.
func (t *Tour) CurrentStep() (index int, ok bool) {
	return t.current, t.started
}

// Direction returns the direction of the last transition.
func (t *Tour) Direction() Direction { return t.direction }

// Progress returns the progress bar percentage for the current step.
func (t *Tour) Progress() float64 {
	if len(t.items) == 0 {
		return 0
	}
	return float64(t.current+1) / float64(len(t.items)) * 100
}

// TextData returns a copy of the key to text dictionary.
func (t *Tour) TextData() map[string]IntroText {
	return copyTextData(t.textData)
}

// Clone returns a fresh, not started tour with the same document, root,
// options and a copy of the text dictionary. Callbacks are not copied.
func (t *Tour) Clone() *Tour {
	c := New(t.doc,
		WithRoot(t.root),
		WithOptions(t.opts),
		WithTextData(t.textData),
		WithScheduler(t.sched),
		WithLogger(t.log),
		WithEventSink(t.sink),
	)
	return c
}

// SetOption sets one option by its option-bag key.
func (t *Tour) SetOption(key string, value any) error {
	return t.opts.Set(key, value)
}

// SetOptions merges several options. Nothing changes if any key fails.
func (t *Tour) SetOptions(values map[string]any) error {
	return t.opts.Apply(values)
}

// OnBeforeChange registers the callback fired with the target element
// before a step renders. It replaces any earlier callback.
func (t *Tour) OnBeforeChange(fn func(dom.Element)) error {
	if fn == nil {
		return &ConfigurationError{Key: "onbeforechange", Reason: "callback must be a function"}
	}
	t.onBeforeChange = fn
	return nil
}

// OnChange registers the callback fired at the start of every render.
func (t *Tour) OnChange(fn func(dom.Element)) error {
	if fn == nil {
		return &ConfigurationError{Key: "onchange", Reason: "callback must be a function"}
	}
	t.onChange = fn
	return nil
}

// OnAfterChange registers the callback fired after a step rendered.
func (t *Tour) OnAfterChange(fn func(dom.Element)) error {
	if fn == nil {
		return &ConfigurationError{Key: "onafterchange", Reason: "callback must be a function"}
	}
	t.onAfterChange = fn
	return nil
}

// OnComplete registers the callback fired when the tour runs past its last
// step or the done button is used.
func (t *Tour) OnComplete(fn func()) error {
	if fn == nil {
		return &ConfigurationError{Key: "oncomplete", Reason: "callback must be a function"}
	}
	t.onComplete = fn
	return nil
}

// OnExit registers the callback fired when the user leaves the tour early.
func (t *Tour) OnExit(fn func()) error {
	if fn == nil {
		return &ConfigurationError{Key: "onexit", Reason: "callback must be a function"}
	}
	t.onExit = fn
	return nil
}

// Start collects the steps, puts up the overlay and shows the first step.
// On failure the page is left as it was and the tour stays not started.
func (t *Tour) Start() error {
	if err := t.opts.Validate(); err != nil {
		return err
	}
	if t.layers != nil {
		t.exitIntro()
	}

	items, err := t.collect()
	if err != nil {
		t.removeFloating()
		t.log.Warnf("Tour %s failed to start: %v", t.id, err)
		return fmt.Errorf("failed to start tour: %w", err)
	}

	t.items = items
	t.current = 0
	t.started = false
	t.shown = -1
	t.direction = Forward

	target := t.opts.MaskTarget
	if target == nil {
		target = t.root
	}
	t.layers = &layers{root: t.root}
	t.addOverlay(target)

	t.log.Infof("Tour %s started with %d steps", t.id, len(items))
	t.emit(types.NewStartedEvent(t.id, len(items)))

	stepErr := t.nextStep()

	if t.layers != nil {
		if t.opts.KeyboardNavigation {
			t.removeKey = t.doc.AddKeyListener(t.HandleKey)
		}
		t.removeResize = t.doc.AddResizeListener(t.handleResize)
	}
	return stepErr
}

// Next moves forward, skipping mobile-skipped steps, and completes the tour
// when it runs past the last step.
func (t *Tour) Next() error {
	if t.layers == nil {
		return ErrNotStarted
	}
	return t.nextStep()
}

// Previous moves back one step. It returns false without changing anything
// at the first step, at a checkpoint, or when only mobile-skipped steps
// remain behind the current one.
func (t *Tour) Previous() (bool, error) {
	if t.layers == nil {
		return false, ErrNotStarted
	}
	return t.previousStep()
}

// GoToStep shows the step at 1-based position n. Positions past the end
// complete the tour.
func (t *Tour) GoToStep(n int) error {
	if t.layers == nil {
		return ErrNotStarted
	}
	if n < 1 {
		n = 1
	}
	t.current = n - 2
	t.started = true
	return t.nextStep()
}

// GoToStepNumber shows the step whose declared number is n. Unknown numbers
// are ignored.
func (t *Tour) GoToStepNumber(n int) error {
	if t.layers == nil {
		return ErrNotStarted
	}
	for i, s := range t.items {
		if s.Number == n {
			t.current = i - 1
			t.started = true
			return t.nextStep()
		}
	}
	return nil
}

// Exit fires the exit callback and tears the overlay down. It does nothing
// when no tour is active.
func (t *Tour) Exit() {
	if t.layers == nil {
		return
	}
	if t.onExit != nil {
		t.onExit()
	}
	t.exitIntro()
}

// Refresh re-measures the current target and moves the highlight to it.
func (t *Tour) Refresh() {
	if t.layers == nil {
		return
	}
	t.setHelperLayerPosition(t.layers.helper)
	t.setHelperLayerPosition(t.layers.reference)
	t.setHelperLayerPosition(t.layers.disableInteraction)
}

// Dispatch applies a navigation command.
func (t *Tour) Dispatch(cmd *types.Command) error {
	if cmd == nil {
		return nil
	}
	t.log.Debugf("Tour %s command %s", t.id, cmd)
	switch cmd.Type {
	case types.CommandNext:
		return t.Next()
	case types.CommandPrevious:
		_, err := t.Previous()
		return err
	case types.CommandGoTo:
		return t.GoToStep(cmd.Step)
	case types.CommandGoToNumber:
		return t.GoToStepNumber(cmd.Step)
	case types.CommandRefresh:
		t.Refresh()
		return nil
	case types.CommandExit:
		t.Exit()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
}

func (t *Tour) isMobile() bool {
	return t.opts.MobileThresholdWidth > 0 && t.doc.Viewport().Width < t.opts.MobileThresholdWidth
}

func (t *Tour) skipped(s *Step) bool {
	return s.SkipOnMobile && t.isMobile()
}

func (t *Tour) nextStep() error {
	t.direction = Forward

	if !t.started {
		t.current = 0
		t.started = true
	} else {
		t.current++
	}

	for t.current < len(t.items) && t.skipped(t.items[t.current]) {
		t.current++
	}

	if t.current >= len(t.items) {
		t.log.Infof("Tour %s completed", t.id)
		if t.onComplete != nil {
			t.onComplete()
		}
		t.emit(types.NewCompletedEvent(t.id, len(t.items)))
		t.exitIntro()
		return nil
	}

	return t.changeTo(t.items[t.current])
}

func (t *Tour) previousStep() (bool, error) {
	t.direction = Backward

	if t.current == 0 || t.opts.isCheckpoint(t.current) {
		t.emit(t.stepEvent(types.EventTypeBlocked, t.current))
		return false, nil
	}

	from := t.current
	t.current--
	for t.skipped(t.items[t.current]) {
		t.current--
		if t.current < 0 {
			t.current = from
			t.emit(t.stepEvent(types.EventTypeBlocked, t.current))
			return false, nil
		}
	}

	return true, t.changeTo(t.items[t.current])
}

func (t *Tour) changeTo(s *Step) error {
	if t.onBeforeChange != nil {
		t.onBeforeChange(s.Element)
	}
	t.emit(t.stepEvent(types.EventTypeBeforeChange, t.current))

	if err := t.showStep(s); err != nil {
		stepErr := &StepError{Number: s.Number, Err: err}
		t.log.Errorf("Tour %s failed to render: %v", t.id, stepErr)
		t.emit(types.NewErrorEvent(t.id, stepErr).WithSelector(s.Selector))
		return stepErr
	}
	return nil
}

// onSkip handles the skip/done button: it completes on the last step and
// exits otherwise.
func (t *Tour) onSkip() {
	if t.layers == nil {
		return
	}
	last := t.current == len(t.items)-1
	if last {
		if t.onComplete != nil {
			t.onComplete()
		}
		t.emit(types.NewCompletedEvent(t.id, len(t.items)))
	} else if t.onExit != nil {
		t.onExit()
	}
	t.exitIntro()
}

func (t *Tour) onOverlayClick() {
	if t.opts.ExitOnOverlayClick {
		t.Exit()
	}
}

// exitIntro tears down the overlay without firing the exit callback and
// parks the index at 0.
func (t *Tour) exitIntro() {
	if t.layers == nil {
		return
	}
	if t.shown >= 0 && t.shown < len(t.items) {
		if hide := t.items[t.shown].OnHide; hide != nil {
			hide()
		}
	}

	if t.settle != nil {
		t.settle.Stop()
		t.settle = nil
	}

	t.teardown()
	t.removeFloating()

	if t.removeKey != nil {
		t.removeKey()
		t.removeKey = nil
	}
	if t.removeResize != nil {
		t.removeResize()
		t.removeResize = nil
	}

	t.layers = nil
	t.shown = -1
	t.current = 0
	t.log.Infof("Tour %s exited", t.id)
	t.emit(types.NewExitedEvent(t.id))
}

func (t *Tour) removeFloating() {
	if t.floating != nil {
		t.floating.Remove()
		t.floating = nil
	}
}

func (t *Tour) stepEvent(eventType types.TourEventType, index int) *types.TourEvent {
	number := 0
	selector := ""
	if index >= 0 && index < len(t.items) {
		number = t.items[index].Number
		selector = t.items[index].Selector
	}
	return types.NewStepEvent(eventType, t.id, index, number, len(t.items)).
		WithSelector(selector).
		WithMetadata("direction", string(t.direction))
}

func (t *Tour) emit(ev *types.TourEvent) {
	if t.sink != nil {
		t.sink(ev)
	}
}

func copyTextData(in map[string]IntroText) map[string]IntroText {
	out := make(map[string]IntroText, len(in))
	for k, v := range in {
		out[k] = v.clone()
	}
	return out
}
