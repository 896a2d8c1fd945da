// Package driver owns a tour running on a loop.Loop for the interactive
// consoles. Commands are run on the loop; every tour event is published on
// a channel together with a snapshot of the current step.
package driver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/logging"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/tour"
	"github.com/entrhq/pagetour/pkg/types"
)

var driverDebugLog *logging.Logger

func init() {
	var err error
	driverDebugLog, err = logging.NewLogger("driver")
	if err != nil {
		driverDebugLog.Warnf("Failed to initialize driver logger, using stderr fallback: %v", err)
	}
}

// updateBuffer bounds how far a console may fall behind the tour.
const updateBuffer = 64

// Snapshot is a console's view of the tour, taken on the loop goroutine.
// Side, Arrow and IntroHTML are only known once the step has been placed;
// after a transition they stay empty until the settle delay has passed.
type Snapshot struct {
	Active    bool
	Index     int
	Number    int
	Count     int
	Selector  string
	Side      string
	Arrow     string
	Progress  float64
	IntroHTML string
}

// Update carries a tour event and the state right after it.
type Update struct {
	Event *types.TourEvent
	State Snapshot
}

// Driver owns the tour. Every tour call goes through the loop.
type Driver struct {
	loop    *loop.Loop
	tour    *tour.Tour
	updates chan Update

	count  int
	placed int // index of the step the tooltip was last placed for
	side   string
	arrow  string
}

// New builds the tour from a tour file. The tour is created on the loop
// because New touches the document.
func New(ctx context.Context, lp *loop.Loop, doc dom.Document, tf *config.TourFile) (*Driver, error) {
	opts, err := tf.TourOptions()
	if err != nil {
		return nil, err
	}
	textData, err := tf.TourTextData()
	if err != nil {
		return nil, err
	}

	d := &Driver{
		loop:    lp,
		updates: make(chan Update, updateBuffer),
		placed:  -1,
	}

	var buildErr error
	if err := lp.Do(ctx, func() {
		tourOpts := []tour.TourOption{
			tour.WithOptions(opts),
			tour.WithTextData(textData),
			tour.WithScheduler(lp),
			tour.WithEventSink(d.onEvent),
		}
		if tf.Root != "" {
			root := doc.QuerySelector(tf.Root)
			if root == nil {
				buildErr = fmt.Errorf("tour root %q not found", tf.Root)
				return
			}
			tourOpts = append(tourOpts, tour.WithRoot(root))
		}
		d.tour = tour.New(doc, tourOpts...)
	}); err != nil {
		return nil, err
	}
	if buildErr != nil {
		return nil, buildErr
	}
	return d, nil
}

// Updates returns the event stream. Events are dropped, with a warning in
// the log, when the reader falls more than a buffer behind.
func (d *Driver) Updates() <-chan Update { return d.updates }

// Start starts the tour and returns the state after the first step.
func (d *Driver) Start(ctx context.Context) (Snapshot, error) {
	var (
		state    Snapshot
		startErr error
	)
	err := d.loop.Do(ctx, func() {
		startErr = d.tour.Start()
		state = d.snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return state, startErr
}

// Dispatch runs one navigation command on the loop.
func (d *Driver) Dispatch(ctx context.Context, cmd *types.Command) error {
	var dispatchErr error
	if err := d.loop.Do(ctx, func() {
		dispatchErr = d.tour.Dispatch(cmd)
	}); err != nil {
		return err
	}
	return dispatchErr
}

// Exit tears the tour down if it is still running.
func (d *Driver) Exit(ctx context.Context) error {
	return d.loop.Do(ctx, func() {
		if d.tour.Active() {
			d.tour.Exit()
		}
	})
}

// onEvent runs on the loop goroutine, inside tour calls.
func (d *Driver) onEvent(ev *types.TourEvent) {
	switch ev.Type {
	case types.EventTypeStepPlaced:
		if ev.Placement != nil {
			d.placed = ev.StepIndex
			d.side = ev.Placement.Side
			d.arrow = ev.Placement.Arrow
		}
	case types.EventTypeExited:
		d.placed = -1
	}
	u := Update{Event: ev, State: d.snapshot()}
	driverDebugLog.Debugf("Tour event %s step=%d", ev.Type, ev.StepIndex)

	select {
	case d.updates <- u:
	default:
		driverDebugLog.Warnf("Dropping tour event %s, console is not keeping up", ev.Type)
	}
}

// snapshot must run on the loop goroutine.
func (d *Driver) snapshot() Snapshot {
	if d.tour == nil || !d.tour.Active() {
		return Snapshot{Count: d.count}
	}
	steps := d.tour.Steps()
	d.count = len(steps)
	index, ok := d.tour.CurrentStep()
	if !ok || index >= len(steps) {
		return Snapshot{Active: true, Count: d.count}
	}

	step := steps[index]
	state := Snapshot{
		Active:   true,
		Index:    index,
		Number:   step.Number,
		Count:    d.count,
		Selector: step.Selector,
		Progress: d.tour.Progress(),
	}
	if index == d.placed {
		state.Side = d.side
		state.Arrow = d.arrow
		state.IntroHTML = d.tour.TooltipHTML()
	}
	return state
}

// ParseGoTo reads "3" as the third collected step and "#12" as the step
// declared with number 12.
func ParseGoTo(input string) (*types.Command, error) {
	input = strings.TrimSpace(input)
	byNumber := strings.HasPrefix(input, "#")
	n, err := strconv.Atoi(strings.TrimPrefix(input, "#"))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("not a step: %q", input)
	}
	if byNumber {
		return types.NewGoToNumberCommand(n), nil
	}
	return types.NewGoToCommand(n), nil
}

// ParseCommand reads one console line: next, previous, goto N, refresh or
// exit, or their first letters.
func ParseCommand(line string) (*types.Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "n", "next":
		return types.NewCommand(types.CommandNext), nil
	case "p", "prev", "previous":
		return types.NewCommand(types.CommandPrevious), nil
	case "r", "refresh":
		return types.NewCommand(types.CommandRefresh), nil
	case "q", "exit", "quit":
		return types.NewCommand(types.CommandExit), nil
	case "g", "goto":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: goto N or goto #NUMBER")
		}
		return ParseGoTo(fields[1])
	}
	return nil, fmt.Errorf("unknown command %q", fields[0])
}
