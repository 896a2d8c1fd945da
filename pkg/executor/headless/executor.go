package headless

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/tour"
	"github.com/entrhq/pagetour/pkg/types"
)

const (
	statusCompleted = "completed"
	statusStopped   = "stopped"
	statusFailed    = "failed"
)

// Page is what a walk needs from the page beyond the dom surface.
// *browser.Session satisfies it.
type Page interface {
	Screenshot(path string) error
}

// Executor walks every step of a tour without user input and records
// where each tooltip landed.
type Executor struct {
	doc            dom.Document
	page           Page
	tourFile       *config.TourFile
	config         *Config
	logger         *Logger
	reporter       Reporter
	artifactWriter *ArtifactWriter

	// Walk state, fed by the tour's event sink
	summary    *WalkSummary
	placements map[int]types.Placement
	progress   map[int]float64
	tourErrors []error
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithReporter replaces the progress reporter.
func WithReporter(r Reporter) ExecutorOption {
	return func(e *Executor) {
		e.reporter = r
	}
}

// WithConsole replaces the console logger.
func WithConsole(l *Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor creates an executor over an already loaded page. page may be
// nil, in which case no screenshots are taken.
func NewExecutor(doc dom.Document, page Page, tf *config.TourFile, cfg *Config, opts ...ExecutorOption) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if tf == nil {
		return nil, fmt.Errorf("tour file is required")
	}

	level := ParseLogLevel(cfg.Logging.Verbosity)
	e := &Executor{
		doc:            doc,
		page:           page,
		tourFile:       tf,
		config:         cfg,
		logger:         NewLogger(level),
		reporter:       NewReporter(),
		artifactWriter: NewArtifactWriter(cfg.Artifacts.OutputDir, cfg.Artifacts),
		placements:     make(map[int]types.Placement),
		progress:       make(map[int]float64),
		summary: &WalkSummary{
			Tour:     tf.DisplayName(),
			TourFile: tf.Path,
			URL:      tf.URL,
			Status:   "running",
		},
	}
	if cfg.URL != "" {
		e.summary.URL = cfg.URL
	}
	if level == LogLevelQuiet {
		e.reporter = nopReporter{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run walks the tour from its first step to completion. The returned
// summary is filled in even when an error is returned.
func (e *Executor) Run(ctx context.Context) (*WalkSummary, error) {
	e.summary.StartTime = time.Now()
	log.Printf("[Headless] Walking tour %s", e.summary.Tour)
	e.logger.Header(fmt.Sprintf("Tour walk: %s", e.summary.Tour))

	vp := e.doc.Viewport()
	e.summary.Viewport = ViewportInfo{Width: int(vp.Width), Height: int(vp.Height)}

	t, clock, err := e.newTour()
	if err != nil {
		return e.fail(err)
	}
	e.summary.TourID = t.ID()

	if err := t.Start(); err != nil {
		if t.Active() {
			t.Exit()
			clock.Flush()
		}
		return e.fail(err)
	}
	clock.Flush()

	steps := t.Steps()
	e.summary.StepCount = len(steps)
	e.logger.Section(fmt.Sprintf("Visiting %d steps", len(steps)))
	e.reporter.Start(len(steps))

	// Every transition either moves forward or ends the tour, so the walk
	// cannot take more than one visit per step.
	for visits := 0; t.Active() && visits <= len(steps); visits++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			t.Exit()
			clock.Flush()
			e.reporter.Finish()
			return e.fail(fmt.Errorf("walk interrupted: %w", ctxErr))
		}

		index, _ := t.CurrentStep()
		rec, err := e.record(ctx, index, steps[index])
		if err != nil {
			t.Exit()
			clock.Flush()
			e.reporter.Finish()
			return e.fail(err)
		}
		e.summary.Steps = append(e.summary.Steps, rec)
		e.logger.StepVisited(rec, len(steps))
		e.reporter.Update(len(e.summary.Steps), rec.Selector)

		if err := t.Next(); err != nil {
			t.Exit()
			clock.Flush()
			e.reporter.Finish()
			return e.fail(err)
		}
		clock.Flush()
	}
	e.reporter.Finish()

	if t.Active() {
		t.Exit()
		clock.Flush()
	}
	if len(e.tourErrors) > 0 {
		return e.fail(errors.Join(e.tourErrors...))
	}
	return e.finalize()
}

func (e *Executor) newTour() (*tour.Tour, *loop.Manual, error) {
	opts, err := e.tourFile.TourOptions()
	if err != nil {
		return nil, nil, err
	}
	textData, err := e.tourFile.TourTextData()
	if err != nil {
		return nil, nil, err
	}

	clock := loop.NewManual()
	tourOpts := []tour.TourOption{
		tour.WithOptions(opts),
		tour.WithTextData(textData),
		tour.WithScheduler(clock),
		tour.WithEventSink(e.onEvent),
	}
	if e.tourFile.Root != "" {
		root := e.doc.QuerySelector(e.tourFile.Root)
		if root == nil {
			return nil, nil, fmt.Errorf("tour root %q not found", e.tourFile.Root)
		}
		tourOpts = append(tourOpts, tour.WithRoot(root))
	}
	return tour.New(e.doc, tourOpts...), clock, nil
}

// onEvent runs synchronously inside tour calls.
func (e *Executor) onEvent(ev *types.TourEvent) {
	e.logger.Debugf("event %s step=%d", ev.Type, ev.StepIndex)
	switch ev.Type {
	case types.EventTypeStepPlaced:
		if ev.Placement != nil {
			e.placements[ev.StepIndex] = *ev.Placement
		}
	case types.EventTypeStepShown:
		e.progress[ev.StepIndex] = ev.Progress
	case types.EventTypeCompleted:
		e.summary.Completed = true
	case types.EventTypeError:
		if ev.Error != nil {
			e.tourErrors = append(e.tourErrors, ev.Error)
		}
	}
}

func (e *Executor) record(ctx context.Context, index int, step *tour.Step) (StepRecord, error) {
	placed := e.placements[index]
	rec := StepRecord{
		Index:     index,
		Number:    step.Number,
		Selector:  step.Selector,
		Requested: placed.Requested,
		Side:      placed.Side,
		Arrow:     placed.Arrow,
		Progress:  e.progress[index],
	}
	if text := e.doc.QuerySelector(".introjs-tooltiptext"); text != nil {
		rec.Text = text.InnerHTML()
	}
	e.logger.Verbosef("step %d requested %q resolved %q", step.Number, placed.Requested, placed.Side)

	if e.page == nil || !e.config.Artifacts.Enabled || !e.config.Artifacts.Screenshots {
		return rec, nil
	}
	if err := sleepCtx(ctx, e.config.ScreenshotDelay); err != nil {
		return rec, fmt.Errorf("walk interrupted: %w", err)
	}
	path := e.artifactWriter.ScreenshotPath(step.Number)
	if err := e.page.Screenshot(path); err != nil {
		return rec, fmt.Errorf("step %d: %w", step.Number, err)
	}
	rec.Screenshot = path
	return rec, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finalize completes the walk and generates artifacts
func (e *Executor) finalize() (*WalkSummary, error) {
	e.stamp()
	if e.summary.Completed {
		e.summary.Status = statusCompleted
		e.logger.Successf("Visited all %d steps", len(e.summary.Steps))
	} else {
		e.summary.Status = statusStopped
	}

	if e.config.Artifacts.Enabled {
		if err := e.artifactWriter.WriteAll(e.summary); err != nil {
			log.Printf("[Headless] Warning: failed to write artifacts: %v", err)
			e.logger.Warningf("failed to write artifacts: %v", err)
		}
	}

	e.logger.Summary(e.summary)
	log.Printf("[Headless] Walk finished: %s (%d steps)", e.summary.Status, len(e.summary.Steps))
	return e.summary, nil
}

// fail records err and still writes whatever artifacts it can.
func (e *Executor) fail(err error) (*WalkSummary, error) {
	e.stamp()
	e.summary.Status = statusFailed
	e.summary.Error = err.Error()
	log.Printf("[Headless] Walk failed: %v", err)

	if e.config.Artifacts.Enabled {
		if artifactErr := e.artifactWriter.WriteAll(e.summary); artifactErr != nil {
			log.Printf("[Headless] Warning: failed to write failure artifacts: %v", artifactErr)
		}
	}

	e.logger.Summary(e.summary)
	return e.summary, err
}

func (e *Executor) stamp() {
	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)
}
