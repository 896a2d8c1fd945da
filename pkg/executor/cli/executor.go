// Package cli provides a line-based tour console for terminals without a
// full-screen UI (pipes, CI logs, dumb terminals).
//
// Example usage:
//
//	lp := loop.New()
//	go lp.Run(ctx)
//
//	doc, _ := session.Document(lp)
//	tf, _ := config.LoadTourFile("billing.tour.yaml")
//
//	executor := cli.NewExecutor(lp, doc, tf,
//	    cli.WithShowPlacement(true),
//	)
//
//	if err := executor.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/executor/driver"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/tour"
	"github.com/entrhq/pagetour/pkg/types"
)

// shutdownWait bounds how long Run waits for the final exited event.
const shutdownWait = 2 * time.Second

// Executor is a console that reads navigation commands line by line and
// prints every step the tour shows.
type Executor struct {
	loop     *loop.Loop
	doc      dom.Document
	tourFile *config.TourFile
	url      string

	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // guards writer

	// Display options
	showPlacement bool
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithShowPlacement prints the tooltip side and arrow of every step.
func WithShowPlacement(show bool) ExecutorOption {
	return func(e *Executor) {
		e.showPlacement = show
	}
}

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// WithReader sets a custom input reader (default is os.Stdin).
func WithReader(r io.Reader) ExecutorOption {
	return func(e *Executor) {
		e.reader = bufio.NewReader(r)
	}
}

// WithURL sets the page address shown in the banner.
func WithURL(url string) ExecutorOption {
	return func(e *Executor) {
		e.url = url
	}
}

// NewExecutor creates a console for tf on doc. The loop must be running
// and must be the Poster the document forwards page events to.
func NewExecutor(lp *loop.Loop, doc dom.Document, tf *config.TourFile, opts ...ExecutorOption) *Executor {
	e := &Executor{
		loop:     lp,
		doc:      doc,
		tourFile: tf,
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run starts the tour and reads commands until the tour ends, the input
// is exhausted or ctx is cancelled. The tour is exited on return.
func (e *Executor) Run(ctx context.Context) error {
	d, err := driver.New(ctx, e.loop, e.doc, e.tourFile)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	e.printf("pagetour · %s\n", e.tourFile.DisplayName())
	if e.url != "" {
		e.printf("%s\n", e.url)
	}
	e.printf("Commands: next (n), previous (p), goto N or goto #NUMBER (g), refresh (r), exit (q)\n\n")

	// Start handling updates before Start so the first step is printed
	eventsDone := make(chan struct{})
	finished := make(chan struct{})
	go e.handleUpdates(ctx, d.Updates(), eventsDone, finished)

	state, err := d.Start(ctx)
	if err != nil {
		e.shutdown(ctx, d, eventsDone)
		return fmt.Errorf("failed to start tour: %w", err)
	}
	log.Printf("[CLI] Tour %s started with %d steps", e.tourFile.DisplayName(), state.Count)

	lines, readErrs := e.readLines()

	for {
		select {
		case <-ctx.Done():
			e.shutdown(ctx, d, eventsDone)
			return ctx.Err()

		case <-finished:
			<-eventsDone
			return nil

		case err := <-readErrs:
			e.shutdown(ctx, d, eventsDone)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)

		case line := <-lines:
			e.handleLine(ctx, d, line)
		}
	}
}

// readLines feeds input lines to a channel. The reader goroutine stays
// blocked on the input after Run returns; stdin cannot be interrupted.
func (e *Executor) readLines() (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		for {
			line, err := e.reader.ReadString('\n')
			if line != "" {
				lines <- line
			}
			if err != nil {
				errs <- err
				return
			}
		}
	}()
	return lines, errs
}

func (e *Executor) handleLine(ctx context.Context, d *driver.Driver, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if line == "help" || line == "?" {
		e.printf("Commands: next (n), previous (p), goto N or goto #NUMBER (g), refresh (r), exit (q)\n")
		return
	}

	cmd, err := driver.ParseCommand(line)
	if err != nil {
		e.printf("❌ %v\n", err)
		return
	}
	if err := d.Dispatch(ctx, cmd); err != nil {
		if errors.Is(err, tour.ErrNotStarted) {
			err = errors.New("the tour is not running")
		}
		e.printf("❌ %s: %v\n", cmd.Type, err)
	}
}

// handleUpdates prints tour events until the tour exits. finished is
// closed when the exited event has been printed.
func (e *Executor) handleUpdates(ctx context.Context, updates <-chan driver.Update, done, finished chan struct{}) {
	defer close(done)

	completed := false
	pending := -1 // step whose text waits for its placement
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			switch u.Event.Type {
			case types.EventTypeStepShown:
				e.printHeader(u.State)
				pending = -1
				if u.State.IntroHTML != "" {
					e.printText(u.State.IntroHTML)
				} else {
					pending = u.State.Index
				}
			case types.EventTypeStepPlaced:
				if pending == u.State.Index && u.State.IntroHTML != "" {
					e.printText(u.State.IntroHTML)
					pending = -1
				}
				if e.showPlacement && u.Event.Placement != nil {
					e.printf("   placed %s, arrow %s\n", u.Event.Placement.Side, u.Event.Placement.Arrow)
				}
			case types.EventTypeBlocked:
				e.printf("Already at the first step\n")
			case types.EventTypeError:
				if u.Event.Error != nil {
					e.printf("❌ Error: %v\n", u.Event.Error)
				}
			case types.EventTypeCompleted:
				completed = true
				e.printf("✓ Tour completed\n")
			case types.EventTypeExited:
				if !completed {
					e.printf("Tour exited\n")
				}
				close(finished)
				return
			}
		}
	}
}

func (e *Executor) printHeader(state driver.Snapshot) {
	header := fmt.Sprintf("Step %d of %d", state.Index+1, state.Count)
	if state.Number != 0 && state.Number != state.Index+1 {
		header += fmt.Sprintf(" (#%d)", state.Number)
	}
	if state.Selector != "" {
		header += "  " + state.Selector
	}
	e.printf("\n%s\n", header)
}

func (e *Executor) printText(introHTML string) {
	if text := driver.PlainText(introHTML); text != "" {
		e.printf("%s\n", text)
	}
}

func (e *Executor) printf(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.writer, format, args...)
}

// shutdown exits the tour and waits for its exited event.
func (e *Executor) shutdown(ctx context.Context, d *driver.Driver, eventsDone <-chan struct{}) {
	if err := d.Exit(context.WithoutCancel(ctx)); err != nil {
		if !errors.Is(err, loop.ErrClosed) {
			e.printf("Warning: exit error: %v\n", err)
		}
		return
	}

	select {
	case <-eventsDone:
	case <-time.After(shutdownWait):
	}
}
