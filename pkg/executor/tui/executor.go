// Package tui provides the interactive tour console: a terminal UI bound
// to a tour running in a page.
//
// The tour lives on a loop.Loop. Key presses in the console become tour
// commands posted to the loop, and every tour event (including the ones
// caused by clicks in the page itself) is sent back to the console with a
// snapshot of the current step.
//
// The code is split into:
// - executor.go: Executor and program lifecycle
// - model.go: Core model structure and state
// - update.go: Bubble Tea Update function and key handling
// - view.go: Bubble Tea View function and rendering
// - keys.go: Key bindings
// - helpers.go: Source highlighting, clipboard and text helpers
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/executor/driver"
	"github.com/entrhq/pagetour/pkg/logging"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/tour"
	"github.com/entrhq/pagetour/pkg/types"
)

var tuiDebugLog *logging.Logger

func init() {
	var err error
	tuiDebugLog, err = logging.NewLogger("tui")
	if err != nil {
		tuiDebugLog.Warnf("Failed to initialize tui logger, using stderr fallback: %v", err)
	}
}

// Executor runs a tour and the console that drives it.
type Executor struct {
	loop     *loop.Loop
	doc      dom.Document
	tourFile *config.TourFile
	url      string
	settings Settings
	program  *tea.Program
}

// NewExecutor creates a console for tf on doc. The loop must be running
// and must be the Poster the document forwards page events to.
func NewExecutor(lp *loop.Loop, doc dom.Document, tf *config.TourFile, url string) *Executor {
	return &Executor{
		loop:     lp,
		doc:      doc,
		tourFile: tf,
		url:      url,
		settings: SettingsFromConfig(config.GetConsole()),
	}
}

// SettingsFromConfig reads the console preferences. A nil section yields
// the defaults.
func SettingsFromConfig(section *config.ConsoleSection) Settings {
	settings := Settings{SourceStyle: "monokai", ShowHelp: true}
	if section == nil {
		return settings
	}
	data := section.Data()
	if style, ok := data["source_style"].(string); ok && style != "" {
		settings.SourceStyle = style
	}
	if show, ok := data["show_source"].(bool); ok {
		settings.ShowSource = show
	}
	if show, ok := data["show_help"].(bool); ok {
		settings.ShowHelp = show
	}
	return settings
}

// Run starts the tour and blocks until the user leaves the console. The
// tour is exited on return.
func (e *Executor) Run(ctx context.Context) error {
	tuiDebugLog.Infof("Console starting for %s", e.tourFile.DisplayName())

	d, err := driver.New(ctx, e.loop, e.doc, e.tourFile)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}
	state, err := d.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start tour: %w", err)
	}
	log.Printf("[TUI] Tour %s started with %d steps", e.tourFile.DisplayName(), state.Count)

	m := newModel(d.Updates(), e.dispatcher(ctx, d), e.settings)
	m.tourName = e.tourFile.DisplayName()
	m.url = e.url
	m.state = state

	e.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := e.program.Run()

	if exitErr := d.Exit(context.WithoutCancel(ctx)); exitErr != nil && !errors.Is(exitErr, loop.ErrClosed) {
		tuiDebugLog.Warnf("Failed to exit tour: %v", exitErr)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run console: %w", runErr)
	}

	switch m.outcome {
	case types.EventTypeCompleted:
		log.Printf("[TUI] Tour completed")
	default:
		log.Printf("[TUI] Tour exited at step %d", m.state.Index+1)
	}
	return nil
}

// dispatcher turns tour commands into Bubble Tea commands. The tour call
// runs on the loop from the command's goroutine, never from Update.
func (e *Executor) dispatcher(ctx context.Context, d *driver.Driver) func(*types.Command) tea.Cmd {
	return func(cmd *types.Command) tea.Cmd {
		return func() tea.Msg {
			err := d.Dispatch(ctx, cmd)
			if errors.Is(err, tour.ErrNotStarted) {
				err = errors.New("the tour is not running")
			}
			return commandResultMsg{command: cmd.Type, err: err}
		}
	}
}
