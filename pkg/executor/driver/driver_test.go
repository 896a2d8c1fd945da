package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/dom/memdom"
	"github.com/entrhq/pagetour/pkg/loop"
	"github.com/entrhq/pagetour/pkg/tour"
	"github.com/entrhq/pagetour/pkg/types"
)

const consolePage = `<html><body>
<div id="app">
  <button id="search">Search</button>
  <nav id="menu">Menu</nav>
</div>
</body></html>`

const consoleTour = `
name: console
root: "#app"
steps:
  - selector: "#search"
    intro: Search here.
  - selector: "#menu"
    intro: The menu.
`

func newTestDriver(t *testing.T, src string) (*Driver, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lp := loop.New()
	go lp.Run(ctx)

	doc, err := memdom.Parse(consolePage)
	require.NoError(t, err)
	doc.SetViewport(1024, 768)
	doc.SetDefaultSize("introjs-tooltip", dom.Size{Width: 300, Height: 120})

	tf, err := config.ParseTourFile([]byte(src))
	require.NoError(t, err)

	d, err := New(ctx, lp, doc, tf)
	require.NoError(t, err)
	return d, ctx
}

// nextEvent waits for the next event of the given type.
func nextEvent(t *testing.T, d *Driver, eventType types.TourEventType) Update {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u := <-d.Updates():
			if u.Event.Type == eventType {
				return u
			}
		case <-timeout:
			t.Fatalf("no %s event", eventType)
			return Update{}
		}
	}
}

func TestDriver_StartSnapshot(t *testing.T) {
	d, ctx := newTestDriver(t, consoleTour)

	state, err := d.Start(ctx)
	require.NoError(t, err)

	assert.True(t, state.Active)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 2, state.Count)
	assert.Equal(t, "#search", state.Selector)
	assert.Equal(t, "Search here.", state.IntroHTML)
	assert.Equal(t, 50.0, state.Progress)
}

func TestDriver_DispatchForwardsEvents(t *testing.T) {
	d, ctx := newTestDriver(t, consoleTour)
	_, err := d.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, types.NewCommand(types.CommandNext)))
	shown := nextEvent(t, d, types.EventTypeStepShown)
	for shown.State.Index != 1 {
		shown = nextEvent(t, d, types.EventTypeStepShown)
	}
	assert.Equal(t, "#menu", shown.State.Selector)
	assert.Empty(t, shown.State.IntroHTML, "text is unknown until the step is placed")

	placed := nextEvent(t, d, types.EventTypeStepPlaced)
	for placed.State.Index != 1 {
		placed = nextEvent(t, d, types.EventTypeStepPlaced)
	}
	assert.NotEmpty(t, placed.State.Side)
	assert.Equal(t, "The menu.", placed.State.IntroHTML)

	require.NoError(t, d.Dispatch(ctx, types.NewCommand(types.CommandNext)))
	nextEvent(t, d, types.EventTypeCompleted)
	exited := nextEvent(t, d, types.EventTypeExited)
	assert.False(t, exited.State.Active)

	err = d.Dispatch(ctx, types.NewCommand(types.CommandNext))
	assert.ErrorIs(t, err, tour.ErrNotStarted)
}

func TestDriver_Exit(t *testing.T) {
	d, ctx := newTestDriver(t, consoleTour)
	_, err := d.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, d.Exit(ctx))
	nextEvent(t, d, types.EventTypeExited)

	// A second exit is a no-op
	require.NoError(t, d.Exit(ctx))
}

func TestDriver_MissingRoot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lp := loop.New()
	go lp.Run(ctx)

	doc := memdom.MustParse(consolePage)
	tf, err := config.ParseTourFile([]byte("root: \"#nowhere\"\nsteps:\n  - selector: \"#menu\"\n    intro: Hi\n"))
	require.NoError(t, err)

	_, err = New(ctx, lp, doc, tf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#nowhere")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line     string
		wantType types.CommandType
		wantStep int
	}{
		{"n", types.CommandNext, 0},
		{" Next ", types.CommandNext, 0},
		{"p", types.CommandPrevious, 0},
		{"previous", types.CommandPrevious, 0},
		{"r", types.CommandRefresh, 0},
		{"q", types.CommandExit, 0},
		{"exit", types.CommandExit, 0},
		{"g 3", types.CommandGoTo, 3},
		{"goto #12", types.CommandGoToNumber, 12},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cmd.Type)
			assert.Equal(t, tt.wantStep, cmd.Step)
		})
	}

	for _, bad := range []string{"", "jump", "g", "g 1 2", "goto x", "goto 0"} {
		_, err := ParseCommand(bad)
		assert.Error(t, err, "ParseCommand(%q)", bad)
	}
}

func TestParseGoTo(t *testing.T) {
	for _, bad := range []string{"", "abc", "0", "#", "#-1", "1.5"} {
		_, err := ParseGoTo(bad)
		assert.Error(t, err, "ParseGoTo(%q)", bad)
	}
	cmd, err := ParseGoTo(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, types.CommandGoTo, cmd.Type)
	assert.Equal(t, 4, cmd.Step)
}
