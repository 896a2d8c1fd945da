package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/dom/memdom"
	"github.com/entrhq/pagetour/pkg/loop"
)

const linePage = `<html><body>
<div id="app">
  <button id="search">Search</button>
  <nav id="menu">Menu</nav>
</div>
</body></html>`

const lineTour = `
name: lines
root: "#app"
steps:
  - selector: "#search"
    intro: Search <b>here</b>.
  - selector: "#menu"
    intro: <p>The menu.</p><p>Pick one.</p>
`

// pacedReader hands out one line per Read after a pause, so every step
// settles before the next command arrives.
type pacedReader struct {
	lines []string
	pause time.Duration
}

func (r *pacedReader) Read(p []byte) (int, error) {
	if len(r.lines) == 0 {
		return 0, io.EOF
	}
	time.Sleep(r.pause)
	n := copy(p, r.lines[0]+"\n")
	r.lines = r.lines[1:]
	return n, nil
}

func runConsole(t *testing.T, tourSrc, input string, opts ...ExecutorOption) (string, error) {
	t.Helper()
	return runConsoleFrom(t, tourSrc, strings.NewReader(input), opts...)
}

func runConsoleFrom(t *testing.T, tourSrc string, input io.Reader, opts ...ExecutorOption) (string, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lp := loop.New()
	go lp.Run(ctx)

	doc, err := memdom.Parse(linePage)
	require.NoError(t, err)
	doc.SetViewport(1024, 768)
	doc.SetDefaultSize("introjs-tooltip", dom.Size{Width: 300, Height: 120})
	doc.SetBox(doc.QuerySelector("#search"), dom.Rect{Top: 20, Left: 400, Width: 200, Height: 30})
	doc.SetBox(doc.QuerySelector("#menu"), dom.Rect{Top: 80, Left: 10, Width: 150, Height: 400})

	tf, err := config.ParseTourFile([]byte(tourSrc))
	require.NoError(t, err)

	var out bytes.Buffer
	opts = append([]ExecutorOption{WithReader(input), WithWriter(&out), WithURL("https://example.test/app")}, opts...)
	err = NewExecutor(lp, doc, tf, opts...).Run(ctx)
	return out.String(), err
}

func TestExecutor_WalksToCompletion(t *testing.T) {
	out, err := runConsole(t, lineTour, "n\nbogus\np\nn\nn\n")
	require.NoError(t, err)

	assert.Contains(t, out, "pagetour · lines")
	assert.Contains(t, out, "https://example.test/app")
	assert.Contains(t, out, "Step 1 of 2  #search\nSearch here.")
	assert.Contains(t, out, "Step 2 of 2  #menu")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.GreaterOrEqual(t, strings.Count(out, "Step 1 of 2"), 2)
	assert.Contains(t, out, "✓ Tour completed")
	assert.NotContains(t, out, "Tour exited")
}

func TestExecutor_PrintsTextOncePlaced(t *testing.T) {
	input := &pacedReader{lines: []string{"n", "q"}, pause: 600 * time.Millisecond}
	out, err := runConsoleFrom(t, lineTour, input, WithShowPlacement(true))
	require.NoError(t, err)

	assert.Contains(t, out, "Step 2 of 2  #menu\nThe menu.\nPick one.\n   placed ")
	assert.Equal(t, 2, strings.Count(out, "   placed "))
	assert.Contains(t, out, "Tour exited")
}

func TestExecutor_ExitCommand(t *testing.T) {
	out, err := runConsole(t, lineTour, "q\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Tour exited")
	assert.NotContains(t, out, "Tour completed")
}

func TestExecutor_EOFExitsTour(t *testing.T) {
	out, err := runConsole(t, lineTour, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1 of 2")
	assert.Contains(t, out, "Tour exited")
}

func TestExecutor_BlockedAtFirstStep(t *testing.T) {
	out, err := runConsole(t, lineTour, "p\nq\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Already at the first step")
}

func TestExecutor_MissingRoot(t *testing.T) {
	src := "root: \"#nowhere\"\nsteps:\n  - selector: \"#menu\"\n    intro: Hi\n"
	_, err := runConsole(t, src, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#nowhere")
}
