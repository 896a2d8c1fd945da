package headless

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/dom/memdom"
)

const walkPage = `<html><body>
<div id="app">
  <button id="search">Search</button>
  <nav id="menu">Menu</nav>
  <section id="billing">Billing</section>
</div>
</body></html>`

const walkTour = `
name: walk
root: "#app"
options:
  nextLabel: Onward
steps:
  - selector: "#search"
    intro: Search here.
  - selector: "#menu"
    intro: The <b>menu</b>.
    position: right
  - selector: "#billing"
    intro: Invoices live here.
`

// fakePage writes a small PNG for every screenshot.
type fakePage struct {
	shots []string
}

func (p *fakePage) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	p.shots = append(p.shots, path)
	return writePNG(path)
}

func writePNG(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		img.Set(x, x%24, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func newWalkDoc(t *testing.T) *memdom.Document {
	t.Helper()
	doc, err := memdom.Parse(walkPage)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	doc.SetViewport(1024, 768)
	doc.SetDefaultSize("introjs-tooltip", dom.Size{Width: 300, Height: 120})
	doc.SetBox(doc.QuerySelector("#search"), dom.Rect{Top: 20, Left: 400, Width: 200, Height: 30})
	doc.SetBox(doc.QuerySelector("#menu"), dom.Rect{Top: 80, Left: 10, Width: 150, Height: 400})
	doc.SetBox(doc.QuerySelector("#billing"), dom.Rect{Top: 300, Left: 400, Width: 400, Height: 200})
	return doc
}

func newWalkTour(t *testing.T, src string) *config.TourFile {
	t.Helper()
	tf, err := config.ParseTourFile([]byte(src))
	if err != nil {
		t.Fatalf("failed to parse tour: %v", err)
	}
	return tf
}

func quietConsole() *Logger {
	l := NewLogger(LogLevelQuiet)
	l.writer = io.Discard
	return l
}

func walkConfig(dir string) *Config {
	cfg := DefaultConfig()
	cfg.TourFile = "walk.tour.yaml"
	cfg.ScreenshotDelay = 0
	cfg.Artifacts.OutputDir = dir
	cfg.Logging.Verbosity = "quiet"
	return cfg
}

func TestExecutor_WalksEveryStep(t *testing.T) {
	dir := t.TempDir()
	page := &fakePage{}
	cfg := walkConfig(dir)
	cfg.Artifacts.Handbook = true

	executor, err := NewExecutor(newWalkDoc(t), page, newWalkTour(t, walkTour), cfg,
		WithConsole(quietConsole()), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	summary, err := executor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Status != statusCompleted || !summary.Completed {
		t.Errorf("expected completed walk, got status %q", summary.Status)
	}
	if summary.StepCount != 3 || len(summary.Steps) != 3 {
		t.Fatalf("expected 3 visited steps, got %d of %d", len(summary.Steps), summary.StepCount)
	}
	if summary.Viewport.Width != 1024 || summary.Viewport.Height != 768 {
		t.Errorf("unexpected viewport %+v", summary.Viewport)
	}
	if summary.TourID == "" {
		t.Error("expected a tour id")
	}

	wantSelectors := []string{"#search", "#menu", "#billing"}
	for i, rec := range summary.Steps {
		if rec.Index != i || rec.Number != i+1 {
			t.Errorf("step %d: index %d number %d", i, rec.Index, rec.Number)
		}
		if rec.Selector != wantSelectors[i] {
			t.Errorf("step %d: selector %q, want %q", i, rec.Selector, wantSelectors[i])
		}
		if rec.Side == "" {
			t.Errorf("step %d: no resolved side", i)
		}
		if rec.Screenshot != filepath.Join(dir, "screenshots", "step-00"+string(rune('1'+i))+".png") {
			t.Errorf("step %d: unexpected screenshot path %q", i, rec.Screenshot)
		}
	}
	if summary.Steps[0].Text != "Search here." {
		t.Errorf("unexpected first text %q", summary.Steps[0].Text)
	}
	if summary.Steps[1].Requested != "right" {
		t.Errorf("expected step 2 to request right, got %q", summary.Steps[1].Requested)
	}
	if summary.Steps[2].Progress != 100 {
		t.Errorf("expected last step at 100%%, got %v", summary.Steps[2].Progress)
	}
	if len(page.shots) != 3 {
		t.Errorf("expected 3 screenshots, got %d", len(page.shots))
	}

	data, err := os.ReadFile(filepath.Join(dir, "walk.json"))
	if err != nil {
		t.Fatalf("walk.json not written: %v", err)
	}
	var decoded WalkSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("walk.json is not valid: %v", err)
	}
	if decoded.Tour != "walk" || len(decoded.Steps) != 3 {
		t.Errorf("unexpected walk.json contents: %+v", decoded)
	}

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	if err != nil {
		t.Fatalf("summary.md not written: %v", err)
	}
	if !strings.Contains(string(md), "| 2 | `#menu` |") {
		t.Errorf("summary.md missing step row:\n%s", md)
	}

	if summary.Handbook != filepath.Join(dir, "handbook.pdf") {
		t.Errorf("unexpected handbook path %q", summary.Handbook)
	}
	if _, err := os.Stat(summary.Handbook); err != nil {
		t.Errorf("handbook not written: %v", err)
	}
}

func TestExecutor_ReportsCompletedWalk(t *testing.T) {
	var buf bytes.Buffer
	console := NewLogger(LogLevelNormal)
	console.writer = &buf

	cfg := walkConfig(t.TempDir())
	cfg.Artifacts.Enabled = false
	executor, err := NewExecutor(newWalkDoc(t), &fakePage{}, newWalkTour(t, walkTour), cfg,
		WithConsole(console), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	if _, err := executor.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "✓ Visited all 3 steps") {
		t.Errorf("console missing success line:\n%s", buf.String())
	}
}

func TestExecutor_NoPageSkipsScreenshots(t *testing.T) {
	cfg := walkConfig(t.TempDir())
	executor, err := NewExecutor(newWalkDoc(t), nil, newWalkTour(t, walkTour), cfg,
		WithConsole(quietConsole()), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	summary, err := executor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, rec := range summary.Steps {
		if rec.Screenshot != "" {
			t.Errorf("step %d has a screenshot without a page", rec.Number)
		}
	}
}

func TestExecutor_MissingRootFails(t *testing.T) {
	dir := t.TempDir()
	src := strings.Replace(walkTour, `root: "#app"`, `root: "#nowhere"`, 1)

	executor, err := NewExecutor(newWalkDoc(t), nil, newWalkTour(t, src), walkConfig(dir),
		WithConsole(quietConsole()), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	summary, err := executor.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
	if summary.Status != statusFailed {
		t.Errorf("expected failed status, got %q", summary.Status)
	}
	if !strings.Contains(summary.Error, "#nowhere") {
		t.Errorf("error should name the root: %q", summary.Error)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "walk.json")); statErr != nil {
		t.Errorf("failure artifacts not written: %v", statErr)
	}
}

func TestExecutor_NoStepsFails(t *testing.T) {
	doc, err := memdom.Parse(`<html><body><p>nothing to see</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	cfg := walkConfig(t.TempDir())
	cfg.Artifacts.Enabled = false

	executor, err := NewExecutor(doc, nil, newWalkTour(t, "name: empty\n"), cfg,
		WithConsole(quietConsole()), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	summary, err := executor.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for a tour without steps")
	}
	if summary.Status != statusFailed || len(summary.Steps) != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestExecutor_CancelledContext(t *testing.T) {
	cfg := walkConfig(t.TempDir())
	cfg.Artifacts.Enabled = false
	doc := newWalkDoc(t)

	executor, err := NewExecutor(doc, nil, newWalkTour(t, walkTour), cfg,
		WithConsole(quietConsole()), WithReporter(nopReporter{}))
	if err != nil {
		t.Fatalf("NewExecutor() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := executor.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "walk interrupted") {
		t.Fatalf("expected an interrupted walk, got %v", err)
	}
	if len(summary.Steps) != 0 {
		t.Errorf("expected no visited steps, got %d", len(summary.Steps))
	}
	if doc.QuerySelector(".introjs-overlay") != nil {
		t.Error("overlay left behind after interruption")
	}
}

func TestNewExecutor_Validation(t *testing.T) {
	if _, err := NewExecutor(nil, nil, nil, &Config{}); err == nil {
		t.Error("expected an error for an invalid config")
	}
	if _, err := NewExecutor(nil, nil, nil, &Config{TourFile: "t.yaml"}); err == nil {
		t.Error("expected an error for a missing tour file")
	}
}
