package browser

import (
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagetour/pkg/config"
)

// Session is one browser window holding the page a tour runs on.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	Headless   bool
	CreatedAt  time.Time
	CurrentURL string

	doc     atomic.Pointer[Document]
	exposed bool
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Browser is chromium, firefox or webkit.
	Browser  string
	Headless bool
	// SlowMo delays every playwright operation, for watching a tour run.
	SlowMo   time.Duration
	Viewport *Viewport
	// Timeout is the default for navigation and waits.
	Timeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout overrides the session default when positive.
	Timeout time.Duration
}

// Default values for sessions
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultMaxSessions    = 4
)

// OptionsFromConfig maps the browser preferences onto session options.
func OptionsFromConfig(cfg *config.BrowserSection) SessionOptions {
	if cfg == nil {
		return SessionOptions{}
	}
	w, h := cfg.Viewport()
	return SessionOptions{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		SlowMo:   cfg.SlowMo,
		Viewport: &Viewport{Width: w, Height: h},
		Timeout:  cfg.Timeout,
	}
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
