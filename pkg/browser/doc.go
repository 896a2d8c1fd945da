// Package browser runs tours against a live page through Playwright.
//
// A SessionManager starts the playwright driver and launches named
// sessions, each one browser with a single page. Session.Document injects a
// small runtime script and the tour stylesheet into that page and returns a
// dom.Document whose elements are handles into the script's registry.
//
// # Threading
//
// Document calls are synchronous round trips and may be made from the
// goroutine that owns the tour. Page events arrive on playwright's own
// goroutine; the Document forwards them to a Poster (normally a
// *loop.Loop) so that tour callbacks never run concurrently:
//
//	l := loop.New()
//	go l.Run(ctx)
//	doc, err := session.Document(l)
//	t := tour.New(doc, tour.WithScheduler(l))
//	err = l.Do(ctx, func() { startErr = t.Start() })
//
// # Configuration
//
// OptionsFromConfig maps the browser section of the user preferences
// (browser, headless, slow_mo, viewport, timeout) onto SessionOptions.
package browser

import "github.com/entrhq/pagetour/pkg/logging"

var browserDebugLog *logging.Logger

func init() {
	var err error
	browserDebugLog, err = logging.NewLogger("browser")
	if err != nil {
		browserDebugLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}
