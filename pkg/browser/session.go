package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// Navigate navigates the session's page to the specified URL. Any Document
// obtained earlier is stale afterwards; call Document again.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = playwright.Float(durationMillis(opts.Timeout))
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	s.CurrentURL = s.Page.URL()
	s.doc.Store(nil)
	return nil
}

// SetViewport resizes the page. A running tour sees a resize event.
func (s *Session) SetViewport(width, height int) error {
	if err := s.Page.SetViewportSize(width, height); err != nil {
		return fmt.Errorf("failed to resize viewport: %w", err)
	}
	return nil
}

// Document installs the runtime script, the tour stylesheet and the event
// binding into the current page and returns a dom.Document over it. Page
// events are delivered through poster, which may be nil.
func (s *Session) Document(poster Poster) (*Document, error) {
	if doc := s.doc.Load(); doc != nil {
		return doc, nil
	}

	// The binding outlives navigations, so it routes to whichever
	// document is current.
	if !s.exposed {
		err := s.Page.ExposeFunction(bindingName, func(args ...interface{}) interface{} {
			if doc := s.doc.Load(); doc != nil {
				return doc.binding(args...)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to expose event binding: %w", err)
		}
		s.exposed = true
	}

	doc := NewDocument(s.Page, poster)
	if _, err := s.Page.AddScriptTag(playwright.PageAddScriptTagOptions{
		Content: playwright.String(runtimeJS),
	}); err != nil {
		return nil, fmt.Errorf("failed to install page runtime: %w", err)
	}
	if _, err := s.Page.AddStyleTag(playwright.PageAddStyleTagOptions{
		Content: playwright.String(tourCSS),
	}); err != nil {
		return nil, fmt.Errorf("failed to add tour stylesheet: %w", err)
	}

	s.doc.Store(doc)
	return doc, nil
}

// Screenshot writes a PNG of the viewport to path.
func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Title returns the page title, or "" if it cannot be read.
func (s *Session) Title() string {
	title, err := s.Page.Title()
	if err != nil {
		return ""
	}
	return title
}

func (s *Session) close() {
	// Ignore errors, continue cleanup
	_ = s.Page.Close()
	_ = s.Context.Close()
	_ = s.Browser.Close()
}
