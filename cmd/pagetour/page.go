package main

import (
	"fmt"
	"log"

	"github.com/entrhq/pagetour/pkg/browser"
	appconfig "github.com/entrhq/pagetour/pkg/config"
)

// openPage starts a browser session sized for the tour and loads its page.
func openPage(mgr *browser.SessionManager, name string, tf *appconfig.TourFile, config *Config, headless bool) (*browser.Session, string, error) {
	url := config.URL
	if url == "" {
		url = tf.URL
	}
	if url == "" {
		return nil, "", fmt.Errorf("%s: no url (set url in the tour file or use -url)", tf.DisplayName())
	}

	opts := browser.OptionsFromConfig(appconfig.GetBrowser())
	opts.Headless = headless
	if config.Browser != "" {
		opts.Browser = config.Browser
	}
	if tf.Viewport.Width > 0 && tf.Viewport.Height > 0 {
		opts.Viewport = &browser.Viewport{Width: tf.Viewport.Width, Height: tf.Viewport.Height}
	}

	session, err := mgr.StartSession(name, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start browser: %w", err)
	}
	if err := session.Navigate(url, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		_ = mgr.CloseSession(name)
		return nil, "", fmt.Errorf("failed to open %s: %w", url, err)
	}
	log.Printf("Opened %s (%s)", url, session.Title())
	return session, url, nil
}
