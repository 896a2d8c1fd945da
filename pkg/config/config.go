// Package config holds pagetour's user preferences and the tour file
// format.
//
// Preferences live in ~/.pagetour/config.json as named sections (browser,
// console) behind a process-wide Manager. Tour files are YAML documents
// describing the page, options, text dictionary and steps of one tour.
package config

import (
	"sync"

	"github.com/entrhq/pagetour/pkg/logging"
)

var configDebugLog *logging.Logger

func init() {
	var err error
	configDebugLog, err = logging.NewLogger("config")
	if err != nil {
		configDebugLog.Warnf("Failed to initialize config logger, using stderr fallback: %v", err)
	}
}

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize loads the preference file at configPath (the default path when
// empty) into the global manager. Call it once at startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewConsoleSection()); err != nil {
		return err
	}
	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global manager. It panics before Initialize.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized reports whether Initialize has run.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetBrowser returns the browser preferences, or nil before Initialize.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	browser, _ := section.(*BrowserSection)
	return browser
}

// GetConsole returns the console preferences, or nil before Initialize.
func GetConsole() *ConsoleSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDConsole)
	if !ok {
		return nil
	}
	console, _ := section.(*ConsoleSection)
	return console
}
