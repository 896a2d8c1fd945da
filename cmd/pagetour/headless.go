package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagetour/pkg/browser"
	appconfig "github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/executor/headless"
)

// runHeadless walks one tour, or every tour found with -dir
func runHeadless(ctx context.Context, config *Config) error {
	walkConfig, err := loadWalkConfig(config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	tourFiles := []string{walkConfig.TourFile}
	if config.TourDir != "" {
		if tourFiles, err = appconfig.DiscoverTours(config.TourDir, nil, nil); err != nil {
			return err
		}
		if len(tourFiles) == 0 {
			return fmt.Errorf("no tours found in %s", config.TourDir)
		}
	}

	mgr := browser.NewSessionManager()
	if err := mgr.Initialize(browserName(config)); err != nil {
		return err
	}
	defer func() {
		if err := mgr.Shutdown(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	var failed []string
	for i, path := range tourFiles {
		cfg := *walkConfig
		cfg.TourFile = path
		if len(tourFiles) > 1 {
			cfg.Artifacts.OutputDir = filepath.Join(walkConfig.Artifacts.OutputDir, tourSlug(path))
		}

		if err := walkTour(ctx, mgr, fmt.Sprintf("walk-%d", i), &cfg, config); err != nil {
			log.Printf("Walk of %s failed: %v", path, err)
			failed = append(failed, path)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d walks failed", len(failed), len(tourFiles))
	}
	return nil
}

// walkTour opens the tour's page in its own session and walks it
func walkTour(ctx context.Context, mgr *browser.SessionManager, name string, cfg *headless.Config, config *Config) error {
	tf, err := appconfig.LoadTourFile(cfg.TourFile)
	if err != nil {
		return err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	session, url, err := openPage(mgr, name, tf, config, true)
	if err != nil {
		return err
	}
	defer func() {
		_ = mgr.CloseSession(name)
	}()
	cfg.URL = url

	// No poster: the walk drives the tour itself, page events are not needed
	doc, err := session.Document(nil)
	if err != nil {
		return err
	}

	executor, err := headless.NewExecutor(doc, session, tf, cfg)
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}

	log.Printf("Starting headless walk of %s", tf.DisplayName())
	if _, err := executor.Run(ctx); err != nil {
		return err
	}
	if docErr := doc.Err(); docErr != nil {
		return fmt.Errorf("page error during walk: %w", docErr)
	}
	return nil
}

// loadWalkConfig loads the walk configuration from file, then applies the
// command-line overrides
func loadWalkConfig(config *Config) (*headless.Config, error) {
	walkConfig := headless.DefaultConfig()
	if config.WalkConfig != "" {
		data, err := os.ReadFile(config.WalkConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, walkConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if config.TourFile != "" {
		walkConfig.TourFile = config.TourFile
	}
	if config.TourDir != "" && walkConfig.TourFile == "" {
		// Replaced per discovered tour
		walkConfig.TourFile = config.TourDir
	}
	if config.URL != "" {
		walkConfig.URL = config.URL
	}
	if config.OutputDir != "" {
		walkConfig.Artifacts.OutputDir = config.OutputDir
	}
	if config.Verbosity != "" {
		walkConfig.Logging.Verbosity = config.Verbosity
	}
	if config.Timeout > 0 {
		walkConfig.Timeout = config.Timeout
	}
	if config.NoShots {
		walkConfig.Artifacts.Screenshots = false
	}
	if config.Handbook {
		walkConfig.Artifacts.Handbook = true
	}

	if err := walkConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.URL == "" && walkConfig.URL != "" {
		config.URL = walkConfig.URL
	}
	return walkConfig, nil
}

func browserName(config *Config) string {
	if config.Browser != "" {
		return config.Browser
	}
	if prefs := appconfig.GetBrowser(); prefs != nil {
		if name := browser.OptionsFromConfig(prefs).Browser; name != "" {
			return name
		}
	}
	return "chromium"
}

// tourSlug names a tour's artifact directory after its file.
func tourSlug(path string) string {
	tf := appconfig.TourFile{Path: path}
	return tf.DisplayName()
}
