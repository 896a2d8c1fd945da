package main

import (
	"context"
	"fmt"
	"log"

	"github.com/entrhq/pagetour/pkg/browser"
	appconfig "github.com/entrhq/pagetour/pkg/config"
	"github.com/entrhq/pagetour/pkg/executor/cli"
	"github.com/entrhq/pagetour/pkg/executor/tui"
	"github.com/entrhq/pagetour/pkg/loop"
)

// runInteractive opens a visible browser and runs the tour console. -plain
// picks the line console over the full-screen one.
func runInteractive(ctx context.Context, config *Config) error {
	tourPath := config.TourFile
	if tourPath == "" {
		walkConfig, err := loadWalkConfig(config)
		if err != nil {
			return err
		}
		tourPath = walkConfig.TourFile
	}
	tf, err := appconfig.LoadTourFile(tourPath)
	if err != nil {
		return err
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

	session, url, err := openPage(mgr, "console", tf, config, false)
	if err != nil {
		return err
	}

	// Page events and tour timers all run on this loop
	lp := loop.New()
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go lp.Run(loopCtx)

	doc, err := session.Document(lp)
	if err != nil {
		return err
	}

	if config.Plain {
		err = cli.NewExecutor(lp, doc, tf, cli.WithURL(url), cli.WithShowPlacement(true)).Run(ctx)
	} else {
		err = tui.NewExecutor(lp, doc, tf, url).Run(ctx)
	}
	if err != nil {
		return err
	}
	if docErr := doc.Err(); docErr != nil {
		return fmt.Errorf("page error during tour: %w", docErr)
	}
	return nil
}
