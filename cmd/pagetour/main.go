// Package main provides the pagetour command: it opens a page in a browser
// and runs a guided tour over it, either interactively from a terminal
// console or headless for CI checks and screenshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/entrhq/pagetour/pkg/config"
)

const version = "0.1.0" // Version of pagetour

// Config holds the command-line configuration
type Config struct {
	URL         string
	TourFile    string
	TourDir     string
	ConfigFile  string
	WalkConfig  string
	OutputDir   string
	Verbosity   string
	Browser     string
	Timeout     time.Duration
	Headless    bool
	Plain       bool
	Handbook    bool
	NoShots     bool
	List        bool
	ShowVersion bool
}

func main() {
	// Parse command line flags
	config := parseFlags()

	// Show version if requested
	if config.ShowVersion {
		fmt.Printf("pagetour v%s\n", version)
		return
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Printf("pagetour failed: %v", runErr)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.URL, "url", "", "Page to open (overrides the url in the tour file)")
	flag.StringVar(&config.TourFile, "tour", "", "Tour file (YAML)")
	flag.StringVar(&config.TourDir, "dir", "", "Directory to discover *.tour.yaml files in")
	flag.StringVar(&config.ConfigFile, "config", "", "Preferences file (default: ~/.pagetour/config.json)")
	flag.StringVar(&config.WalkConfig, "walk-config", "", "Headless walk configuration file (YAML)")
	flag.StringVar(&config.OutputDir, "out", "", "Directory for walk artifacts (headless)")
	flag.StringVar(&config.Verbosity, "verbosity", "", "Headless output: quiet, normal, verbose or debug")
	flag.StringVar(&config.Browser, "browser", "", "Browser: chromium, firefox or webkit (overrides preferences)")
	flag.DurationVar(&config.Timeout, "timeout", 0, "Headless walk timeout per tour")
	flag.BoolVar(&config.Headless, "headless", false, "Walk the tour without a console (CI mode)")
	flag.BoolVar(&config.Plain, "plain", false, "Use the line console instead of the full-screen one")
	flag.BoolVar(&config.Handbook, "handbook", false, "Bind the step screenshots into handbook.pdf (headless)")
	flag.BoolVar(&config.NoShots, "no-screenshots", false, "Do not take step screenshots (headless)")
	flag.BoolVar(&config.List, "list", false, "List the tours found with -dir and exit")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pagetour - guided page tours from the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pagetour [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Interactive console\n")
		fmt.Fprintf(os.Stderr, "  pagetour -tour onboarding.tour.yaml\n")
		fmt.Fprintf(os.Stderr, "  pagetour -tour onboarding.tour.yaml -url http://localhost:3000\n")
	fmt.Fprintf(os.Stderr, "  pagetour -tour onboarding.tour.yaml -plain < commands.txt\n")
		fmt.Fprintf(os.Stderr, "\n  # Headless walk (CI)\n")
		fmt.Fprintf(os.Stderr, "  pagetour -headless -tour onboarding.tour.yaml -out walk -handbook\n")
		fmt.Fprintf(os.Stderr, "  pagetour -headless -dir tours/\n")
		fmt.Fprintf(os.Stderr, "  pagetour -dir tours/ -list\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.TourFile == "" && c.TourDir == "" && c.WalkConfig == "" {
		return fmt.Errorf("a tour is required (use -tour, -dir or -walk-config)")
	}
	if c.TourFile != "" && c.TourDir != "" {
		return fmt.Errorf("-tour and -dir cannot be combined")
	}
	if c.List && c.TourDir == "" {
		return fmt.Errorf("-list requires -dir")
	}
	if c.TourDir != "" && !c.Headless && !c.List {
		return fmt.Errorf("-dir runs headless walks; add -headless or -list")
	}
	if !c.Headless && (c.Handbook || c.NoShots || c.OutputDir != "") {
		return fmt.Errorf("-out, -handbook and -no-screenshots apply to headless walks only")
	}
	if c.Plain && c.Headless {
		return fmt.Errorf("-plain selects an interactive console; it cannot be combined with -headless")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	if config.List {
		return listTours(config.TourDir)
	}

	// Initialize global preferences (browser and console sections)
	if err := appconfig.Initialize(config.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	if config.Headless {
		return runHeadless(ctx, config)
	}
	return runInteractive(ctx, config)
}

// listTours prints the tours found in dir
func listTours(dir string) error {
	paths, err := appconfig.DiscoverTours(dir, nil, nil)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No tours found in %s\n", dir)
		return nil
	}
	for _, path := range paths {
		tf, err := appconfig.LoadTourFile(path)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", path, err)
			continue
		}
		fmt.Printf("  • %-24s %2d steps  %s\n", tf.DisplayName(), len(tf.Steps), path)
	}
	return nil
}
