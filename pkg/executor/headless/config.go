package headless

import (
	"fmt"
	"time"
)

// Config represents the configuration for a headless tour walk
type Config struct {
	// TourFile is the tour definition to walk.
	TourFile string `yaml:"tour_file" json:"tour_file"`

	// URL overrides the url in the tour file.
	URL string `yaml:"url" json:"url"`

	// Timeout bounds the whole walk, page load included.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// ScreenshotDelay lets the overlay transitions finish before each
	// screenshot.
	ScreenshotDelay time.Duration `yaml:"screenshot_delay" json:"screenshot_delay"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Individual format flags
	JSON        bool `yaml:"json" json:"json"`
	Markdown    bool `yaml:"markdown" json:"markdown"`
	Screenshots bool `yaml:"screenshots" json:"screenshots"`
	// Handbook binds the step screenshots into one PDF. It needs
	// Screenshots.
	Handbook bool `yaml:"handbook" json:"handbook"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TourFile == "" {
		return fmt.Errorf("tour file is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.ScreenshotDelay < 0 {
		return fmt.Errorf("screenshot_delay cannot be negative")
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts require an output directory")
	}
	if c.Artifacts.Handbook && !c.Artifacts.Screenshots {
		return fmt.Errorf("handbook requires screenshots to be enabled")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		Timeout:         2 * time.Minute,
		ScreenshotDelay: 400 * time.Millisecond,
		Artifacts: ArtifactConfig{
			Enabled:     true,
			OutputDir:   ".pagetour/walk",
			JSON:        true,
			Markdown:    true,
			Screenshots: true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}
