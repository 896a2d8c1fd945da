package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
)

const (
	SectionIDBrowser = "browser"
	SectionIDConsole = "console"

	defaultBrowserName    = "chromium"
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
	defaultNavTimeout     = 30 * time.Second
	defaultSourceStyle    = "monokai"
)

// BrowserSection configures the playwright browser the executors drive.
type BrowserSection struct {
	Headless       bool
	Browser        string
	SlowMo         time.Duration
	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration
	mu             sync.RWMutex
}

// NewBrowserSection returns the defaults: headed chromium at 1280x800.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

func (s *BrowserSection) ID() string    { return SectionIDBrowser }
func (s *BrowserSection) Title() string { return "Browser" }

func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"headless":        s.Headless,
		"browser":         s.Browser,
		"slow_mo":         s.SlowMo.String(),
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"timeout":         s.Timeout.String(),
	}
}

// SetData applies stored values. Unknown keys are ignored so older
// binaries can read newer files.
func (s *BrowserSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "headless":
			err = setBool(key, value, &s.Headless)
		case "browser":
			err = setString(key, value, &s.Browser)
		case "slow_mo":
			err = setDuration(key, value, &s.SlowMo)
		case "viewport_width":
			err = setInt(key, value, &s.ViewportWidth)
		case "viewport_height":
			err = setInt(key, value, &s.ViewportHeight)
		case "timeout":
			err = setDuration(key, value, &s.Timeout)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unknown browser %q (must be chromium, firefox or webkit)", s.Browser)
	}
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.SlowMo < 0 {
		return fmt.Errorf("slow_mo cannot be negative")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = false
	s.Browser = defaultBrowserName
	s.SlowMo = 0
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.Timeout = defaultNavTimeout
}

// Viewport returns the configured viewport size.
func (s *BrowserSection) Viewport() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ViewportWidth, s.ViewportHeight
}

// ConsoleSection configures the interactive tour console.
type ConsoleSection struct {
	// SourceStyle is the chroma style for the intro source view.
	SourceStyle string
	ShowSource  bool
	ShowHelp    bool
	mu          sync.RWMutex
}

func NewConsoleSection() *ConsoleSection {
	s := &ConsoleSection{}
	s.Reset()
	return s
}

func (s *ConsoleSection) ID() string    { return SectionIDConsole }
func (s *ConsoleSection) Title() string { return "Console" }

func (s *ConsoleSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"source_style": s.SourceStyle,
		"show_source":  s.ShowSource,
		"show_help":    s.ShowHelp,
	}
}

func (s *ConsoleSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "source_style":
			err = setString(key, value, &s.SourceStyle)
		case "show_source":
			err = setBool(key, value, &s.ShowSource)
		case "show_help":
			err = setBool(key, value, &s.ShowHelp)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ConsoleSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := styles.Registry[s.SourceStyle]; !ok {
		return fmt.Errorf("unknown source style %q", s.SourceStyle)
	}
	return nil
}

func (s *ConsoleSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SourceStyle = defaultSourceStyle
	s.ShowSource = false
	s.ShowHelp = true
}

func setBool(key string, value any, dst *bool) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
	}
	*dst = b
	return nil
}

func setString(key string, value any, dst *string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
	}
	*dst = s
	return nil
}

func setInt(key string, value any, dst *int) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case float64:
		// JSON numbers come as float64
		if v != float64(int(v)) {
			return fmt.Errorf("invalid value for %s: %v is not a whole number", key, v)
		}
		*dst = int(v)
	default:
		return fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
	}
	return nil
}

func setDuration(key string, value any, dst *time.Duration) error {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		*dst = d
	case float64:
		*dst = time.Duration(v)
	case int64:
		*dst = time.Duration(v)
	case int:
		*dst = time.Duration(v)
	default:
		return fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
	return nil
}
