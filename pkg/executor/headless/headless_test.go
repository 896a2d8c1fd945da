package headless

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				TourFile: "onboarding.tour.yaml",
				Timeout:  time.Minute,
				Artifacts: ArtifactConfig{
					Enabled:   true,
					OutputDir: "/tmp/walk",
					JSON:      true,
				},
			},
			wantErr: false,
		},
		{
			name:    "missing tour file",
			config:  &Config{},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: &Config{
				TourFile: "t.yaml",
				Timeout:  -1 * time.Minute,
			},
			wantErr: true,
		},
		{
			name: "negative screenshot delay",
			config: &Config{
				TourFile:        "t.yaml",
				ScreenshotDelay: -time.Millisecond,
			},
			wantErr: true,
		},
		{
			name: "artifacts without output dir",
			config: &Config{
				TourFile:  "t.yaml",
				Artifacts: ArtifactConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "handbook without screenshots",
			config: &Config{
				TourFile: "t.yaml",
				Artifacts: ArtifactConfig{
					Enabled:   true,
					OutputDir: "/tmp/walk",
					Handbook:  true,
				},
			},
			wantErr: true,
		},
		{
			name: "invalid verbosity",
			config: &Config{
				TourFile: "t.yaml",
				Logging:  LoggingConfig{Verbosity: "loud"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateDefaultsVerbosity(t *testing.T) {
	cfg := &Config{TourFile: "t.yaml"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Verbosity != "normal" {
		t.Errorf("expected verbosity normal, got %q", cfg.Logging.Verbosity)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", config.Timeout)
	}
	if !config.Artifacts.Enabled || !config.Artifacts.Screenshots {
		t.Error("expected artifacts and screenshots to be enabled")
	}
	if config.Artifacts.Handbook {
		t.Error("expected handbook to be off by default")
	}
	if config.Artifacts.OutputDir != ".pagetour/walk" {
		t.Errorf("unexpected output dir %q", config.Artifacts.OutputDir)
	}

	// Only the tour file is missing
	config.TourFile = "t.yaml"
	if err := config.Validate(); err != nil {
		t.Errorf("default config with a tour file should be valid: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"quiet":   LogLevelQuiet,
		"normal":  LogLevelNormal,
		"verbose": LogLevelVerbose,
		"debug":   LogLevelDebug,
		"":        LogLevelNormal,
		"other":   LogLevelNormal,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_StepVisited(t *testing.T) {
	rec := StepRecord{Index: 1, Number: 2, Selector: "#billing", Side: "left"}

	var buf bytes.Buffer
	l := NewLogger(LogLevelQuiet)
	l.writer = &buf
	l.StepVisited(rec, 3)
	if buf.Len() != 0 {
		t.Errorf("quiet logger printed %q", buf.String())
	}

	l.level = LogLevelNormal
	l.StepVisited(rec, 3)
	if !strings.Contains(buf.String(), "[2/3] #billing") {
		t.Errorf("normal output missing counter: %q", buf.String())
	}

	buf.Reset()
	l.level = LogLevelVerbose
	l.StepVisited(rec, 3)
	if !strings.Contains(buf.String(), "Step 2 #billing: left, arrow none") {
		t.Errorf("verbose output missing placement: %q", buf.String())
	}
}

func TestLogger_Summary(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogLevelQuiet)
	l.writer = &buf

	l.Summary(&WalkSummary{
		Tour:      "billing",
		Status:    statusFailed,
		Error:     "tour root \"#app\" not found",
		StepCount: 4,
	})

	out := buf.String()
	for _, want := range []string{"WALK SUMMARY", "FAILED", "Tour: billing", "0 visited of 4", "Error Details"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{writer: &buf}

	r.Start(2)
	r.Update(1, "#a")
	r.Update(2, "#b")
	r.Finish()

	want := "Walking tour with 2 steps\n[1/2] #a\n[2/2] #b\nTour walk complete\n"
	if buf.String() != want {
		t.Errorf("unexpected CI output:\n%s", buf.String())
	}
}

func TestNewReporter_CI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected a CIReporter when CI is set")
	}
}
