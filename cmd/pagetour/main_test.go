package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"tour file", Config{TourFile: "a.tour.yaml"}, false},
		{"headless dir", Config{TourDir: "tours", Headless: true}, false},
		{"list dir", Config{TourDir: "tours", List: true}, false},
		{"walk config only", Config{WalkConfig: "walk.yaml", Headless: true}, false},
		{"nothing to run", Config{}, true},
		{"tour and dir", Config{TourFile: "a.tour.yaml", TourDir: "tours", Headless: true}, true},
		{"list without dir", Config{TourFile: "a.tour.yaml", List: true}, true},
		{"interactive dir", Config{TourDir: "tours"}, true},
		{"handbook without headless", Config{TourFile: "a.tour.yaml", Handbook: true}, true},
		{"plain console", Config{TourFile: "a.tour.yaml", Plain: true}, false},
		{"plain headless", Config{TourFile: "a.tour.yaml", Plain: true, Headless: true}, true},
		{"negative timeout", Config{TourFile: "a.tour.yaml", Headless: true, Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWalkConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk.yaml")
	data := []byte(`
tour_file: from-file.tour.yaml
url: https://example.test/file
screenshot_delay: 1s
artifacts:
  enabled: true
  output_dir: file-out
  json: true
  screenshots: true
logging:
  verbosity: verbose
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	config := &Config{WalkConfig: path, OutputDir: "cli-out", Handbook: true}
	walk, err := loadWalkConfig(config)
	if err != nil {
		t.Fatalf("loadWalkConfig() error = %v", err)
	}

	if walk.TourFile != "from-file.tour.yaml" {
		t.Errorf("unexpected tour file %q", walk.TourFile)
	}
	if walk.ScreenshotDelay != time.Second {
		t.Errorf("unexpected screenshot delay %v", walk.ScreenshotDelay)
	}
	if walk.Artifacts.OutputDir != "cli-out" {
		t.Errorf("flag should override output dir, got %q", walk.Artifacts.OutputDir)
	}
	if !walk.Artifacts.Handbook {
		t.Error("expected handbook from flag")
	}
	if walk.Logging.Verbosity != "verbose" {
		t.Errorf("unexpected verbosity %q", walk.Logging.Verbosity)
	}
	if config.URL != "https://example.test/file" {
		t.Errorf("url from the walk config should reach the page, got %q", config.URL)
	}
}

func TestLoadWalkConfig_Invalid(t *testing.T) {
	config := &Config{TourFile: "a.tour.yaml", NoShots: true, Handbook: true}
	if _, err := loadWalkConfig(config); err == nil {
		t.Error("handbook without screenshots should be rejected")
	}
}

func TestTourSlug(t *testing.T) {
	if got := tourSlug(filepath.Join("tours", "billing.tour.yaml")); got != "billing.tour" {
		t.Errorf("tourSlug() = %q", got)
	}
}
