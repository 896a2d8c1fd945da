package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing walk artifacts
type ArtifactWriter struct {
	outputDir string
	config    ArtifactConfig
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string, config ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		config:    config,
	}
}

// ScreenshotPath is where the screenshot of a step number goes.
func (w *ArtifactWriter) ScreenshotPath(number int) string {
	return filepath.Join(w.outputDir, "screenshots", fmt.Sprintf("step-%03d.png", number))
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(summary *WalkSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.config.Handbook {
		if err := w.WriteHandbook(summary); err != nil {
			return fmt.Errorf("failed to write handbook: %w", err)
		}
	}

	if w.config.JSON {
		if err := w.WriteWalkJSON(summary); err != nil {
			return fmt.Errorf("failed to write walk JSON: %w", err)
		}
	}

	if w.config.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return fmt.Errorf("failed to write summary markdown: %w", err)
		}
	}

	return nil
}

// WriteHandbook binds the step screenshots into handbook.pdf and records
// its path in the summary. Nothing is written without screenshots.
func (w *ArtifactWriter) WriteHandbook(summary *WalkSummary) error {
	var images []string
	for _, step := range summary.Steps {
		if step.Screenshot != "" {
			images = append(images, step.Screenshot)
		}
	}
	if len(images) == 0 {
		return nil
	}

	path := filepath.Join(w.outputDir, "handbook.pdf")
	if err := BuildHandbook(images, path); err != nil {
		return err
	}
	summary.Handbook = path
	return nil
}

// WriteWalkJSON writes the full walk summary as JSON
func (w *ArtifactWriter) WriteWalkJSON(summary *WalkSummary) error {
	path := filepath.Join(w.outputDir, "walk.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal walk summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write walk JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *WalkSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Tour Walk: %s\n\n", summary.Tour))
	if summary.URL != "" {
		md.WriteString(fmt.Sprintf("**URL:** %s\n\n", summary.URL))
	}
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))
	if summary.Viewport.Width > 0 {
		md.WriteString(fmt.Sprintf("**Viewport:** %dx%d\n\n", summary.Viewport.Width, summary.Viewport.Height))
	}

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	} else if summary.Completed {
		md.WriteString(fmt.Sprintf("✅ **Completed** %d of %d steps\n\n", len(summary.Steps), summary.StepCount))
	} else {
		md.WriteString(fmt.Sprintf("⚠️ **Stopped** after %d of %d steps\n\n", len(summary.Steps), summary.StepCount))
	}

	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		md.WriteString("| # | Element | Position | Arrow | Progress |\n")
		md.WriteString("|---|---------|----------|-------|----------|\n")
		for _, step := range summary.Steps {
			side := step.Side
			if step.Requested != "" && step.Requested != step.Side {
				side = fmt.Sprintf("%s (asked %s)", step.Side, step.Requested)
			}
			arrow := step.Arrow
			if arrow == "" {
				arrow = "-"
			}
			md.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s | %.0f%% |\n",
				step.Number, step.Selector, side, arrow, step.Progress))
		}
		md.WriteString("\n")
	}

	if summary.Handbook != "" {
		md.WriteString(fmt.Sprintf("Handbook: `%s`\n", filepath.Base(summary.Handbook)))
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// WalkSummary contains a complete record of one headless walk
type WalkSummary struct {
	Tour      string        `json:"tour"`
	TourFile  string        `json:"tour_file,omitempty"`
	URL       string        `json:"url,omitempty"`
	TourID    string        `json:"tour_id"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Viewport  ViewportInfo  `json:"viewport"`
	StepCount int           `json:"step_count"`
	Completed bool          `json:"completed"`
	Steps     []StepRecord  `json:"steps"`
	Handbook  string        `json:"handbook,omitempty"`
}

// ViewportInfo is the viewport the walk ran at.
type ViewportInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StepRecord is one visited step.
type StepRecord struct {
	Index      int     `json:"index"`
	Number     int     `json:"number"`
	Selector   string  `json:"selector"`
	Requested  string  `json:"requested,omitempty"`
	Side       string  `json:"side"`
	Arrow      string  `json:"arrow,omitempty"`
	Progress   float64 `json:"progress"`
	Text       string  `json:"text"`
	Screenshot string  `json:"screenshot,omitempty"`
}
