package headless

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// BuildHandbook writes one PDF page per image, in order. An existing file
// at out is replaced.
func BuildHandbook(images []string, out string) error {
	if len(images) == 0 {
		return fmt.Errorf("no screenshots to bind")
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", out, err)
	}

	imp := pdfcpu.DefaultImportConfig()
	if err := api.ImportImagesFile(images, out, imp, nil); err != nil {
		return fmt.Errorf("failed to import screenshots: %w", err)
	}
	return nil
}
