package tui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
)

// highlightSource renders intro HTML with a chroma style for the terminal.
func highlightSource(src, style string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, "html", "terminal256", style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}
