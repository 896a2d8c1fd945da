package driver

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens intro HTML for a terminal. Block-level breaks and the
// role separator become new lines.
func PlainText(src string) string {
	if src == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseLines(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br", "p", "div", "li":
				b.WriteString("\n")
			case "hr":
				b.WriteString("\n───\n")
			}
		}
	}
}

// collapseLines trims every line and drops blank runs.
func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
