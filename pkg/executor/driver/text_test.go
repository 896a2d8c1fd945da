package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"Plain":                   "Plain",
		"<p>One</p><p>Two</p>":    "One\nTwo",
		"A<br>B":                  "A\nB",
		"  spaced   <b>out</b>  ": "spaced out",
		`Admin<hr class="intro-role-text-separator"/>Everyone`: "Admin\n───\nEveryone",
		"<ul><li>a</li><li>b</li></ul>":                        "a\nb",
	}
	for in, want := range tests {
		assert.Equal(t, want, PlainText(in), "PlainText(%q)", in)
	}
}
