package ui

import (
	"html"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

var markup = bluemonday.StrictPolicy()

// sanitize makes server-supplied text safe to print: escape sequences and
// markup are removed, as are control characters other than newline and tab.
func sanitize(text string) string {
	if text == "" {
		return ""
	}
	text = ansi.Strip(text)
	if strings.ContainsAny(text, "<>&") {
		text = html.UnescapeString(markup.Sanitize(text))
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}
