// Package htmlsanitize cleans visitor-supplied text before it is stored or
// shown. It uses bluemonday to strip markup.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict removes every element; script and style bodies are dropped.
	strict     *bluemonday.Policy
	strictOnce sync.Once
)

func getStrictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText strips all HTML from s and returns the remaining text,
// unescaped and trimmed. Comments are stored in this form.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getStrictPolicy().Sanitize(s)))
}

// PlainTextToHTML converts plain text to minimal HTML by:
// - Escaping HTML entities
// - Converting newlines to <br> tags
// - Wrapping in a <p> tag
func PlainTextToHTML(text string) template.HTML {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML("<p>" + escaped + "</p>")
}
