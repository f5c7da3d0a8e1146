// Package sanitize cleans third-party text (lookup titles, model replies)
// before it is stored or returned to clients.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Text strips HTML tags, decodes entities and collapses runs of whitespace.
// Tags are stripped again after decoding so encoded markup cannot survive.
func Text(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = htmlTagRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Texts applies Text to every item and drops items that end up empty.
// The result is never nil.
func Texts(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := Text(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
