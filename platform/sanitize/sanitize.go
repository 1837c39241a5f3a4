// Package sanitize provides text sanitization utilities for uploaded lead data.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips HTML and control characters and collapses runs of whitespace.
// Use for free-text cells such as messages and names.
func Text(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(dropControl(StripHTML(s)), " "))
}

// ForPrompt prepares user-provided text for inclusion in an LLM prompt:
// control characters are removed (newlines and tabs kept) and the result is
// truncated to maxLen bytes on a rune boundary.
func ForPrompt(s string, maxLen int) string {
	result := dropControl(s)
	if maxLen <= 0 || len(result) <= maxLen {
		return result
	}
	cut := maxLen
	for cut > 0 && !utf8Start(result[cut]) {
		cut--
	}
	return result[:cut] + "... [truncated]"
}

func dropControl(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
