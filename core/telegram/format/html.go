package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes text for safe embedding in HTML-parse-mode messages.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Bold wraps escaped text in bold tags.
func Bold(text string) string {
	return "<b>" + EscapeHTML(text) + "</b>"
}

// Italic wraps escaped text in italic tags.
func Italic(text string) string {
	return "<i>" + EscapeHTML(text) + "</i>"
}

// Code wraps escaped text in an inline code tag.
func Code(text string) string {
	return "<code>" + EscapeHTML(text) + "</code>"
}

// TruncateRunes shortens text to at most limit runes, appending an ellipsis
// when anything was cut.
func TruncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
