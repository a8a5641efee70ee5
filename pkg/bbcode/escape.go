package bbcode

import "strings"

var (
	escapeText = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace
	// attributes in the output always use double quotes
	escapeAttr = strings.NewReplacer(
		"&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;",
	).Replace
)

// Escape escapes '&', '<' and '>' for inclusion in HTML text.
func Escape(s string) string {
	return escapeText(s)
}

// EscapeAttr escapes s for a double-quoted HTML attribute value.
func EscapeAttr(s string) string {
	return escapeAttr(s)
}
