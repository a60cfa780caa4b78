package sanitize

import (
	"strings"
)

// escaper rewrites the five HTML-significant characters to named references.
// A single-pass Replacer never rescans its own output, so produced entities
// are not double-escaped.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Clean trims surrounding whitespace and escapes text for safe HTML
// embedding. It is total and deterministic. Callers validate field lengths on
// the trimmed, unescaped value first: the escaped form stored by the service
// may exceed the nominal length limits after entity expansion.
func Clean(text string) string {
	return escaper.Replace(strings.TrimSpace(text))
}
