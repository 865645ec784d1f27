package hooks

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Identifier derives the camel-case hook name from a dash-separated directory name.
// The first segment is kept as is; every later segment gets its first character
// upper-cased. Empty segments (from repeated dashes) contribute nothing.
//
//	use-local-storage   -> useLocalStorage
//	use-is-first-render -> useIsFirstRender
func Identifier(directoryName string) string {
	segments := strings.Split(norm.NFC.String(directoryName), "-")

	var b strings.Builder
	b.Grow(len(directoryName))
	b.WriteString(segments[0])
	for _, seg := range segments[1:] {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(seg[size:])
	}
	return b.String()
}
