package domain

import (
	"strings"
	"unicode/utf8"
)

// SanitiseText strips characters that PostgreSQL-style text columns
// and embedding backends reject: NUL bytes, C0/C1 control characters
// outside whitespace, and unpaired UTF-16 surrogate code points.
// Tab, LF and CR are preserved. The function is idempotent and never
// fails; extracted PDF text must pass through it before a chunk is
// considered valid for storage.
func SanitiseText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x00:
			// NUL is rejected by the store
		case r >= 0x01 && r <= 0x08:
			// control characters below tab
		case r == 0x0B || r == 0x0C:
			// vertical tab, form feed
		case r >= 0x0E && r <= 0x1F:
			// remaining C0 controls
		case r == 0x7F:
			// DEL
		case r >= 0xD800 && r <= 0xDFFF:
			// surrogate code points are invalid outside UTF-16 pairs
		case r == utf8.RuneError:
			// invalid byte sequences decode to RuneError; dropping it
			// keeps the function idempotent
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
