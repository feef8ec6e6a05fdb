// Package security provides input sanitization for user-supplied names.
//
// File tools accept arbitrary user ids and filenames over the protocol.
// SanitizeName maps them onto a safe charset before they touch the
// filesystem, preventing path traversal (CWE-22) without rejecting input:
// a caller always gets a usable name back.
package security

import (
	"strings"
	"unicode"
)

// SanitizeName maps a user-supplied name onto a filesystem-safe form.
//
// Every rune that is not a Unicode letter, a Unicode digit, '.', '_' or '-'
// becomes '_'; leading dots are then stripped so the result can never name a
// dotfile or a relative path component ("..", ".hidden"). The mapping is
// deterministic and idempotent.
//
// An empty result (empty input, or input that was nothing but dots) is
// possible; callers decide how to handle it.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
