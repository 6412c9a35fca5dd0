package report

import (
	"strings"

	"github.com/acarl005/stripansi"
)

// Escape makes arbitrary runner text safe to embed in a serialized report.
// ANSI color sequences are stripped and runes that XML 1.0 cannot carry are
// dropped. Entity escaping is left to the encoder of the target format.
func Escape(s string) string {
	s = stripansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
