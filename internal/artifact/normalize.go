package artifact

import "strings"

// Normalize turns a scenario or step name into a filename fragment: every
// character outside [A-Za-z0-9] becomes '-', runs of '-' collapse into one and
// leading or trailing '-' are trimmed. Capture and correlation must both use it.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	dash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) {
			b.WriteByte(c)
			dash = false
			continue
		}

		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// MaxFragmentLen caps each name fragment so a file name built from a scenario
// and a step stays under the 255 byte limit of common file systems.
const MaxFragmentLen = 80

// Fragment is Normalize cut to MaxFragmentLen bytes. File names and the keys
// used to find them again are both built from it.
func Fragment(s string) string {
	n := Normalize(s)
	if len(n) <= MaxFragmentLen {
		return n
	}

	return strings.TrimRight(n[:MaxFragmentLen], "-")
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
