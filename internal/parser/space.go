package parser

// IsSpace reports whether c is ASCII whitespace:
// space, tab, newline, vertical tab, form feed or carriage return.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// SkipSpace returns s without its leading whitespace.
func SkipSpace(s string) string {
	return s[skipSpace(s, 0):]
}

// TrimRightSpace returns s without its trailing whitespace.
func TrimRightSpace(s string) string {
	n := len(s)
	for n > 0 && IsSpace(s[n-1]) {
		n--
	}
	return s[:n]
}

// skipSpace returns the index of the first non-space byte at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) && IsSpace(s[i]) {
		i++
	}
	return i
}

// skipNonSpace returns the index of the first space byte at or after i.
func skipNonSpace(s string, i int) int {
	for i < len(s) && !IsSpace(s[i]) {
		i++
	}
	return i
}
