package http

func hexToByte(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 255 // Invalid hex
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// equalFold compares a to s ignoring ASCII case only.
func equalFold(a []byte, s string) bool {
	if len(a) != len(s) {
		return false
	}
	for i := range a {
		if toLower(a[i]) != toLower(s[i]) {
			return false
		}
	}
	return true
}

// indexAny returns the index of the first byte of b contained in set, or -1.
func indexAny(b []byte, set string) int {
	for i, c := range b {
		for j := 0; j < len(set); j++ {
			if c == set[j] {
				return i
			}
		}
	}
	return -1
}

// newlineLen returns the length of the HTTP newline ("\n" or "\r\n") that b
// starts with, or 0 (RFC 7230, 3.5).
func newlineLen(b []byte) int {
	if len(b) < 1 {
		return 0
	}
	if b[0] == '\n' {
		return 1
	}
	if len(b) > 1 && b[0] == '\r' && b[1] == '\n' {
		return 2
	}
	return 0
}

// headerEndLen returns the length of the pair of newlines b starts with, or 0.
func headerEndLen(b []byte) int {
	i := newlineLen(b)
	if i == 0 {
		return 0
	}
	j := newlineLen(b[i:])
	if j == 0 {
		return 0
	}
	return i + j
}

func skipNewlines(b []byte) int {
	i := 0
	for n := newlineLen(b); n > 0; n = newlineLen(b[i:]) {
		i += n
	}
	return i
}

func skipSpaces(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}

// hasHeaderEnd reports whether b contains a header terminator starting at or
// after from.
func hasHeaderEnd(b []byte, from int) bool {
	for i := from; i < len(b); i++ {
		if headerEndLen(b[i:]) > 0 {
			return true
		}
	}
	return false
}
