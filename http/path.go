package http

import (
	"errors"

	"github.com/freekieb7/pebble/buffer"
)

var (
	ErrInvalidEscape = errors.New("http: invalid percent-encoding")
	ErrNullByte      = errors.New("http: percent-encoded NUL in path")
)

// PercentDecode decodes %XX escapes in place in a single left-to-right pass
// (RFC 3986, 2.1). A '%' must be followed by exactly two hex digits and may
// not decode to NUL.
func PercentDecode(b *buffer.Buffer) error {
	p := b.Bytes()
	r, w := 0, 0
	for r < len(p) {
		if p[r] != '%' {
			p[w] = p[r]
			r++
			w++
			continue
		}

		if r+2 >= len(p) {
			return ErrInvalidEscape
		}
		hi, lo := hexToByte(p[r+1]), hexToByte(p[r+2])
		if hi > 15 || lo > 15 {
			return ErrInvalidEscape
		}
		c := hi<<4 | lo
		if c == 0 {
			return ErrNullByte
		}
		p[w] = c
		r += 3
		w++
	}
	b.Truncate(w)
	return nil
}

// RemoveDotSegments collapses "." and ".." segments of a path rooted at
// "./" in place (RFC 3986, 5.2.4). A ".." never climbs above the root.
// Paths without the "./" anchor are left untouched.
func RemoveDotSegments(b *buffer.Buffer) {
	p := b.Bytes()
	if len(p) < 2 || p[0] != '.' || p[1] != '/' {
		return
	}

	path := p[2:]
	r, w := 0, 0
	segmentStart := true
	for r < len(path) {
		if !segmentStart || path[r] != '.' {
			segmentStart = path[r] == '/'
			path[w] = path[r]
			r++
			w++
			continue
		}

		rest := path[r:]
		switch {
		case len(rest) == 1:
			// trailing "."
			r++
		case rest[1] == '/':
			r += 2
		case rest[1] == '.' && (len(rest) == 2 || rest[2] == '/'):
			r += min(3, len(rest))
			w = popSegment(path, w)
		default:
			// ".name" or "..name" is an ordinary segment
			segmentStart = false
			path[w] = path[r]
			r++
			w++
		}
	}
	b.Truncate(w + 2)
}

// popSegment backs the write cursor up to just after the previous '/'.
func popSegment(path []byte, w int) int {
	if w == 0 {
		return 0
	}
	w--
	for w > 0 && path[w-1] != '/' {
		w--
	}
	return w
}
