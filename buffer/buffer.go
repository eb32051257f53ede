// Package buffer provides the growable byte container shared by the request
// parser, the response assembler and the directory lister.
package buffer

import (
	"io"
	"strconv"
)

// Buffer owns a contiguous byte allocation. len(data) is the logical length
// and cap(data) the allocated capacity. Capacity only ever doubles; Reset
// zeroes the length and keeps the allocation for the next request.
type Buffer struct {
	data []byte
}

// New returns a buffer with the given initial capacity.
func New(capacity int) *Buffer {
	b := &Buffer{}
	b.Init(capacity)
	return b
}

// Init (re)allocates the buffer with the given capacity and zero length.
// A capacity below 1 is raised to 1 so that doubling always makes progress.
func (b *Buffer) Init(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	b.data = make([]byte, 0, capacity)
}

func (b *Buffer) Len() int { return len(b.data) }
func (b *Buffer) Cap() int { return cap(b.data) }

// Bytes returns the logical content. The slice aliases the buffer and is
// only valid until the next mutation.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) String() string { return string(b.data) }

// Reset drops the content without releasing the allocation.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// Truncate shortens the logical length to n. It panics if n is out of range.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.data) {
		panic("buffer: truncation out of range")
	}
	b.data = b.data[:n]
}

// Grow makes sure at least n more bytes fit without another allocation.
func (b *Buffer) Grow(n int) {
	b.ensure(len(b.data) + n)
}

func (b *Buffer) ensure(required int) {
	size := cap(b.data)
	if required <= size {
		return
	}
	if size < 1 {
		size = 1
	}
	for size < required {
		size <<= 1
	}

	// Out of memory aborts the runtime, there is no state worth saving.
	data := make([]byte, len(b.data), size)
	copy(data, b.data)
	b.data = data
}

func (b *Buffer) Append(p []byte) {
	b.ensure(len(b.data) + len(p))
	b.data = append(b.data, p...)
}

func (b *Buffer) AppendString(s string) {
	b.ensure(len(b.data) + len(s))
	b.data = append(b.data, s...)
}

func (b *Buffer) AppendByte(c byte) {
	b.ensure(len(b.data) + 1)
	b.data = append(b.data, c)
}

// AppendDecimal renders n in base 10 without leading zeros.
func (b *Buffer) AppendDecimal(n uint64) {
	var digits [20]byte
	b.Append(strconv.AppendUint(digits[:0], n, 10))
}

// EnsureTerminated guarantees a NUL byte directly after the logical content
// without counting it towards the length, even when the content itself ends
// in NUL.
func (b *Buffer) EnsureTerminated() {
	b.ensure(len(b.data) + 1)
	b.data[:len(b.data)+1][len(b.data)] = 0
}

// Terminated returns the content followed by its NUL terminator.
func (b *Buffer) Terminated() []byte {
	b.EnsureTerminated()
	return b.data[:len(b.data)+1]
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// WriteTo writes the content to w in a single call.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	if err == nil && n != len(b.data) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
