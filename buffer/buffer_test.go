package buffer_test

import (
	"bytes"
	"testing"

	"github.com/freekieb7/pebble/buffer"
	"github.com/freekieb7/pebble/test"
)

func TestBufferAppend(t *testing.T) {
	b := buffer.New(4)
	b.AppendString("hello")
	b.AppendByte(' ')
	b.Append([]byte("world"))

	test.Equal(t, "hello world", b.String())
	test.Equal(t, 11, b.Len())
	test.Equal(t, 16, b.Cap())
}

func TestBufferGrowthIsGeometric(t *testing.T) {
	const initial = 8
	const n = 100000

	b := buffer.New(initial)
	reallocs := 0
	capacity := b.Cap()
	for i := 0; i < n; i++ {
		b.AppendByte(byte(i))
		if b.Cap() != capacity {
			reallocs++
			capacity = b.Cap()
		}
	}

	// ceil(log2(n / initial))
	maxReallocs := 0
	for c := initial; c < n; c <<= 1 {
		maxReallocs++
	}
	test.True(t, reallocs <= maxReallocs, "too many reallocations")

	ratio := b.Cap() / initial
	test.Equal(t, 0, b.Cap()%initial)
	test.Equal(t, 0, ratio&(ratio-1))
	test.True(t, b.Len() <= b.Cap(), "length exceeds capacity")
}

func TestBufferResetKeepsCapacity(t *testing.T) {
	b := buffer.New(2)
	b.AppendString("abcdefgh")
	capacity := b.Cap()

	b.Reset()
	test.Equal(t, 0, b.Len())
	test.Equal(t, capacity, b.Cap())
}

func TestBufferZeroValue(t *testing.T) {
	var b buffer.Buffer
	b.AppendString("abc")
	test.Equal(t, "abc", b.String())
	test.Equal(t, 4, b.Cap())
}

func TestBufferAppendDecimal(t *testing.T) {
	testCases := []struct {
		n        uint64
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{10, "10"},
		{32768, "32768"},
		{18446744073709551615, "18446744073709551615"},
	}

	for _, tc := range testCases {
		b := buffer.New(1)
		b.AppendDecimal(tc.n)
		test.Equal(t, tc.expected, b.String())
	}
}

func TestBufferEnsureTerminated(t *testing.T) {
	b := buffer.New(4)
	b.AppendString("./ab")
	test.Equal(t, 4, b.Cap())

	b.EnsureTerminated()
	test.Equal(t, 4, b.Len())
	test.Equal(t, 8, b.Cap())

	terminated := b.Terminated()
	test.True(t, bytes.Equal(terminated, []byte("./ab\x00")), "missing terminator")
	test.Equal(t, "./ab", b.String())

	// Content ending in NUL still gets its own terminator.
	b.Reset()
	b.Append([]byte{'a', 0})
	terminated = b.Terminated()
	test.True(t, bytes.Equal(terminated, []byte{'a', 0, 0}), "missing terminator after NUL content")
	test.Equal(t, 2, b.Len())
}

func TestBufferTruncate(t *testing.T) {
	b := buffer.New(8)
	b.AppendString("./dir/index.html")
	b.Truncate(6)
	test.Equal(t, "./dir/", b.String())

	defer func() {
		test.True(t, recover() != nil, "expected panic")
	}()
	b.Truncate(100)
}

func TestBufferWriteTo(t *testing.T) {
	b := buffer.New(8)
	b.AppendString("HTTP/1.1 200 OK\r\n")

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	test.NoError(t, err)
	test.Equal(t, int64(b.Len()), n)
	test.Equal(t, "HTTP/1.1 200 OK\r\n", out.String())
}

func BenchmarkBufferAppendByte(b *testing.B) {
	buf := buffer.New(16)
	for i := 0; i < b.N; i++ {
		buf.Reset()
		for j := 0; j < 1024; j++ {
			buf.AppendByte('x')
		}
	}
}
