package http

import (
	"time"

	"github.com/freekieb7/pebble/buffer"
)

var (
	dayNames   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// AppendDate renders t as an IMF-fixdate, e.g. "Sun, 06 Nov 1994 08:49:37 GMT"
// (RFC 7231, 7.1.1.1).
func AppendDate(b *buffer.Buffer, t time.Time) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	b.Grow(29)
	b.AppendString(dayNames[t.Weekday()])
	b.AppendString(", ")
	appendTwoDigits(b, day)
	b.AppendByte(' ')
	b.AppendString(monthNames[month-1])
	b.AppendByte(' ')
	b.AppendDecimal(uint64(year))
	b.AppendByte(' ')
	appendTwoDigits(b, hour)
	b.AppendByte(':')
	appendTwoDigits(b, minute)
	b.AppendByte(':')
	appendTwoDigits(b, second)
	b.AppendString(" GMT")
}

func appendTwoDigits(b *buffer.Buffer, n int) {
	if n < 10 {
		b.AppendByte('0')
	}
	b.AppendDecimal(uint64(n))
}
