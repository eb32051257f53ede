package http

import (
	"errors"
	"time"

	"github.com/freekieb7/pebble/buffer"
)

var ErrNotFound = errors.New("http: file not found")

// ResponseHeader describes the header block of a response. Every response
// carries the same cache-disabling header set.
type ResponseHeader struct {
	Server        string
	Status        uint16
	ContentType   string
	ContentLength int64
	Date          time.Time
}

// AppendTo renders the status line and headers, including the blank line
// that ends the header block.
func (h *ResponseHeader) AppendTo(b *buffer.Buffer) {
	b.AppendString(protocolHttp11)
	b.AppendByte(' ')
	b.AppendDecimal(uint64(h.Status))
	b.AppendByte(' ')
	b.AppendString(StatusText(h.Status))
	b.AppendString(crlf)

	b.AppendString(headerServer)
	b.AppendString(h.Server)
	b.AppendString(crlf)
	b.AppendString(headerCache)

	b.AppendString(headerContentType)
	b.AppendString(h.ContentType)
	b.AppendString(crlf)

	b.AppendString(headerContentLength)
	b.AppendDecimal(uint64(max(h.ContentLength, 0)))
	b.AppendString(crlf)

	b.AppendString(headerDate)
	AppendDate(b, h.Date)
	b.AppendString(crlf)

	b.AppendString(crlf)
}

// AppendError replaces the content of b with a complete error response:
// headers followed by the fixed HTML page for status.
func AppendError(b *buffer.Buffer, server string, status uint16, now time.Time) {
	body := statusPages[status]

	b.Reset()
	header := ResponseHeader{
		Server:        server,
		Status:        status,
		ContentType:   contentTypeHTML,
		ContentLength: int64(len(body)),
		Date:          now,
	}
	header.AppendTo(b)
	b.AppendString(body)
}

// StatusFor maps a request handling error to the status code sent back.
func StatusFor(err error) uint16 {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrMethodNotImplemented):
		return StatusNotImplemented
	case errors.Is(err, ErrVersionNotSupported):
		return StatusHTTPVersionNotSupported
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	}
	return StatusBadRequest
}
