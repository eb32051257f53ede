package http

import (
	"errors"
	"fmt"

	"github.com/freekieb7/pebble/buffer"
)

var (
	ErrBadRequest           = errors.New("http: bad request")
	ErrMethodNotImplemented = errors.New("http: method not implemented")
	ErrVersionNotSupported  = errors.New("http: version not supported")
)

type Method int8

const (
	MethodUnsupported Method = iota - 1
	_
	MethodGet
	MethodHead
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	}
	return "UNSUPPORTED"
}

// Request holds the tokens of one parsed request line. The buffers are
// reused across requests handled by the same worker.
type Request struct {
	Method  buffer.Buffer
	Path    buffer.Buffer // rooted at "./", decoded and normalized
	Version buffer.Buffer

	MethodCode Method
}

// NewRequest allocates the token buffers with their initial capacities.
func NewRequest() *Request {
	req := &Request{}
	req.Method.Init(16)
	req.Path.Init(1024)
	req.Version.Init(16)
	return req
}

func (req *Request) Reset() {
	req.Method.Reset()
	req.Path.Reset()
	req.Version.Reset()
	req.MethodCode = MethodUnsupported
}

// Parse validates the request held in raw, which must contain the complete
// header block. On failure the returned error wraps ErrBadRequest,
// ErrMethodNotImplemented or ErrVersionNotSupported.
func (req *Request) Parse(raw []byte) error {
	req.Reset()

	p := parser{rest: raw}

	// Leading empty lines are tolerated (RFC 7230, 3.5).
	if !p.advance(skipNewlines(p.rest)) {
		return badRequest("empty request")
	}

	// Method
	if !p.advance(skipSpaces(p.rest)) {
		return badRequest("missing method")
	}
	i := indexAny(p.rest, tokenEnd)
	if i < 0 {
		return badRequest("unterminated method")
	}
	req.Method.Append(p.rest[:i])
	p.rest = p.rest[i:]

	// Path
	if !p.advance(skipSpaces(p.rest)) {
		return badRequest("missing path")
	}
	i = indexAny(p.rest, pathEnd)
	if i < 0 {
		return badRequest("unterminated path")
	}
	if i == 0 || p.rest[0] != '/' {
		return badRequest("path is not absolute")
	}
	req.Path.AppendByte('.')
	req.Path.Append(p.rest[:i])
	p.rest = p.rest[i:]

	if err := PercentDecode(&req.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	RemoveDotSegments(&req.Path)

	// Query and fragment are ignored.
	i = indexAny(p.rest, tokenEnd)
	if i < 0 || !p.advance(i) {
		return badRequest("unterminated request target")
	}

	// Version
	if !p.advance(skipSpaces(p.rest)) {
		return badRequest("missing version")
	}
	i = indexAny(p.rest, tokenEnd)
	if i <= 0 {
		return badRequest("missing version")
	}
	req.Version.Append(p.rest[:i])
	p.rest = p.rest[i:]

	if !p.advance(skipSpaces(p.rest)) || newlineLen(p.rest) == 0 {
		return badRequest("malformed request line")
	}

	// A Host header is required (RFC 7230, 5.4).
	hostFound := false
	for headerEndLen(p.rest) == 0 {
		if !p.advance(skipNewlines(p.rest)) {
			return badRequest("truncated header block")
		}
		if !p.advance(skipSpaces(p.rest)) {
			return badRequest("truncated header block")
		}

		i = indexAny(p.rest, headerKeyEnd)
		if i <= 0 {
			return badRequest("malformed header name")
		}
		if equalFold(p.rest[:i], "Host") {
			hostFound = true
		}
		// Colon has to come immediately after the key (RFC 7230, 3.2.4).
		if !p.advance(i) || p.rest[0] != ':' {
			return badRequest("malformed header")
		}

		// The value itself is not needed, only a proper line ending.
		i = indexAny(p.rest, newlineSet)
		if i < 0 || !p.advance(i) || newlineLen(p.rest) == 0 {
			return badRequest("unterminated header")
		}

		if hostFound {
			break
		}
	}
	if !hostFound {
		return badRequest("missing host header")
	}

	req.MethodCode = methodCode(req.Method.Bytes())
	if req.MethodCode == MethodUnsupported {
		return fmt.Errorf("%w: %q", ErrMethodNotImplemented, req.Method.Bytes())
	}
	if !equalFold(req.Version.Bytes(), "HTTP/1.1") {
		return fmt.Errorf("%w: %q", ErrVersionNotSupported, req.Version.Bytes())
	}

	return nil
}

const (
	tokenEnd     = " \t\r\n"
	pathEnd      = "?#" + tokenEnd
	headerKeyEnd = ":" + tokenEnd
	newlineSet   = "\r\n"
)

type parser struct {
	rest []byte
}

// advance consumes n bytes. It fails when that would leave nothing to read,
// since every caller expects another token to follow.
func (p *parser) advance(n int) bool {
	if n >= len(p.rest) {
		return false
	}
	p.rest = p.rest[n:]
	return true
}

func badRequest(reason string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, reason)
}

func methodCode(method []byte) Method {
	switch {
	case equalFold(method, "GET"):
		return MethodGet
	case equalFold(method, "HEAD"):
		return MethodHead
	}
	return MethodUnsupported
}
