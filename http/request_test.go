package http

import (
	"errors"
	"testing"

	"github.com/freekieb7/pebble/test"
)

func TestRequestParse(t *testing.T) {
	req := NewRequest()

	raw := []byte("GET /test HTTP/1.1\r\nAccept: text/css\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	if err := req.Parse(raw); err != nil {
		t.Fatal(err)
	}

	test.Equal(t, "GET", req.Method.String())
	test.Equal(t, "./test", req.Path.String())
	test.Equal(t, "HTTP/1.1", req.Version.String())
	test.Equal(t, MethodGet, req.MethodCode)
}

func TestRequestParseNewlineStyles(t *testing.T) {
	for _, raw := range []string{
		"GET /x HTTP/1.1\r\nHost: h\r\n\r\n",
		"GET /x HTTP/1.1\nHost: h\n\n",
	} {
		req := NewRequest()
		if err := req.Parse([]byte(raw)); err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		test.Equal(t, "GET", req.Method.String())
		test.Equal(t, "./x", req.Path.String())
		test.Equal(t, "HTTP/1.1", req.Version.String())
	}
}

func TestRequestParsePaths(t *testing.T) {
	testCases := []struct {
		line string
		path string
	}{
		{"GET / HTTP/1.1", "./"},
		{"GET /a/b/../c HTTP/1.1", "./a/c"},
		{"GET /../../etc/passwd HTTP/1.1", "./etc/passwd"},
		{"GET /%2e%2e%2fsecret HTTP/1.1", "./secret"},
		{"GET /hello%20world.txt HTTP/1.1", "./hello world.txt"},
		{"GET /index.html?x=1&y=2 HTTP/1.1", "./index.html"},
		{"GET /docs/#top HTTP/1.1", "./docs/"},
		{"HEAD /a/./b/. HTTP/1.1", "./a/b/"},
		{"get /lower HTTP/1.1", "./lower"},
	}

	req := NewRequest()
	for _, tc := range testCases {
		err := req.Parse([]byte(tc.line + "\r\nHost: x\r\n\r\n"))
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tc.line, err)
			continue
		}
		if req.Path.String() != tc.path {
			t.Errorf("Parse(%q) path = %q, want %q", tc.line, req.Path.String(), tc.path)
		}
	}
}

func TestRequestParseBareNewlines(t *testing.T) {
	req := NewRequest()

	err := req.Parse([]byte("\r\n\nHEAD /x HTTP/1.1\nhost: example.com\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	test.Equal(t, MethodHead, req.MethodCode)
	test.Equal(t, "./x", req.Path.String())
}

func TestRequestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "\r\n\r\n", ErrBadRequest},
		{"missing host", "GET / HTTP/1.1\r\nAccept: */*\r\n\r\n", ErrBadRequest},
		{"no headers", "GET / HTTP/1.1\r\n\r\n", ErrBadRequest},
		{"space before colon", "GET / HTTP/1.1\r\nHost : x\r\n\r\n", ErrBadRequest},
		{"empty header name", "GET / HTTP/1.1\r\n: x\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"relative path", "GET index.html HTTP/1.1\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"bad escape", "GET /%zz HTTP/1.1\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"short escape", "GET /a% HTTP/1.1\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"encoded nul", "GET /a%00b HTTP/1.1\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"missing version", "GET /\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"trailing garbage", "GET / HTTP/1.1 extra\r\nHost: x\r\n\r\n", ErrBadRequest},
		{"post", "POST / HTTP/1.1\r\nHost: x\r\n\r\n", ErrMethodNotImplemented},
		{"http 1.0", "GET / HTTP/1.0\r\nHost: x\r\n\r\n", ErrVersionNotSupported},
		{"bad request wins", "POST / HTTP/1.0\r\n\r\n", ErrBadRequest},
	}

	req := NewRequest()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := req.Parse([]byte(tc.raw))
			if !errors.Is(err, tc.want) {
				t.Errorf("Parse(%q) = %v, want %v", tc.raw, err, tc.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	req := NewRequest()

	test.Equal(t, StatusOK, StatusFor(nil))
	test.Equal(t, StatusBadRequest, StatusFor(req.Parse([]byte("GET / HTTP/1.1\r\n\r\n"))))
	test.Equal(t, StatusNotImplemented, StatusFor(req.Parse([]byte("PUT / HTTP/1.1\r\nHost: x\r\n\r\n"))))
	test.Equal(t, StatusHTTPVersionNotSupported, StatusFor(req.Parse([]byte("GET / HTTP/2\r\nHost: x\r\n\r\n"))))
	test.Equal(t, StatusNotFound, StatusFor(ErrNotFound))
}

func BenchmarkRequestParse(b *testing.B) {
	raw := []byte("GET /static/css/site.css?v=3 HTTP/1.1\r\nAccept: text/css\r\nHost: localhost\r\n\r\n")
	req := NewRequest()

	for b.Loop() {
		if err := req.Parse(raw); err != nil {
			b.Error(err)
		}
	}
}
