// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package http

const (
	StatusOK uint16 = 200 // RFC 7231, 6.3.1

	StatusBadRequest uint16 = 400 // RFC 7231, 6.5.1
	StatusNotFound   uint16 = 404 // RFC 7231, 6.5.4

	StatusNotImplemented          uint16 = 501 // RFC 7231, 6.6.2
	StatusHTTPVersionNotSupported uint16 = 505 // RFC 7231, 6.6.6
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = map[uint16]string{
		StatusOK: "OK",

		StatusBadRequest: "Bad Request",
		StatusNotFound:   "Not Found",

		StatusNotImplemented:          "Not Implemented",
		StatusHTTPVersionNotSupported: "HTTP Version Not Supported",
	}

	// Fixed bodies of the error pages.
	statusPages = map[uint16]string{
		StatusBadRequest:              "<html><body>\n<h1>Invalid HTTP request!</h1>\n</body></html>\n",
		StatusNotFound:                "<html><body>\n<h1>File not found!</h1>\n</body></html>\n",
		StatusNotImplemented:          "<html><body>\n<h1>Method not supported!</h1>\n</body></html>\n",
		StatusHTTPVersionNotSupported: "<html><body>\n<h1>HTTP version must be 1.1!</h1>\n</body></html>\n",
	}
)

// StatusText returns the reason phrase for code.
func StatusText(code uint16) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return unknownStatusCode
}
