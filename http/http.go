package http

const (
	// TransferChunkSize is the size of a single socket read.
	TransferChunkSize = 32 * 1024

	// MaxRequestSize bounds the header block a client may send.
	MaxRequestSize = 4 * TransferChunkSize

	// Initial capacities of the per-worker buffers.
	DefaultRequestBufferSize  = 2048
	DefaultResponseBufferSize = 1024
	DefaultListingBufferSize  = 512
)

const (
	crlf = "\r\n"

	protocolHttp11 = "HTTP/1.1"

	headerServer        = "Server: "
	headerContentType   = "Content-Type: "
	headerContentLength = "Content-Length: "
	headerDate          = "Date: "
	headerCache         = "Cache-control: no-cache, no-store, must-revalidate\r\nExpires: 0\r\nPragma: no-cache\r\n"

	contentTypeHTML = "text/html"
)
