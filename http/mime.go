package http

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	// Text
	"html": "text/html",
	"htm":  "text/html",
	"js":   "application/javascript",
	"css":  "text/css",
	"xml":  "text/xml",
	"json": "application/json",
	"txt":  "text/plain",

	// Images
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",

	// Video
	"ogv":  "video/ogg",
	"mp4":  "video/mp4",
	"mpg":  "video/mpeg",
	"mpeg": "video/mpeg",
	"mov":  "video/quicktime",

	// Audio
	"ogg": "application/ogg",
	"oga": "audio/ogg",
	"mp3": "audio/mpeg",
	"wav": "audio/wav",
}

// ContentType guesses the media type of path from the extension of its last
// segment. Matching is exact and ASCII case-insensitive.
func ContentType(path []byte) string {
	dot := -1
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return defaultContentType
	}

	ext := path[dot+1:]
	if len(ext) == 0 || len(ext) > 4 {
		return defaultContentType
	}
	var lower [4]byte
	for i, c := range ext {
		lower[i] = toLower(c)
	}
	if contentType, ok := contentTypes[string(lower[:len(ext)])]; ok {
		return contentType
	}
	return defaultContentType
}
