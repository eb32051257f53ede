package http

import "testing"

func TestContentType(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"./index.html", "text/html"},
		{"./INDEX.HTM", "text/html"},
		{"./app.js", "application/javascript"},
		{"./style.css", "text/css"},
		{"./feed.xml", "text/xml"},
		{"./data.json", "application/json"},
		{"./notes.txt", "text/plain"},
		{"./photo.JPEG", "image/jpeg"},
		{"./photo.jpg", "image/jpeg"},
		{"./icon.png", "image/png"},
		{"./anim.gif", "image/gif"},
		{"./old.bmp", "image/bmp"},
		{"./logo.svg", "image/svg+xml"},
		{"./clip.ogv", "video/ogg"},
		{"./clip.mp4", "video/mp4"},
		{"./clip.mpg", "video/mpeg"},
		{"./clip.mpeg", "video/mpeg"},
		{"./clip.mov", "video/quicktime"},
		{"./sound.ogg", "application/ogg"},
		{"./sound.oga", "audio/ogg"},
		{"./song.mp3", "audio/mpeg"},
		{"./beep.wav", "audio/wav"},
		{"./archive.tar.gz", "application/octet-stream"},
		{"./Makefile", "application/octet-stream"},
		{"./trailing.", "application/octet-stream"},
		{"./page.xhtml", "application/octet-stream"},
		{"./v1.2/readme", "application/octet-stream"},
		{"./dir.html/", "application/octet-stream"},
	}

	for _, tc := range testCases {
		if got := ContentType([]byte(tc.path)); got != tc.expected {
			t.Errorf("ContentType(%q) = %q, want %q", tc.path, got, tc.expected)
		}
	}
}
