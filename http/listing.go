package http

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/freekieb7/pebble/buffer"
	"github.com/freekieb7/pebble/filesystem"
)

// Lister renders HTML directory listings. Directory and file names are
// collected as NUL-separated runs in two scratch buffers, sorted byte-wise
// and rendered directories first. A Lister belongs to a single worker.
type Lister struct {
	page      buffer.Buffer
	dirnames  buffer.Buffer
	filenames buffer.Buffer

	dirs  [][]byte
	files [][]byte
}

func NewLister() *Lister {
	l := &Lister{}
	l.page.Init(DefaultListingBufferSize)
	l.dirnames.Init(DefaultListingBufferSize)
	l.filenames.Init(DefaultListingBufferSize)
	return l
}

// Render lists the directory at path, a normalized request path ending in
// '/'. Entries other than directories and regular files are skipped.
func (l *Lister) Render(fsys filesystem.Filesystem, path []byte) error {
	entries, err := fsys.ReadDir(string(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	l.page.Reset()
	l.dirnames.Reset()
	l.filenames.Reset()

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		switch {
		case entry.IsDir():
			l.dirnames.AppendString(name)
			l.dirnames.AppendByte(0)
		case entry.Type().IsRegular():
			l.filenames.AppendString(name)
			l.filenames.AppendByte(0)
		}
	}

	l.dirs = splitNames(l.dirs[:0], l.dirnames.Bytes())
	l.files = splitNames(l.files[:0], l.filenames.Bytes())
	slices.SortStableFunc(l.dirs, bytes.Compare)
	slices.SortStableFunc(l.files, bytes.Compare)

	// Links are shown relative to the document root, without the '.'.
	base := path[1:]

	l.page.AppendString("<html><body><h1>Directory listing for: ")
	appendEscaped(&l.page, base)
	l.page.AppendString("</h1><ul>\n")

	for _, name := range l.dirs {
		l.appendEntry(base, name, "/")
	}
	for _, name := range l.files {
		l.appendEntry(base, name, "")
	}

	l.page.AppendString("</ul></body></html>\n")
	return nil
}

// Page returns the rendered listing. It is valid until the next Render.
func (l *Lister) Page() []byte {
	return l.page.Bytes()
}

func (l *Lister) appendEntry(base, name []byte, suffix string) {
	l.page.AppendString(`<li><a href="`)
	appendPathEscaped(&l.page, base)
	appendPathEscaped(&l.page, name)
	l.page.AppendString(suffix)
	l.page.AppendString(`">`)
	appendEscaped(&l.page, name)
	l.page.AppendString(suffix)
	l.page.AppendString("</a></li>\n")
}

// splitNames appends the NUL-terminated runs of names to dst.
func splitNames(dst [][]byte, names []byte) [][]byte {
	for len(names) > 0 {
		i := bytes.IndexByte(names, 0)
		if i < 0 {
			return append(dst, names)
		}
		dst = append(dst, names[:i])
		names = names[i+1:]
	}
	return dst
}

const upperHex = "0123456789ABCDEF"

// appendPathEscaped percent-encodes s for use in a link target. Only
// unreserved characters and '/' are kept (RFC 3986, 2.3), so the result is
// also safe inside a quoted HTML attribute.
func appendPathEscaped(b *buffer.Buffer, s []byte) {
	for _, c := range s {
		if shouldEscapePath(c) {
			b.AppendByte('%')
			b.AppendByte(upperHex[c>>4])
			b.AppendByte(upperHex[c&15])
			continue
		}
		b.AppendByte(c)
	}
}

func shouldEscapePath(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '.', '_', '~', '/':
		return false
	}
	return true
}

func appendEscaped(b *buffer.Buffer, s []byte) {
	for _, c := range s {
		switch c {
		case '&':
			b.AppendString("&amp;")
		case '<':
			b.AppendString("&lt;")
		case '>':
			b.AppendString("&gt;")
		case '"':
			b.AppendString("&#34;")
		case '\'':
			b.AppendString("&#39;")
		default:
			b.AppendByte(c)
		}
	}
}
