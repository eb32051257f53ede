package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Error constants for better error handling
var (
	ErrFileNotFound = fmt.Errorf("filesystem: file not found")
	ErrInvalidPath  = fmt.Errorf("filesystem: invalid path")
)

// Filesystem is the view of the document root the server works against.
// Paths are request paths rooted at "./" with dot segments already removed.
type Filesystem interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (fs.File, error)
	ReadDir(path string) ([]fs.DirEntry, error)

	// Root returns the directory request paths resolve against.
	Root() string
}

type localFileSystem struct {
	root string
}

// NewLocalFileSystem serves the directory root. An empty root means the
// working directory of the process.
func NewLocalFileSystem(root string) Filesystem {
	if root == "" {
		root = "."
	}
	if trimmed := strings.TrimRight(root, "/"); trimmed != "" {
		root = trimmed
	} else {
		root = "/"
	}
	return &localFileSystem{root: root}
}

func (filesystem *localFileSystem) Root() string {
	return filesystem.root
}

// resolve maps a "./"-rooted request path below the document root. A
// trailing slash is kept so the OS still rejects it on regular files.
func (filesystem *localFileSystem) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "./") || strings.IndexByte(path, 0) >= 0 {
		return "", ErrInvalidPath
	}
	if filesystem.root == "." {
		return path, nil
	}
	if filesystem.root == "/" {
		return path[1:], nil
	}
	return filesystem.root + path[1:], nil
}

// Stat implements Filesystem.
func (filesystem *localFileSystem) Stat(path string) (fs.FileInfo, error) {
	resolved, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return info, nil
}

// Open implements Filesystem. The returned file is an *os.File so that
// copying it to a TCP connection can use sendfile.
func (filesystem *localFileSystem) Open(path string) (fs.File, error) {
	resolved, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return file, nil
}

// ReadDir implements Filesystem. Entries come back in directory order.
func (filesystem *localFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	resolved, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	dir, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer dir.Close()

	return dir.ReadDir(-1)
}

// AbsoluteRoot returns the absolute path of the document root.
func AbsoluteRoot(filesystem Filesystem) (string, error) {
	return filepath.Abs(filesystem.Root())
}
