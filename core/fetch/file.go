package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"condi-loader/core/storage"
)

// FileTransport loads file:// URLs, and relative URLs as paths under a root
// directory. Paths never escape the root.
type FileTransport struct {
	root string
}

// NewFileTransport creates a FileTransport rooted at dir.
func NewFileTransport(dir string) *FileTransport {
	return &FileTransport{root: dir}
}

// Load opens the file and drains it.
func (t *FileTransport) Load(ctx context.Context, req Request) error {
	path, err := t.path(req.Resolved)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.Copy(io.Discard, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func (t *FileTransport) path(u string) (string, error) {
	rel, ok := strings.CutPrefix(u, "file://")
	if !ok {
		if IsAbsURL(u) {
			return "", &NoTransportError{URL: u}
		}
		rel = storage.ObjectKey(u)
	}

	clean := filepath.Clean("/" + filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	return filepath.Join(t.root, clean), nil
}
