package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoobzio/stagez"
)

// ErrEmptyPath is the cause recorded when a storage path resolves to the
// base directory itself.
var ErrEmptyPath = errors.New("path resolves to the archive root")

// Document is the input of Store: a relative path and the content to write
// there.
type Document = stagez.Pair[string, io.ReadCloser]

// Store writes documents below a base directory. Every failure is reported
// as a stagez.KindIO error. The content stream is always closed.
type Store struct {
	base string
}

// NewStore creates the base directory if needed and returns a Store
// writing below it.
func NewStore(base string) (*Store, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &Store{base: base}, nil
}

// Process implements stagez.Stage. The file is created or truncated, the
// whole stream copied and synced before Process returns.
func (s *Store) Process(_ context.Context, doc Document) (stagez.Unit, error) {
	defer doc.Second.Close()

	target, err := s.Resolve(doc.First)
	if err != nil {
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}

	if _, err := io.Copy(f, doc.Second); err != nil {
		f.Close()
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}
	if err := f.Close(); err != nil {
		return stagez.Unit{}, stagez.NewIOError(StoreName, err)
	}
	return stagez.Unit{}, nil
}

// Resolve maps a slash separated relative path onto the base directory.
// Only normal components are kept; ".." drops the previous component but
// never climbs above the base; ".", empty and volume-like components are
// ignored.
func (s *Store) Resolve(rel string) (string, error) {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		switch {
		case part == "" || part == ".":
		case part == "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		case strings.HasSuffix(part, ":"):
		default:
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyPath
	}
	return filepath.Join(append([]string{s.base}, parts...)...), nil
}

// Base returns the directory documents are written under.
func (s *Store) Base() string {
	return s.base
}

// Name implements stagez.Stage.
func (*Store) Name() stagez.Name {
	return StoreName
}
