// pkg/squash/input.go
package squash

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Input is one logical unit of data to compress, identified by a stable
// id. Inputs are immutable once constructed; the orchestrator only
// borrows them for the duration of one compression call.
type Input interface {
	// ID returns the stable item identifier
	ID() string

	// Size returns the payload size in bytes
	Size() (int64, error)

	// Open returns a fresh reader over the payload. Each call starts at
	// the beginning; the caller closes it.
	Open() (io.ReadCloser, error)
}

// RelPather is implemented by inputs that know their position relative
// to a source root. Directory targets use it to mirror source structure.
type RelPather interface {
	RelPath() string
}

// BufferInput is an in-memory item
type BufferInput struct {
	id   string
	data []byte
}

// NewBufferInput creates an input over an in-memory payload. The buffer
// is not copied; the caller must not mutate it afterwards.
func NewBufferInput(id string, data []byte) *BufferInput {
	return &BufferInput{id: id, data: data}
}

func (b *BufferInput) ID() string { return b.id }

func (b *BufferInput) Size() (int64, error) { return int64(len(b.data)), nil }

func (b *BufferInput) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// FileInput is a file-backed item, read as a stream
type FileInput struct {
	id      string
	path    string
	relPath string
}

// NewFileInput creates an input for the file at path. The id and the
// relative path both default to the file's base name.
func NewFileInput(path string) *FileInput {
	base := filepath.Base(path)
	return &FileInput{id: base, path: path, relPath: base}
}

// NewFileInputRel creates a file input whose relative path (and id)
// reflect the file's position under a source root.
func NewFileInputRel(path, relPath string) *FileInput {
	return &FileInput{id: relPath, path: path, relPath: relPath}
}

func (f *FileInput) ID() string { return f.id }

// Path returns the absolute or caller-supplied path on disk
func (f *FileInput) Path() string { return f.path }

// RelPath returns the path relative to the source root
func (f *FileInput) RelPath() string { return f.relPath }

func (f *FileInput) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.path, err)
	}
	return info.Size(), nil
}

func (f *FileInput) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
