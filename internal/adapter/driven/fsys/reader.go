// Package fsys implements the FileReader port over the OS filesystem.
package fsys

import (
	"os"

	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FileReader = (*Reader)(nil)

// Reader reads files from the local filesystem.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile reads the named file.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
