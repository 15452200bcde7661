// Package sink persists the output collection as a pretty-printed JSON document.
package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/company-scraper/internal/logging"
	"github.com/jonathan/company-scraper/internal/types"
)

// FileSystem is the storage the writer persists to.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OSFileSystem is the FileSystem backed by the os package.
type OSFileSystem struct{}

// Stat implements FileSystem.
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// MkdirAll implements FileSystem.
func (OSFileSystem) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

// WriteFile implements FileSystem.
func (OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Writer writes output collections to a FileSystem.
type Writer struct {
	fs     FileSystem
	logger *zap.Logger
}

// NewWriter creates a Writer. A nil fsys uses the OS filesystem.
func NewWriter(fsys FileSystem, logger *zap.Logger) *Writer {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Writer{fs: fsys, logger: logging.OrNop(logger)}
}

// Marshal serializes records as a two-space indented JSON array.
// A nil slice is written as an empty array.
func Marshal(records []types.OutputRecord) ([]byte, error) {
	if records == nil {
		records = []types.OutputRecord{}
	}
	return MarshalIndent(records)
}

// MarshalIndent encodes v with two-space indentation. Unlike json.MarshalIndent
// it leaves &, < and > unescaped so names read as written.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write serializes records and writes them to path, creating the containing
// directory if it does not exist.
func (w *Writer) Write(path string, records []types.OutputRecord) error {
	data, err := Marshal(records)
	if err != nil {
		return &WriteError{Path: path, Message: "failed to marshal records", Cause: err}
	}

	dir := filepath.Dir(path)
	if _, err := w.fs.Stat(dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &WriteError{Path: path, Message: "failed to stat output directory", Cause: err}
		}
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return &WriteError{Path: path, Message: "failed to create output directory", Cause: err}
		}
		w.logger.Info("Created output directory", zap.String("dir", dir))
	}

	if err := w.fs.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Message: "failed to write file", Cause: err}
	}
	return nil
}
