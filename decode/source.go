package decode

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gogpu/zoomimage/subsampling"
)

// FileSource is an image stored on disk.
type FileSource struct {
	path string
}

var _ subsampling.ImageSource = (*FileSource)(nil)

// NewFileSource returns a source for the file at path. The path is made
// absolute so that equal files share cache keys.
func NewFileSource(path string) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("decode: resolve %s: %w", path, err)
	}
	return &FileSource{path: abs}, nil
}

// Key returns a file URI.
func (s *FileSource) Key() string { return "file://" + s.path }

// Path returns the absolute file path.
func (s *FileSource) Path() string { return s.path }

// OpenReader opens the file.
func (s *FileSource) OpenReader() (subsampling.RegionReader, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("decode: open %s: %w", s.path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode: stat %s: %w", s.path, err)
	}
	return &fileReader{File: f, size: fi.Size()}, nil
}

type fileReader struct {
	*os.File
	size int64
}

func (r *fileReader) Size() int64 { return r.size }

// BytesSource is an image held in memory.
type BytesSource struct {
	key  string
	data []byte
}

var _ subsampling.ImageSource = (*BytesSource)(nil)

// NewBytesSource wraps data. An empty key is replaced by a random one, so
// anonymous buffers never share cached tiles.
func NewBytesSource(key string, data []byte) *BytesSource {
	if key == "" {
		key = "memory://" + uuid.NewString()
	}
	return &BytesSource{key: key, data: data}
}

func (s *BytesSource) Key() string { return s.key }

// OpenReader returns a reader over the buffer. Closing it is a no-op.
func (s *BytesSource) OpenReader() (subsampling.RegionReader, error) {
	return bytesReader{bytes.NewReader(s.data)}, nil
}

type bytesReader struct {
	*bytes.Reader
}

func (bytesReader) Close() error { return nil }
