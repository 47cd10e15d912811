package upload

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Source is a local file handle selected for upload. Implementations
// declare name and size up front so validation happens before any bytes
// are read or sent.
type Source interface {
	// Name is the filename used for the multipart part, extension included.
	Name() string
	// Size is the content length in bytes.
	Size() int64
	// ContentType is the MIME type when known; empty means derive it from
	// the filename extension.
	ContentType() string
	// Open returns a fresh reader over the content.
	Open() (io.ReadCloser, error)
}

// NewFileSource stats the file at path and returns a Source over it.
func NewFileSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("upload source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("upload source: %s is a directory", path)
	}
	return &fileSource{path: path, size: info.Size()}, nil
}

type fileSource struct {
	path string
	size int64
}

func (s *fileSource) Name() string { return filepath.Base(s.path) }
func (s *fileSource) Size() int64  { return s.size }

func (s *fileSource) ContentType() string {
	return typeByExtension(s.path)
}

func (s *fileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("upload source: %w", err)
	}
	return f, nil
}

// knownTypes covers the formats the backend accepts; the host's MIME table
// may be missing video entries.
var knownTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

func typeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := knownTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// contentTypeFor resolves the MIME type for a part, falling back from the
// source's declared type to the filename extension, then to octet-stream.
func contentTypeFor(src Source) string {
	if ct := src.ContentType(); ct != "" {
		return ct
	}
	if ct := typeByExtension(src.Name()); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
