package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// MaxVideoBytes is the upload ceiling for video files.
	MaxVideoBytes = 500 << 20
	// MinFileBytes is the sanity floor; anything smaller is treated as a
	// broken selection rather than real content.
	MinFileBytes = 1 << 10
)

// Limits describes what a validated file selection must satisfy.
type Limits struct {
	// Extensions are the accepted lowercase filename extensions, without
	// the leading dot. Empty means any extension.
	Extensions []string
	MaxBytes   int64
	MinBytes   int64
}

// VideoLimits matches the backend's accepted video formats and size bounds.
var VideoLimits = Limits{
	Extensions: []string{"mp4", "mov", "avi", "mkv", "webm", "flv", "wmv"},
	MaxBytes:   MaxVideoBytes,
	MinBytes:   MinFileBytes,
}

// ImageLimits applies to thumbnails, avatars and banners.
var ImageLimits = Limits{
	Extensions: []string{"jpg", "jpeg", "png", "webp"},
	MaxBytes:   10 << 20,
	MinBytes:   1,
}

// ValidationError is a client-side rejection produced before any request
// is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validate checks the selection against the limits. It inspects only the
// declared name and size; no content is read.
func Validate(src Source, limits Limits) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src.Name()), "."))
	if len(limits.Extensions) > 0 && ext != "" && !contains(limits.Extensions, ext) {
		return &ValidationError{Reason: fmt.Sprintf("unsupported format: .%s", ext)}
	}

	size := src.Size()
	if size <= 0 {
		return &ValidationError{Reason: "could not determine file size"}
	}
	if limits.MaxBytes > 0 && size > limits.MaxBytes {
		return &ValidationError{Reason: fmt.Sprintf("file too large (%s), max %s",
			FormatBytes(size), FormatBytes(limits.MaxBytes))}
	}
	if limits.MinBytes > 0 && size < limits.MinBytes {
		return &ValidationError{Reason: fmt.Sprintf("file too small (%s)", FormatBytes(size))}
	}
	return nil
}

// FormatBytes renders a byte count for human-readable rejection messages.
func FormatBytes(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.2f KB", float64(n)/(1<<10))
	case n < 1<<30:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/(1<<30))
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
