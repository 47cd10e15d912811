package upload

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type stubSource struct {
	name        string
	size        int64
	contentType string
	content     string
	opens       int
}

func (s *stubSource) Name() string        { return s.name }
func (s *stubSource) Size() int64         { return s.size }
func (s *stubSource) ContentType() string { return s.contentType }

func (s *stubSource) Open() (io.ReadCloser, error) {
	s.opens++
	return io.NopCloser(strings.NewReader(s.content)), nil
}

func TestValidateVideoSizeBounds(t *testing.T) {
	tests := []struct {
		name string
		size int64
		ok   bool
	}{
		{name: "zero bytes", size: 0, ok: false},
		{name: "below sanity floor", size: 512, ok: false},
		{name: "exactly 1 KB", size: 1 << 10, ok: true},
		{name: "typical video", size: 25 << 20, ok: true},
		{name: "exactly 500 MB", size: 500 << 20, ok: true},
		{name: "one byte over ceiling", size: 500<<20 + 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{name: "clip.mp4", size: tt.size}
			err := Validate(src, VideoLimits)
			if tt.ok && err != nil {
				t.Fatalf("expected accept, got %v", err)
			}
			if !tt.ok {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %T: %v", err, err)
				}
			}
			if src.opens != 0 {
				t.Fatal("validation must not read file content")
			}
		})
	}
}

func TestValidateRejectsUnsupportedExtension(t *testing.T) {
	src := &stubSource{name: "notes.txt", size: 5 << 20}
	err := Validate(src, VideoLimits)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), ".txt") {
		t.Fatalf("rejection should name the extension, got %q", verr.Error())
	}
}

func TestValidateAcceptsEveryListedVideoFormat(t *testing.T) {
	for _, ext := range VideoLimits.Extensions {
		src := &stubSource{name: "clip." + ext, size: 2 << 20}
		if err := Validate(src, VideoLimits); err != nil {
			t.Fatalf("extension %s should be accepted: %v", ext, err)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1 << 10, "1.00 KB"},
		{5 << 20, "5.00 MB"},
		{3 << 30, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Fatalf("FormatBytes(%d) = %q want %q", tt.in, got, tt.want)
		}
	}
}
