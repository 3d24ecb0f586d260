package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource replays a recorded capture. Path "-" reads stdin; on unix the
// returned stream can be closed to interrupt a blocked read.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	if s.Path == "-" {
		return "file:stdin"
	}
	return "file:" + s.Path
}

func (s *FileSource) Finite() bool {
	return true
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "-" {
		return openStdin()
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return f, nil
}
