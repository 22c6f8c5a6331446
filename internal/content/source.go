package content

import (
	"context"
	"fmt"
	"os"
)

// Source yields the payload released to validated clients.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads the whole file on every call so edits on disk are picked
// up without a restart.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}
