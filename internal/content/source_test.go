package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceReadsCurrentContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte("print('one')"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src := NewFileSource(path)
	got, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(got) != "print('one')" {
		t.Fatalf("Read = %q, want print('one')", got)
	}

	if err := os.WriteFile(path, []byte("print('two')"), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	got, err = src.Read(context.Background())
	if err != nil {
		t.Fatalf("Read after rewrite returned error: %v", err)
	}
	if string(got) != "print('two')" {
		t.Fatalf("Read after rewrite = %q, want print('two')", got)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.lua"))

	_, err := src.Read(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Read error = %v, want fs.ErrNotExist", err)
	}
}

func TestFileSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileSource("unused").Read(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Read error = %v, want context.Canceled", err)
	}
}
