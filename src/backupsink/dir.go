package backupsink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirSink stores backups as files in a directory.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("backupsink.NewDirSink: directory is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return &DirSink{Dir: dir}, nil
}

func (s *DirSink) path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

func (s *DirSink) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("DirSink.Exists: %w", err)
}

// Write stores data under name. The file appears only once it is complete.
func (s *DirSink) Write(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.Dir, ".partial-*")
	if err != nil {
		return fmt.Errorf("DirSink.Write: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("DirSink.Write: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("DirSink.Write: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("DirSink.Write: %w", err)
	}

	return nil
}

func (s *DirSink) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("DirSink.Open: %w", err)
	}

	return f, nil
}

func (s *DirSink) String() string {
	return s.Dir
}
