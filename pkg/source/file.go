package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource implements logcat.LineSource for a single log file. The file is
// opened on the first call to Next.
type FileSource struct {
	path   string
	file   *os.File
	reader *ReaderSource
}

// NewFileSource creates a source that reads the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next line of the file.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (string, error) {
	if s.reader == nil {
		if err := s.open(); err != nil {
			return "", err
		}
	}
	return s.reader.Next(ctx)
}

// Close releases the file handle.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.path, err)
	}
	s.file = f
	s.reader = NewReaderSource(s.path, f)
	return nil
}
