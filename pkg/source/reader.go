package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// ReaderSource implements logcat.LineSource over an io.Reader.
// Implementations are for sequential access only.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
}

// NewReaderSource creates a source that splits r into lines. name is used in
// error messages.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &ReaderSource{
		name:    name,
		scanner: scanner,
	}
}

// Next returns the next line's text. Trailing carriage returns are dropped.
// Returns io.EOF when the reader is exhausted.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}

	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", s.name, err)
	}
	return "", io.EOF
}
