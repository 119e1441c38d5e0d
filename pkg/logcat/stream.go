package logcat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
)

// LineSource supplies physical lines, without terminators, one at a time.
// Next returns io.EOF when no more lines are available.
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// Stream pulls lines from a LineSource on demand and yields assembled results.
// It buffers at most the results produced by a single line.
type Stream struct {
	src     LineSource
	asm     *Assembler
	pending []Result
	done    bool
}

// NewStream creates a Stream over src. The options configure the underlying
// Assembler.
func NewStream(src LineSource, opts ...Option) *Stream {
	return &Stream{
		src: src,
		asm: NewAssembler(opts...),
	}
}

// Next returns the next result. It returns io.EOF once the source is exhausted
// and the last open record has been emitted. Errors from the source other
// than io.EOF are returned wrapped; parse failures are not errors here but
// Results with Err set.
func (s *Stream) Next(ctx context.Context) (Result, error) {
	for len(s.pending) == 0 {
		if s.done {
			return Result{}, io.EOF
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		line, err := s.src.Next(ctx)
		if errors.Is(err, io.EOF) {
			s.pending = s.asm.Close()
			s.done = true
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("reading line %d: %w", s.asm.LinesFed()+1, err)
		}

		if s.pending, err = s.asm.Feed(line); err != nil {
			return Result{}, err
		}
	}

	res := s.pending[0]
	s.pending = s.pending[1:]
	return res, nil
}

// LinesRead returns the number of lines pulled from the source so far.
func (s *Stream) LinesRead() int {
	return s.asm.LinesFed()
}

// Seq lazily assembles lines into results. Each iteration of the returned
// sequence uses a fresh Assembler, so it can be ranged over more than once if
// lines can.
func Seq(lines iter.Seq[string], opts ...Option) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		asm := NewAssembler(opts...)
		for line := range lines {
			out, _ := asm.Feed(line)
			for _, res := range out {
				if !yield(res) {
					return
				}
			}
		}
		for _, res := range asm.Close() {
			if !yield(res) {
				return
			}
		}
	}
}

// ParseLines assembles a finite slice of lines and returns every result.
func ParseLines(lines []string, opts ...Option) []Result {
	return slices.Collect(Seq(slices.Values(lines), opts...))
}
