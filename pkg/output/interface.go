package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/logcatparse/pkg/logcat"
)

// Formatter renders parse results as they are produced and a summary at the
// end of a run.
type Formatter interface {
	// WriteResult renders one record, parse error or banner. origin names the
	// input the result came from.
	WriteResult(ctx context.Context, w io.Writer, res logcat.Result, origin string) error

	// Finish renders the run summary.
	Finish(ctx context.Context, w io.Writer, summary *Summary) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Quiet suppresses records, errors and banners; only the summary is written.
	Quiet bool

	// SkipErrors suppresses parse errors. They are still counted in the summary.
	SkipErrors bool

	// Color enables ANSI priority coloring in text output.
	Color bool
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}

// suppressed reports whether res should not be written under opts.
func (o FormatOptions) suppressed(res logcat.Result) bool {
	if o.Quiet {
		return true
	}
	return res.Err != nil && o.SkipErrors
}
