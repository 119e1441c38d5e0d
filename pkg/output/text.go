package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ccollicutt/logcatparse/pkg/logcat"
)

// TextFormatter writes records back in threadtime layout, continuation lines
// included, and a short summary at the end.
type TextFormatter struct {
	opts   FormatOptions
	styles map[logcat.Priority]lipgloss.Style
	errs   lipgloss.Style
	muted  lipgloss.Style
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &TextFormatter{
		opts: opts,
		styles: map[logcat.Priority]lipgloss.Style{
			logcat.PriorityVerbose: color("8"),
			logcat.PriorityDebug:   color("4"),
			logcat.PriorityInfo:    color("2"),
			logcat.PriorityWarn:    color("3"),
			logcat.PriorityError:   color("1").Bold(true),
			logcat.PriorityFatal:   color("5").Bold(true),
			logcat.PriorityAssert:  color("5").Bold(true),
		},
		errs:  color("1"),
		muted: color("8"),
	}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// WriteResult renders a single result.
func (f *TextFormatter) WriteResult(_ context.Context, w io.Writer, res logcat.Result, origin string) error {
	if f.opts.suppressed(res) {
		return nil
	}

	var err error
	switch {
	case res.Record != nil:
		_, err = fmt.Fprintln(w, f.formatRecord(res.Record))
	case res.Banner != "":
		_, err = fmt.Fprintln(w, f.render(f.muted, res.BannerText()))
	case res.Err != nil:
		_, err = fmt.Fprintln(w, f.render(f.errs, fmt.Sprintf("%s: %v", origin, res.Err)))
	}
	return err
}

// formatRecord matches logcat.Record.String, with the priority letter styled.
func (f *TextFormatter) formatRecord(rec *logcat.Record) string {
	prio := rec.Priority.Short()
	if style, ok := f.styles[rec.Priority]; ok {
		prio = f.render(style, prio)
	}
	return fmt.Sprintf("%s %5d %5d %s %-8s: %s",
		rec.Timestamp, rec.PID, rec.TID, prio, rec.Tag, rec.Message)
}

func (f *TextFormatter) render(style lipgloss.Style, s string) string {
	if !f.opts.Color {
		return s
	}
	return style.Render(s)
}

// Finish writes the run summary.
func (f *TextFormatter) Finish(_ context.Context, w io.Writer, s *Summary) error {
	if _, err := fmt.Fprintf(w, "logcatparse: %d records, %d errors, %d banners from %d lines in %d source(s)\n",
		s.Records, s.ErrorCount(), s.Banners, s.LinesRead, len(s.Sources)); err != nil {
		return err
	}

	if s.HasErrors() {
		kinds := s.ErrorKinds()
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", k, s.Errors[k]))
		}
		if _, err := fmt.Fprintf(w, "errors: %s\n", strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
