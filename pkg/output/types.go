// Package output provides formatting for parse results and run summaries.
package output

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/logcatparse/pkg/logcat"
)

// Summary provides aggregate statistics for a run.
type Summary struct {
	// RunID identifies the run in webhook payloads and JSON output.
	RunID string `json:"run_id"`

	// Sources lists the inputs that were parsed, in order.
	Sources []string `json:"sources"`

	// LinesRead is the number of physical lines read across all sources.
	LinesRead int `json:"lines_read"`

	// Records is the number of assembled records.
	Records int `json:"records"`

	// Banners is the number of buffer banners seen.
	Banners int `json:"banners"`

	// Errors counts parse errors by kind (orphan_line, malformed_header, ...).
	Errors map[string]int `json:"errors"`

	// Priorities counts records by priority name.
	Priorities map[string]int `json:"priorities"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// ErrorCount returns the total number of parse errors.
func (s *Summary) ErrorCount() int {
	n := 0
	for _, c := range s.Errors {
		n += c
	}
	return n
}

// HasErrors returns true if any parse errors were recorded.
func (s *Summary) HasErrors() bool {
	return s.ErrorCount() > 0
}

// ErrorKinds returns the recorded error kinds in sorted order.
func (s *Summary) ErrorKinds() []string {
	return slices.Sorted(maps.Keys(s.Errors))
}

// Tally accumulates a Summary from results as they stream past.
type Tally struct {
	summary Summary
}

// NewTally starts a tally for a run beginning at start.
func NewTally(start time.Time) *Tally {
	return &Tally{summary: Summary{
		RunID:      uuid.NewString(),
		Sources:    []string{},
		Errors:     make(map[string]int),
		Priorities: make(map[string]int),
		StartedAt:  start,
	}}
}

// AddSource records that an input was parsed.
func (t *Tally) AddSource(name string, linesRead int) {
	t.summary.Sources = append(t.summary.Sources, name)
	t.summary.LinesRead += linesRead
}

// Add counts a single result.
func (t *Tally) Add(res logcat.Result) {
	switch {
	case res.Record != nil:
		t.summary.Records++
		t.summary.Priorities[res.Record.Priority.String()]++
	case res.Banner != "":
		t.summary.Banners++
	case res.Err != nil:
		t.summary.Errors[logcat.KindName(res.Err)]++
	}
}

// Summary returns a copy of the accumulated summary, with the duration
// measured up to end.
func (t *Tally) Summary(end time.Time) *Summary {
	s := t.summary
	s.Sources = slices.Clone(t.summary.Sources)
	s.Errors = maps.Clone(t.summary.Errors)
	s.Priorities = maps.Clone(t.summary.Priorities)
	s.Duration = end.Sub(s.StartedAt)
	return &s
}

// errorFields extracts the structured parts of a parse error.
func errorFields(err error) (kind, field, reason, line string, offset int) {
	var perr *logcat.ParseError
	if errors.As(err, &perr) {
		return logcat.KindName(err), perr.Field, perr.Reason, perr.Line, perr.Offset
	}
	return logcat.KindName(err), "", err.Error(), "", 0
}
