package output

import (
	"context"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/ccollicutt/logcatparse/pkg/logcat"
)

// Line types in JSON output.
const (
	TypeRecord  = "record"
	TypeError   = "error"
	TypeBanner  = "banner"
	TypeSummary = "summary"
)

// JSONLine is one line of JSON output. Fields that do not apply to a line's
// Type are omitted. Record lines always carry pid, tid, tag and message, even
// when they are zero or empty.
type JSONLine struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`

	// Record fields.
	Timestamp string  `json:"timestamp,omitempty"`
	PID       *int    `json:"pid,omitempty"`
	TID       *int    `json:"tid,omitempty"`
	Priority  string  `json:"priority,omitempty"`
	Severity  int     `json:"severity,omitempty"`
	Tag       *string `json:"tag,omitempty"`
	Message   *string `json:"message,omitempty"`
	Lines     int     `json:"lines,omitempty"`

	// Error fields. Kind is also set on banners (beginning or switch).
	Kind   string `json:"kind,omitempty"`
	Field  string `json:"field,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Reason string `json:"reason,omitempty"`
	Text   string `json:"text,omitempty"`

	// Banner fields.
	Buffer string `json:"buffer,omitempty"`

	Summary *Summary `json:"summary,omitempty"`
}

// JSONFormatter writes one JSON object per line.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// WriteResult encodes a single result as a JSON line.
func (f *JSONFormatter) WriteResult(_ context.Context, w io.Writer, res logcat.Result, origin string) error {
	if f.opts.suppressed(res) {
		return nil
	}
	return json.NewEncoder(w).Encode(toJSONLine(res, origin))
}

// Finish encodes the summary as the final JSON line.
func (f *JSONFormatter) Finish(_ context.Context, w io.Writer, s *Summary) error {
	return json.NewEncoder(w).Encode(JSONLine{Type: TypeSummary, Summary: s})
}

func toJSONLine(res logcat.Result, origin string) JSONLine {
	out := JSONLine{Source: origin, Line: res.LineNum}

	switch {
	case res.Record != nil:
		rec := res.Record
		pid, tid, tag, msg := rec.PID, rec.TID, rec.Tag, rec.Message
		out.Type = TypeRecord
		out.Line = rec.LineNum
		out.Timestamp = rec.Timestamp.String()
		out.PID = &pid
		out.TID = &tid
		out.Priority = rec.Priority.Short()
		out.Severity = rec.Priority.Severity()
		out.Tag = &tag
		out.Message = &msg
		out.Lines = rec.Lines
	case res.Banner != "":
		out.Type = TypeBanner
		out.Buffer = res.Banner
		out.Kind = string(res.BannerKind)
	default:
		out.Type = TypeError
		out.Kind, out.Field, out.Reason, out.Text, out.Offset = errorFields(res.Err)
	}
	return out
}
