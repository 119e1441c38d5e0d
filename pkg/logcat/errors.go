package logcat

import (
	"errors"
	"fmt"
)

// Error kinds. A *ParseError unwraps to exactly one of these, so callers can
// test with errors.Is.
var (
	// ErrNotAHeader means the line does not start with an MM-DD date fragment.
	// The Assembler never emits it: such lines become continuations or orphans.
	ErrNotAHeader = errors.New("not a header")

	// ErrOrphanLine means a non-header line arrived with no open record.
	ErrOrphanLine = errors.New("orphan line")

	// ErrMalformedHeader means the line starts with a date fragment but a later
	// field does not parse.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrNumericOverflow means a pid or tid does not fit in an int.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrAssemblerClosed is returned by Feed after Close.
	ErrAssemblerClosed = errors.New("assembler closed")
)

// Header field names reported in ParseError.Field.
const (
	FieldDate        = "date"
	FieldMonth       = "month"
	FieldDay         = "day"
	FieldTime        = "time"
	FieldHour        = "hour"
	FieldMinute      = "minute"
	FieldSecond      = "second"
	FieldMillisecond = "millisecond"
	FieldPID         = "pid"
	FieldTID         = "tid"
	FieldPriority    = "priority"
	FieldTag         = "tag"
)

// ParseError describes a line that could not be turned into a record.
type ParseError struct {
	// Kind is one of the Err* sentinels above.
	Kind error

	// Field names the header field that failed. Empty for orphan lines.
	Field string

	// Line is the raw offending line.
	Line string

	// Offset is the byte position in Line where the failing field starts.
	Offset int

	// LineNum is the 1-based input line number, when known.
	LineNum int

	// Reason is a short human-readable detail.
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s at offset %d", msg, e.Field, e.Offset)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.LineNum > 0 {
		msg = fmt.Sprintf("line %d: %s", e.LineNum, msg)
	}
	return msg
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// KindName returns a stable identifier for the error kind, suitable for
// counters and machine-readable output.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrOrphanLine):
		return "orphan_line"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrNumericOverflow):
		return "numeric_overflow"
	case errors.Is(err, ErrNotAHeader):
		return "not_a_header"
	default:
		return "unknown"
	}
}
