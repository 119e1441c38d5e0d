// Package logcat parses Android logcat output in the threadtime format into
// structured records.
//
// A threadtime header line looks like:
//
//	12-31 22:59:41.271  1234  1250 I ActivityManager: Start proc 4321
//
// ParseHeader handles one physical line. An Assembler folds a sequence of
// physical lines into logical records, appending lines that carry no header
// to the message of the record opened by the preceding header.
package logcat

import "fmt"

// Timestamp is the month-to-millisecond time of a threadtime header. The
// format carries no year and no time zone.
type Timestamp struct {
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// String renders the timestamp as MM-DD HH:MM:SS.mmm.
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d-%02d %02d:%02d:%02d.%03d",
		t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millisecond)
}

// Validate returns the name of the first out-of-range component, or "" if
// every component is in range. Days are checked against 1-31 only.
func (t Timestamp) Validate() string {
	switch {
	case t.Month < 1 || t.Month > 12:
		return FieldMonth
	case t.Day < 1 || t.Day > 31:
		return FieldDay
	case t.Hour < 0 || t.Hour > 23:
		return FieldHour
	case t.Minute < 0 || t.Minute > 59:
		return FieldMinute
	case t.Second < 0 || t.Second > 59:
		return FieldSecond
	case t.Millisecond < 0 || t.Millisecond > 999:
		return FieldMillisecond
	}
	return ""
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after u within the same (unknown) year.
func (t Timestamp) Compare(u Timestamp) int {
	a := [...]int{t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millisecond}
	b := [...]int{u.Month, u.Day, u.Hour, u.Minute, u.Second, u.Millisecond}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Header holds the fields of one threadtime header line.
type Header struct {
	Timestamp Timestamp
	PID       int
	TID       int
	Priority  Priority
	Tag       string
	Message   string
}

// Record is one logical log entry: a header line plus any continuation lines.
type Record struct {
	Timestamp Timestamp
	PID       int
	TID       int
	Priority  Priority
	Tag       string

	// Message is the header's message followed by each continuation line,
	// joined by the assembler's separator.
	Message string

	// LineNum is the 1-based input line number of the header line.
	LineNum int

	// Lines is the number of physical lines folded into this record.
	Lines int
}

// String renders the record as canonical threadtime text. Continuation lines
// stay on their own lines, so feeding the output back through an Assembler
// yields an equal record.
func (r *Record) String() string {
	return fmt.Sprintf("%s %5d %5d %c %-8s: %s",
		r.Timestamp, r.PID, r.TID, rune(r.Priority), r.Tag, r.Message)
}

// BannerKind distinguishes the two buffer banners logcat prints.
type BannerKind string

const (
	// BannerBeginning marks "--------- beginning of <buffer>".
	BannerBeginning BannerKind = "beginning"

	// BannerSwitch marks "--------- switch to <buffer>".
	BannerSwitch BannerKind = "switch"
)

func (k BannerKind) phrase() string {
	if k == BannerSwitch {
		return "switch to"
	}
	return "beginning of"
}

// Result is one unit of Assembler output. Exactly one of Record, Err and
// Banner is set.
type Result struct {
	Record *Record

	// Err is always a *ParseError.
	Err error

	// Banner is the buffer name of a "--------- beginning of <buffer>" or
	// "--------- switch to <buffer>" line, and BannerKind says which of the
	// two it was. Only produced when the assembler is built with
	// WithBanners(true).
	Banner     string
	BannerKind BannerKind

	// LineNum is the 1-based input line number that produced an error or
	// banner. For records it equals Record.LineNum.
	LineNum int
}

// BannerText renders a banner result the way logcat prints it. It returns ""
// for results that are not banners.
func (r Result) BannerText() string {
	if r.Banner == "" {
		return ""
	}
	kind := r.BannerKind
	if kind == "" {
		kind = BannerBeginning
	}
	return bannerPrefix + kind.phrase() + " " + r.Banner
}

// IsRecord reports whether the result carries a record.
func (r Result) IsRecord() bool {
	return r.Record != nil
}
