package logcat

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseHeader parses one physical threadtime line:
//
//	MM-DD HH:MM:SS.mmm PID TID P TAG: MESSAGE
//
// Leading and trailing whitespace is ignored. Fields are separated by runs of
// whitespace. The tag ends at the first ": " (or a bare ':' at end of line),
// so a tag that itself contains ": " is split early.
//
// On failure the error is a *ParseError. Lines that do not start with an MM-DD
// date fragment unwrap to ErrNotAHeader; lines that do but fail later unwrap
// to ErrMalformedHeader or ErrNumericOverflow and name the failing field.
func ParseHeader(line string) (Header, error) {
	s := newScanner(line)
	if !s.atDateFragment() {
		return Header{}, s.fail(ErrNotAHeader, "", s.pos, "no MM-DD date fragment")
	}

	var h Header
	if err := s.date(&h.Timestamp); err != nil {
		return Header{}, err
	}
	if err := s.time(&h.Timestamp); err != nil {
		return Header{}, err
	}

	var err error
	if h.PID, err = s.number(FieldPID); err != nil {
		return Header{}, err
	}
	if h.TID, err = s.number(FieldTID); err != nil {
		return Header{}, err
	}
	if h.Priority, err = s.priority(); err != nil {
		return Header{}, err
	}
	if h.Tag, h.Message, err = s.tagAndMessage(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// IsHeaderLike reports whether line starts with an MM-DD date fragment, the
// test used to tell header lines from message continuations.
func IsHeaderLike(line string) bool {
	return newScanner(line).atDateFragment()
}

// scanner walks a line left to right. pos and end are byte offsets into the
// original, untrimmed line so that errors can report a real cursor position.
type scanner struct {
	line string
	pos  int
	end  int
}

func newScanner(line string) *scanner {
	start := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	end := len(strings.TrimRightFunc(line, unicode.IsSpace))
	if end < start {
		end = start
	}
	return &scanner{line: line, pos: start, end: end}
}

func (s *scanner) fail(kind error, field string, offset int, reason string) error {
	return &ParseError{
		Kind:   kind,
		Field:  field,
		Line:   s.line,
		Offset: offset,
		Reason: reason,
	}
}

func (s *scanner) malformed(field string, offset int, reason string) error {
	return s.fail(ErrMalformedHeader, field, offset, reason)
}

// atDateFragment reports whether the scanner sits on "DD-DD" followed by
// whitespace or the end of the line.
func (s *scanner) atDateFragment() bool {
	p := s.pos
	if !s.digitsAt(p, 2) || !s.byteAt(p+2, '-') || !s.digitsAt(p+3, 2) {
		return false
	}
	return p+5 == s.end || isSpace(s.line[p+5])
}

func (s *scanner) digitsAt(p, n int) bool {
	if p < 0 || p+n > s.end {
		return false
	}
	for i := p; i < p+n; i++ {
		if !isDigit(s.line[i]) {
			return false
		}
	}
	return true
}

func (s *scanner) byteAt(p int, b byte) bool {
	return p < s.end && s.line[p] == b
}

// separator consumes a run of whitespace and reports whether a further field
// follows it.
func (s *scanner) separator() bool {
	start := s.pos
	for s.pos < s.end && isSpace(s.line[s.pos]) {
		s.pos++
	}
	return s.pos > start && s.pos < s.end
}

// token consumes and returns the run of non-whitespace bytes at the cursor.
func (s *scanner) token() string {
	start := s.pos
	for s.pos < s.end && !isSpace(s.line[s.pos]) {
		s.pos++
	}
	return s.line[start:s.pos]
}

func (s *scanner) date(ts *Timestamp) error {
	p := s.pos
	ts.Month = atoiFixed(s.line[p : p+2])
	ts.Day = atoiFixed(s.line[p+3 : p+5])
	if ts.Month < 1 || ts.Month > 12 {
		return s.malformed(FieldMonth, p, "month out of range 01-12")
	}
	if ts.Day < 1 || ts.Day > 31 {
		return s.malformed(FieldDay, p+3, "day out of range 01-31")
	}
	s.pos = p + 5
	return nil
}

// timeLayout lists the fixed-width parts of HH:MM:SS.mmm: field name, start
// index, width and the separator expected right after the digits (0 for none).
var timeLayout = []struct {
	field string
	at    int
	width int
	sep   byte
}{
	{FieldHour, 0, 2, ':'},
	{FieldMinute, 3, 2, ':'},
	{FieldSecond, 6, 2, '.'},
	{FieldMillisecond, 9, 3, 0},
}

func (s *scanner) time(ts *Timestamp) error {
	if !s.separator() {
		return s.malformed(FieldTime, s.pos, "missing time")
	}
	start := s.pos
	tok := s.token()

	values := make([]int, len(timeLayout))
	for i, part := range timeLayout {
		stop := part.at + part.width
		if stop > len(tok) || !allDigits(tok[part.at:stop]) {
			return s.malformed(part.field, start+part.at, "expected "+strconv.Itoa(part.width)+" digits")
		}
		if part.sep != 0 && (stop >= len(tok) || tok[stop] != part.sep) {
			return s.malformed(part.field, start+stop, "expected '"+string(part.sep)+"'")
		}
		if part.sep == 0 && stop != len(tok) {
			return s.malformed(part.field, start+stop, "trailing characters after milliseconds")
		}
		values[i] = atoiFixed(tok[part.at:stop])
	}

	ts.Hour, ts.Minute, ts.Second, ts.Millisecond = values[0], values[1], values[2], values[3]
	if field := ts.Validate(); field != "" {
		at := start
		for _, part := range timeLayout {
			if part.field == field {
				at += part.at
			}
		}
		return s.malformed(field, at, field+" out of range")
	}
	return nil
}

func (s *scanner) number(field string) (int, error) {
	if !s.separator() {
		return 0, s.malformed(field, s.pos, "missing "+field)
	}
	start := s.pos
	tok := s.token()
	if !allDigits(tok) {
		return 0, s.malformed(field, start, "not a number: "+tok)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, s.fail(ErrNumericOverflow, field, start, tok+" exceeds integer range")
		}
		return 0, s.malformed(field, start, err.Error())
	}
	return n, nil
}

func (s *scanner) priority() (Priority, error) {
	if !s.separator() {
		return 0, s.malformed(FieldPriority, s.pos, "missing priority")
	}
	start := s.pos
	tok := s.token()
	r, size := utf8.DecodeRuneInString(tok)
	if size != len(tok) || r == utf8.RuneError {
		return 0, s.malformed(FieldPriority, start, "expected a single character, got "+strconv.Quote(tok))
	}
	return Priority(r), nil
}

func (s *scanner) tagAndMessage() (tag, message string, err error) {
	if !s.separator() {
		return "", "", s.malformed(FieldTag, s.pos, "missing tag")
	}
	start := s.pos
	rest := s.line[start:s.end]

	idx := strings.Index(rest, ": ")
	switch {
	case idx >= 0:
		message = rest[idx+2:]
	case strings.HasSuffix(rest, ":"):
		idx = len(rest) - 1
	default:
		return "", "", s.malformed(FieldTag, start, `missing ": " after tag`)
	}
	s.pos = s.end
	return strings.TrimSpace(rest[:idx]), message, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r', '\n':
		return true
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// atoiFixed converts a short, already validated digit run.
func atoiFixed(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
