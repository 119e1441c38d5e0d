package logcat

import (
	"errors"
	"strings"
)

// DefaultSeparator joins continuation lines onto a record's message.
const DefaultSeparator = "\n"

// bannerPrefix starts the buffer separator lines logcat prints, such as
// "--------- beginning of main" or "--------- switch to system".
const bannerPrefix = "--------- "

// Option configures an Assembler.
type Option func(*Assembler)

// WithSeparator sets the string used to join continuation lines.
func WithSeparator(sep string) Option {
	return func(a *Assembler) {
		a.separator = sep
	}
}

// WithBanners makes the assembler recognize logcat buffer banners. A banner
// closes any open record and is emitted as a Result with Banner set, instead
// of being folded into the previous message or reported as an orphan.
func WithBanners(enabled bool) Option {
	return func(a *Assembler) {
		a.banners = enabled
	}
}

type state int

const (
	stateIdle state = iota
	stateOpen
	stateDone
)

// Assembler folds physical lines into logical records.
//
// Output lags input by one record: a record is only emitted once the next
// header, a malformed header, a banner, or the end of input shows that no more
// continuation lines can follow. An Assembler holds the state of a single
// stream and is not safe for concurrent use.
type Assembler struct {
	separator string
	banners   bool

	state   state
	open    *Record
	message strings.Builder
	lineNum int
}

// NewAssembler creates an Assembler in the idle state.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Feed consumes one physical line, without its line terminator, and returns
// the results it made determinable: none, one, or two (a sealed record
// followed by an error or banner). It returns ErrAssemblerClosed after Close.
func (a *Assembler) Feed(line string) ([]Result, error) {
	if a.state == stateDone {
		return nil, ErrAssemblerClosed
	}
	a.lineNum++

	if a.banners {
		if kind, buffer, ok := parseBanner(line); ok {
			out := a.seal()
			return append(out, Result{Banner: buffer, BannerKind: kind, LineNum: a.lineNum}), nil
		}
	}

	h, err := ParseHeader(line)
	if err == nil {
		out := a.seal()
		a.start(h)
		return out, nil
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		return nil, err
	}
	perr.LineNum = a.lineNum

	if errors.Is(perr, ErrNotAHeader) {
		if a.state == stateOpen {
			a.message.WriteString(a.separator)
			a.message.WriteString(line)
			a.open.Lines++
			return nil, nil
		}
		perr.Kind = ErrOrphanLine
		perr.Field = ""
		perr.Offset = 0
		perr.Reason = "no open record to attach to"
		return []Result{{Err: perr, LineNum: a.lineNum}}, nil
	}

	// A header-like line that fails later is never treated as a continuation.
	out := a.seal()
	return append(out, Result{Err: perr, LineNum: a.lineNum}), nil
}

// Close signals the end of input. It returns the open record, if any, and
// moves the assembler to its terminal state.
func (a *Assembler) Close() []Result {
	if a.state == stateDone {
		return nil
	}
	out := a.seal()
	a.state = stateDone
	return out
}

// Pending reports whether a record is open and waiting for more lines.
func (a *Assembler) Pending() bool {
	return a.state == stateOpen
}

// LinesFed returns the number of lines consumed so far.
func (a *Assembler) LinesFed() int {
	return a.lineNum
}

func (a *Assembler) start(h Header) {
	a.open = &Record{
		Timestamp: h.Timestamp,
		PID:       h.PID,
		TID:       h.TID,
		Priority:  h.Priority,
		Tag:       h.Tag,
		LineNum:   a.lineNum,
		Lines:     1,
	}
	a.message.Reset()
	a.message.WriteString(h.Message)
	a.state = stateOpen
}

// seal returns the open record, if there is one, and goes back to idle.
func (a *Assembler) seal() []Result {
	if a.state != stateOpen {
		return nil
	}
	rec := a.open
	rec.Message = a.message.String()
	a.open = nil
	a.message.Reset()
	a.state = stateIdle
	return []Result{{Record: rec, LineNum: rec.LineNum}}
}

func parseBanner(line string) (BannerKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, bannerPrefix)
	if !ok {
		return "", "", false
	}
	for _, kind := range []BannerKind{BannerBeginning, BannerSwitch} {
		if buffer, ok := strings.CutPrefix(rest, kind.phrase()+" "); ok {
			if buffer = strings.TrimSpace(buffer); buffer != "" {
				return kind, buffer, true
			}
		}
	}
	return "", "", false
}
