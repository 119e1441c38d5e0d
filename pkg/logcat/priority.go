package logcat

import "fmt"

// Priority is the single-character log priority code of a logcat line.
//
// The known codes are listed as constants. Any other character is kept as-is
// and reported by IsKnown as false, so newer codes still parse.
type Priority rune

// Known priority codes, in order of severity.
const (
	PriorityVerbose Priority = 'V'
	PriorityDebug   Priority = 'D'
	PriorityInfo    Priority = 'I'
	PriorityWarn    Priority = 'W'
	PriorityError   Priority = 'E'
	PriorityFatal   Priority = 'F'
	PriorityAssert  Priority = 'A'
	PrioritySilent  Priority = 'S'
)

// IsKnown reports whether p is one of V, D, I, W, E, F, A or S.
func (p Priority) IsKnown() bool {
	return p.Severity() > 0
}

// Severity returns the numeric Android priority (2 for verbose up to 8 for
// silent). Assert shares the fatal level. Unknown priorities return 0.
func (p Priority) Severity() int {
	switch p {
	case PriorityVerbose:
		return 2
	case PriorityDebug:
		return 3
	case PriorityInfo:
		return 4
	case PriorityWarn:
		return 5
	case PriorityError:
		return 6
	case PriorityFatal, PriorityAssert:
		return 7
	case PrioritySilent:
		return 8
	default:
		return 0
	}
}

// AtLeast reports whether p is as severe as threshold. Unknown priorities are never
// at least anything.
func (p Priority) AtLeast(threshold Priority) bool {
	if !p.IsKnown() {
		return false
	}
	return p.Severity() >= threshold.Severity()
}

// Short returns the one-letter code.
func (p Priority) Short() string {
	return string(rune(p))
}

// String returns the priority name, or Unknown(X) for unrecognized codes.
func (p Priority) String() string {
	switch p {
	case PriorityVerbose:
		return "Verbose"
	case PriorityDebug:
		return "Debug"
	case PriorityInfo:
		return "Info"
	case PriorityWarn:
		return "Warn"
	case PriorityError:
		return "Error"
	case PriorityFatal:
		return "Fatal"
	case PriorityAssert:
		return "Assert"
	case PrioritySilent:
		return "Silent"
	default:
		return fmt.Sprintf("Unknown(%c)", rune(p))
	}
}
