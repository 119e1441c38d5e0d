package detector

import "regexp"

// Format describes one `logcat -v` output format.
type Format struct {
	Name       string         // Name as passed to `logcat -v`
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for display
	Example    string         // Example line
	Supported  bool           // True if the parser understands this format
}

// ThreadtimeFormat is the name of the only format the parser reads.
const ThreadtimeFormat = "threadtime"

// DefaultFormats returns the logcat formats to detect, most specific first.
func DefaultFormats() []*Format {
	formats := []*Format{
		{
			Name:       ThreadtimeFormat,
			PatternStr: `^\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\s+\d+\s+\d+\s+\S\s.*:`,
			Example:    "01-15 10:30:00.123  1234  1240 I ActivityManager: Start proc",
			Supported:  true,
		},
		{
			Name:       "year",
			PatternStr: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\s+\d+\s+\d+\s+\S\s.*:`,
			Example:    "2024-01-15 10:30:00.123  1234  1240 I ActivityManager: Start proc",
		},
		{
			Name:       "epoch",
			PatternStr: `^\s*\d{9,}\.\d{3}\s+\d+\s+\d+\s+\S\s.*:`,
			Example:    "1705314600.123  1234  1240 I ActivityManager: Start proc",
		},
		{
			Name:       "long",
			PatternStr: `^\[ \d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\s+\d+:\s*\d+ [VDIWEFAS]/.* \]$`,
			Example:    "[ 01-15 10:30:00.123  1234: 1240 I/ActivityManager ]",
		},
		{
			Name:       "time",
			PatternStr: `^\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} [VDIWEFAS]/[^(]*\(\s*\d+\): `,
			Example:    "01-15 10:30:00.123 I/ActivityManager( 1234): Start proc",
		},
		{
			Name:       "brief",
			PatternStr: `^[VDIWEFAS]/[^(]*\(\s*\d+\): `,
			Example:    "I/ActivityManager( 1234): Start proc",
		},
		{
			Name:       "process",
			PatternStr: `^[VDIWEFAS]\(\s*\d+\) `,
			Example:    "I( 1234) Start proc  (ActivityManager)",
		},
		{
			Name:       "tag",
			PatternStr: `^[VDIWEFAS]/[^:(]+: `,
			Example:    "I/ActivityManager: Start proc",
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
