// Package detector inspects a sample of log lines and reports which logcat
// output format they were captured with.
package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ccollicutt/logcatparse/pkg/logcat"
	"github.com/ccollicutt/logcatparse/pkg/source"
)

// DefaultSampleSize is the number of non-blank lines sampled by default.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a sample of lines.
type DetectionResult struct {
	Matches      []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines int           // Number of non-blank lines sampled

	// Threadtime header classification of the sampled lines.
	HeaderLines       int // Lines that parse as threadtime headers
	MalformedLines    int // Lines that start like a header but fail to parse
	ContinuationLines int // Lines that are not headers at all

	Note string // Advice when the input is not in threadtime format
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *Format
	Confidence float64 // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int     // Number of lines that matched
	SampleLine string  // First line that matched
}

// Detector analyzes log samples to identify the logcat output format.
type Detector struct {
	formats    []*Format
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	src := source.NewFileSource(path)
	defer src.Close()
	return d.DetectFromSource(ctx, src)
}

// DetectFromSource samples up to the configured number of non-blank lines
// from src.
func (d *Detector) DetectFromSource(ctx context.Context, src logcat.LineSource) (*DetectionResult, error) {
	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sampling lines: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines. Blank lines are ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	stats := make(map[*Format]*FormatMatch)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		_, err := logcat.ParseHeader(line)
		switch {
		case err == nil:
			result.HeaderLines++
		case errors.Is(err, logcat.ErrNotAHeader):
			result.ContinuationLines++
		default:
			result.MalformedLines++
		}

		for _, format := range d.formats {
			if !format.Pattern.MatchString(line) {
				continue
			}
			m, ok := stats[format]
			if !ok {
				m = &FormatMatch{Format: format, SampleLine: line}
				stats[format] = m
			}
			m.MatchCount++
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	for _, m := range stats {
		m.Confidence = float64(m.MatchCount) / float64(result.SampledLines)
		result.Matches = append(result.Matches, *m)
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	slices.SortFunc(result.Matches, func(a, b FormatMatch) int {
		if a.Confidence != b.Confidence {
			if a.Confidence > b.Confidence {
				return -1
			}
			return 1
		}
		return len(b.Format.PatternStr) - len(a.Format.PatternStr)
	})

	if best := result.BestMatch(); best != nil && !best.Format.Supported {
		result.Note = fmt.Sprintf("Input looks like `logcat -v %s`. Only threadtime is supported; "+
			"re-capture with `adb logcat -v threadtime`.", best.Format.Name)
	}

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// IsThreadtime returns true if the best match is the threadtime format.
func (r *DetectionResult) IsThreadtime() bool {
	best := r.BestMatch()
	return best != nil && best.Format.Name == ThreadtimeFormat
}
