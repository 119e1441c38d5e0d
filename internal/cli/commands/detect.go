package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/logcatparse/pkg/detector"
	"github.com/ccollicutt/logcatparse/pkg/source"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file|->",
		Short: "Detect which logcat output format a file uses",
		Long: `Sample a log file and report which "logcat -v" format it was captured with.

Only threadtime output can be parsed. For other formats the report says how to
re-capture the log.

Exit codes:
  0 - Input is threadtime
  1 - Input is some other format, or no format was recognized
  2 - Runtime error

Example:
  logcatparse detect bugreport-logcat.txt
  adb logcat -d | logcatparse detect -
  logcatparse detect --write-config logcatparse.yaml device.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ExitCode = 0

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	var (
		result *detector.DetectionResult
		err    error
	)
	if logFile == source.StdinName {
		result, err = d.DetectFromSource(ctx, source.NewReaderSource(logFile, cmd.InOrStdin()))
	} else {
		if _, statErr := os.Stat(logFile); os.IsNotExist(statErr) {
			return fmt.Errorf("log file not found: %s", logFile)
		}
		result, err = d.DetectFromFile(ctx, logFile)
	}
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	if !result.IsThreadtime() {
		ExitCode = 1
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile, opts)
	default:
		outputDetectText(out, result, logFile, opts)
		return nil
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) {
	fmt.Fprintln(w, "=== Logcat Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "  threadtime headers:  %d\n", result.HeaderLines)
	fmt.Fprintf(w, "  malformed headers:   %d\n", result.MalformedLines)
	fmt.Fprintf(w, "  other lines:         %d\n", result.ContinuationLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No logcat format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: capture logs with `adb logcat -v threadtime` (the default on most devices).")
		return
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(w)

	if result.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", result.Note)
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   example: %s\n", m.Format.Example)
		}
		fmt.Fprintln(w)
	}
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Supported  bool    `json:"supported"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File              string      `json:"file"`
	Threadtime        bool        `json:"threadtime"`
	Matches           []JSONMatch `json:"matches"`
	SampledLines      int         `json:"sampled_lines"`
	HeaderLines       int         `json:"header_lines"`
	MalformedLines    int         `json:"malformed_lines"`
	ContinuationLines int         `json:"continuation_lines"`
	Note              string      `json:"note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:              logFile,
		Threadtime:        result.IsThreadtime(),
		SampledLines:      result.SampledLines,
		HeaderLines:       result.HeaderLines,
		MalformedLines:    result.MalformedLines,
		ContinuationLines: result.ContinuationLines,
		Note:              result.Note,
		Matches:           make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Supported:  m.Format.Supported,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config file whose inputs point at logFile.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.IsThreadtime() {
		return fmt.Errorf("cannot generate config: %s is not threadtime output", logFile)
	}

	content := generateStarterConfig(logFile, result.BestMatch())

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(logFile string, match *detector.FormatMatch) string {
	absLogFile := logFile
	if logFile != source.StdinName {
		if abs, err := filepath.Abs(logFile); err == nil {
			absLogFile = abs
		}
	}

	return fmt.Sprintf(`# logcatparse configuration
# Generated by: logcatparse detect
# Detected format: %s (%.0f%% confidence)

inputs:
  - %q
  # Add more files, directories or globs:
  # - /data/bugreports/*/logcat.txt

# String that joins continuation lines onto a record's message.
separator: "\n"

# Report "--------- beginning of <buffer>" lines as buffer banners.
banners: true

output:
  format: text    # text | json
  color: auto     # auto | always | never
  errors: report  # report | skip
  quiet: false

# webhooks:
#   - name: ci
#     url: https://hooks.example.com/logcat
#     token: ${LOGCATPARSE_WEBHOOK_TOKEN}
#     trigger: on_errors  # on_errors | always | never
#     timeout: 10s
`, match.Format.Name, match.Confidence*100, absLogFile)
}
