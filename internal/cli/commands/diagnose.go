package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logcatparse/pkg/config"
	"github.com/ccollicutt/logcatparse/pkg/detector"
	"github.com/ccollicutt/logcatparse/pkg/source"
)

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// maxFormatChecks bounds how many inputs are sampled by the format check.
const maxFormatChecks = 5

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration and input issues",
		Long: `Diagnose common configuration and input issues.

This command checks:
- Config file syntax and structure
- Input file existence and accessibility
- Whether each input is threadtime output
- Webhook configuration (and reachability with -v)

Example:
  logcatparse diagnose logcatparse.yaml
  logcatparse diagnose -v logcatparse.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			results := runDiagnose(ctx, args[0], opts)
			printDiagnostics(cmd.OutOrStdout(), results, opts)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, configPath string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	inputResults, files := checkInputs(cfg)
	results = append(results, inputResults...)
	results = append(results, checkInputFormats(ctx, files, opts)...)
	results = append(results, checkWebhooks(ctx, cfg, opts)...)

	return results
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'logcatparse detect <log-file> --write-config logcatparse.yaml' to generate a starter config",
		}
	case err != nil:
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
	case info.Size() == 0:
		result.Status = StatusWarning
		result.Message = "Config file is empty; defaults will be used"
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	}
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{"Check YAML syntax - ensure proper indentation (use spaces, not tabs)"}
		case strings.Contains(err.Error(), "toml"):
			result.Suggests = []string{"Check TOML syntax - strings must be quoted"}
		}
		return nil, result
	}

	result.Status = StatusOK
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Inputs: %d", len(cfg.Inputs)),
		fmt.Sprintf("Output: %s", cfg.Output.Format),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

// checkInputs reports on each configured input and returns the readable files.
func checkInputs(cfg *config.Config) ([]DiagnosticResult, []string) {
	if len(cfg.Inputs) == 0 {
		return []DiagnosticResult{{
			Check:   "Inputs",
			Status:  StatusOK,
			Message: "No inputs configured; parse reads its arguments or standard input",
		}}, nil
	}

	var results []DiagnosticResult
	var readable []string

	for _, input := range cfg.Inputs {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Input: %s", input),
		}

		if input == source.StdinName {
			result.Status = StatusOK
			result.Message = "Reads standard input"
			results = append(results, result)
			continue
		}

		files, err := source.ExpandInputs([]string{input})
		if err != nil {
			result.Status = StatusError
			result.Message = err.Error()
			results = append(results, result)
			continue
		}

		var missing, empty []string
		for _, f := range files {
			info, err := os.Stat(f)
			switch {
			case err != nil:
				missing = append(missing, f)
			case info.Size() == 0:
				empty = append(empty, f)
			default:
				readable = append(readable, f)
				result.Details = append(result.Details, fmt.Sprintf("%s (%d bytes)", f, info.Size()))
			}
		}

		switch {
		case len(missing) > 0 && len(missing) == len(files):
			result.Status = StatusError
			result.Message = "No files found"
			result.Suggests = []string{
				"Check the path or glob pattern",
				"Directories are expanded to the files they contain",
			}
		case len(empty) > 0:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d file(s), %d empty", len(files), len(empty))
			result.Details = append(result.Details, empty...)
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Matches %d file(s)", len(files))
		}
		results = append(results, result)
	}

	if len(readable) == 0 {
		results = append(results, DiagnosticResult{
			Check:    "Inputs Summary",
			Status:   StatusWarning,
			Message:  "No readable, non-empty input files found",
			Suggests: []string{"Pull a log with `adb logcat -d -v threadtime > logcat.txt`"},
		})
	}

	return results, readable
}

// checkInputFormats samples the first few readable inputs with the detector.
func checkInputFormats(ctx context.Context, files []string, opts *DiagnoseOptions) []DiagnosticResult {
	var results []DiagnosticResult
	d := detector.New(detector.WithSampleSize(20))

	for i, f := range files {
		if i == maxFormatChecks {
			break
		}
		result := DiagnosticResult{
			Check: fmt.Sprintf("Format: %s", f),
		}

		det, err := d.DetectFromFile(ctx, f)
		switch {
		case err != nil:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
		case det.IsThreadtime() && det.MalformedLines > 0:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("threadtime, but %d/%d sampled lines are malformed headers",
				det.MalformedLines, det.SampledLines)
		case det.IsThreadtime():
			result.Status = StatusOK
			result.Message = fmt.Sprintf("threadtime (%d/%d sampled lines are headers)", det.HeaderLines, det.SampledLines)
			if opts.Verbose {
				result.Details = []string{"Sample: " + truncate(det.BestMatch().SampleLine, 80)}
			}
		case det.HasMatch():
			result.Status = StatusError
			result.Message = fmt.Sprintf("Input is %s output, not threadtime", det.BestMatch().Format.Name)
			result.Suggests = []string{det.Note}
		default:
			result.Status = StatusError
			result.Message = "No logcat format recognized"
			result.Suggests = []string{"Use 'logcatparse detect " + f + "' for details"}
		}

		results = append(results, result)
	}

	return results
}

func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  StatusOK,
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		// Load already expanded ${VAR}, so an empty token here means the
		// variable was unset.
		if wh.Token == "" {
			result.Details = append(result.Details, "Token: none (unauthenticated or unset env var)")
		} else {
			result.Details = append(result.Details, "Token: configured")
		}
		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = StatusWarning
			result.Message = "Trigger is 'never'; this webhook is disabled"
		}
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			)
		}
		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(ctx, wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (it will still work when a summary is sent)",
			"Check authentication if using a token",
		}
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== logcatparse Diagnostics ===")
	fmt.Fprintln(w)

	counts := map[string]int{}
	icons := map[string]string{StatusOK: "PASS", StatusWarning: "WARN", StatusError: "FAIL"}

	for _, r := range results {
		counts[r.Status]++

		fmt.Fprintf(w, "[%s] %s\n", icons[r.Status], r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}
		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n",
		counts[StatusOK], counts[StatusWarning], counts[StatusError])

	switch {
	case counts[StatusError] > 0:
		fmt.Fprintln(w, "\nFix the errors above before parsing.")
	case counts[StatusWarning] > 0:
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
