package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logcatparse/pkg/config"
	"github.com/ccollicutt/logcatparse/pkg/logcat"
	"github.com/ccollicutt/logcatparse/pkg/output"
	"github.com/ccollicutt/logcatparse/pkg/source"
	"github.com/ccollicutt/logcatparse/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output    string
	Color     string
	Errors    string
	Separator string
	NoBanners bool
	Quiet     bool
	Strict    bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|dir|glob|-]...",
		Short: "Parse logcat threadtime output into records",
		Long: `Parse logcat threadtime output into records.

Each input is parsed on its own, so a record never continues across files.
With no arguments the config file's inputs are used, and with neither,
standard input.

Exit codes:
  0 - Parsed (parse errors are reported but do not fail the run)
  1 - Parse errors found and --strict was given
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "Color text output by priority (auto|always|never)")
	cmd.Flags().StringVar(&opts.Errors, "errors", "report", "Parse error handling (report|skip)")
	cmd.Flags().StringVar(&opts.Separator, "separator", config.DefaultSeparator, "String that joins continuation lines")
	cmd.Flags().BoolVar(&opts.NoBanners, "no-banners", false, "Treat '--------- beginning of' lines as ordinary text")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 if any parse errors were found")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_errors", "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ExitCode = 0

	cfg, err := config.LoadOrDefault(ctx, configPath(cmd))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyParseFlags(cmd, cfg, opts)
	cfg.Webhooks = collectWebhooks(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Inputs
	}
	if len(inputs) == 0 {
		inputs = []string{source.StdinName}
	}
	files, err := source.ExpandInputs(inputs)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	stdout := cmd.OutOrStdout()
	formatter, err := output.New(string(cfg.Output.Format), output.FormatOptions{
		Quiet:      cfg.Output.Quiet,
		SkipErrors: cfg.Output.Errors == config.ErrorsSkip,
		Color:      output.ColorEnabled(string(cfg.Output.Color), asFile(stdout)),
	})
	if err != nil {
		return err
	}

	asmOpts := []logcat.Option{
		logcat.WithSeparator(cfg.Separator),
		logcat.WithBanners(cfg.Banners),
	}

	tally := output.NewTally(time.Now())
	for _, file := range files {
		if err := parseInput(ctx, cmd, file, formatter, tally, asmOpts); err != nil {
			return err
		}
	}

	summary := tally.Summary(time.Now())

	// Text summaries go to stderr so stdout stays valid logcat.
	summaryOut := cmd.ErrOrStderr()
	if formatter.Name() == "json" {
		summaryOut = stdout
	}
	if err := formatter.Finish(ctx, summaryOut, summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	sendWebhooks(ctx, cmd.ErrOrStderr(), cfg.Webhooks, summary)

	if opts.Strict && summary.HasErrors() {
		ExitCode = 1
	}

	return nil
}

// parseInput streams one input through its own Assembler.
func parseInput(ctx context.Context, cmd *cobra.Command, name string, formatter output.Formatter,
	tally *output.Tally, asmOpts []logcat.Option) error {
	var src logcat.LineSource
	if name == source.StdinName {
		src = source.NewReaderSource(name, cmd.InOrStdin())
	} else {
		fs := source.NewFileSource(name)
		defer fs.Close()
		src = fs
	}

	slog.Debug("parsing input", "source", name)

	stream := logcat.NewStream(src, asmOpts...)
	for {
		res, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		tally.Add(res)
		if err := formatter.WriteResult(ctx, cmd.OutOrStdout(), res, name); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	tally.AddSource(name, stream.LinesRead())
	slog.Debug("finished input", "source", name, "lines", stream.LinesRead())
	return nil
}

// applyParseFlags overrides config values with flags the user set explicitly.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config, opts *ParseOptions) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = config.OutputFormat(opts.Output)
	}
	if flags.Changed("color") {
		cfg.Output.Color = config.ColorMode(opts.Color)
	}
	if flags.Changed("errors") {
		cfg.Output.Errors = config.ErrorMode(opts.Errors)
	}
	if flags.Changed("separator") {
		cfg.Separator = opts.Separator
	}
	if flags.Changed("no-banners") {
		cfg.Banners = !opts.NoBanners
	}
	if flags.Changed("quiet") {
		cfg.Output.Quiet = opts.Quiet
	}
}

// collectWebhooks gathers webhooks from the config file and the command line.
func collectWebhooks(cfg *config.Config, opts *ParseOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnErrors
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.Duration{Duration: config.DefaultWebhookTimeout},
		})
	}

	return webhooks
}

// sendWebhooks posts the summary to every webhook whose trigger matches.
// Failures are reported but never fail the run. It returns the number of
// webhooks that were attempted.
func sendWebhooks(ctx context.Context, errOut io.Writer, webhooks []config.WebhookConfig, summary *output.Summary) int {
	if len(webhooks) == 0 {
		return 0
	}

	client := webhook.NewClient(Version)
	attempted := 0

	for _, wh := range webhooks {
		if !webhook.ShouldFire(string(wh.Trigger), summary.HasErrors()) {
			slog.Debug("webhook skipped", "url", wh.URL, "trigger", wh.Trigger)
			continue
		}
		attempted++

		resp := client.Send(ctx, summary, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout.Duration,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			slog.Info("webhook sent", "name", name, "status", resp.StatusCode, "duration", resp.Duration)
			_, _ = fmt.Fprintf(errOut, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration.Round(time.Millisecond))
		} else {
			slog.Warn("webhook failed", "name", name, "error", resp.Error)
			_, _ = fmt.Fprintf(errOut, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}

	return attempted
}

// configPath returns the value of the persistent --config flag, if present.
func configPath(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// asFile returns w as an *os.File when it is one, for terminal detection.
func asFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
