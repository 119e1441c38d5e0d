// Package cli provides the command-line interface for logcatparse.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logcatparse/internal/cli/commands"
	"github.com/ccollicutt/logcatparse/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], plugins.DefaultFinder())
}

func run(ctx context.Context, args []string, finder *plugins.Finder) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	commands.ExitCode = 0

	// An unknown first word may name a plugin.
	potential := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && !isBuiltinCommand(rootCmd, args[0]) {
		potential = args[0]
		if pluginPath, err := finder.Find(potential); err == nil {
			return plugins.Run(ctx, pluginPath, args[1:], plugins.Stdio{
				In:  os.Stdin,
				Out: os.Stdout,
				Err: os.Stderr,
			})
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if potential != "" {
			_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), plugins.NotFoundMessage(potential))
			return 2
		}
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "logcatparse",
		Short: "Parse Android logcat threadtime output into records",
		Long: `logcatparse reads Android logcat output captured with "logcat -v threadtime"
and reassembles it into records: one header line plus any continuation lines
such as stack traces.

Lines that cannot be parsed are reported with their line number, the field
that failed and the byte offset, instead of being dropped.

PLUGINS:
  An unknown subcommand <name> runs an external logcatparse-<name> binary,
  searched for next to the logcatparse binary, in ~/.logcatparse/plugins/,
  and in PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, logLevel)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// setupLogging installs a text slog handler on stderr at the requested level.
func setupLogging(cmd *cobra.Command, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
