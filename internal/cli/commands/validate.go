package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logcatparse/pkg/config"
	"github.com/ccollicutt/logcatparse/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logcatparse configuration file without parsing any logs.

Checks:
  - YAML or TOML syntax
  - Output format, color and error modes
  - Webhook URLs, triggers and timeouts
  - Input existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Inputs:    %d pattern(s)\n", len(cfg.Inputs))
	fmt.Fprintf(w, "  Separator: %q\n", cfg.Separator)
	fmt.Fprintf(w, "  Banners:   %t\n", cfg.Banners)
	fmt.Fprintf(w, "  Output:    %s (color %s, errors %s)\n", cfg.Output.Format, cfg.Output.Color, cfg.Output.Errors)
	fmt.Fprintf(w, "  Webhooks:  %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(w, "    %d. %s [%s, timeout %s]\n", i+1, name, wh.Trigger, wh.Timeout)
	}

	if len(cfg.Inputs) == 0 {
		fmt.Fprintf(w, "\nNo inputs configured; parse will read its arguments or standard input.\n")
		return nil
	}

	files, err := source.ExpandInputs(cfg.Inputs)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding inputs: %v\n", err)
		return nil
	}

	fmt.Fprintf(w, "\nInputs matched: %d\n", len(files))
	for _, f := range files {
		if f != source.StdinName {
			if _, err := os.Stat(f); err != nil {
				fmt.Fprintf(w, "  - %s (warning: %v)\n", f, err)
				continue
			}
		}
		fmt.Fprintf(w, "  - %s\n", f)
	}

	return nil
}
