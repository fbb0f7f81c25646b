package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ascendlog/pkg/config"
	"ascendlog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an ascendlog configuration file without parsing the journal.

Checks:
  - YAML syntax
  - Required fields
  - Webhook trigger and timeout values
  - Log file existence (warning only)`,
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

	fmt.Printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Log file:  %s\n", cfg.LogFile)
	if cfg.BaseYear != 0 {
		fmt.Printf("  Base year: %d\n", cfg.BaseYear)
	} else {
		fmt.Printf("  Base year: auto-detect (fallback %d)\n", parser.DefaultBaseYear)
	}
	fmt.Printf("  Server:    %s\n", cfg.Server.Addr)
	fmt.Printf("  Webhooks:  %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Printf("    %d. %s (trigger: %s, timeout: %s)\n", i+1, name, wh.Trigger, wh.Timeout)
	}

	// Check the log file exists (warning only)
	if _, err := os.Stat(cfg.LogFile); err != nil {
		fmt.Printf("\nWarning: log file not accessible: %v\n", err)
	}

	return nil
}
