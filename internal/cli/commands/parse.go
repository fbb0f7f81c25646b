package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ascendlog/pkg/config"
	"ascendlog/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <config-file>",
		Short: "Parse the journal and emit structured entries",
		Long: `Parse the configured progression journal and emit the recovered
entries, without running analytics.

Useful for inspecting what the extractor recovers from a messy journal
before relying on the derived analytics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format (json|text)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, entries, err := loadEntries(ctx, args[0])
	if err != nil {
		return err
	}

	switch opts.Output {
	case "json":
		data, err := parser.MarshalEntries(entries)
		if err != nil {
			return fmt.Errorf("encoding entries: %w", err)
		}
		_, _ = os.Stdout.Write(data)
		fmt.Println()
	case "text":
		fmt.Printf("Parsed %d entries from %s\n", len(entries), cfg.LogFile)
		for _, e := range entries {
			line := e.Date.Format("2006-01-02")
			if e.Time != nil {
				line += " " + *e.Time
			}
			if e.StageName != nil {
				line += " - " + *e.StageName
			}
			if e.StagePercent != nil {
				line += fmt.Sprintf(" (%.1f%%)", *e.StagePercent)
			}
			if e.IsBreakthrough {
				line += " [breakthrough]"
			}
			if e.IsPredicted {
				line += " [predicted]"
			}
			fmt.Println(line)
		}
	default:
		return fmt.Errorf("unknown output format %q (use json or text)", opts.Output)
	}

	return nil
}

// loadEntries loads the configuration and parses the journal it points at.
func loadEntries(ctx context.Context, configPath string) (*config.Config, []*parser.Entry, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading log file: %w", err)
	}

	p := parser.New(cfg.BaseYear)
	return cfg, p.Parse(string(data)), nil
}
