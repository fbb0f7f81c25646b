package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ascendlog/pkg/config"
	"ascendlog/pkg/parser"
)

// AppendOptions holds command-line options for the append command.
type AppendOptions struct {
	Stage         string
	Percent       string
	Date          string
	Time          string
	Grade         string
	TimeRemaining string
	Notes         []string
	Prediction    string
}

// NewAppendCommand creates the append command.
func NewAppendCommand() *cobra.Command {
	opts := &AppendOptions{}

	cmd := &cobra.Command{
		Use:   "append <config-file>",
		Short: "Append a new journal block",
		Long: `Build a journal block from flags and append it to the configured
log file.

Date and time default to now, formatted the way the journal records
them ("September 10", "2:05 PM"). The appended block is immediately
re-parseable; the command reports the new entry count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Stage, "stage", "", "Stage name, e.g. \"Celestial Middle\" (required)")
	cmd.Flags().StringVar(&opts.Percent, "percent", "", "Overall stage percent, e.g. \"12.5\" (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Entry date, e.g. \"September 10\" (default: today)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "Entry time, e.g. \"8:05 AM\" (default: now)")
	cmd.Flags().StringVar(&opts.Grade, "grade", "", "Grade reading, e.g. \"G3 at 40%\"")
	cmd.Flags().StringVar(&opts.TimeRemaining, "time-remaining", "", "Time to next milestone, e.g. \"5.25Yrs 1Hrs 3Min to G4\"")
	cmd.Flags().StringArrayVar(&opts.Notes, "note", nil, "Free-form note line (can be repeated)")
	cmd.Flags().StringVar(&opts.Prediction, "prediction", "", "Prediction line, marks the entry as predicted")

	_ = cmd.MarkFlagRequired("stage")
	_ = cmd.MarkFlagRequired("percent")

	return cmd
}

func runAppend(cmd *cobra.Command, args []string, opts *AppendOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if strings.TrimSpace(opts.Stage) == "" {
		return fmt.Errorf("--stage must not be blank")
	}
	if strings.TrimSpace(opts.Percent) == "" {
		return fmt.Errorf("--percent must not be blank")
	}

	now := time.Now()
	entryDate := opts.Date
	if entryDate == "" {
		entryDate = now.Format("January 2")
	}
	entryTime := opts.Time
	if entryTime == "" {
		entryTime = now.Format("3:04 PM")
	}

	extra := []string{opts.Grade, opts.TimeRemaining}
	extra = append(extra, opts.Notes...)
	if opts.Prediction != "" {
		extra = append(extra, opts.Prediction+" (predicted)")
	}

	block := parser.BuildBlock(entryDate, entryTime, opts.Stage, opts.Percent, extra...)

	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if _, err := f.WriteString("\n" + block + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("appending entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("re-reading log file: %w", err)
	}
	entries := parser.New(cfg.BaseYear).Parse(string(data))

	fmt.Printf("Appended entry to %s (%d entries total)\n", cfg.LogFile, len(entries))
	fmt.Println(block)

	return nil
}
