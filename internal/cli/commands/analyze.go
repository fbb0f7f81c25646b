package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ascendlog/pkg/analyzer"
	"ascendlog/pkg/config"
	"ascendlog/pkg/output"
	"ascendlog/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	OutFile string
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <config-file>",
		Short: "Parse the journal and compute progression analytics",
		Long: `Parse the configured progression journal and compute analytics
over the recovered entries.

The report includes:
  - Overall progress summary and journey percentage
  - Per-stage durations, rates, and completion
  - Breakthrough timeline and daily rate series
  - Efficiency and a completion prediction for the current stage

Exit codes:
  0 - Analysis completed
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.OutFile, "out", "", "Also write the report to a file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show series sizes and timing detail")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "always", "When to fire webhook (always|on_breakthrough|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, entries, err := loadEntries(ctx, configPath)
	if err != nil {
		return err
	}

	start := time.Now()
	analytics := analyzer.Compute(entries)
	report := output.NewReport(analytics, output.Metadata{
		LogFile:     cfg.LogFile,
		BaseYear:    cfg.BaseYear,
		Entries:     len(entries),
		GeneratedAt: time.Now(),
		Duration:    time.Since(start),
	})

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.OutFile != "" {
		f, err := os.Create(opts.OutFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := formatter.Format(ctx, report, f); err != nil {
			f.Close()
			return fmt.Errorf("writing output file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, report)

	return nil
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.LatestBreakthrough()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for this report.
func shouldFireWebhook(trigger config.WebhookTrigger, latestBreakthrough bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnBreakthrough:
		return latestBreakthrough
	default:
		return true
	}
}
