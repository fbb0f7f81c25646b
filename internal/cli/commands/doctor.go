package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ascendlog/pkg/config"
	"ascendlog/pkg/parser"
)

// DoctorOptions holds options for the doctor command
type DoctorOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDoctorCommand creates the doctor command
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor <config-file>",
		Short: "Diagnose common configuration and journal issues",
		Long: `Diagnose common configuration and journal issues.

This command checks your setup for common problems:
- Config file syntax and structure
- Log file existence and accessibility
- Whether the journal actually yields entries when parsed
- Webhook configuration validity

Example:
  ascendlog doctor config.yaml
  ascendlog doctor -v config.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDoctor(ctx context.Context, configPath string, opts *DoctorOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 3. Check the log file
	logResult := checkLogFile(cfg)
	results = append(results, logResult)

	// 4. Check parse yield
	if logResult.Status != "error" {
		results = append(results, checkParseYield(cfg, opts))
	}

	// 5. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"A minimal config needs only: log_file: <path>",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{"A minimal config needs only: log_file: <path>"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config failed to load: %v", err)
		result.Suggests = []string{"Check YAML indentation and required fields"}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config parsed and validated"
	return cfg, result
}

func checkLogFile(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(cfg.LogFile)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", cfg.LogFile)
		result.Suggests = []string{
			"Check log_file in the config points at your journal",
			"Use 'ascendlog append' to start a new journal",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Log file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", cfg.LogFile, info.Size())
	return result
}

func checkParseYield(cfg *config.Config, opts *DoctorOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Parse Yield",
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to read log file: %v", err)
		return result
	}

	text := string(data)
	p := parser.New(cfg.BaseYear)
	entries := p.Parse(text)

	if len(entries) == 0 {
		result.Status = "warning"
		result.Message = "Journal yields no entries"
		result.Suggests = []string{
			"Entries must start with a month name and day, e.g. \"September 15, 8:53 AM - Celestial Early (12.5%)\"",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Recovered %d entries", len(entries))

	if opts.Verbose {
		baseYear := parser.BaseYear(text, cfg.BaseYear)
		result.Details = append(result.Details, fmt.Sprintf("base year: %d", baseYear))

		staged := 0
		breakthroughs := 0
		for _, e := range entries {
			if e.StageName != nil {
				staged++
			}
			if e.IsBreakthrough {
				breakthroughs++
			}
		}
		result.Details = append(result.Details,
			fmt.Sprintf("entries with stage: %d/%d", staged, len(entries)),
			fmt.Sprintf("breakthroughs: %d", breakthroughs))
	}

	return result
}

func checkWebhooks(cfg *config.Config, opts *DoctorOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
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
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		u, err := url.Parse(wh.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			result.Status = "error"
			result.Message = fmt.Sprintf("Invalid webhook URL: %s", wh.URL)
			results = append(results, result)
			continue
		}

		if u.Scheme != "https" && !strings.HasPrefix(u.Host, "localhost") && !strings.HasPrefix(u.Host, "127.0.0.1") {
			result.Status = "warning"
			result.Message = fmt.Sprintf("Webhook uses plain HTTP: %s", wh.URL)
			result.Suggests = []string{"Use HTTPS for non-local endpoints"}
			results = append(results, result)
			continue
		}

		result.Status = "ok"
		result.Message = fmt.Sprintf("URL valid (trigger: %s, timeout: %s)", wh.Trigger, wh.Timeout)
		results = append(results, result)
	}

	return results
}

func printDiagnostics(results []DiagnosticResult, opts *DoctorOptions) {
	fmt.Println("=== Ascendlog Configuration Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Println("\nConfiguration is usable but has warnings.")
	} else {
		fmt.Println("\nConfiguration looks good!")
	}
}
