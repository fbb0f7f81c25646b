package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ascendlog/pkg/config"
)

const testJournal = `2025

September 1, 8:00 AM - Celestial Early (10%)
G2 at 40%

September 5, 9:30 PM - Celestial Early (20%)
Breakthrough to G3
G3 at 5%
`

// writeFixtures creates a config file pointing at a journal file and
// returns both paths.
func writeFixtures(t *testing.T) (configPath, logPath string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath = filepath.Join(tmpDir, "config.yaml")
	logPath = filepath.Join(tmpDir, "prog.txt")

	if err := os.WriteFile(logPath, []byte(testJournal), 0644); err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}

	cfg := "log_file: " + logPath + "\nbase_year: 2025\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	return configPath, logPath
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	if cmd.Use != "parse <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("output") == nil {
		t.Error("Missing flag: output")
	}
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	if cmd.Use != "analyze <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check flags exist
	flags := []string{"output", "out", "verbose", "quiet", "webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewAppendCommand(t *testing.T) {
	cmd := NewAppendCommand()

	if cmd.Use != "append <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"stage", "percent", "date", "time", "grade", "time-remaining", "note", "prediction"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	if cmd.Use != "serve <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("addr") == nil {
		t.Error("Missing flag: addr")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	if cmd.Use != "doctor <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
}

func TestLoadEntries(t *testing.T) {
	configPath, logPath := writeFixtures(t)

	cfg, entries, err := loadEntries(context.Background(), configPath)
	if err != nil {
		t.Fatalf("loadEntries failed: %v", err)
	}
	if cfg.LogFile != logPath {
		t.Errorf("LogFile = %s, want %s", cfg.LogFile, logPath)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestLoadEntries_MissingConfig(t *testing.T) {
	_, _, err := loadEntries(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoadEntries_MissingLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	cfg := "log_file: " + filepath.Join(tmpDir, "missing.txt") + "\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	_, _, err := loadEntries(context.Background(), configPath)
	if err == nil {
		t.Error("expected error for missing log file")
	}
}

func TestRunValidate_Success(t *testing.T) {
	configPath, _ := writeFixtures(t)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// No log_file
	if err := os.WriteFile(configPath, []byte("base_year: 2025\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error for config without log_file")
	}
}

func TestRunAppend(t *testing.T) {
	configPath, logPath := writeFixtures(t)

	cmd := NewAppendCommand()
	cmd.SetArgs([]string{
		configPath,
		"--stage", "Celestial Middle",
		"--percent", "5",
		"--date", "September 10",
		"--time", "2:05 PM",
		"--grade", "G1 at 10%",
	})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}
	if !strings.Contains(string(data), "September 10, 2:05 PM - Celestial Middle (5%)") {
		t.Errorf("appended block missing:\n%s", data)
	}

	_, entries, err := loadEntries(context.Background(), configPath)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries after append, want 3", len(entries))
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{
			{Name: "from-config", URL: "https://example.com/hook", Trigger: config.WebhookTriggerAlways},
		},
	}

	opts := &AnalyzeOptions{
		WebhookURL:     "https://example.com/cli-hook",
		WebhookTrigger: "on_breakthrough",
	}

	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
	if webhooks[0].Name != "from-config" {
		t.Errorf("first webhook = %s", webhooks[0].Name)
	}
	if webhooks[1].Name != "cli" {
		t.Errorf("second webhook = %s", webhooks[1].Name)
	}
	if webhooks[1].Trigger != config.WebhookTriggerOnBreakthrough {
		t.Errorf("cli trigger = %s", webhooks[1].Trigger)
	}
}

func TestShouldFireWebhook(t *testing.T) {
	tests := []struct {
		name               string
		trigger            config.WebhookTrigger
		latestBreakthrough bool
		want               bool
	}{
		{"always fires without breakthrough", config.WebhookTriggerAlways, false, true},
		{"always fires with breakthrough", config.WebhookTriggerAlways, true, true},
		{"never fires", config.WebhookTriggerNever, true, false},
		{"on_breakthrough without", config.WebhookTriggerOnBreakthrough, false, false},
		{"on_breakthrough with", config.WebhookTriggerOnBreakthrough, true, true},
		{"unknown defaults to always", config.WebhookTrigger("bogus"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldFireWebhook(tt.trigger, tt.latestBreakthrough)
			if got != tt.want {
				t.Errorf("shouldFireWebhook(%s, %v) = %v, want %v", tt.trigger, tt.latestBreakthrough, got, tt.want)
			}
		})
	}
}

func TestCreateFormatter(t *testing.T) {
	if _, err := createFormatter(&AnalyzeOptions{Output: "text"}); err != nil {
		t.Errorf("text formatter: %v", err)
	}
	if _, err := createFormatter(&AnalyzeOptions{Output: "json"}); err != nil {
		t.Errorf("json formatter: %v", err)
	}
	if _, err := createFormatter(&AnalyzeOptions{Output: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
