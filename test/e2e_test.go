package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"ascendlog/internal/server"
	"ascendlog/pkg/analyzer"
	"ascendlog/pkg/config"
	"ascendlog/pkg/output"
	"ascendlog/pkg/parser"
	"ascendlog/pkg/webhook"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// The config file uses paths relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		// Get the directory containing this test file, then go up one level
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

func loadPipeline(t *testing.T) (*config.Config, []*parser.Entry) {
	t.Helper()
	chdir(t)

	configFile := filepath.Join("testdata", "config.yaml")
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}

	p := parser.New(cfg.BaseYear)
	return cfg, p.Parse(string(data))
}

// TestE2E_ParsePipeline runs the full parse pipeline over the checked-in
// journal fixture and verifies the recovered entries.
func TestE2E_ParsePipeline(t *testing.T) {
	_, entries := loadPipeline(t)

	if len(entries) != 10 {
		t.Fatalf("Expected 10 entries, got %d", len(entries))
	}

	// First entry: typo'd stage name, full field set.
	first := entries[0]
	wantDate := time.Date(2025, time.September, 15, 8, 53, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Errorf("first entry date = %v, want %v", first.Date, wantDate)
	}
	if first.StageName == nil || *first.StageName != "Celestial Early" {
		t.Errorf("first entry stage = %v, want Celestial Early", first.StageName)
	}
	if first.StagePercent == nil || *first.StagePercent != 12.5 {
		t.Errorf("first entry percent = %v", first.StagePercent)
	}
	if first.GradeLevel == nil || *first.GradeLevel != 3 {
		t.Errorf("first entry grade level = %v", first.GradeLevel)
	}
	if first.YearsToNext == nil || *first.YearsToNext != 5.25 {
		t.Errorf("first entry years = %v", first.YearsToNext)
	}
	if first.HoursToNext == nil || *first.HoursToNext != 1 {
		t.Errorf("first entry hours = %v", first.HoursToNext)
	}
	if first.MinutesToNext == nil || *first.MinutesToNext != 3 {
		t.Errorf("first entry minutes = %v", first.MinutesToNext)
	}
	if first.NextMilestone == nil || *first.NextMilestone != "G4" {
		t.Errorf("first entry milestone = %v", first.NextMilestone)
	}

	// Entry without a time gets noon.
	oct14 := entries[2]
	if oct14.Date.Hour() != 12 || oct14.Date.Minute() != 0 {
		t.Errorf("timeless entry should default to noon, got %v", oct14.Date)
	}
	if oct14.HoursToNext == nil || *oct14.HoursToNext != 157 {
		t.Errorf("'157 and 27 Min' hours = %v", oct14.HoursToNext)
	}

	// December entries stay in the base year; January and later roll over.
	if got := entries[6].Date.Year(); got != 2025 {
		t.Errorf("December entry year = %d, want 2025", got)
	}
	for _, e := range entries[7:] {
		if e.Date.Year() != 2026 {
			t.Errorf("entry %s year = %d, want 2026", e.Date.Format("January 2"), e.Date.Year())
		}
	}

	// Last entry is a prediction.
	last := entries[len(entries)-1]
	if !last.IsPredicted {
		t.Error("final entry should be flagged as predicted")
	}

	// Breakthrough count across the journal.
	breakthroughs := 0
	for _, e := range entries {
		if e.IsBreakthrough {
			breakthroughs++
		}
	}
	if breakthroughs != 4 {
		t.Errorf("breakthroughs = %d, want 4", breakthroughs)
	}
}

// TestE2E_Analytics computes analytics over the fixture journal.
func TestE2E_Analytics(t *testing.T) {
	_, entries := loadPipeline(t)

	analytics := analyzer.Compute(entries)
	if analytics.Summary == nil {
		t.Fatal("expected summary")
	}

	s := analytics.Summary
	if s.TotalEntries != 10 {
		t.Errorf("total entries = %d", s.TotalEntries)
	}
	if s.TotalBreakthroughs != 4 {
		t.Errorf("total breakthroughs = %d", s.TotalBreakthroughs)
	}
	if s.CurrentStage == nil || *s.CurrentStage != "Celestial Late" {
		t.Errorf("current stage = %v", s.CurrentStage)
	}

	// Earlier stages are complete because a later stage appears.
	if !analytics.Stages["Celestial Early"].Completed {
		t.Error("Celestial Early should be complete")
	}
	if !analytics.Stages["Celestial Middle"].Completed {
		t.Error("Celestial Middle should be complete")
	}
	if analytics.Stages["Celestial Late"].Completed {
		t.Error("Celestial Late should not be complete")
	}

	// The current stage has enough history for a prediction.
	if analytics.Prediction == nil {
		t.Fatal("expected a completion prediction")
	}
	if analytics.Prediction.Stage != "Celestial Late" {
		t.Errorf("prediction stage = %s", analytics.Prediction.Stage)
	}
	if analytics.Prediction.CurrentRate <= 0 {
		t.Errorf("prediction rate = %f", analytics.Prediction.CurrentRate)
	}
}

// TestE2E_Formatters runs both formatters over a computed report.
func TestE2E_Formatters(t *testing.T) {
	cfg, entries := loadPipeline(t)

	analytics := analyzer.Compute(entries)
	report := output.NewReport(analytics, output.Metadata{
		LogFile:     cfg.LogFile,
		BaseYear:    cfg.BaseYear,
		Entries:     len(entries),
		GeneratedAt: time.Now(),
	})

	ctx := context.Background()

	var textBuf bytes.Buffer
	if err := output.NewTextFormatter(output.FormatOptions{}).Format(ctx, report, &textBuf); err != nil {
		t.Fatalf("text format: %v", err)
	}
	if !strings.Contains(textBuf.String(), "STAGE PROGRESSION") {
		t.Error("text output missing stage section")
	}

	var jsonBuf bytes.Buffer
	if err := output.NewJSONFormatter(output.FormatOptions{}).Format(ctx, report, &jsonBuf); err != nil {
		t.Fatalf("json format: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
}

// TestE2E_Webhook delivers a report to a local webhook receiver.
func TestE2E_Webhook(t *testing.T) {
	cfg, entries := loadPipeline(t)

	var received []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	report := output.NewReport(analyzer.Compute(entries), output.Metadata{
		LogFile:  cfg.LogFile,
		BaseYear: cfg.BaseYear,
		Entries:  len(entries),
	})

	resp := webhook.NewClient().Send(context.Background(), report, webhook.SendOptions{
		URL: ts.URL,
	})
	if !resp.Success() {
		t.Fatalf("webhook failed: %v", resp.Error)
	}

	var payload struct {
		Analytics struct {
			Summary struct {
				TotalEntries int `json:"total_entries"`
			} `json:"summary"`
		} `json:"analytics"`
	}
	if err := json.Unmarshal(received, &payload); err != nil {
		t.Fatalf("webhook payload invalid: %v", err)
	}
	if payload.Analytics.Summary.TotalEntries != 10 {
		t.Errorf("payload entries = %d", payload.Analytics.Summary.TotalEntries)
	}
}

// TestE2E_ServerRoundTrip appends an entry over HTTP and reads it back.
func TestE2E_ServerRoundTrip(t *testing.T) {
	chdir(t)

	// Work on a copy so the fixture journal stays pristine.
	data, err := os.ReadFile(filepath.Join("testdata", "prog.txt"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "prog.txt")
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		t.Fatalf("Failed to copy fixture: %v", err)
	}

	srv := server.New(&config.Config{LogFile: logFile, BaseYear: 2025})
	handler := srv.Handler()

	// Append a new snapshot.
	body := `{"realm_phase":"Celestial Late","overall_pct":"33","date":"February 20","time":"7:10 AM","grade":"G2 at 45%"}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Read the journal back.
	req = httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	entries, err := parser.UnmarshalEntries(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("GET /api/entries invalid: %v", err)
	}
	if len(entries) != 11 {
		t.Fatalf("got %d entries after append, want 11", len(entries))
	}

	appended := entries[len(entries)-1]
	if appended.StageName == nil || *appended.StageName != "Celestial Late" {
		t.Errorf("appended stage = %v", appended.StageName)
	}
	if appended.Date.Year() != 2026 {
		t.Errorf("appended entry year = %d, want 2026 (rollover)", appended.Date.Year())
	}
}
