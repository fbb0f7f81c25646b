// Package server exposes parsed entries and analytics over a local HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"ascendlog/pkg/analyzer"
	"ascendlog/pkg/config"
	"ascendlog/pkg/output"
	"ascendlog/pkg/parser"
)

// Server serves analytics and entry endpoints backed by a journal file.
// Reads and appends are serialized with a mutex so a POST cannot race a
// concurrent re-parse.
type Server struct {
	cfg    *config.Config
	parser *parser.Parser

	mu sync.Mutex

	// now is overridable in tests.
	now func() time.Time
}

// New creates a server for the given configuration.
func New(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		parser: parser.New(cfg.BaseYear),
		now:    time.Now,
	}
}

// Handler returns the HTTP handler with all API routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/entries", s.handleEntries)
	return logRequests(mux)
}

// Run starts the HTTP server on the given address and blocks until the
// context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	slog.Info("server listening", "addr", addr, "log_file", s.cfg.LogFile)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// load reads and parses the journal. Callers must hold s.mu.
func (s *Server) load() ([]*parser.Entry, error) {
	data, err := os.ReadFile(s.cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return s.parser.Parse(string(data)), nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	entries, err := s.load()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	start := s.now()
	analytics := analyzer.Compute(entries)
	report := output.NewReport(analytics, output.Metadata{
		LogFile:     s.cfg.LogFile,
		BaseYear:    s.cfg.BaseYear,
		Entries:     len(entries),
		GeneratedAt: s.now(),
		Duration:    s.now().Sub(start),
	})

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getEntries(w, r)
	case http.MethodPost:
		s.postEntry(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) getEntries(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	entries, err := s.load()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := parser.MarshalEntries(entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// appendRequest is the POST /api/entries body.
type appendRequest struct {
	RealmPhase    string `json:"realm_phase"`
	OverallPct    string `json:"overall_pct"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Action        string `json:"action"`
	Grade         string `json:"grade"`
	TimeRemaining string `json:"time_remaining"`
	Prediction    string `json:"prediction"`
}

type appendResponse struct {
	OK           bool   `json:"ok"`
	Entry        string `json:"entry"`
	TotalEntries int    `json:"total_entries"`
}

func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	realmPhase := strings.TrimSpace(req.RealmPhase)
	overallPct := strings.TrimSpace(req.OverallPct)
	if realmPhase == "" {
		writeError(w, http.StatusBadRequest, "realm_phase is required")
		return
	}
	if overallPct == "" {
		writeError(w, http.StatusBadRequest, "overall_pct is required")
		return
	}

	now := s.now()
	entryDate := strings.TrimSpace(req.Date)
	if entryDate == "" {
		entryDate = now.Format("January 2")
	}
	entryTime := strings.TrimSpace(req.Time)
	if entryTime == "" {
		entryTime = clockTime(now)
	}

	block := parser.BuildBlock(entryDate, entryTime, realmPhase, overallPct,
		req.Action, req.Grade, req.TimeRemaining, req.Prediction)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := f.WriteString("\n" + block + "\n"); err != nil {
		f.Close()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := f.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries, err := s.load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("entry appended", "stage", realmPhase, "total_entries", len(entries))

	writeJSON(w, http.StatusOK, appendResponse{
		OK:           true,
		Entry:        block,
		TotalEntries: len(entries),
	})
}

// clockTime formats a time in the journal's 12-hour style ("8:05 AM").
func clockTime(t time.Time) string {
	h, m := t.Hour(), t.Minute()
	marker := "AM"
	if h >= 12 {
		marker = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, marker)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// logRequests wraps a handler with slog request logging.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
