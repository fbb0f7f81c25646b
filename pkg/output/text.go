package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	if !report.HasEntries() {
		fmt.Fprintln(w, "ascendlog: no entries recovered")
		return nil
	}
	s := report.Analytics.Summary
	fmt.Fprintf(w, "ascendlog: %d entries over %d days, %d breakthroughs\n",
		s.TotalEntries, s.TotalDays, s.TotalBreakthroughs)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PROGRESSION ANALYSIS REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	if !report.HasEntries() {
		fmt.Fprintln(w, "No entries recovered from the journal.")
		return nil
	}

	a := report.Analytics
	s := a.Summary

	fmt.Fprintln(w, "OVERALL PROGRESS:")
	fmt.Fprintf(w, "  Started: %s\n", s.StartDate)
	fmt.Fprintf(w, "  Latest:  %s\n", s.LatestDate)
	fmt.Fprintf(w, "  Total Days Tracked: %d\n", s.TotalDays)
	if s.CurrentStage != nil {
		fmt.Fprintf(w, "  Current Stage: %s (%s%%)\n", *s.CurrentStage, formatFloat(s.CurrentStagePercent))
	}
	if s.CurrentGradeLevel != nil {
		fmt.Fprintf(w, "  Current G Level: G%d (%s%%)\n", *s.CurrentGradeLevel, formatFloat(s.CurrentGradePercent))
	}
	fmt.Fprintf(w, "  Total Breakthroughs: %d\n", s.TotalBreakthroughs)
	if s.JourneyPercent != nil {
		fmt.Fprintf(w, "  Journey: %.2f%%\n", *s.JourneyPercent)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "STAGE PROGRESSION:")
	for _, name := range a.StageOrder {
		stats := a.Stages[name]
		if stats == nil || stats.Entries == 0 {
			continue
		}
		marker := ""
		if stats.Completed {
			marker = " [complete]"
		}
		fmt.Fprintf(w, "  %s:%s\n", name, marker)
		fmt.Fprintf(w, "    Duration: %d days (%d entries)\n", stats.Days, stats.Entries)
		fmt.Fprintf(w, "    Progress: %.1f%% -> %.1f%%\n", stats.StartPercent, stats.EndPercent)
		fmt.Fprintf(w, "    Avg Daily Progress: %.4f%%\n", stats.DailyRate)
	}
	fmt.Fprintln(w)

	if p := a.Prediction; p != nil {
		fmt.Fprintln(w, "PREDICTION:")
		fmt.Fprintf(w, "  Stage: %s\n", p.Stage)
		fmt.Fprintf(w, "  Rate: %.4f%% per day\n", p.CurrentRate)
		fmt.Fprintf(w, "  Days Remaining: %.1f\n", p.DaysRemaining)
		fmt.Fprintf(w, "  Projected Completion: %s\n", p.ProjectedDate)
		fmt.Fprintln(w)
	}

	if len(a.Efficiency) > 0 {
		fmt.Fprintln(w, "EFFICIENCY BY STAGE:")
		for _, name := range a.StageOrder {
			eff := a.Efficiency[name]
			if eff == nil {
				continue
			}
			fmt.Fprintf(w, "  %s:\n", name)
			fmt.Fprintf(w, "    Hours per 1%% progress: %.2f\n", eff.HoursPerPercent)
			fmt.Fprintf(w, "    Progress per day: %.4f%%\n", eff.PercentPerDay)
		}
		fmt.Fprintln(w)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Daily rate points: %d\n", len(a.DailyRates))
		fmt.Fprintf(w, "Milestone points:  %d\n", len(a.Milestones))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return "?"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *v), "0"), ".")
}
