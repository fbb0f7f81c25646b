// Package output provides formatting and output generation for analytics
// reports.
package output

import (
	"time"

	"ascendlog/pkg/analyzer"
)

// Report is the complete output of one parse+analyze run.
type Report struct {
	// Analytics is the full analytics object.
	Analytics *analyzer.Analytics `json:"analytics"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about a parse+analyze run.
type Metadata struct {
	// LogFile is the journal that was parsed.
	LogFile string `json:"log_file"`

	// BaseYear is the resolved base year used for rollover resolution.
	BaseYear int `json:"base_year"`

	// Entries is the number of entries recovered from the journal.
	Entries int `json:"entries"`

	// GeneratedAt is when the analysis was performed.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long the parse+analyze run took.
	Duration time.Duration `json:"duration"`
}

// NewReport wraps an analytics object with run metadata.
func NewReport(analytics *analyzer.Analytics, meta Metadata) *Report {
	return &Report{Analytics: analytics, Metadata: meta}
}

// HasEntries returns true if the run recovered at least one entry.
func (r *Report) HasEntries() bool {
	return r.Analytics != nil && r.Analytics.Summary != nil
}

// LatestBreakthrough returns true when the most recent entry records a
// breakthrough. Used by webhook trigger policies.
func (r *Report) LatestBreakthrough() bool {
	return r.HasEntries() && r.Analytics.Summary.LatestBreakthrough
}
