// Package parser recovers structured progression entries from free-form,
// typo-ridden journal text. Extraction is heuristic by design: any field
// that cannot be recovered is left unknown rather than raising an error,
// and blocks without a recoverable date are dropped.
package parser

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the sortable ISO form used for dates in the interchange JSON.
const TimeLayout = "2006-01-02T15:04:05"

// DefaultBaseYear is assumed when the journal carries no stand-alone
// four-digit year line.
const DefaultBaseYear = 2025

// Entry is one recovered journal block. Optional fields are pointers so
// that unknown values serialize as explicit null, never as a sentinel.
type Entry struct {
	// Date is the resolved calendar date and time. Entries without one
	// never reach the caller.
	Date time.Time `json:"-"`

	// Time is the displayed 12-hour clock string (e.g. "8:53 AM"), if any.
	Time *string `json:"time"`

	// StageName is the canonical stage name, normalized at parse time.
	StageName *string `json:"stage_name"`

	// StagePercent is progress within the stage, 0-100.
	StagePercent *float64 `json:"stage_percent"`

	// GradeLevel is the sub-stage G-level counter.
	GradeLevel *int `json:"grade_level"`

	// GradePercent is progress within the current grade level, 0-100.
	GradePercent *float64 `json:"grade_percent"`

	// YearsToNext, HoursToNext and MinutesToNext estimate in-game time
	// remaining to the next milestone.
	YearsToNext   *float64 `json:"years_to_next"`
	HoursToNext   *int     `json:"hours_to_next"`
	MinutesToNext *int     `json:"minutes_to_next"`

	// NextMilestone is the free-text label of the target milestone.
	NextMilestone *string `json:"next_milestone"`

	// IsBreakthrough marks an advancement event.
	IsBreakthrough bool `json:"is_breakthrough"`

	// IsPredicted marks an externally supplied estimate rather than an
	// observation.
	IsPredicted bool `json:"is_predicted"`

	// Notes holds all block lines beyond the header, verbatim and in order.
	Notes []string `json:"notes"`

	// Raw is the original block text. Not part of the interchange form.
	Raw string `json:"-"`
}

// entryJSON mirrors Entry with the date as a string for the wire form.
type entryJSON struct {
	Date string `json:"date"`
	*entryAlias
}

type entryAlias Entry

// MarshalJSON serializes the entry with the date in sortable ISO form.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&entryJSON{
		Date:       e.Date.Format(TimeLayout),
		entryAlias: (*entryAlias)(e),
	})
}

// UnmarshalJSON restores an entry from its interchange form.
func (e *Entry) UnmarshalJSON(data []byte) error {
	wire := entryJSON{entryAlias: (*entryAlias)(e)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Date == "" {
		return fmt.Errorf("entry has no date")
	}
	date, err := time.Parse(TimeLayout, wire.Date)
	if err != nil {
		return fmt.Errorf("parsing entry date %q: %w", wire.Date, err)
	}
	e.Date = date
	return nil
}

// MarshalEntries serializes entries to the interchange form.
func MarshalEntries(entries []*Entry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// UnmarshalEntries restores entries from the interchange form.
func UnmarshalEntries(data []byte) ([]*Entry, error) {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing entries: %w", err)
	}
	return entries, nil
}
