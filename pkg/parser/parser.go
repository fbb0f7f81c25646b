package parser

import (
	"fmt"
	"strings"
	"time"
)

// Parser turns a complete journal snapshot into ordered entries. It is
// stateless across calls: every Parse re-reads the full text from scratch.
type Parser struct {
	fallbackYear int
}

// New creates a parser. fallbackYear is used when the journal carries no
// stand-alone year line; zero selects DefaultBaseYear.
func New(fallbackYear int) *Parser {
	if fallbackYear == 0 {
		fallbackYear = DefaultBaseYear
	}
	return &Parser{fallbackYear: fallbackYear}
}

// rolloverState is the accumulator threaded across the ordered block
// sequence to resolve inferred year increments. It is folded left to
// right; blocks are assumed to appear in chronological document order.
type rolloverState struct {
	year      int
	prevMonth time.Month // zero until the first dated entry
}

// advance folds one entry month into the state. A late-year (October or
// later) to January/February transition increments the year exactly once;
// the new year then carries forward for all following entries.
func (s rolloverState) advance(month time.Month) rolloverState {
	next := rolloverState{year: s.year, prevMonth: month}
	if s.prevMonth >= time.October && month <= time.February {
		next.year++
	}
	return next
}

// Parse segments the text into blocks and assembles one entry per block.
// Blocks with no recoverable date are dropped silently; every other
// missing field is left unknown. The returned entries preserve document
// order.
func (p *Parser) Parse(text string) []*Entry {
	baseYear := BaseYear(text, p.fallbackYear)
	state := rolloverState{year: baseYear}

	var entries []*Entry
	for _, block := range Segment(text) {
		entry, ok := parseBlock(block, state.year)
		if !ok {
			continue
		}

		next := state.advance(entry.Date.Month())
		if next.year != state.year {
			d := entry.Date
			entry.Date = time.Date(next.year, d.Month(), d.Day(), d.Hour(), d.Minute(), 0, 0, time.UTC)
		}
		state = next

		entries = append(entries, entry)
	}
	return entries
}

// parseBlock assembles header and body extraction results into one entry.
// Returns false when the block's header yields no date.
func parseBlock(block string, year int) (*Entry, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) == 0 {
		return nil, false
	}
	header := strings.TrimSpace(lines[0])

	date, ok := parseHeaderDate(header, year)
	if !ok {
		return nil, false
	}

	entry := &Entry{
		Raw:          block,
		Date:         date,
		Time:         parseDisplayTime(header),
		StageName:    parseStageName(header),
		StagePercent: parseStagePercent(header),
		IsPredicted:  isPredicted(header),
	}

	// Breakthrough and milestone detection scan the whole block; grade
	// detection prefers body-only text to avoid accidental header matches.
	bodyText := strings.Join(lines[1:], "\n")
	gradeText := bodyText
	if gradeText == "" {
		gradeText = block
	}

	parseBreakthrough(block, entry)
	parseGradeInfo(gradeText, entry)
	parseTimeToNext(block, entry)

	for _, line := range lines[1:] {
		if s := strings.TrimSpace(line); s != "" {
			entry.Notes = append(entry.Notes, s)
		}
	}

	return entry, true
}

// BuildBlock renders one journal block in the canonical entry grammar,
// header first, extra lines verbatim after it. Callers append the result
// to the journal; the next Parse picks it up like any hand-written entry.
func BuildBlock(date, clock, realmPhase, percent string, extra ...string) string {
	lines := []string{
		fmt.Sprintf("%s, %s - %s (%s%%)", date, clock, realmPhase, percent),
	}
	for _, line := range extra {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
