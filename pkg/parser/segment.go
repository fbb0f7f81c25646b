package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthAlternation matches any full month name.
const monthAlternation = `January|February|March|April|May|June|July|August|September|October|November|December`

const monthNamesPattern = `(?:` + monthAlternation + `)`

var (
	// A stand-alone four-digit line anywhere in the document anchors the
	// base year for rollover resolution.
	baseYearRe = regexp.MustCompile(`(?m)^[ \t]*(\d{4})[ \t]*\r?$`)

	// Entry blocks begin at a month name followed by a 1-2 digit day.
	blockStartRe = regexp.MustCompile(`(?i)` + monthNamesPattern + `\s+\d{1,2}`)
	monthLeadRe  = regexp.MustCompile(`(?i)^` + monthNamesPattern)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// BaseYear recovers the base year from a stand-alone four-digit line, or
// fallback if none is present (DefaultBaseYear when fallback is zero).
func BaseYear(text string, fallback int) int {
	if fallback == 0 {
		fallback = DefaultBaseYear
	}
	m := baseYearRe.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return year
}

// Segment splits raw journal text into one block per entry. A block starts
// at every month-name + day-number boundary; the delimiter stays with the
// following block. Blocks that do not begin with a month name (stray notes,
// section headers, the year anchor) are discarded. Document order is
// preserved.
func Segment(text string) []string {
	starts := blockStartRe.FindAllStringIndex(text, -1)

	cuts := make([]int, 0, len(starts)+2)
	cuts = append(cuts, 0)
	for _, loc := range starts {
		cuts = append(cuts, loc[0])
	}
	cuts = append(cuts, len(text))

	var blocks []string
	for i := 0; i+1 < len(cuts); i++ {
		block := strings.TrimSpace(text[cuts[i]:cuts[i+1]])
		if block == "" {
			continue
		}
		if !monthLeadRe.MatchString(block) {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
