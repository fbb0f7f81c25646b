package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"ascendlog/pkg/stage"
)

var (
	headerDateRe  = regexp.MustCompile(`(?i)(` + monthAlternation + `)\s+(\d{1,2})(?:st|nd|rd|th)?`)
	headerTimeRe  = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)
	headerStageRe = regexp.MustCompile(`(?i)(Celesti\w+|Eternal)\s+(Early|Middle|Late)`)
	stagePctRe    = regexp.MustCompile(`\((\d+\.?\d*)%\)`)
	predictedRe   = regexp.MustCompile(`(?i)predicted|chatgpt`)
)

// parseHeaderDate recovers the calendar date and time from a header line.
// The time defaults to noon when absent; days invalid for the month are
// clamped to 28. Returns the zero time when no month/day match is found.
func parseHeaderDate(header string, year int) (time.Time, bool) {
	m := headerDateRe.FindStringSubmatch(header)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthsByName[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 {
		return time.Time{}, false
	}

	hour, minute := 12, 0 // neutral placeholder when no time is given
	if tm := headerTimeRe.FindStringSubmatch(header); tm != nil {
		hour, _ = strconv.Atoi(tm[1])
		minute, _ = strconv.Atoi(tm[2])
		switch strings.ToUpper(tm[3]) {
		case "PM":
			if hour != 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
	}

	if day > daysInMonth(year, month) {
		day = 28
	}
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC), true
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseDisplayTime recovers the displayed 12-hour clock string, with the
// AM/PM marker upper-cased.
func parseDisplayTime(header string) *string {
	m := headerTimeRe.FindStringSubmatch(header)
	if m == nil {
		return nil
	}
	s := m[1] + ":" + m[2] + " " + strings.ToUpper(m[3])
	return &s
}

// parseStageName recovers and canonicalizes the stage name, tolerating
// realm typos like "Celesital".
func parseStageName(header string) *string {
	m := headerStageRe.FindStringSubmatch(header)
	if m == nil {
		return nil
	}
	name, ok := stage.Normalize(m[1], m[2])
	if !ok {
		return nil
	}
	return &name
}

// parseStagePercent recovers the number inside a trailing (N%) group.
func parseStagePercent(header string) *float64 {
	m := stagePctRe.FindStringSubmatch(header)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// isPredicted reports whether the header marks an external estimate.
func isPredicted(header string) bool {
	return predictedRe.MatchString(header)
}
