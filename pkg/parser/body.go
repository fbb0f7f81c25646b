package parser

import (
	"regexp"
	"strconv"
)

// breakthroughRule is one pattern in the ordered detection chain. Rules are
// evaluated in sequence, first match wins. Adding a new journal format
// variant means adding a row here, not another conditional.
type breakthroughRule struct {
	name       string
	re         *regexp.Regexp
	hasLevel   bool
	hasPercent bool
}

var breakthroughRules = []breakthroughRule{
	{
		// "Breakthrough to Celestial Middle G1 at 6%"
		name:       "stage_grade_percent",
		re:         regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+(?:Celestial|Eternal)\s+\w+\s+G(\d+)\s+at\s+(\d+\.?\d*)%`),
		hasLevel:   true,
		hasPercent: true,
	},
	{
		// "Breakthrough to G3 at 16.3%"
		name:       "grade_percent",
		re:         regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+G(\d+)\s+at\s+(\d+\.?\d*)%`),
		hasLevel:   true,
		hasPercent: true,
	},
	{
		// "Breakthrough to Celestial Middle G1"
		name:     "stage_grade",
		re:       regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+(?:Celestial|Eternal)\s+\w+\s+G(\d+)`),
		hasLevel: true,
	},
	{
		// "Breakthrough to G8"
		name:     "grade",
		re:       regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+G(\d+)`),
		hasLevel: true,
	},
	{
		// "Breakthrough to Celestial Middle" (stage transition, no G level)
		name: "stage_only",
		re:   regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+(?:Celestial|Eternal)\s+(?:Early|Middle|Late)`),
	},
}

// breakthroughCatchAllRe flags any remaining "breakthrough to ..." phrase
// that none of the structured rules matched.
var breakthroughCatchAllRe = regexp.MustCompile(`(?i)(?:bt|breakthrough)\s+to\s+`)

var (
	gradeInfoRe   = regexp.MustCompile(`(?i)G(\d+)\s+at\s+(\d+\.?\d*)\s*%`)
	currentlyAtRe = regexp.MustCompile(`(?i)currently\s+at\s+(\d+\.?\d*)%`)

	// Unit tokens tolerate the spelling and typo variants seen in real
	// journals ("Ys", "MIin", bare "hrs").
	yearsToNextRe   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:Yrs?|Ys|Years?)\b`)
	hoursToNextRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:Hrs?|Hours?|hrs)\b`)
	minutesToNextRe = regexp.MustCompile(`(?i)(\d+)\s*(?:Min(?:utes?)?|MIin|MIn)\b`)

	// "157 and 27 Min": hours written without their unit label.
	hoursAndMinutesRe = regexp.MustCompile(`(?i)(\d+)\s+and\s+(\d+)\s*(?:Min|MIin|MIn)`)

	nextMilestoneRe = regexp.MustCompile(`(?i)to\s+(G\d+|(?:Celestial|Eternal)\s+(?:Early|Middle|Late)(?:\s+G\d+)?)`)
)

// parseBreakthrough runs the ordered rule chain over the full block text
// and fills the entry's breakthrough and grade fields from the first match.
func parseBreakthrough(text string, entry *Entry) {
	for _, rule := range breakthroughRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		entry.IsBreakthrough = true
		if rule.hasLevel {
			if level, err := strconv.Atoi(m[1]); err == nil {
				entry.GradeLevel = &level
			}
		}
		if rule.hasPercent {
			if pct, err := strconv.ParseFloat(m[2], 64); err == nil {
				entry.GradePercent = &pct
			}
		}
		return
	}

	if breakthroughCatchAllRe.MatchString(text) {
		entry.IsBreakthrough = true
	}
}

// parseGradeInfo recovers the grade level and percent from body text. When
// several "G<N> at <X>%" mentions exist the last one wins, overwriting
// anything breakthrough detection already set. With no such mention, a bare
// "currently at X%" phrase fills only the percent.
func parseGradeInfo(text string, entry *Entry) {
	matches := gradeInfoRe.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		m := matches[len(matches)-1]
		if level, err := strconv.Atoi(m[1]); err == nil {
			entry.GradeLevel = &level
		}
		if pct, err := strconv.ParseFloat(m[2], 64); err == nil {
			entry.GradePercent = &pct
		}
		return
	}

	if entry.GradePercent == nil {
		if m := currentlyAtRe.FindStringSubmatch(text); m != nil {
			if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
				entry.GradePercent = &pct
			}
		}
	}
}

// parseTimeToNext recovers the estimated time remaining to the next
// milestone. The four sub-extractions are independently optional.
func parseTimeToNext(text string, entry *Entry) {
	if m := yearsToNextRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			entry.YearsToNext = &v
		}
	}

	if m := hoursToNextRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			entry.HoursToNext = &v
		}
	}

	if m := minutesToNextRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			entry.MinutesToNext = &v
		}
	}

	if entry.HoursToNext == nil {
		if m := hoursAndMinutesRe.FindStringSubmatch(text); m != nil {
			if h, err := strconv.Atoi(m[1]); err == nil {
				entry.HoursToNext = &h
			}
			if mn, err := strconv.Atoi(m[2]); err == nil {
				entry.MinutesToNext = &mn
			}
		}
	}

	// The last "to <target>" mention names the milestone.
	if hits := nextMilestoneRe.FindAllStringSubmatch(text, -1); len(hits) > 0 {
		target := hits[len(hits)-1][1]
		entry.NextMilestone = &target
	}
}
