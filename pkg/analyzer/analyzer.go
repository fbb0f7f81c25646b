package analyzer

import (
	"math"
	"sort"
	"time"

	"ascendlog/pkg/parser"
	"ascendlog/pkg/stage"
)

// predictionWindow caps how many recent entries feed the completion
// prediction for the current stage.
const predictionWindow = 10

// projectedDateLayout is the human-facing form for projected dates.
const projectedDateLayout = "January 2, 2006"

// Compute derives the full analytics object from parsed entries. The input
// is treated as read-only; entries are re-sorted into a private slice
// before any date arithmetic. Identical input yields identical output.
func Compute(entries []*parser.Entry) *Analytics {
	valid := make([]*parser.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.IsZero() {
			valid = append(valid, e)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})

	a := &Analytics{
		StageOrder:  stage.Names(),
		StageColors: stage.Colors(),
		Stages:      make(map[string]*StageStats, stage.Count),
		Efficiency:  make(map[string]*Efficiency),
		GradeLevels: make(map[string][]GradeBucket),
	}
	if len(valid) == 0 {
		return a
	}

	a.Summary = computeSummary(valid)
	computeStageStats(a, valid)
	a.Timeline = computeTimeline(valid)
	a.Breakthroughs = computeBreakthroughs(valid)
	a.DailyRates = computeDailyRates(valid)
	computeEfficiency(a, valid)
	a.Prediction = computePrediction(valid)
	computeGradeLevels(a, valid)
	a.Milestones = computeMilestones(valid)

	return a
}

// JourneyPercent normalizes a stage and its percent to one 0-100 value
// across the fixed stage ordering: (index*100 + percent) / stage count,
// rounded to 2 decimals. Nil when either input is unknown.
func JourneyPercent(stageName *string, stagePercent *float64) *float64 {
	if stageName == nil || stagePercent == nil {
		return nil
	}
	s, ok := stage.FromName(*stageName)
	if !ok {
		return nil
	}
	v := round((float64(s.Index())*100+*stagePercent)/stage.Count, 2)
	return &v
}

func computeSummary(valid []*parser.Entry) *Summary {
	first, last := valid[0], valid[len(valid)-1]

	breakthroughs := 0
	for _, e := range valid {
		if e.IsBreakthrough {
			breakthroughs++
		}
	}

	return &Summary{
		TotalEntries:        len(valid),
		TotalDays:           daysBetween(first.Date, last.Date) + 1,
		StartDate:           first.Date.Format(parser.TimeLayout),
		LatestDate:          last.Date.Format(parser.TimeLayout),
		CurrentStage:        last.StageName,
		CurrentStagePercent: last.StagePercent,
		CurrentGradeLevel:   last.GradeLevel,
		CurrentGradePercent: last.GradePercent,
		TotalBreakthroughs:  breakthroughs,
		LatestBreakthrough:  last.IsBreakthrough,
		JourneyPercent:      JourneyPercent(last.StageName, last.StagePercent),
	}
}

func computeStageStats(a *Analytics, valid []*parser.Entry) {
	for _, s := range stage.All() {
		name := s.String()
		se := stageEntries(valid, name)
		if len(se) == 0 {
			// Untracked stages still honor the lookahead: anything later
			// in the dataset proves they were passed through.
			a.Stages[name] = &StageStats{Completed: laterStageExists(valid, s)}
			continue
		}

		firstEntry, lastEntry := se[0], se[len(se)-1]
		days := daysBetween(firstEntry.Date, lastEntry.Date)
		if days < 1 {
			days = 1
		}
		sp := floatOrZero(firstEntry.StagePercent)
		ep := floatOrZero(lastEntry.StagePercent)

		breakthroughs := 0
		for _, e := range se {
			if e.IsBreakthrough {
				breakthroughs++
			}
		}

		a.Stages[name] = &StageStats{
			StartDate:     firstEntry.Date.Format(parser.TimeLayout),
			EndDate:       lastEntry.Date.Format(parser.TimeLayout),
			Days:          days,
			StartPercent:  sp,
			EndPercent:    ep,
			DailyRate:     round((ep-sp)/float64(days), 4),
			Entries:       len(se),
			Completed:     ep >= 99 || laterStageExists(valid, s),
			Breakthroughs: breakthroughs,
		}
	}
}

// laterStageExists reports whether any entry in the whole dataset belongs
// to a stage strictly after s. A single stray later-stage entry is taken
// as proof of completion on purpose; see the completion regression tests.
func laterStageExists(valid []*parser.Entry, s stage.Stage) bool {
	for _, e := range valid {
		if e.StageName == nil {
			continue
		}
		if other, ok := stage.FromName(*e.StageName); ok && other.Later(s) {
			return true
		}
	}
	return false
}

func computeTimeline(valid []*parser.Entry) []TimelinePoint {
	var timeline []TimelinePoint
	for _, e := range valid {
		jp := JourneyPercent(e.StageName, e.StagePercent)
		if jp == nil {
			continue
		}
		timeline = append(timeline, TimelinePoint{
			Date:           e.Date.Format(parser.TimeLayout),
			JourneyPercent: *jp,
			Stage:          *e.StageName,
			StagePercent:   e.StagePercent,
		})
	}
	return timeline
}

func computeBreakthroughs(valid []*parser.Entry) []BreakthroughEvent {
	var events []BreakthroughEvent
	for _, e := range valid {
		if !e.IsBreakthrough {
			continue
		}
		events = append(events, BreakthroughEvent{
			Date:          e.Date.Format(parser.TimeLayout),
			Stage:         e.StageName,
			GradeLevel:    e.GradeLevel,
			GradePercent:  e.GradePercent,
			NextMilestone: e.NextMilestone,
		})
	}
	return events
}

func computeDailyRates(valid []*parser.Entry) []RatePoint {
	var rates []RatePoint
	for i := 1; i < len(valid); i++ {
		prev, curr := valid[i-1], valid[i]
		if prev.StageName == nil || curr.StageName == nil || *prev.StageName != *curr.StageName {
			continue
		}
		if prev.StagePercent == nil || curr.StagePercent == nil {
			continue
		}
		days := curr.Date.Sub(prev.Date).Hours() / 24
		if days <= 0 {
			continue
		}
		rate := (*curr.StagePercent - *prev.StagePercent) / days
		if rate <= 0 {
			// Flat or negative deltas are treated as noise, not reported.
			continue
		}
		rates = append(rates, RatePoint{
			Date:  curr.Date.Format(parser.TimeLayout),
			Rate:  round(rate, 4),
			Stage: *curr.StageName,
		})
	}
	return rates
}

func computeEfficiency(a *Analytics, valid []*parser.Entry) {
	for _, s := range stage.All() {
		name := s.String()
		se := stageEntries(valid, name)
		if len(se) < 2 {
			continue
		}

		var totalHours, totalPercent float64
		for i := 1; i < len(se); i++ {
			prev, curr := se[i-1], se[i]
			if prev.StagePercent == nil || curr.StagePercent == nil {
				continue
			}
			gained := *curr.StagePercent - *prev.StagePercent
			if gained <= 0 {
				continue
			}
			totalHours += curr.Date.Sub(prev.Date).Hours()
			totalPercent += gained
		}

		// Zero elapsed hours or zero gain would require dividing by zero;
		// such stages are omitted rather than reported as infinity.
		if totalPercent <= 0 || totalHours <= 0 {
			continue
		}
		a.Efficiency[name] = &Efficiency{
			HoursPerPercent: round(totalHours/totalPercent, 2),
			PercentPerDay:   round(totalPercent*24/totalHours, 4),
		}
	}
}

func computePrediction(valid []*parser.Entry) *Prediction {
	last := valid[len(valid)-1]
	if last.StageName == nil {
		return nil
	}

	recent := stageEntries(valid, *last.StageName)
	if len(recent) < 2 {
		return nil
	}
	if len(recent) > predictionWindow {
		recent = recent[len(recent)-predictionWindow:]
	}

	start, end := recent[0], recent[len(recent)-1]
	if start.StagePercent == nil || end.StagePercent == nil {
		return nil
	}
	days := end.Date.Sub(start.Date).Hours() / 24
	if days <= 0 {
		return nil
	}
	rate := (*end.StagePercent - *start.StagePercent) / days
	if rate <= 0 {
		return nil
	}

	remaining := 100 - *end.StagePercent
	daysToGo := remaining / rate
	projected := end.Date.Add(time.Duration(daysToGo * 24 * float64(time.Hour)))

	return &Prediction{
		Stage:         *last.StageName,
		CurrentRate:   round(rate, 4),
		DaysRemaining: round(daysToGo, 1),
		ProjectedDate: projected.Format(projectedDateLayout),
	}
}

func computeGradeLevels(a *Analytics, valid []*parser.Entry) {
	for _, s := range stage.All() {
		name := s.String()

		byLevel := make(map[int][]GradeObservation)
		for _, e := range valid {
			if e.StageName == nil || *e.StageName != name || e.GradeLevel == nil {
				continue
			}
			byLevel[*e.GradeLevel] = append(byLevel[*e.GradeLevel], GradeObservation{
				Date:         e.Date.Format(parser.TimeLayout),
				Percent:      e.GradePercent,
				Breakthrough: e.IsBreakthrough,
			})
		}
		if len(byLevel) == 0 {
			continue
		}

		levels := make([]int, 0, len(byLevel))
		for level := range byLevel {
			levels = append(levels, level)
		}
		sort.Ints(levels)

		buckets := make([]GradeBucket, 0, len(levels))
		for _, level := range levels {
			buckets = append(buckets, GradeBucket{Level: level, Observations: byLevel[level]})
		}
		a.GradeLevels[name] = buckets
	}
}

func computeMilestones(valid []*parser.Entry) []MilestonePoint {
	var points []MilestonePoint
	for _, e := range valid {
		if e.HoursToNext == nil {
			continue
		}
		hours := float64(*e.HoursToNext)
		if e.MinutesToNext != nil {
			hours += float64(*e.MinutesToNext) / 60
		}
		points = append(points, MilestonePoint{
			Date:      e.Date.Format(parser.TimeLayout),
			Hours:     round(hours, 1),
			Milestone: e.NextMilestone,
			Stage:     e.StageName,
		})
	}
	return points
}

// stageEntries filters valid (already date-sorted) entries down to one
// canonical stage, order preserved.
func stageEntries(valid []*parser.Entry, name string) []*parser.Entry {
	var out []*parser.Entry
	for _, e := range valid {
		if e.StageName != nil && *e.StageName == name {
			out = append(out, e)
		}
	}
	return out
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
