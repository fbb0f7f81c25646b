// Package analyzer derives progression analytics from parsed journal
// entries: summary stats, per-stage statistics, rate series, efficiency,
// predictions, grade-level groupings and milestone timelines. Everything
// here is a pure function of the input entry list.
package analyzer

// Analytics is the complete output of one analytics run.
type Analytics struct {
	// Summary aggregates the whole journey. Nil when no dated entries
	// exist.
	Summary *Summary `json:"summary"`

	// StageOrder is the fixed canonical stage list.
	StageOrder []string `json:"stage_order"`

	// StageColors maps canonical stage names to display colors.
	StageColors map[string]string `json:"stage_colors"`

	// Stages holds per-stage statistics, keyed by canonical stage name.
	Stages map[string]*StageStats `json:"per_stage_statistics"`

	// Timeline is the journey-percent series, one point per entry with a
	// known stage and percent.
	Timeline []TimelinePoint `json:"overall_timeline"`

	// Breakthroughs lists every advancement event in date order.
	Breakthroughs []BreakthroughEvent `json:"breakthroughs"`

	// DailyRates contains strictly positive same-stage progress rates.
	DailyRates []RatePoint `json:"daily_rate_series"`

	// Efficiency holds per-stage efficiency metrics; stages without enough
	// forward-progress data are absent.
	Efficiency map[string]*Efficiency `json:"efficiency_by_stage"`

	// Prediction projects completion of the current stage; nil when the
	// recent rate is flat, negative, or based on fewer than two entries.
	Prediction *Prediction `json:"current_prediction,omitempty"`

	// GradeLevels groups grade-level observations per stage, buckets in
	// ascending level order.
	GradeLevels map[string][]GradeBucket `json:"grade_level_buckets_by_stage"`

	// Milestones is the hours-to-next-milestone series.
	Milestones []MilestonePoint `json:"milestone_hours_series"`
}

// Summary aggregates the whole tracked journey.
type Summary struct {
	TotalEntries        int      `json:"total_entries"`
	TotalDays           int      `json:"total_days"`
	StartDate           string   `json:"start_date"`
	LatestDate          string   `json:"latest_date"`
	CurrentStage        *string  `json:"current_stage"`
	CurrentStagePercent *float64 `json:"current_stage_percent"`
	CurrentGradeLevel   *int     `json:"current_grade_level"`
	CurrentGradePercent *float64 `json:"current_grade_percent"`
	TotalBreakthroughs  int      `json:"total_breakthroughs"`
	LatestBreakthrough  bool     `json:"latest_is_breakthrough"`

	// JourneyPercent normalizes progress across all stages to 0-100.
	JourneyPercent *float64 `json:"journey_percent"`
}

// StageStats describes one stage's tracked window.
type StageStats struct {
	StartDate     string  `json:"start_date,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	Days          int     `json:"days"`
	StartPercent  float64 `json:"start_percent"`
	EndPercent    float64 `json:"end_percent"`
	DailyRate     float64 `json:"daily_rate"`
	Entries       int     `json:"entries"`
	Completed     bool    `json:"completed"`
	Breakthroughs int     `json:"breakthroughs"`
}

// TimelinePoint is one journey-percent observation.
type TimelinePoint struct {
	Date           string   `json:"date"`
	JourneyPercent float64  `json:"journey_percent"`
	Stage          string   `json:"stage"`
	StagePercent   *float64 `json:"stage_percent"`
}

// BreakthroughEvent is one advancement event.
type BreakthroughEvent struct {
	Date          string   `json:"date"`
	Stage         *string  `json:"stage"`
	GradeLevel    *int     `json:"grade_level"`
	GradePercent  *float64 `json:"grade_percent"`
	NextMilestone *string  `json:"next_milestone"`
}

// RatePoint is one strictly positive daily progress rate.
type RatePoint struct {
	Date  string  `json:"date"`
	Rate  float64 `json:"rate"`
	Stage string  `json:"stage"`
}

// Efficiency captures how costly progress was within one stage.
type Efficiency struct {
	HoursPerPercent float64 `json:"hours_per_percent"`
	PercentPerDay   float64 `json:"percent_per_day"`
}

// Prediction projects completion of the current stage from its recent
// entry window.
type Prediction struct {
	Stage         string  `json:"stage"`
	CurrentRate   float64 `json:"current_rate"`
	DaysRemaining float64 `json:"days_remaining"`
	ProjectedDate string  `json:"projected_date"`
}

// GradeBucket holds all observations for one grade level within a stage.
type GradeBucket struct {
	Level        int                `json:"level"`
	Observations []GradeObservation `json:"observations"`
}

// GradeObservation is one dated look at a grade level.
type GradeObservation struct {
	Date         string   `json:"date"`
	Percent      *float64 `json:"percent"`
	Breakthrough bool     `json:"is_breakthrough"`
}

// MilestonePoint is one hours-to-next-milestone observation.
type MilestonePoint struct {
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Milestone *string `json:"milestone"`
	Stage     *string `json:"stage"`
}
