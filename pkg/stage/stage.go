// Package stage defines the fixed, ordered progression stages and their
// canonical names. All stage comparisons elsewhere in the codebase go
// through this enumeration rather than raw string matching.
package stage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage is one of the six ordered realm/phase combinations.
type Stage int

const (
	CelestialEarly Stage = iota
	CelestialMiddle
	CelestialLate
	EternalEarly
	EternalMiddle
	EternalLate
)

// Count is the number of stages in the progression.
const Count = 6

var names = [Count]string{
	"Celestial Early",
	"Celestial Middle",
	"Celestial Late",
	"Eternal Early",
	"Eternal Middle",
	"Eternal Late",
}

// Chart palette, one color per stage.
var colors = [Count]string{
	"#60a5fa",
	"#34d399",
	"#fbbf24",
	"#f87171",
	"#a78bfa",
	"#2dd4bf",
}

var titleCaser = cases.Title(language.English)

// String returns the canonical stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= Count {
		return "unknown"
	}
	return names[s]
}

// Index returns the 0-based position in the fixed stage ordering.
func (s Stage) Index() int {
	return int(s)
}

// Color returns the display color associated with the stage.
func (s Stage) Color() string {
	if s < 0 || int(s) >= Count {
		return ""
	}
	return colors[s]
}

// All returns every stage in progression order.
func All() []Stage {
	return []Stage{
		CelestialEarly, CelestialMiddle, CelestialLate,
		EternalEarly, EternalMiddle, EternalLate,
	}
}

// Names returns the canonical stage names in progression order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Colors returns the canonical name to color mapping.
func Colors() map[string]string {
	out := make(map[string]string, Count)
	for i, name := range names {
		out[name] = colors[i]
	}
	return out
}

// FromName looks up a stage by its canonical name.
func FromName(name string) (Stage, bool) {
	for i, n := range names {
		if n == name {
			return Stage(i), true
		}
	}
	return -1, false
}

// Later reports whether s comes strictly after other in the progression.
func (s Stage) Later(other Stage) bool {
	return s.Index() > other.Index()
}

// Normalize canonicalizes a raw realm/phase token pair extracted from log
// text. The realm token tolerates truncations and typos: anything starting
// with "celesti" (e.g. "Celesital") maps to Celestial, the exact token
// "eternal" maps to Eternal. The phase must be Early, Middle or Late,
// case-insensitive. Returns the canonical "<Realm> <Phase>" name.
func Normalize(realm, phase string) (string, bool) {
	var canonical string
	switch {
	case strings.HasPrefix(strings.ToLower(realm), "celesti"):
		canonical = "Celestial"
	case strings.EqualFold(realm, "eternal"):
		canonical = "Eternal"
	default:
		return "", false
	}

	switch strings.ToLower(phase) {
	case "early", "middle", "late":
		return canonical + " " + titleCaser.String(strings.ToLower(phase)), true
	}
	return "", false
}
