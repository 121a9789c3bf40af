package reassign

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the scoring policy knobs. The ranking algorithm never
// sees the literals: skill fit is a bonus per matched skill,
// utilization and meeting load are penalties.
//
//	score = SkillMatch*matches - Utilization*utilization_pct - CalendarEvent*event_count
type Weights struct {
	SkillMatch    float64 `yaml:"skill_match"`
	Utilization   float64 `yaml:"utilization"`
	CalendarEvent float64 `yaml:"calendar_event"`
}

// DefaultWeights returns the shipped policy: skill fit dominates.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:    15,
		Utilization:   1,
		CalendarEvent: 3,
	}
}

// LoadWeights reads a YAML weights file. Fields left at zero fall back
// to their defaults, so a file may override a single knob.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights file: %w", err)
	}

	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("parse weights file: %w", err)
	}

	defaults := DefaultWeights()
	if w.SkillMatch == 0 {
		w.SkillMatch = defaults.SkillMatch
	}
	if w.Utilization == 0 {
		w.Utilization = defaults.Utilization
	}
	if w.CalendarEvent == 0 {
		w.CalendarEvent = defaults.CalendarEvent
	}
	return w, nil
}
