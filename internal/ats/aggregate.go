package ats

import (
	"fmt"
	"math"
)

// Default section weights.
const (
	DefaultSkillsWeight     = 0.60
	DefaultExperienceWeight = 0.25
	DefaultTitleWeight      = 0.15
)

// weightTolerance absorbs float error when checking that weights sum to 1.
const weightTolerance = 1e-9

// Weights blends the three section scores into the final score.
type Weights struct {
	Skills     float64 `json:"skills" mapstructure:"skills"`
	Experience float64 `json:"experience" mapstructure:"experience"`
	Title      float64 `json:"title" mapstructure:"title"`
}

// DefaultWeights returns the 60/25/15 split.
func DefaultWeights() Weights {
	return Weights{
		Skills:     DefaultSkillsWeight,
		Experience: DefaultExperienceWeight,
		Title:      DefaultTitleWeight,
	}
}

// Validate checks that no weight is negative and that they sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"skills": w.Skills, "experience": w.Experience, "title": w.Title} {
		if v < 0 || math.IsNaN(v) {
			return &ConfigError{Field: "weights." + name, Message: fmt.Sprintf("must be non-negative, got %v", v)}
		}
	}
	if sum := w.Skills + w.Experience + w.Title; math.Abs(sum-1) > weightTolerance {
		return &ConfigError{Field: "weights", Message: fmt.Sprintf("must sum to 1.0, got %v", sum)}
	}
	return nil
}

// Aggregate returns the weighted sum of the section scores clamped to
// [0, 100] and rounded half-up to two decimals.
func (w Weights) Aggregate(skills, experience, title float64) float64 {
	total := skills*w.Skills + experience*w.Experience + title*w.Title
	return roundHalfUp(clamp(total, 0, 100), 2)
}

func roundHalfUp(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	// The small epsilon keeps values like 72.125 from rounding down because
	// of their binary representation.
	return math.Floor(v*scale+0.5+1e-9) / scale
}
