// Package feedback turns a scored resume into a feedback paragraph and an
// ordered list of recommendations.
package feedback

import "github.com/spigell/resume-analyzer/internal/scoring"

// Band is a score range with its feedback message. Min and Max are inclusive.
type Band struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Message string `json:"message"`
}

// Band names.
const (
	BandExcellent        = "excellent"
	BandGood             = "good"
	BandNeedsImprovement = "needs-improvement"
	BandWeak             = "weak"
)

// bands are ordered from the highest range down and cover [0, MaxScore].
var bands = []Band{ //nolint:gochecknoglobals
	{Name: BandExcellent, Min: 85, Max: scoring.MaxScore, Message: "Excellent resume! Well-structured and comprehensive."},
	{Name: BandGood, Min: 70, Max: 84, Message: "Good resume with some room for improvement."},
	{Name: BandNeedsImprovement, Min: 50, Max: 69, Message: "Fair resume, but needs significant improvements."},
	{Name: BandWeak, Min: 0, Max: 49, Message: "Needs substantial improvements to be competitive."},
}

// Bands returns a copy of the band table.
func Bands() []Band {
	return append([]Band(nil), bands...)
}

// BandFor returns the band containing score. Out-of-range scores are clamped first.
func BandFor(score int) Band {
	score = scoring.Clamp(score)
	for _, b := range bands {
		if score >= b.Min {
			return b
		}
	}
	return bands[len(bands)-1]
}
