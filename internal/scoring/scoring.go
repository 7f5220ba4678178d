// Package scoring applies the fixed resume rubric.
package scoring

import (
	"math"

	"github.com/spigell/resume-analyzer/internal/nlp"
)

// Rubric weights. They sum to MaxScore.
const (
	SkillsWeight         = 20
	QuantificationWeight = 30
	StructureWeight      = 20
	DensityWeight        = 30

	MaxScore = 100
)

const (
	skillTarget   = 8
	headerTarget  = 3
	densityTarget = 0.5

	headerShare = 0.6
	lengthShare = 0.4
)

// SubScore is one rubric item.
type SubScore struct {
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
}

// Fraction returns Points relative to Max.
func (s SubScore) Fraction() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Points / s.Max
}

// Breakdown holds the rubric items and the counts they were computed from.
type Breakdown struct {
	Skills         SubScore `json:"skills"`
	Quantification SubScore `json:"quantification"`
	Structure      SubScore `json:"structure"`
	Density        SubScore `json:"experience_density"`

	SkillCount      int      `json:"skill_count"`
	ExperienceCount int      `json:"experience_count"`
	QuantifiedCount int      `json:"quantified_count"`
	SentenceCount   int      `json:"sentence_count"`
	Words           int      `json:"words"`
	Headers         []string `json:"headers"`
}

// Total is the unrounded sum of all items.
func (b Breakdown) Total() float64 {
	return b.Skills.Points + b.Quantification.Points + b.Structure.Points + b.Density.Points
}

// Score computes the breakdown and the final score in [0, MaxScore].
// The result depends only on its arguments.
func Score(doc *nlp.Document, skills, experiences []string) (Breakdown, int) {
	quantified := 0
	for _, e := range experiences {
		if nlp.HasQuantifier(e) {
			quantified++
		}
	}

	b := Breakdown{
		SkillCount:      len(skills),
		ExperienceCount: len(experiences),
		QuantifiedCount: quantified,
		SentenceCount:   len(doc.Sentences),
		Words:           doc.Words,
		Headers:         append([]string(nil), doc.Headers...),
	}

	b.Skills = SubScore{
		Points: SkillsWeight * math.Sqrt(math.Min(float64(len(skills))/skillTarget, 1)),
		Max:    SkillsWeight,
	}

	b.Quantification = SubScore{Max: QuantificationWeight}
	if len(experiences) > 0 {
		b.Quantification.Points = QuantificationWeight * float64(quantified) / float64(len(experiences))
	}

	headers := math.Min(float64(len(doc.Headers))/headerTarget, 1)
	b.Structure = SubScore{
		Points: StructureWeight * (headerShare*headers + lengthShare*LengthFactor(doc.Words)),
		Max:    StructureWeight,
	}

	b.Density = SubScore{Max: DensityWeight}
	if len(doc.Sentences) > 0 {
		ratio := float64(len(experiences)) / float64(len(doc.Sentences))
		b.Density.Points = DensityWeight * math.Min(ratio/densityTarget, 1)
	}

	return b, Clamp(int(math.Round(b.Total())))
}

// LengthFactor rates the resume length in words.
func LengthFactor(words int) float64 {
	switch {
	case words >= 150 && words <= 1000:
		return 1
	case words >= 50 && words <= 1500:
		return 0.6
	default:
		return 0.3
	}
}

// Clamp bounds a score to [0, MaxScore].
func Clamp(score int) int {
	return max(0, min(score, MaxScore))
}
