package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/spigell/resume-analyzer/internal/nlp"
)

func TestWeightsSumToMax(t *testing.T) {
	t.Parallel()

	if got := SkillsWeight + QuantificationWeight + StructureWeight + DensityWeight; got != MaxScore {
		t.Fatalf("weights sum to %d, want %d", got, MaxScore)
	}
}

func TestScoreScenario(t *testing.T) {
	t.Parallel()

	first := "Developed a payment platform using Python and React, increasing conversion by 20%."
	second := "Led a team of 5 engineers."
	doc := &nlp.Document{Sentences: []string{first, second}, Words: 20}

	b, score := Score(doc, []string{"Python", "React"}, []string{first, second})

	if score != 72 {
		t.Fatalf("score = %d, want 72 (breakdown %+v)", score, b)
	}
	if b.QuantifiedCount != 2 {
		t.Fatalf("quantified = %d, want 2", b.QuantifiedCount)
	}
	if b.Density.Fraction() != 1 {
		t.Fatalf("density fraction = %v, want 1", b.Density.Fraction())
	}
}

func TestScoreWeakInput(t *testing.T) {
	t.Parallel()

	doc := &nlp.Document{Sentences: []string{"I like computers."}, Words: 3}
	b, score := Score(doc, nil, nil)

	if score != 2 {
		t.Fatalf("score = %d, want 2", score)
	}
	if b.Quantification.Points != 0 || b.Density.Points != 0 || b.Skills.Points != 0 {
		t.Fatalf("unexpected points: %+v", b)
	}
}

func TestScoreCeilingWithoutEntities(t *testing.T) {
	t.Parallel()

	doc := &nlp.Document{
		Sentences: []string{"One.", "Two."},
		Headers:   []string{"experience", "education", "skills", "summary"},
		Words:     400,
	}
	_, score := Score(doc, nil, nil)

	if score != StructureWeight {
		t.Fatalf("score = %d, want %d", score, StructureWeight)
	}
}

func TestScoreFull(t *testing.T) {
	t.Parallel()

	skills := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	exp := []string{"Cut costs by 30%.", "Grew revenue 2x."}
	doc := &nlp.Document{
		Sentences: exp,
		Headers:   []string{"experience", "education", "skills"},
		Words:     300,
	}
	b, score := Score(doc, skills, exp)

	if score != MaxScore {
		t.Fatalf("score = %d, want %d (breakdown %+v)", score, MaxScore, b)
	}
}

func TestQuantificationMonotonic(t *testing.T) {
	t.Parallel()

	base := []string{"Led the migration.", "Improved onboarding docs.", "Reduced latency by 40%."}
	doc := &nlp.Document{Sentences: base, Words: 12}

	before, _ := Score(doc, nil, base)

	extra := append(append([]string(nil), base...), "Saved $20k per year.")
	doc.Sentences = extra
	after, _ := Score(doc, nil, extra)

	if after.Quantification.Points < before.Quantification.Points {
		t.Fatalf("quantification decreased: %v -> %v", before.Quantification.Points, after.Quantification.Points)
	}
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	many := strings.Split(strings.Repeat("x ", 40), " ")
	docs := []*nlp.Document{
		{},
		{Sentences: []string{"a"}, Words: 1},
		{Sentences: many, Headers: many, Words: 5000},
	}

	for _, doc := range docs {
		_, score := Score(doc, many, many)
		if score < 0 || score > MaxScore {
			t.Fatalf("score %d out of range", score)
		}
	}
}

func TestLengthFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		words int
		want  float64
	}{
		{0, 0.3},
		{49, 0.3},
		{50, 0.6},
		{149, 0.6},
		{150, 1},
		{1000, 1},
		{1001, 0.6},
		{1500, 0.6},
		{1501, 0.3},
	}

	for _, tt := range tests {
		if got := LengthFactor(tt.words); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LengthFactor(%d) = %v, want %v", tt.words, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	for in, want := range map[int]int{-5: 0, 0: 0, 42: 42, 100: 100, 140: 100} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
