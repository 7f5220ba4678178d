package feedback

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/nlp"
	"github.com/spigell/resume-analyzer/internal/scoring"
)

// Input is everything a rule may look at.
type Input struct {
	Breakdown   scoring.Breakdown
	Score       int
	Skills      []string
	Experiences []string
	Document    *nlp.Document

	// Position is the resolved target position. KnownPosition is false when
	// the label was absent or unknown and Position is the generic set.
	Position      lexicon.Position
	KnownPosition bool

	// Filled by the Generator.
	Generic     lexicon.Position
	WeakPhrases int
	ActionVerbs int
	MaxMissing  int
}

// Rule is one recommendation, emitted when Applies holds.
type Rule struct {
	Name        string
	Description string
	Applies     func(Input) bool
	Message     func(Input) string
}

// Rule names.
const (
	RuleSkillCount        = "skill-count"
	RuleQuantification    = "quantification"
	RuleExperienceDensity = "experience-density"
	RuleWeakVerbs         = "weak-verbs"
	RuleStructure         = "structure"
	RuleSummary           = "summary"
	RulePositionSkills    = "position-skills"
)

// Thresholds on sub-score fractions below which a rule fires.
const (
	skillThreshold          = 0.75
	quantificationThreshold = 0.5
	densityThreshold        = 0.5
	structureThreshold      = 0.5
)

var fallback = []string{ //nolint:gochecknoglobals
	"Review your resume for typos and grammatical errors.",
	"Ensure consistent formatting throughout the document.",
	"Tailor your resume for each job application.",
}

var coreSections = []string{"experience", "education", "skills"} //nolint:gochecknoglobals

var summaryKeyword = regexp.MustCompile(`\b(?:summary|objective|profile)\b`)

// defaultRules is evaluated top to bottom. Callers get copies.
var defaultRules = []Rule{ //nolint:gochecknoglobals
	{
		Name:        RuleSkillCount,
		Description: "few skills were found",
		Applies: func(in Input) bool {
			return in.Breakdown.Skills.Fraction() < skillThreshold
		},
		Message: func(in Input) string {
			missing := MissingSkills(in.Generic.Skills, in.Skills, in.MaxMissing)
			if len(missing) == 0 {
				return "Add more technical skills and certifications relevant to your field."
			}
			return fmt.Sprintf("Add more technical skills and certifications relevant to your field, for example: %s.",
				strings.Join(missing, ", "))
		},
	},
	{
		Name:        RuleQuantification,
		Description: "less than half of the achievements carry a metric",
		Applies: func(in Input) bool {
			return in.Breakdown.Quantification.Fraction() < quantificationThreshold
		},
		Message: func(Input) string {
			return "Include more quantifiable achievements with specific metrics (e.g., 'Increased sales by 25%')."
		},
	},
	{
		Name:        RuleExperienceDensity,
		Description: "few sentences describe accomplishments",
		Applies: func(in Input) bool {
			return in.Breakdown.Density.Fraction() < densityThreshold
		},
		Message: func(Input) string {
			return "Describe more of your experience as accomplishments: start with an action verb and state what you delivered."
		},
	},
	{
		Name:        RuleWeakVerbs,
		Description: "weak phrases outnumber action verbs",
		Applies: func(in Input) bool {
			return in.WeakPhrases > 0 && in.WeakPhrases > in.ActionVerbs
		},
		Message: func(Input) string {
			return "Use stronger action verbs to describe your accomplishments (e.g., 'Led' instead of 'Helped')."
		},
	},
	{
		Name:        RuleStructure,
		Description: "section headers are missing or the length is off",
		Applies: func(in Input) bool {
			return in.Breakdown.Structure.Fraction() < structureThreshold
		},
		Message: func(in Input) string {
			var missing []string
			for _, s := range coreSections {
				if in.Document == nil || !in.Document.HasHeader(s) {
					missing = append(missing, titleCase(s))
				}
			}
			if len(missing) == 0 {
				return "Keep your resume between one and two pages of focused content."
			}
			return fmt.Sprintf("Organize your resume into clearly labeled sections: %s.", strings.Join(missing, ", "))
		},
	},
	{
		Name:        RuleSummary,
		Description: "no professional summary or objective",
		Applies: func(in Input) bool {
			if in.Document == nil {
				return true
			}
			return !in.Document.HasHeader("summary") && !summaryKeyword.MatchString(in.Document.Flat)
		},
		Message: func(Input) string {
			return "Add a professional summary or objective at the beginning of your resume."
		},
	},
	{
		Name:        RulePositionSkills,
		Description: "skills expected for the target position are missing",
		Applies: func(in Input) bool {
			return in.KnownPosition && len(MissingSkills(in.Position.Skills, in.Skills, in.MaxMissing)) > 0
		},
		Message: func(in Input) string {
			return fmt.Sprintf("Consider adding these skills relevant to %s: %s.",
				in.Position.Title, strings.Join(MissingSkills(in.Position.Skills, in.Skills, in.MaxMissing), ", "))
		},
	},
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// Fallback returns the recommendations used when no rule fires.
func Fallback() []string {
	return append([]string(nil), fallback...)
}

// MissingSkills returns up to limit reference skills not present in have,
// in reference order. Comparison ignores case and diacritics. A limit of
// zero or less means no limit.
func MissingSkills(reference, have []string, limit int) []string {
	present := make(map[string]struct{}, len(have))
	for _, s := range have {
		present[lexicon.Fold(s)] = struct{}{}
	}

	var out []string
	for _, s := range reference {
		if _, ok := present[lexicon.Fold(s)]; ok {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
