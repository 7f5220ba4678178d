package feedback

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/nlp"
)

const (
	shortResumeWords = 150
	longResumeWords  = 1000
	minPhoneDigits   = 10

	// DefaultMaxMissing caps the skills named by a single recommendation.
	DefaultMaxMissing = 3
)

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{7,}\d`)
)

// Options configures a Generator.
type Options struct {
	// MaxMissing caps listed missing skills. Zero means DefaultMaxMissing.
	MaxMissing int
	// DisabledRules names rules that never fire.
	DisabledRules []string
}

// Status reports a rule for display.
type Status struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description"`
}

type entry struct {
	rule    Rule
	enabled bool
	reason  string
}

// Generator evaluates a private copy of the rule table. It is read-only
// after construction and safe for concurrent use.
type Generator struct {
	lex        *lexicon.Lexicon
	entries    []*entry
	maxMissing int
	logger     *zap.Logger
}

// NewGenerator builds a Generator over the default rules.
func NewGenerator(lex *lexicon.Lexicon, opts Options, log *zap.Logger) (*Generator, error) {
	return NewGeneratorWithRules(lex, DefaultRules(), opts, log)
}

// NewGeneratorWithRules builds a Generator over a custom rule table.
func NewGeneratorWithRules(lex *lexicon.Lexicon, rules []Rule, opts Options, log *zap.Logger) (*Generator, error) {
	if lex == nil {
		return nil, fmt.Errorf("lexicon is required")
	}

	g := &Generator{
		lex:        lex,
		maxMissing: opts.MaxMissing,
		logger:     logger.OrNop(log),
	}
	if g.maxMissing <= 0 {
		g.maxMissing = DefaultMaxMissing
	}

	for _, r := range rules {
		g.entries = append(g.entries, &entry{rule: r, enabled: true})
	}

	for _, name := range opts.DisabledRules {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !disableByName(g.entries, name, "disabled in configuration") {
			return nil, fmt.Errorf("unknown feedback rule %q", name)
		}
	}

	return g, nil
}

// disableByName marks a rule as disabled while keeping it in the list.
func disableByName(entries []*entry, name, reason string) bool {
	found := false
	for _, e := range entries {
		if e.rule.Name == name {
			e.enabled = false
			e.reason = reason
			found = true
		}
	}
	return found
}

// Describe returns status entries for the rules in evaluation order.
func (g *Generator) Describe() []Status {
	statuses := make([]Status, 0, len(g.entries))
	for _, e := range g.entries {
		statuses = append(statuses, Status{
			Name:        e.rule.Name,
			Enabled:     e.enabled,
			Reason:      e.reason,
			Description: e.rule.Description,
		})
	}
	return statuses
}

// Generate returns the feedback paragraph and recommendations for in.
func (g *Generator) Generate(in Input) (string, []string) {
	in.Generic = g.lex.Generic()
	in.MaxMissing = g.maxMissing
	if in.Document != nil {
		in.WeakPhrases = g.lex.WeakPhraseCount(in.Document.Flat)
		in.ActionVerbs = g.lex.ActionVerbCount(in.Document.Flat)
	}

	return g.feedback(in), g.recommendations(in)
}

func (g *Generator) feedback(in Input) string {
	parts := []string{BandFor(in.Score).Message}

	words := in.Breakdown.Words
	switch {
	case words < shortResumeWords:
		parts = append(parts, "Consider adding more content to showcase your experience.")
	case words > longResumeWords:
		parts = append(parts, "Consider shortening your resume to make it more concise.")
	}

	if !HasContact(in.Document) {
		parts = append(parts, "Make sure your contact information is clearly visible.")
	}

	return strings.Join(parts, " ")
}

func (g *Generator) recommendations(in Input) []string {
	out := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		if !e.enabled || !e.rule.Applies(in) {
			continue
		}
		out = append(out, e.rule.Message(in))
		g.logger.Debug("feedback rule fired", zap.String("rule", e.rule.Name))
	}

	if len(out) == 0 {
		out = append(out, fallback...)
	}

	return out
}

// HasContact reports whether the document shows an email address or a
// phone number.
func HasContact(doc *nlp.Document) bool {
	if doc == nil {
		return false
	}
	if emailPattern.MatchString(doc.Flat) {
		return true
	}
	// Year ranges look like phone numbers; real numbers carry more digits.
	for _, candidate := range phonePattern.FindAllString(doc.Flat, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits {
			return true
		}
	}
	return false
}
