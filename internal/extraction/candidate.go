// Package extraction turns normalized resume sentences into skills and
// experience highlights. Skills come from two independent producers, lexicon
// matching and entity recognition, merged by Merge.
package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/resume-analyzer/internal/lexicon"
)

// Source tells which producer emitted a candidate.
type Source string

const (
	SourceLexicon Source = "lexicon"
	SourceEntity  Source = "entity"
)

// Candidate is a skill proposed by a producer. Canonical candidates already
// carry their display form.
type Candidate struct {
	Text      string
	Source    Source
	Canonical bool
}

// Merge canonicalizes candidates and drops case- and accent-insensitive
// duplicates, keeping the first occurrence. Groups are consumed in order.
func Merge(groups ...[]Candidate) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, group := range groups {
		for _, c := range group {
			display := Display(c)
			if display == "" {
				continue
			}

			key := dedupKey(display)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, display)
		}
	}

	return out
}

// Display returns the form a candidate is reported under. Free-form spans
// keep their casing when they have any capital letter and are title-cased
// otherwise.
func Display(c Candidate) string {
	text := strings.Join(strings.Fields(c.Text), " ")
	if c.Canonical {
		return text
	}

	text = strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '#')
	})
	if text == "" {
		return ""
	}

	if strings.IndexFunc(text, unicode.IsUpper) >= 0 {
		return text
	}

	// Casers are stateful and not safe for concurrent use.
	return cases.Title(language.English).String(text)
}

func dedupKey(display string) string {
	return strings.Join(strings.Fields(lexicon.Fold(display)), " ")
}
