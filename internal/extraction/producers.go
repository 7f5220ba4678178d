package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/nlp"
)

const maxChunkTokens = 4

// EntityOptions controls the entity producer.
type EntityOptions struct {
	// Labels lists the entity labels accepted as skills, e.g. ORG or PRODUCT.
	Labels []string
	// ProperNounChunks also proposes runs of capitalized proper nouns that the
	// model did not label, skipping the first token of each sentence.
	ProperNounChunks bool
}

// blockingLabels mark spans that are never skills.
var blockingLabels = map[string]struct{}{ //nolint:gochecknoglobals
	"PERSON": {},
	"GPE":    {},
}

// LexiconSkills matches every sentence against the lexicon. annotations run
// parallel to sentences and may be shorter or empty.
func LexiconSkills(lex *lexicon.Lexicon, sentences []string, annotations []nlp.Annotation, opts lexicon.MatchOptions) []Candidate {
	var out []Candidate
	for i, s := range sentences {
		var ann nlp.Annotation
		if i < len(annotations) {
			ann = annotations[i]
		}
		for _, m := range lex.Match(s, opts) {
			if verbAtStart(m, ann) {
				continue
			}
			out = append(out, Candidate{Text: m.Skill, Source: SourceLexicon, Canonical: true})
		}
	}
	return out
}

// verbAtStart reports an exact-case hit on the first word that the tagger
// read as a verb, as in "Go to the docs".
func verbAtStart(m lexicon.Match, ann nlp.Annotation) bool {
	if !m.ExactCase || m.Index != 0 || strings.Contains(m.Text, " ") || len(ann.Tokens) == 0 {
		return false
	}
	first := ann.Tokens[0]
	return first.Text == m.Text && strings.HasPrefix(first.Tag, "VB")
}

// EntitySkills proposes skills from recognized entities and proper-noun runs.
// Spans that are too short, have no letters, are stopwords, contain an
// entity stopword or overlap a person or place are rejected.
func EntitySkills(lex *lexicon.Lexicon, annotations []nlp.Annotation, opts EntityOptions) []Candidate {
	labels := make(map[string]struct{}, len(opts.Labels))
	for _, l := range opts.Labels {
		labels[strings.ToUpper(strings.TrimSpace(l))] = struct{}{}
	}

	var out []Candidate
	for _, ann := range annotations {
		var blocked []string
		for _, ent := range ann.Entities {
			if _, ok := blockingLabels[ent.Label]; ok {
				blocked = append(blocked, strings.ToLower(ent.Text))
			}
		}

		var spans []string
		for _, ent := range ann.Entities {
			if _, ok := labels[ent.Label]; ok {
				spans = append(spans, ent.Text)
			}
		}
		if opts.ProperNounChunks {
			spans = append(spans, properNounChunks(ann.Tokens)...)
		}

		for _, span := range spans {
			if c, ok := entityCandidate(lex, span, blocked); ok {
				out = append(out, c)
			}
		}
	}

	return out
}

func entityCandidate(lex *lexicon.Lexicon, span string, blocked []string) (Candidate, bool) {
	span = strings.Join(strings.Fields(span), " ")
	if utf8.RuneCountInString(span) < 2 || strings.IndexFunc(span, unicode.IsLetter) < 0 {
		return Candidate{}, false
	}

	lower := strings.ToLower(span)
	if lex.IsStopword(lower) {
		return Candidate{}, false
	}
	for _, word := range strings.Fields(lower) {
		if lex.IsEntityStopword(strings.Trim(word, ",;:()")) {
			return Candidate{}, false
		}
	}
	for _, b := range blocked {
		if strings.Contains(b, lower) || strings.Contains(lower, b) {
			return Candidate{}, false
		}
	}

	if canonical, ok := lex.Lookup(span); ok {
		return Candidate{Text: canonical, Source: SourceEntity, Canonical: true}, true
	}
	// Spans that merely contain a known skill are left to the lexicon producer.
	if len(lex.Match(span, lexicon.MatchOptions{})) > 0 {
		return Candidate{}, false
	}

	return Candidate{Text: span, Source: SourceEntity}, true
}

func properNounChunks(tokens []nlp.Token) []string {
	var (
		out []string
		run []string
	)

	emit := func() {
		if len(run) > 0 && len(run) <= maxChunkTokens {
			out = append(out, strings.Join(run, " "))
		}
		run = run[:0]
	}

	for i, tok := range tokens {
		if i > 0 && (tok.Tag == "NNP" || tok.Tag == "NNPS") && startsUpper(tok.Text) {
			run = append(run, tok.Text)
			continue
		}
		emit()
	}
	emit()

	return out
}

// startsUpper guards against the tagger labelling unknown lowercase words,
// common in non-English text, as proper nouns.
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
