package lexicon

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchOptions tunes approximate matching. A zero FuzzyMaxDistance disables it.
type MatchOptions struct {
	FuzzyMinLength   int
	FuzzyMaxDistance int
}

// Match is one lexicon hit in a piece of text.
type Match struct {
	Skill string
	Text  string
	// Index is the position of the first matched token in the text.
	Index int
	Fuzzy bool
	// ExactCase is set when the hit came from an exact-case form.
	ExactCase bool
}

// Match finds lexicon skills in text, preferring the longest phrase at each
// position. Hyphenated tokens that match nothing as a whole are retried part
// by part so "Python-based" still yields Python.
func (l *Lexicon) Match(text string, opts MatchOptions) []Match {
	return l.matchTokens(tokenize(text), opts)
}

func (l *Lexicon) matchTokens(toks []token, opts MatchOptions) []Match {
	var out []Match
	for i := 0; i < len(toks); {
		if m, n, ok := l.matchAt(toks, i); ok {
			m.Index = i
			out = append(out, m)
			i += n
			continue
		}

		if strings.Contains(toks[i].text, "-") {
			for _, m := range l.matchTokens(tokenize(strings.ReplaceAll(toks[i].text, "-", " ")), opts) {
				m.Index = i
				out = append(out, m)
			}
			i++
			continue
		}

		if m, ok := l.fuzzyMatch(toks[i], opts); ok {
			m.Index = i
			out = append(out, m)
		}
		i++
	}
	return out
}

func (l *Lexicon) matchAt(toks []token, i int) (Match, int, bool) {
	longest := l.maxPhrase
	if rest := len(toks) - i; rest < longest {
		longest = rest
	}

	for n := longest; n >= 1; n-- {
		span := toks[i : i+n]
		surface := joinTokens(span, false)

		if idx, ok := l.exact[surface]; ok {
			return Match{Skill: l.skills[idx].Name, Text: surface, ExactCase: true}, n, true
		}
		if idx, ok := l.terms[joinTokens(span, true)]; ok {
			return Match{Skill: l.skills[idx].Name, Text: surface}, n, true
		}
	}

	return Match{}, 0, false
}

func (l *Lexicon) fuzzyMatch(t token, opts MatchOptions) (Match, bool) {
	if opts.FuzzyMaxDistance <= 0 {
		return Match{}, false
	}

	size := utf8.RuneCountInString(t.lower)
	if size < opts.FuzzyMinLength || l.IsStopword(t.lower) || l.IsActionVerb(t.lower) {
		return Match{}, false
	}

	best, bestDist := -1, opts.FuzzyMaxDistance+1
	for i, ft := range l.fuzzy {
		termSize := utf8.RuneCountInString(ft.term)
		if termSize < opts.FuzzyMinLength || abs(termSize-size) > opts.FuzzyMaxDistance {
			continue
		}
		if d := levenshtein.ComputeDistance(t.lower, ft.term); d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		return Match{}, false
	}

	return Match{Skill: l.skills[l.fuzzy[best].skill].Name, Text: t.text, Fuzzy: true}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
