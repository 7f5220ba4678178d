package lexicon

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern keeps technology spellings such as c++, c#, node.js and
// scikit-learn in one token while dropping trailing sentence punctuation.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}+#]*(?:[.\-'][\p{L}\p{N}+#]+)*`)

type token struct {
	text  string
	lower string
}

func tokenize(s string) []token {
	matches := tokenPattern.FindAllString(s, -1)
	out := make([]token, 0, len(matches))
	for _, m := range matches {
		out = append(out, token{text: m, lower: Fold(m)})
	}
	return out
}

func joinTokens(toks []token, lower bool) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		if lower {
			parts[i] = t.lower
		} else {
			parts[i] = t.text
		}
	}
	return strings.Join(parts, " ")
}

// Fold lowercases s and strips diacritics.
func Fold(s string) string {
	// transform chains carry state and must not be shared between goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// NormalizePhrase folds s and re-joins its tokens with single spaces, so that
// "CI/CD", "ci cd" and " Ci / Cd " compare equal.
func NormalizePhrase(s string) string {
	return joinTokens(tokenize(s), true)
}
