package extraction

import (
	"strings"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/nlp"
)

// Experiences keeps the sentences that read as accomplishments: an action
// verb followed by an object, or any quantifier. annotations[i] belongs to
// sentences[i].
func Experiences(lex *lexicon.Lexicon, sentences []string, annotations []nlp.Annotation) []string {
	out := make([]string, 0)
	for i, s := range sentences {
		if i >= len(annotations) {
			break
		}
		if IsAccomplishment(lex, s, annotations[i]) {
			out = append(out, s)
		}
	}
	return out
}

// IsAccomplishment applies the experience rule to one annotated sentence.
// Taggers often mislabel a capitalized leading verb, so the first token only
// needs to be an action verb form.
func IsAccomplishment(lex *lexicon.Lexicon, sentence string, ann nlp.Annotation) bool {
	verb := -1
	for i, tok := range ann.Tokens {
		if lex.IsActionVerb(tok.Text) && (i == 0 || strings.HasPrefix(tok.Tag, "VB")) {
			verb = i
			break
		}
	}
	if verb < 0 {
		return false
	}

	if nlp.HasQuantifier(sentence) {
		return true
	}

	for _, tok := range ann.Tokens[verb+1:] {
		if tok.Tag == "CD" || tok.Tag == "PRP" || strings.HasPrefix(tok.Tag, "NN") {
			return true
		}
	}

	return false
}
