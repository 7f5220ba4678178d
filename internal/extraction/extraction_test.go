package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/nlp"
)

func defaultLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()

	lex, err := lexicon.Default()
	require.NoError(t, err)
	return lex
}

func tagged(pairs ...string) []nlp.Token {
	toks := make([]nlp.Token, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		toks = append(toks, nlp.Token{Text: pairs[i], Tag: pairs[i+1]})
	}
	return toks
}

type fakeAnnotator map[string]nlp.Annotation

func (f fakeAnnotator) Annotate(sentence string) (nlp.Annotation, error) {
	ann, ok := f[sentence]
	if !ok {
		return nlp.Annotation{}, errors.New("no annotation")
	}
	return ann, nil
}

func TestMergeDeduplicatesCaseAndAccentInsensitively(t *testing.T) {
	t.Parallel()

	got := Merge(
		[]Candidate{
			{Text: "Python", Source: SourceLexicon, Canonical: true},
			{Text: "React", Source: SourceLexicon, Canonical: true},
		},
		[]Candidate{
			{Text: "python", Source: SourceEntity},
			{Text: "Résumé Builder", Source: SourceEntity},
			{Text: "resume builder", Source: SourceEntity},
			{Text: "  Stripe,  ", Source: SourceEntity},
			{Text: "...", Source: SourceEntity},
		},
	)

	assert.Equal(t, []string{"Python", "React", "Résumé Builder", "Stripe"}, got)
}

func TestMergeEmpty(t *testing.T) {
	t.Parallel()

	got := Merge()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Candidate
		want string
	}{
		{name: "canonical kept", in: Candidate{Text: ".NET", Canonical: true}, want: ".NET"},
		{name: "mixed case kept", in: Candidate{Text: "GitHub Actions"}, want: "GitHub Actions"},
		{name: "lowercase title cased", in: Candidate{Text: "apache  airflow"}, want: "Apache Airflow"},
		{name: "punctuation trimmed", in: Candidate{Text: "(Stripe)."}, want: "Stripe"},
		{name: "sharp kept", in: Candidate{Text: "F#"}, want: "F#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Display(tt.in))
		})
	}
}

func TestEntitySkillsFilters(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	annotations := []nlp.Annotation{
		{
			Tokens: tagged("Built", "VBN", "Stripe", "NNP", "integrations", "NNS", "for", "IN",
				"Acme", "NNP", "Corp", "NNP", "in", "IN", "Berlin", "NNP"),
			Entities: []nlp.Entity{
				{Text: "Berlin", Label: "GPE"},
				{Text: "Acme Corp", Label: "ORG"},
			},
		},
		{
			Tokens: tagged("Worked", "VBD", "with", "IN", "John", "NNP", "Smith", "NNP"),
			Entities: []nlp.Entity{
				{Text: "John Smith", Label: "PERSON"},
			},
		},
		{
			Tokens:   tagged("Senior", "NNP", "Software", "NNP", "Engineer", "NNP", "since", "IN", "January", "NNP"),
			Entities: []nlp.Entity{{Text: "X", Label: "ORG"}, {Text: "2020", Label: "ORG"}},
		},
	}

	got := EntitySkills(lex, annotations, EntityOptions{Labels: []string{"org", "PRODUCT"}, ProperNounChunks: true})

	var texts []string
	for _, c := range got {
		assert.Equal(t, SourceEntity, c.Source)
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"Acme Corp", "Stripe", "Acme Corp"}, texts)
}

func TestEntitySkillsCanonicalizesLexiconTerms(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	annotations := []nlp.Annotation{{
		Tokens: tagged("Deployed", "VBN", "K8s", "NNP", "and", "CC", "Python", "NNP", "Django", "NNP"),
	}}

	got := EntitySkills(lex, annotations, EntityOptions{ProperNounChunks: true})

	require.Len(t, got, 1)
	assert.Equal(t, Candidate{Text: "Kubernetes", Source: SourceEntity, Canonical: true}, got[0])
}

func TestEntitySkillsWithoutChunks(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	annotations := []nlp.Annotation{{Tokens: tagged("Used", "VBD", "Stripe", "NNP")}}

	assert.Empty(t, EntitySkills(lex, annotations, EntityOptions{Labels: []string{"ORG"}}))
}

func TestLexiconSkills(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	got := LexiconSkills(lex, []string{"Built services in Python.", "Shipped React apps with python3."}, nil, lexicon.MatchOptions{})

	var texts []string
	for _, c := range got {
		assert.True(t, c.Canonical)
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"Python", "React", "Python"}, texts)
}

func TestLexiconSkillsSkipsLeadingVerb(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)

	tests := []struct {
		name     string
		sentence string
		tokens   []nlp.Token
		want     []string
	}{
		{
			name:     "imperative go",
			sentence: "Go to https://x.io.",
			tokens:   tagged("Go", "VB", "to", "TO", "https://x.io", "NN", ".", "."),
			want:     nil,
		},
		{
			name:     "go as a noun",
			sentence: "Go and Python daily.",
			tokens:   tagged("Go", "NNP", "and", "CC", "Python", "NNP", "daily", "RB", ".", "."),
			want:     []string{"Go", "Python"},
		},
		{
			name:     "go later in the sentence",
			sentence: "Wrote services in Go.",
			tokens:   tagged("Wrote", "VBD", "services", "NNS", "in", "IN", "Go", "VB", ".", "."),
			want:     []string{"Go"},
		},
		{
			name:     "no annotation keeps the hit",
			sentence: "Go to https://x.io.",
			want:     []string{"Go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			annotations := []nlp.Annotation{{Tokens: tt.tokens}}
			var got []string
			for _, c := range LexiconSkills(lex, []string{tt.sentence}, annotations, lexicon.MatchOptions{}) {
				got = append(got, c.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntitySkillsIgnoresLowercaseProperNouns(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	annotations := []nlp.Annotation{{Tokens: tagged(
		"разработал", "NNP", "платформу", "NNP", "на", "NNP", "Python", "NNP", ",", ",",
		"увеличив", "NNP", "конверсию", "NNP",
	)}}

	var got []string
	for _, c := range EntitySkills(lex, annotations, EntityOptions{ProperNounChunks: true}) {
		got = append(got, c.Text)
	}
	assert.Equal(t, []string{"Python"}, got)
}

func TestIsAccomplishment(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)

	tests := []struct {
		name     string
		sentence string
		tokens   []nlp.Token
		want     bool
	}{
		{
			name:     "verb and object",
			sentence: "Developed a payment platform.",
			tokens:   tagged("Developed", "NNP", "a", "DT", "payment", "NN", "platform", "NN", ".", "."),
			want:     true,
		},
		{
			name:     "verb and quantifier",
			sentence: "Led a team of 5 engineers.",
			tokens:   tagged("Led", "VBN", "a", "DT", "team", "NN", "of", "IN", "5", "CD", "engineers", "NNS"),
			want:     true,
		},
		{
			name:     "pronoun subject",
			sentence: "I managed the budget.",
			tokens:   tagged("I", "PRP", "managed", "VBD", "the", "DT", "budget", "NN"),
			want:     true,
		},
		{
			name:     "no action verb",
			sentence: "I like computers.",
			tokens:   tagged("I", "PRP", "like", "VBP", "computers", "NNS", ".", "."),
			want:     false,
		},
		{
			name:     "action verb used as noun mid sentence",
			sentence: "The led display.",
			tokens:   tagged("The", "DT", "led", "JJ", "display", "NN"),
			want:     false,
		},
		{
			name:     "verb without object",
			sentence: "Improved.",
			tokens:   tagged("Improved", "VBN", ".", "."),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsAccomplishment(lex, tt.sentence, nlp.Annotation{Tokens: tt.tokens}))
		})
	}
}

func TestExtractorExtract(t *testing.T) {
	t.Parallel()

	lex := defaultLexicon(t)
	first := "Developed a payment platform using Python and React, increasing conversion by 20%."
	second := "Led a team of 5 engineers."
	third := "Enjoys hiking."

	annotator := fakeAnnotator{
		first: {Tokens: tagged("Developed", "VBD", "a", "DT", "payment", "NN", "platform", "NN",
			"using", "VBG", "Python", "NNP", "and", "CC", "React", "NNP", ",", ",",
			"increasing", "VBG", "conversion", "NN", "by", "IN", "20", "CD", "%", "NN", ".", ".")},
		second: {Tokens: tagged("Led", "VBN", "a", "DT", "team", "NN", "of", "IN", "5", "CD", "engineers", "NNS", ".", ".")},
	}

	ext := New(lex, annotator, Options{
		Entities: EntityOptions{Labels: []string{"ORG", "PRODUCT"}, ProperNounChunks: true},
	}, nil)

	got := ext.Extract(&nlp.Document{Sentences: []string{first, second, third}})

	assert.Equal(t, []string{"Python", "React"}, got.Skills)
	assert.Equal(t, []string{first, second}, got.Experiences)
}
