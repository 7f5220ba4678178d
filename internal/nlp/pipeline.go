// Package nlp normalizes resume text and wraps the linguistic pipeline used
// for sentence segmentation, part-of-speech tagging and entity recognition.
package nlp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Token is a word with its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// Entity is a recognized named-entity span.
type Entity struct {
	Text  string
	Label string
}

// Annotation is the linguistic analysis of one sentence.
type Annotation struct {
	Tokens   []Token
	Entities []Entity
}

// Segmenter splits a block of text into sentences.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// Annotator tags a single sentence.
type Annotator interface {
	Annotate(sentence string) (Annotation, error)
}

const warmupSentence = "Developed a billing service at Google with Python, cutting costs by 20%."

// Pipeline runs prose models. The models are loaded once by NewPipeline and
// only read afterwards, so a Pipeline may be shared between goroutines.
type Pipeline struct {
	model     *prose.Model
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPipeline loads the model stored in modelDir, or uses the built-in prose
// model when modelDir is empty, and checks that it can annotate a sentence.
func NewPipeline(modelDir string) (p *Pipeline, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("loading nlp model %q: %v", modelDir, r)
		}
	}()

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading sentence tokenizer: %w", err)
	}

	var opts []prose.DocOpt
	if dir := strings.TrimSpace(modelDir); dir != "" {
		opts = append(opts, prose.UsingModel(prose.ModelFromDisk(dir)))
	}

	// The built-in model is decoded here once and reused by every call.
	doc, err := prose.NewDocument(warmupSentence, opts...)
	if err != nil {
		return nil, fmt.Errorf("warming up nlp model: %w", err)
	}
	if doc.Model == nil {
		return nil, errors.New("warming up nlp model: no model loaded")
	}
	if len(doc.Tokens()) == 0 {
		return nil, errors.New("warming up nlp model: no tokens produced")
	}

	return &Pipeline{model: doc.Model, tokenizer: tokenizer}, nil
}

// Segment splits text into sentences with the punkt segmenter, which knows
// about abbreviations such as "B.S." and "e.g.".
func (p *Pipeline) Segment(text string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("segmenting text: %v", r)
		}
	}()

	for _, s := range p.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out, nil
}

// Annotate tags tokens and extracts entities from one sentence.
func (p *Pipeline) Annotate(sentence string) (ann Annotation, err error) {
	defer func() {
		if r := recover(); r != nil {
			ann, err = Annotation{}, fmt.Errorf("annotating sentence: %v", r)
		}
	}()

	doc, err := prose.NewDocument(sentence,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return Annotation{}, fmt.Errorf("annotating sentence: %w", err)
	}

	for _, tok := range doc.Tokens() {
		ann.Tokens = append(ann.Tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	for _, ent := range doc.Entities() {
		ann.Entities = append(ann.Entities, Entity{Text: ent.Text, Label: ent.Label})
	}

	return ann, nil
}
