// Package analyzer is the resume analysis engine. A Context is built once at
// startup and shared by every request.
package analyzer

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/extraction"
	"github.com/spigell/resume-analyzer/internal/feedback"
	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/nlp"
	"github.com/spigell/resume-analyzer/internal/scoring"
)

// Options configures a Context.
type Options struct {
	// LexiconFile replaces the embedded lexicon when set.
	LexiconFile string
	// ModelDir points to a prose model on disk. Empty means the built-in model.
	ModelDir string

	EntityLabels     []string
	ProperNounChunks bool

	MinWords         int
	FuzzyMinLength   int
	FuzzyMaxDistance int
	MaxMissingSkills int

	DisabledRules []string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		EntityLabels:     []string{"ORG", "PRODUCT"},
		ProperNounChunks: true,
		MinWords:         3,
		FuzzyMinLength:   7,
		FuzzyMaxDistance: 1,
		MaxMissingSkills: feedback.DefaultMaxMissing,
	}
}

// Result is the analysis outcome. Only the first five fields are part of the
// serialized form.
type Result struct {
	Skills          []string `json:"skills"`
	Experiences     []string `json:"experiences"`
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`

	Breakdown     scoring.Breakdown `json:"-"`
	Band          string            `json:"-"`
	Position      lexicon.Position  `json:"-"`
	KnownPosition bool              `json:"-"`
}

// Context holds the loaded lexicon and models. It is immutable after
// construction and safe for concurrent Analyze calls.
type Context struct {
	lex        *lexicon.Lexicon
	normalizer *nlp.Normalizer
	extractor  *extraction.Extractor
	generator  *feedback.Generator
	logger     *zap.Logger
}

// NewContext loads the lexicon and the language model. Any failure is
// reported as ErrModelUnavailable.
func NewContext(opts Options, log *zap.Logger) (*Context, error) {
	log = logger.OrNop(log)

	var (
		lex *lexicon.Lexicon
		err error
	)
	if path := strings.TrimSpace(opts.LexiconFile); path != "" {
		lex, err = lexicon.LoadFile(path)
	} else {
		lex, err = lexicon.Default()
	}
	if err != nil {
		return nil, modelUnavailable("load lexicon", err)
	}

	pipeline, err := nlp.NewPipeline(opts.ModelDir)
	if err != nil {
		return nil, modelUnavailable("load nlp model", err)
	}

	ctx, err := NewContextWith(lex, pipeline, pipeline, opts, log)
	if err != nil {
		return nil, err
	}

	log.Info("analysis context ready",
		zap.Int("skills", len(lex.Skills())),
		zap.Int("positions", len(lex.Positions())),
		zap.String("model_dir", opts.ModelDir),
	)

	return ctx, nil
}

// NewContextWith assembles a Context from already loaded parts.
func NewContextWith(lex *lexicon.Lexicon, segmenter nlp.Segmenter, annotator nlp.Annotator, opts Options, log *zap.Logger) (*Context, error) {
	if lex == nil || segmenter == nil || annotator == nil {
		return nil, modelUnavailable("assemble context", errors.New("lexicon, segmenter and annotator are required"))
	}
	log = logger.OrNop(log)

	generator, err := feedback.NewGenerator(lex, feedback.Options{
		MaxMissing:    opts.MaxMissingSkills,
		DisabledRules: opts.DisabledRules,
	}, log.Named("feedback"))
	if err != nil {
		return nil, modelUnavailable("build feedback rules", err)
	}

	return &Context{
		lex:        lex,
		normalizer: nlp.NewNormalizer(segmenter, lex, opts.MinWords),
		extractor: extraction.New(lex, annotator, extraction.Options{
			Match: lexicon.MatchOptions{
				FuzzyMinLength:   opts.FuzzyMinLength,
				FuzzyMaxDistance: opts.FuzzyMaxDistance,
			},
			Entities: extraction.EntityOptions{
				Labels:           opts.EntityLabels,
				ProperNounChunks: opts.ProperNounChunks,
			},
		}, log.Named("extraction")),
		generator: generator,
		logger:    log,
	}, nil
}

// Analyze runs the pipeline over text. position is optional; unknown labels
// behave like an absent one.
func (c *Context) Analyze(text, position string) (*Result, error) {
	doc, err := c.normalizer.Normalize(text)
	switch {
	case errors.Is(err, nlp.ErrEmptyText):
		return nil, invalidInput(err, "resume text is empty")
	case errors.Is(err, nlp.ErrTooShort):
		return nil, invalidInput(err, "resume text is too short to analyze")
	case err != nil:
		return nil, invalidInput(err, "")
	}
	c.logger.Debug("normalized",
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("words", doc.Words),
		zap.Strings("headers", doc.Headers),
	)

	extracted := c.extractor.Extract(doc)

	breakdown, score := scoring.Score(doc, extracted.Skills, extracted.Experiences)
	c.logger.Debug("scored",
		zap.Int("score", score),
		zap.Float64("skills", breakdown.Skills.Points),
		zap.Float64("quantification", breakdown.Quantification.Points),
		zap.Float64("structure", breakdown.Structure.Points),
		zap.Float64("density", breakdown.Density.Points),
	)

	pos, known := c.lex.Resolve(position)
	message, recs := c.generator.Generate(feedback.Input{
		Breakdown:     breakdown,
		Score:         score,
		Skills:        extracted.Skills,
		Experiences:   extracted.Experiences,
		Document:      doc,
		Position:      pos,
		KnownPosition: known,
	})

	band := feedback.BandFor(score).Name
	c.logger.Debug("feedback generated",
		zap.String("band", band),
		zap.String(logger.FieldPosition, pos.ID),
		zap.Bool("known_position", known),
		zap.Int("recommendations", len(recs)),
	)

	return &Result{
		Skills:          extracted.Skills,
		Experiences:     extracted.Experiences,
		Score:           score,
		Feedback:        message,
		Recommendations: recs,
		Breakdown:       breakdown,
		Band:            band,
		Position:        pos,
		KnownPosition:   known,
	}, nil
}

// Positions lists the known job positions.
func (c *Context) Positions() []lexicon.Position {
	return c.lex.Positions()
}

// Rules reports the feedback rules and whether they are enabled.
func (c *Context) Rules() []feedback.Status {
	return c.generator.Describe()
}
