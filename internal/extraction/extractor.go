package extraction

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/nlp"
)

// Options configures an Extractor.
type Options struct {
	Match    lexicon.MatchOptions
	Entities EntityOptions
}

// Extraction is the extractor output.
type Extraction struct {
	Skills      []string
	Experiences []string
}

// Extractor runs both skill producers and experience detection.
type Extractor struct {
	lex       *lexicon.Lexicon
	annotator nlp.Annotator
	opts      Options
	logger    *zap.Logger
}

// New returns an Extractor. It keeps no per-call state.
func New(lex *lexicon.Lexicon, annotator nlp.Annotator, opts Options, log *zap.Logger) *Extractor {
	return &Extractor{lex: lex, annotator: annotator, opts: opts, logger: logger.OrNop(log)}
}

// Extract annotates every sentence once and feeds the annotations to the
// producers. A sentence that fails to annotate only loses entity and
// experience signals.
func (e *Extractor) Extract(doc *nlp.Document) Extraction {
	annotations := make([]nlp.Annotation, len(doc.Sentences))
	for i, s := range doc.Sentences {
		ann, err := e.annotator.Annotate(s)
		if err != nil {
			e.logger.Debug("sentence annotation failed",
				zap.Int("sentence", i),
				zap.String("preview", logger.TruncateForLog(s, 80)),
				zap.Error(err),
			)
			continue
		}
		annotations[i] = ann
	}

	fromLexicon := LexiconSkills(e.lex, doc.Sentences, annotations, e.opts.Match)
	fromEntities := EntitySkills(e.lex, annotations, e.opts.Entities)

	result := Extraction{
		Skills:      Merge(fromLexicon, fromEntities),
		Experiences: Experiences(e.lex, doc.Sentences, annotations),
	}

	e.logger.Debug("extraction",
		zap.Int("lexicon_candidates", len(fromLexicon)),
		zap.Int("entity_candidates", len(fromEntities)),
		zap.Int("skills", len(result.Skills)),
		zap.Int("experiences", len(result.Experiences)),
	)

	return result
}
