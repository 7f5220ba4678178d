package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Reviewer asks Gemini for a narrative review of an analyzed resume.
type Reviewer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	maxPositionRunes    = 100
	maxReviewItems      = 5
)

var _ ai.Reviewer = (*Reviewer)(nil)

func NewReviewer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Reviewer{
		generator: generator,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

func (r *Reviewer) Review(ctx context.Context, text, position string, result *analyzer.Result) (*ai.Review, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("resume text is required")
	}
	if result == nil {
		return nil, errors.New("analysis result is required")
	}

	analysisJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis payload: %w", err)
	}

	prompt := buildPrompt(text, sanitizeSingleLine(position, maxPositionRunes), string(analysisJSON))

	r.logger.Debug("gemini generate content request",
		zap.String(logger.FieldPosition, position),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	review, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	review.Raw = raw
	return review, nil
}

func buildPrompt(text, position, analysisJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Position: {{POSITION}}\n\nAnalysis:\n{{ANALYSIS_JSON}}\n\nResume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	if position == "" {
		position = "not specified"
	}

	// One pass, so placeholders inside the substituted values are left alone.
	return strings.NewReplacer(
		"{{POSITION}}", position,
		"{{ANALYSIS_JSON}}", analysisJSON,
		"{{RESUME_TEXT}}", strings.TrimSpace(text),
	).Replace(template)
}

// sanitizeSingleLine flattens s to one line, neutralizes square brackets and
// caps its length.
func sanitizeSingleLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.NewReplacer("[", "(", "]", ")").Replace(s)
	if runes := []rune(s); len(runes) > limit {
		s = string(runes[:limit])
	}
	return s
}

func parseResponse(raw string) (*ai.Review, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	review := &ai.Review{
		Summary:      coerceString(data["summary"]),
		Strengths:    coerceStrings(data["strengths"], maxReviewItems),
		Improvements: coerceStrings(data["improvements"], maxReviewItems),
	}
	if review.Summary == "" && len(review.Strengths) == 0 && len(review.Improvements) == 0 {
		return nil, errors.New("parse gemini response: no review content")
	}

	return review, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Models sometimes wrap the object in prose.
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start > 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a newline separated string and returns at
// most limit non-empty items.
func coerceStrings(v any, limit int) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			items = append(items, coerceString(item))
		}
	case string:
		for _, line := range strings.Split(val, "\n") {
			items = append(items, strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
