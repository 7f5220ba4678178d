// Package ai defines the optional narrative review layered on top of the
// deterministic analysis.
package ai

import (
	"context"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

// Review is a model-written critique of a resume.
type Review struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Raw          string   `json:"-"`
}

// Reviewer produces a Review for a resume and its analysis result.
type Reviewer interface {
	Review(ctx context.Context, text, position string, result *analyzer.Result) (*Review, error)
}
