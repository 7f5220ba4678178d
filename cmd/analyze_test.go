package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/lexicon"
)

func TestCollectJobsText(t *testing.T) {
	jobs, err := collectJobs("Led a team of 5 engineers.", nil, strings.NewReader("ignored"), 1024, "qa")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, sourceText, jobs[0].Source)
	assert.Equal(t, "qa", jobs[0].Position)

	_, err = collectJobs("text", []string{"cv.txt"}, nil, 1024, "")
	assert.Error(t, err)
}

func TestCollectJobsStdin(t *testing.T) {
	jobs, err := collectJobs("  ", nil, strings.NewReader("Built things."), 1024, "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, sourceStdin, jobs[0].Source)
	assert.Equal(t, "Built things.", jobs[0].Text)

	_, err = collectJobs("", nil, strings.NewReader(strings.Repeat("x", 20)), 10, "")
	assert.ErrorIs(t, err, document.ErrTooLarge)
}

func TestCollectJobsFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.md")
	require.NoError(t, os.WriteFile(first, []byte("Shipped a billing service."), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("# Skills\nGo, SQL"), 0o600))

	jobs, err := collectJobs("", []string{first, second}, nil, 1024, "backend")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, first, jobs[0].Source)
	assert.Equal(t, "Shipped a billing service.", jobs[0].Text)
	assert.Equal(t, second, jobs[1].Source)
	assert.Equal(t, "backend", jobs[1].Position)

	_, err = collectJobs("", []string{filepath.Join(dir, "missing.txt")}, nil, 1024, "")
	assert.Error(t, err)

	image := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	_, err = collectJobs("", []string{image}, nil, 1024, "")
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}

func TestPositionItems(t *testing.T) {
	items, ids := positionItems([]lexicon.Position{
		{ID: "software-engineer", Title: "Software Engineer"},
		{ID: "data-scientist", Title: "Data Scientist"},
	})

	assert.Equal(t, []string{PromptNoPosition, "Software Engineer (software-engineer)", "Data Scientist (data-scientist)"}, items)
	assert.Equal(t, []string{"", "software-engineer", "data-scientist"}, ids)
}

func TestAnalyzerOptions(t *testing.T) {
	cfg := &Config{
		Lexicon:  &LexiconConfig{File: "custom.yaml"},
		NLP:      &NLPConfig{EntityLabels: []string{"ORG"}, ProperNounChunks: false},
		Analysis: &AnalysisConfig{MinWords: 5, FuzzyMinLength: 8, FuzzyMaxDistance: 2, MaxMissingSkills: 4},
		Feedback: &FeedbackConfig{DisabledRules: []string{"summary"}},
	}

	opts := cfg.analyzerOptions()
	assert.Equal(t, "custom.yaml", opts.LexiconFile)
	assert.Equal(t, []string{"ORG"}, opts.EntityLabels)
	assert.False(t, opts.ProperNounChunks)
	assert.Equal(t, 5, opts.MinWords)
	assert.Equal(t, 2, opts.FuzzyMaxDistance)
	assert.Equal(t, 4, opts.MaxMissingSkills)
	assert.Equal(t, []string{"summary"}, opts.DisabledRules)

	defaults := (&Config{}).analyzerOptions()
	assert.Equal(t, 3, defaults.MinWords)
	assert.True(t, defaults.ProperNounChunks)
}

func TestNewReviewerRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newReviewer(t.Context(), &AIConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	_, err = newReviewer(t.Context(), &AIConfig{Provider: "openai"}, nil)
	assert.ErrorContains(t, err, "unsupported ai provider")
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: nil, want: outputTable},
		{args: []string{"-o", "json"}, want: outputJSON},
		{args: []string{"--output", " JSON "}, want: outputJSON},
		{args: []string{"--output", "yaml"}, wantErr: true},
	}

	for _, tt := range tests {
		cmd := &cobra.Command{Use: "test"}
		addOutputFlag(cmd)
		require.NoError(t, cmd.ParseFlags(tt.args))

		got, err := outputFormat(cmd)
		if tt.wantErr {
			assert.Error(t, err, tt.args)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestListCommandsDoNotReuseLogFormatFlag(t *testing.T) {
	for _, cmd := range []*cobra.Command{positionsCmd, rulesCmd} {
		require.NotNil(t, cmd.Flags().Lookup("output"), cmd.Name())
		assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	}
}
