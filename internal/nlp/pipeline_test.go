package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineSegmentKeepsAbbreviations(t *testing.T) {
	p, err := NewPipeline("")
	require.NoError(t, err)

	sentences, err := p.Segment("Earned a B.S. in Computer Science in 2015.")
	require.NoError(t, err)
	assert.Len(t, sentences, 1)

	sentences, err = p.Segment("Developed a payment platform using Python and React, increasing conversion by 20%. Led a team of 5 engineers.")
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.True(t, strings.HasPrefix(sentences[1], "Led a team"))
}

func TestPipelineAnnotate(t *testing.T) {
	p, err := NewPipeline("")
	require.NoError(t, err)

	ann, err := p.Annotate("Led a team of 5 engineers.")
	require.NoError(t, err)
	require.NotEmpty(t, ann.Tokens)
	assert.Equal(t, "Led", ann.Tokens[0].Text)

	var hasNumber bool
	for _, tok := range ann.Tokens {
		if tok.Text == "5" {
			hasNumber = true
			assert.Equal(t, "CD", tok.Tag)
		}
	}
	assert.True(t, hasNumber)
}

func TestNewPipelineLoadsModelOnce(t *testing.T) {
	p, err := NewPipeline("")
	require.NoError(t, err)
	require.NotNil(t, p.model)
	require.NotNil(t, p.tokenizer)

	model := p.model
	for i := 0; i < 3; i++ {
		_, err := p.Annotate("Shipped a billing service with Go.")
		require.NoError(t, err)
		_, err = p.Segment("Built things. Led people.")
		require.NoError(t, err)
	}
	assert.Same(t, model, p.model)
}

func TestNewPipelineBadModelDir(t *testing.T) {
	_, err := NewPipeline(t.TempDir())
	assert.Error(t, err)
}
