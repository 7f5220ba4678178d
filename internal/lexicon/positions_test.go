package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionKey(t *testing.T) {
	tests := map[string]string{
		"software-engineer":   "software-engineer",
		" Software Engineer ": "software-engineer",
		"software_engineer":   "software-engineer",
		"UI/UX  Designer":     "ui/ux-designer",
		"":                    "",
	}

	for in, expect := range tests {
		assert.Equalf(t, expect, PositionKey(in), "input %q", in)
	}
}

func TestResolve(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	p, ok := lex.Resolve("Software Engineer")
	require.True(t, ok)
	assert.Equal(t, "software-engineer", p.ID)
	assert.Equal(t, "Git", p.Skills[0])

	p, ok = lex.Resolve("frontend developer")
	require.True(t, ok)
	assert.Equal(t, "web-developer", p.ID)

	unknown, ok := lex.Resolve("underwater-basket-weaving")
	assert.False(t, ok)
	absent, ok := lex.Resolve("")
	assert.False(t, ok)
	assert.Equal(t, absent, unknown)
	assert.Equal(t, lex.Generic(), unknown)
}

func TestResolveReturnsCopies(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	p, _ := lex.Resolve("software-engineer")
	p.Skills[0] = "mutated"

	again, _ := lex.Resolve("software-engineer")
	assert.Equal(t, "Git", again.Skills[0])
}
