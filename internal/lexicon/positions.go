package lexicon

import (
	"regexp"
	"strings"
)

var positionSeparators = regexp.MustCompile(`[\s_]+`)

// PositionKey normalizes a job position label: "Software Engineer",
// "software_engineer" and " software-engineer " all become "software-engineer".
func PositionKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = positionSeparators.ReplaceAllString(key, "-")
	return strings.Trim(key, "-")
}

// Resolve looks up a job position label. Unknown or empty labels resolve to
// the generic reference set with ok set to false.
func (l *Lexicon) Resolve(label string) (Position, bool) {
	key := PositionKey(label)
	if key == "" {
		return l.Generic(), false
	}

	idx, ok := l.positions[key]
	if !ok {
		return l.Generic(), false
	}

	p := l.positionOrder[idx]
	p.Skills = append([]string(nil), p.Skills...)
	return p, true
}

// Positions returns the known positions in declaration order.
func (l *Lexicon) Positions() []Position {
	out := make([]Position, len(l.positionOrder))
	for i, p := range l.positionOrder {
		p.Skills = append([]string(nil), p.Skills...)
		out[i] = p
	}
	return out
}

// Generic returns the reference skill set used when no position applies.
func (l *Lexicon) Generic() Position {
	g := l.generic
	g.Skills = append([]string(nil), g.Skills...)
	return g
}
