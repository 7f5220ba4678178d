// Package lexicon holds the curated vocabulary the analysis pipeline matches
// resumes against: skills with their aliases, section header names, action
// verbs, weak phrases, stopwords and per-position reference skill sets.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLexicon is returned when lexicon data cannot be decoded or is inconsistent.
var ErrInvalidLexicon = errors.New("invalid lexicon")

//go:embed data/lexicon.yaml
var defaultData []byte

// Skill is a canonical lexicon entry.
type Skill struct {
	Name     string
	Category string
}

// Position is a job position with its reference skills in priority order.
type Position struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

// Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	skills []Skill

	// terms maps a normalized phrase to a skill index. exact maps a
	// case-preserved phrase to a skill index for exact-case forms.
	terms     map[string]int
	exact     map[string]int
	maxPhrase int
	fuzzy     []fuzzyTerm

	sections        map[string]string
	actionVerbs     map[string]struct{}
	weakPhrases     []string
	stopwords       map[string]struct{}
	entityStopwords map[string]struct{}

	positions     map[string]int
	positionOrder []Position
	generic       Position
}

type fuzzyTerm struct {
	term  string
	skill int
}

type rawLexicon struct {
	Version         int                 `mapstructure:"version" validate:"gte=1"`
	Skills          []rawSkill          `mapstructure:"skills" validate:"required,min=1,dive"`
	Sections        map[string][]string `mapstructure:"sections" validate:"required,min=1"`
	ActionVerbs     []string            `mapstructure:"action-verbs" validate:"required,min=1"`
	WeakPhrases     []string            `mapstructure:"weak-phrases"`
	Stopwords       []string            `mapstructure:"stopwords"`
	EntityStopwords []string            `mapstructure:"entity-stopwords"`
	Generic         []string            `mapstructure:"generic" validate:"required,min=1"`
	Positions       []rawPosition       `mapstructure:"positions" validate:"dive"`
}

type rawSkill struct {
	Name      string   `mapstructure:"name" validate:"required"`
	Aliases   []string `mapstructure:"aliases"`
	ExactCase []string `mapstructure:"exact-case"`
	Category  string   `mapstructure:"category"`
}

type rawPosition struct {
	ID      string   `mapstructure:"id" validate:"required"`
	Title   string   `mapstructure:"title" validate:"required"`
	Aliases []string `mapstructure:"aliases"`
	Skills  []string `mapstructure:"skills" validate:"required,min=1"`
}

// Default returns the lexicon embedded in the binary.
func Default() (*Lexicon, error) {
	return Parse(defaultData)
}

// LoadFile reads a lexicon from a YAML file.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file %q: %w", path, err)
	}

	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon file %q: %w", path, err)
	}

	return lex, nil
}

// Parse decodes and indexes YAML lexicon data.
func Parse(data []byte) (*Lexicon, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	var raw rawLexicon
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToSliceHookFunc(","),
		ErrorUnused: true,
		Result:      &raw,
	})
	if err != nil {
		return nil, fmt.Errorf("creating lexicon decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	if err := validator.New().Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	return build(&raw)
}

func build(raw *rawLexicon) (*Lexicon, error) {
	lex := &Lexicon{
		terms:           make(map[string]int),
		exact:           make(map[string]int),
		sections:        make(map[string]string),
		actionVerbs:     toSet(raw.ActionVerbs),
		stopwords:       toSet(raw.Stopwords),
		entityStopwords: toSet(raw.EntityStopwords),
		positions:       make(map[string]int),
	}

	for _, phrase := range raw.WeakPhrases {
		if phrase = NormalizePhrase(phrase); phrase != "" {
			lex.weakPhrases = append(lex.weakPhrases, phrase)
		}
	}
	// Longest phrases first so "was responsible for" wins over "responsible for".
	sort.SliceStable(lex.weakPhrases, func(i, j int) bool {
		return len(strings.Fields(lex.weakPhrases[i])) > len(strings.Fields(lex.weakPhrases[j]))
	})

	for i, s := range raw.Skills {
		name := strings.TrimSpace(s.Name)
		lex.skills = append(lex.skills, Skill{Name: name, Category: strings.TrimSpace(s.Category)})

		insensitive := cleanList(s.Aliases)
		if len(s.ExactCase) == 0 {
			insensitive = append([]string{name}, insensitive...)
		}

		for _, term := range insensitive {
			if err := lex.addTerm(lex.terms, NormalizePhrase(term), i, true); err != nil {
				return nil, err
			}
		}

		for _, form := range cleanList(s.ExactCase) {
			if err := lex.addTerm(lex.exact, joinTokens(tokenize(form), false), i, false); err != nil {
				return nil, err
			}
		}
	}

	for canonical, aliases := range raw.Sections {
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		lex.sections[NormalizePhrase(canonical)] = canonical
		for _, alias := range aliases {
			if key := NormalizePhrase(alias); key != "" {
				lex.sections[key] = canonical
			}
		}
	}

	generic, err := lex.referenceSkills("generic", raw.Generic)
	if err != nil {
		return nil, err
	}
	lex.generic = Position{ID: "generic", Title: "your field", Skills: generic}

	for _, p := range raw.Positions {
		skills, err := lex.referenceSkills(p.ID, p.Skills)
		if err != nil {
			return nil, err
		}

		idx := len(lex.positionOrder)
		lex.positionOrder = append(lex.positionOrder, Position{
			ID:     PositionKey(p.ID),
			Title:  strings.TrimSpace(p.Title),
			Skills: skills,
		})

		for _, key := range append([]string{p.ID}, cleanList(p.Aliases)...) {
			key = PositionKey(key)
			if prev, ok := lex.positions[key]; ok && prev != idx {
				return nil, fmt.Errorf("%w: position key %q is used by %q and %q",
					ErrInvalidLexicon, key, lex.positionOrder[prev].ID, p.ID)
			}
			lex.positions[key] = idx
		}
	}

	return lex, nil
}

func (l *Lexicon) addTerm(index map[string]int, key string, skill int, fuzzy bool) error {
	if key == "" {
		return fmt.Errorf("%w: skill %q has an empty term", ErrInvalidLexicon, l.skills[skill].Name)
	}

	if prev, ok := index[key]; ok {
		if prev != skill {
			return fmt.Errorf("%w: term %q maps to both %q and %q",
				ErrInvalidLexicon, key, l.skills[prev].Name, l.skills[skill].Name)
		}
		return nil
	}
	index[key] = skill

	if n := len(strings.Fields(key)); n > l.maxPhrase {
		l.maxPhrase = n
	}

	if fuzzy && !strings.Contains(key, " ") {
		l.fuzzy = append(l.fuzzy, fuzzyTerm{term: key, skill: skill})
	}

	return nil
}

// referenceSkills resolves a list of skill names to their canonical lexicon
// names, failing on names the lexicon does not know.
func (l *Lexicon) referenceSkills(owner string, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range cleanList(names) {
		canonical, ok := l.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s references unknown skill %q", ErrInvalidLexicon, owner, name)
		}
		out = append(out, canonical)
	}
	return out, nil
}

// Skills returns every lexicon skill in declaration order.
func (l *Lexicon) Skills() []Skill {
	return append([]Skill(nil), l.skills...)
}

// Lookup returns the canonical skill name for phrase, honoring exact-case forms.
func (l *Lexicon) Lookup(phrase string) (string, bool) {
	toks := tokenize(phrase)
	if len(toks) == 0 {
		return "", false
	}

	if idx, ok := l.exact[joinTokens(toks, false)]; ok {
		return l.skills[idx].Name, true
	}
	if idx, ok := l.terms[joinTokens(toks, true)]; ok {
		return l.skills[idx].Name, true
	}

	return "", false
}

// Section reports the canonical section name when line is a known section header.
func (l *Lexicon) Section(line string) (string, bool) {
	name, ok := l.sections[NormalizePhrase(line)]
	return name, ok
}

// IsActionVerb reports whether word is a curated action verb form.
func (l *Lexicon) IsActionVerb(word string) bool {
	_, ok := l.actionVerbs[strings.ToLower(word)]
	return ok
}

// ActionVerbCount counts action verb occurrences among the words of a flattened text.
func (l *Lexicon) ActionVerbCount(flat string) int {
	n := 0
	for _, t := range tokenize(flat) {
		if l.IsActionVerb(t.lower) {
			n++
		}
	}
	return n
}

// WeakPhraseCount counts non-overlapping weak phrase occurrences in a text.
func (l *Lexicon) WeakPhraseCount(text string) int {
	words := strings.Fields(NormalizePhrase(text))
	n := 0
	for i := 0; i < len(words); {
		step := 1
		for _, phrase := range l.weakPhrases {
			parts := strings.Fields(phrase)
			if i+len(parts) <= len(words) && strings.Join(words[i:i+len(parts)], " ") == phrase {
				n++
				step = len(parts)
				break
			}
		}
		i += step
	}
	return n
}

// IsStopword reports whether word is a common function word.
func (l *Lexicon) IsStopword(word string) bool {
	_, ok := l.stopwords[strings.ToLower(word)]
	return ok
}

// IsEntityStopword reports whether word disqualifies a recognized entity span.
func (l *Lexicon) IsEntityStopword(word string) bool {
	_, ok := l.entityStopwords[strings.TrimSuffix(strings.ToLower(word), ".")]
	return ok
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range cleanList(items) {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
