package nlp

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyText is returned for blank input.
	ErrEmptyText = errors.New("resume text is empty")
	// ErrTooShort is returned when the text has too few words to analyze.
	ErrTooShort = errors.New("resume text is too short")
)

var (
	bulletPrefix = regexp.MustCompile(`^(?:[•·▪◦‣■□●○✓✔➢➤»]+\s*|[-*–—>]+\s+|\d{1,2}[.)]\s+)`)
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}]+(?:['.\-][\p{L}\p{N}]+)*`)
	quantifier   = regexp.MustCompile(`(?i)\d|[%$€£¥₹]|\b(?:percent|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|twenty|thirty|forty|fifty|hundreds?|thousands?|millions?|billions?|dozens?|doubled|tripled|tenfold)\b`)
)

const maxHeaderWords = 5

// SectionIndex recognizes section header lines.
type SectionIndex interface {
	Section(line string) (string, bool)
}

// Document is normalized resume text.
type Document struct {
	// Sentences are the content sentences in reading order. Header lines are not included.
	Sentences []string
	// Headers are canonical section names in order of first appearance.
	Headers []string
	// Flat is the whole cleaned text, lowercased, on one line.
	Flat  string
	Words int
	Lines int
}

// HasHeader reports whether a canonical section was detected.
func (d *Document) HasHeader(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Normalizer cleans raw resume text and splits it into sentences.
type Normalizer struct {
	segmenter Segmenter
	sections  SectionIndex
	minWords  int
}

// NewNormalizer builds a Normalizer. minWords below 1 is raised to 1.
func NewNormalizer(segmenter Segmenter, sections SectionIndex, minWords int) *Normalizer {
	if minWords < 1 {
		minWords = 1
	}
	return &Normalizer{segmenter: segmenter, sections: sections, minWords: minWords}
}

// Normalize cleans text, records section headers, joins wrapped lines into
// blocks and segments every block into sentences.
func (n *Normalizer) Normalize(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	doc := &Document{}
	var (
		lines   []string
		blocks  []string
		current []string
		prev    string
	)

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, " "))
			current = current[:0]
		}
		prev = ""
	}

	for _, raw := range strings.Split(clean(text), "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)

		if name, rest, ok := n.header(line); ok {
			doc.addHeader(name)
			flush()
			if rest == "" {
				continue
			}
			line = rest
		}

		if prev == "" || endsClause(prev) || !startsLower(line) {
			flush()
		}
		current = append(current, line)
		prev = line
	}
	flush()

	for _, block := range blocks {
		sentences, err := n.segmenter.Segment(block)
		if err != nil || len(sentences) == 0 {
			sentences = []string{block}
		}
		for _, s := range sentences {
			if s = strings.TrimSpace(s); s != "" {
				doc.Sentences = append(doc.Sentences, s)
			}
		}
	}

	doc.Lines = len(lines)
	doc.Flat = strings.ToLower(strings.Join(lines, " "))
	doc.Words = len(wordPattern.FindAllString(doc.Flat, -1))

	if doc.Words < n.minWords {
		return nil, ErrTooShort
	}

	return doc, nil
}

func (n *Normalizer) header(line string) (name, rest string, ok bool) {
	if n.sections == nil {
		return "", "", false
	}

	if len(strings.Fields(line)) <= maxHeaderWords {
		if name, ok := n.sections.Section(strings.Trim(line, " #*:-|=_")); ok {
			return name, "", true
		}
	}

	if idx := strings.Index(line, ":"); idx > 0 {
		prefix := line[:idx]
		if len(strings.Fields(prefix)) <= maxHeaderWords {
			if name, ok := n.sections.Section(strings.Trim(prefix, " #*-|=_")); ok {
				return name, strings.TrimSpace(line[idx+1:]), true
			}
		}
	}

	return "", "", false
}

func (d *Document) addHeader(name string) {
	if !d.HasHeader(name) {
		d.Headers = append(d.Headers, name)
	}
}

// clean repairs encoding, applies NFKC and drops non-printable runes. Line
// breaks survive; every other whitespace rune becomes a plain space.
func clean(text string) string {
	s := strings.ToValidUTF8(text, "")
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case unicode.IsSpace(r):
			return ' '
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
}

func endsClause(line string) bool {
	r, _ := utf8.DecodeLastRuneInString(line)
	return strings.ContainsRune(".!?;:", r)
}

func startsLower(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLower(r)
}

// HasQuantifier reports whether s contains a number, percentage, currency
// amount or number word.
func HasQuantifier(s string) bool {
	return quantifier.MatchString(s)
}
