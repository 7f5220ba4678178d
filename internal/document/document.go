// Package document extracts plain text from uploaded resume files.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedFormat is returned for files that are not plain text, PDF or DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrTooLarge is returned by ReadAll when the input exceeds the limit.
	ErrTooLarge = errors.New("file is too large")
)

// Format is a supported input format.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var extensions = map[string]Format{ //nolint:gochecknoglobals
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
}

var (
	xmlTags         = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Extensions lists the accepted file extensions.
func Extensions() []string {
	return []string{".txt", ".text", ".md", ".pdf", ".docx"}
}

// Detect picks the format from the file extension, falling back to content
// sniffing when the name carries no known extension.
func Detect(filename string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if ext != "" {
		return "", fmt.Errorf("%w: %s (accepted: %s)", ErrUnsupportedFormat, ext, strings.Join(Extensions(), ", "))
	}

	mime := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(mime, "text/plain"):
		return FormatText, nil
	case mime == "application/pdf":
		return FormatPDF, nil
	case mime == "application/zip":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
}

// ExtractText returns the text content of a resume file.
func ExtractText(filename string, data []byte) (string, error) {
	format, err := Detect(filename, data)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrUnsupportedFormat)
		}
		text = string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	}
	if err != nil {
		return "", err
	}

	return tidy(text), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	defer doc.Close()

	return stripWordML(doc.Editable().GetContent()), nil
}

// stripWordML turns WordprocessingML into text with one line per paragraph.
func stripWordML(content string) string {
	r := strings.NewReplacer("</w:p>", "\n", "<w:tab/>", " ", "<w:br/>", "\n")
	text := xmlTags.ReplaceAllString(r.Replace(content), "")
	return html.UnescapeString(text)
}

func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// ReadAll reads at most limit bytes from r. It fails when the input is larger.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
