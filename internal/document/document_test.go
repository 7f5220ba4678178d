package document

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	t.Parallel()

	got, err := ExtractText("resume.TXT", []byte("\xef\xbb\xbfJane Doe\r\n\r\n\r\n\r\nExperience\t\t \nLed   a team."))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nExperience\nLed a team.", got)
}

func TestExtractTextMarkdown(t *testing.T) {
	t.Parallel()

	got, err := ExtractText("cv.md", []byte("# Skills\n- Go\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Skills\n- Go", got)
}

func TestExtractTextUnsupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"resume.doc", "photo.png", "archive.tar.gz"} {
		_, err := ExtractText(name, []byte("whatever"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}

	_, err := ExtractText("notes.txt", []byte{0xff, 0xfe, 0x00})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnsupportedFormatListsAcceptedExtensions(t *testing.T) {
	t.Parallel()

	_, err := ExtractText("resume.doc", []byte("whatever"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".doc (accepted: .txt, .text, .md, .pdf, .docx)")
}

func TestDetectSniffsContent(t *testing.T) {
	t.Parallel()

	f, err := Detect("upload", []byte("plain resume text"))
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = Detect("upload", []byte("%PDF-1.4\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = Detect("upload", []byte("\x89PNG\r\n\x1a\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextDOCX(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Built APIs in Go &amp; Python</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := ExtractText("resume.docx", buildDOCX(t, body))
	require.NoError(t, err)
	assert.Equal(t, "Experience\nBuilt APIs in Go & Python", got)
}

func TestExtractTextBrokenPDF(t *testing.T) {
	t.Parallel()

	_, err := ExtractText("resume.pdf", []byte("not a pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStripWordML(t *testing.T) {
	t.Parallel()

	got := stripWordML(`<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:t>&lt;C&gt;</w:t></w:p>`)
	assert.Equal(t, "A B\n<C>\n", got)
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	data, err := ReadAll(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = ReadAll(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func buildDOCX(t *testing.T, document string) []byte {
	t.Helper()

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   document,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}
