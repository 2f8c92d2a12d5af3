package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		want     string
	}{
		{"declared pdf", "a.bin", "application/pdf", TypePDF},
		{"charset stripped", "a.txt", "text/plain; charset=utf-8", TypeTXT},
		{"octet stream resolved by extension", "contract.DOCX", "application/octet-stream", TypeDOCX},
		{"empty resolved by extension", "contract.pdf", "", TypePDF},
		{"zip resolved by extension", "contract.docx", "application/zip", TypeDOCX},
		{"unknown extension kept generic", "contract.odt", "", ""},
		{"unsupported declared type kept", "a.png", "image/png", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.filename, tt.declared))
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(TypePDF))
	assert.True(t, Supported(TypeDOCX))
	assert.True(t, Supported(TypeTXT))
	assert.False(t, Supported("image/png"))
	assert.False(t, Supported(""))
}

func TestExtractText_TXT(t *testing.T) {
	text, err := ExtractText([]byte("Termination: either party may terminate."), TypeTXT)
	require.NoError(t, err)
	assert.Equal(t, "Termination: either party may terminate.", text)

	text, err = ExtractText([]byte("caf\xff\xfee"), TypeTXT)
	require.NoError(t, err)
	assert.Equal(t, "cafe", text)
}

func TestExtractText_DOCX(t *testing.T) {
	content := buildDOCX(t,
		`<w:p><w:r><w:t>Confidentiality</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Each party </w:t></w:r><w:r><w:t>shall protect data.</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Term</w:t><w:tab/><w:t>12 months</w:t></w:r></w:p>`)

	text, err := ExtractText(content, TypeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Confidentiality\nEach party shall protect data.\nTerm\t12 months\n", text)
}

func TestExtractText_DOCXErrors(t *testing.T) {
	_, err := ExtractText([]byte("not a zip"), TypeDOCX)
	assert.ErrorContains(t, err, "open docx")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText(buf.Bytes(), TypeDOCX)
	assert.ErrorContains(t, err, "missing word/document.xml")
}

func TestExtractText_PDFInvalid(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"), TypePDF)
	assert.ErrorContains(t, err, "open pdf")
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText([]byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractText_NoText(t *testing.T) {
	_, err := ExtractText([]byte("   \n\t "), TypeTXT)
	assert.ErrorIs(t, err, ErrNoText)

	_, err = ExtractText(buildDOCX(t, `<w:p></w:p>`), TypeDOCX)
	assert.ErrorIs(t, err, ErrNoText)
}
