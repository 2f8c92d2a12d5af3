// Package extract turns uploaded contract files into plain text.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Supported content types.
const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeTXT  = "text/plain"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoText          = errors.New("no text could be extracted")
	ErrTooLarge        = errors.New("file exceeds upload limit")
)

var extensionTypes = map[string]string{
	".pdf":  TypePDF,
	".docx": TypeDOCX,
	".txt":  TypeTXT,
}

// DetectContentType normalizes the declared content type of an upload.
// Generic or missing types are resolved from the filename extension.
func DetectContentType(filename, declared string) string {
	ct := strings.TrimSpace(declared)
	if ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			ct = mt
		}
	}
	ct = strings.ToLower(ct)
	if ct == "" || ct == "application/octet-stream" || ct == "application/zip" {
		if byExt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
			return byExt
		}
	}
	return ct
}

// Supported reports whether ExtractText can handle contentType.
func Supported(contentType string) bool {
	switch contentType {
	case TypePDF, TypeDOCX, TypeTXT:
		return true
	}
	return false
}

// ExtractText returns the plain text of content according to contentType.
func ExtractText(content []byte, contentType string) (string, error) {
	var (
		text string
		err  error
	)
	switch contentType {
	case TypePDF:
		text, err = readPDF(content)
	case TypeDOCX:
		text, err = readDOCX(content)
	case TypeTXT:
		text = readTXT(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func readTXT(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "")
}
