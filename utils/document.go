package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// maxDocumentRunes caps how much of a pasted or uploaded document is kept.
// Extraction prompts truncate further; this bound just keeps a hostile paste
// from ballooning memory.
const maxDocumentRunes = 100000

// DocumentExtractor extracts text from uploaded job description documents
type DocumentExtractor struct{}

// NewDocumentExtractor creates a new document extractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractText extracts text from a file based on its extension
func (e *DocumentExtractor) ExtractText(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	content := buf.Bytes()

	switch ext {
	case ".txt", ".md":
		return string(content), nil

	case ".pdf":
		return e.extractPDFBasic(content)

	case ".doc", ".docx":
		return e.extractDocxBasic(content)

	default:
		// Try treating as plain text
		return string(content), nil
	}
}

// extractPDFBasic pulls readable text out of a PDF without a full parser.
// Good enough for text-based job descriptions; scanned PDFs come back empty.
func (e *DocumentExtractor) extractPDFBasic(content []byte) (string, error) {
	text := string(content)

	if strings.Contains(text, "%PDF") {
		var cleanText strings.Builder
		for _, r := range text {
			if r >= 32 && r <= 126 || r == '\n' || r == '\r' || r == '\t' {
				cleanText.WriteRune(r)
			}
		}

		extracted := cleanText.String()
		if len(extracted) < 100 {
			return "[PDF document - please paste the job description text directly for best results]", nil
		}
		return extracted, nil
	}

	return string(content), nil
}

// extractDocxBasic handles Word uploads. DOCX is a ZIP archive; without an
// unzip-and-parse step the safest answer is to ask for a paste.
func (e *DocumentExtractor) extractDocxBasic(content []byte) (string, error) {
	text := string(content)

	if len(content) > 4 && content[0] == 'P' && content[1] == 'K' {
		return "[DOCX document - please paste the job description text directly for best results]", nil
	}

	// Legacy .doc format
	var cleanText strings.Builder
	for _, r := range text {
		if r >= 32 && r <= 126 || r == '\n' || r == '\r' || r == '\t' {
			cleanText.WriteRune(r)
		}
	}
	return cleanText.String(), nil
}

// IsSupportedFormat checks if the file format is supported
func (e *DocumentExtractor) IsSupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	supportedFormats := []string{".txt", ".md", ".pdf", ".doc", ".docx"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// CleanDocumentText normalizes pasted job description text: line endings,
// stray control characters, runs of blank lines. The result is what gets
// archived and sent to extraction.
func CleanDocumentText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	text = b.String()

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > maxDocumentRunes {
		text = string(runes[:maxDocumentRunes])
	}
	return text
}
