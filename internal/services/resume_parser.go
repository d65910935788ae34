package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type ResumeParser interface {
	ExtractText(filePath string, contentType string) (string, error)
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func (p *resumeParser) ExtractText(filePath string, contentType string) (string, error) {
	var (
		text string
		err  error
	)

	switch contentType {
	case ContentTypePDF:
		text, err = extractPDF(filePath)
	case ContentTypeDOCX:
		text, err = extractDOCX(filePath)
	case ContentTypeText:
		var raw []byte
		raw, err = os.ReadFile(filePath)
		if err != nil {
			err = fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(raw)
	default:
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in resume")
	}

	return text, nil
}

func extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	return docxContentToText(r.Editable().GetContent()), nil
}

// docxContentToText turns word/document.xml into plain text with one line per
// paragraph.
func docxContentToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")

	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
	return replacer.Replace(content)
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
