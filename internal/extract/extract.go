// Package extract normalizes raw ingested documents to plain text before
// feature analysis and embedding. Plain text and markdown pass through,
// HTML is stripped to its visible text, and PDFs are read page by page.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// Supported input formats.
const (
	FormatPlain    = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

// FormatForPath guesses the input format from a file extension.
// Unknown extensions are treated as plain text.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatPlain
	}
}

// Text converts raw document bytes in the given format to plain text.
func Text(data []byte, format string) (string, error) {
	switch format {
	case FormatPlain, FormatMarkdown, "":
		return strings.TrimSpace(string(data)), nil
	case FormatHTML:
		return htmlText(data)
	case FormatPDF:
		return pdfText(data)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// htmlText strips markup and returns the visible text content.
// Script and style bodies are skipped.
func htmlText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sb.String(), nil
}

// pdfText extracts the plain text of all pages.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	rc, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, rc); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}
