// Package markup converts non-HTML sources into HTML pages the navigation
// engine can process.
package markup

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
)

const defaultTitle = "Document"

// FromMarkdown renders src into a complete HTML page. Headings get ids
// derived from their text so outline anchors follow them.
func FromMarkdown(src []byte, title string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	if title == "" {
		title = defaultTitle
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title>\n</head>\n<body>\n<main>\n")
	page.Write(body.Bytes())
	page.WriteString("</main>\n</body>\n</html>\n")
	return page.Bytes(), nil
}

// IsMarkdown reports whether a file name or content type denotes Markdown.
func IsMarkdown(nameOrType string) bool {
	v := strings.ToLower(strings.TrimSpace(nameOrType))
	if strings.HasPrefix(v, "text/markdown") || strings.HasPrefix(v, "text/x-markdown") {
		return true
	}
	switch filepath.Ext(v) {
	case ".md", ".markdown":
		return true
	}
	return false
}
