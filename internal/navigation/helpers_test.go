package navigation

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"web-a11y/internal/config"
	"web-a11y/internal/dom"
	"web-a11y/internal/dom/htmldom"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() config.Config {
	cfg := config.Default()
	cfg.IDPrefix = "gen-"
	return cfg
}

func parseHTML(t *testing.T, content string) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

func mustFind(t *testing.T, doc dom.Document, selector string) []dom.Element {
	t.Helper()
	elements, err := doc.Find(selector)
	if err != nil {
		t.Fatalf("Find(%q) error = %v", selector, err)
	}
	return elements
}

func mustFindFirst(t *testing.T, doc dom.Document, selector string) dom.Element {
	t.Helper()
	el, err := doc.FindFirst(selector)
	if err != nil {
		t.Fatalf("FindFirst(%q) error = %v", selector, err)
	}
	if el == nil {
		t.Fatalf("FindFirst(%q) found nothing", selector)
	}
	return el
}

func indexOf(list []dom.Element, el dom.Element) int {
	for i, candidate := range list {
		if candidate.Same(el) {
			return i
		}
	}
	return -1
}

func snapshot(t *testing.T, doc *htmldom.Document) string {
	t.Helper()
	out, err := htmldom.Snapshot(doc)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return string(out)
}
