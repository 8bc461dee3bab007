package report

import (
	"fmt"
	"io"
	"strings"

	"web-a11y/internal/navigation"
)

// WriteOutline prints the outline as an indented list, one heading per line,
// with the fragment each item links to.
func WriteOutline(w io.Writer, outline *navigation.Outline) error {
	if outline == nil || len(outline.Entries) == 0 {
		_, err := fmt.Fprintln(w, "(no outline)")
		return err
	}
	return writeEntries(w, outline.Entries, 0)
}

func writeEntries(w io.Writer, entries []*navigation.OutlineEntry, depth int) error {
	for _, e := range entries {
		title, href := entryLink(e)
		line := fmt.Sprintf("%sh%d %s", strings.Repeat("  ", depth), e.Level, title)
		if href != "" {
			line += " (" + href + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := writeEntries(w, e.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func entryLink(e *navigation.OutlineEntry) (title, href string) {
	if e.Item == nil {
		return "", ""
	}
	link := e.Item.FirstElementChild()
	if link == nil || link.TagName() != "a" {
		return strings.TrimSpace(e.Item.Text()), ""
	}
	return strings.TrimSpace(link.Text()), link.Attr("href")
}
