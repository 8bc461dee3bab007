package processor

import (
	"context"
	"log/slog"
	"strings"

	"web-a11y/internal/dom"
)

func countHeadings(ctx context.Context, logger *slog.Logger, doc dom.Document) (map[string]int, error) {
	logger.DebugContext(ctx, "Starting to count headings")

	headings := make(map[string]int)
	headingLevels := []string{"h1", "h2", "h3", "h4", "h5", "h6"}

	for _, tag := range headingLevels {
		found, err := doc.Find(tag)
		if err != nil {
			return nil, err
		}
		if count := len(found); count > 0 {
			logger.DebugContext(ctx, "Found heading tag", slog.String("tag", tag), slog.Int("count", count))
			headings[tag] = count
		}
	}

	logger.DebugContext(ctx, "Counted headings", slog.Any("heading_counts", headings))
	return headings, nil
}

func findTitle(doc dom.Document) (string, error) {
	title, err := doc.FindFirst("title")
	if err != nil || title == nil {
		return "", err
	}
	return strings.TrimSpace(title.Text()), nil
}
