// Package processor runs the navigation engine over a whole page: it loads
// the source, converts Markdown, parses, applies every navigation fix and
// serializes the result together with a diff against the input.
package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"web-a11y/internal/config"
	"web-a11y/internal/dom/htmldom"
	"web-a11y/internal/markup"
	"web-a11y/internal/navigation"
	"web-a11y/internal/report"
)

// ErrEmptyRequest is returned when a request carries neither a URL nor a source.
var ErrEmptyRequest = errors.New("nothing to process: provide a URL or a document")

// ProcessPage loads, fixes and serializes one document. A new engine is built
// for every call, so concurrent calls never share state.
func ProcessPage(ctx context.Context, logger *slog.Logger, cfg config.Config, req Request) (*Output, error) {
	if req.URL != "" {
		logger = logger.With(slog.String("page_url", req.URL))
	}
	logger.DebugContext(ctx, "Starting page processing")

	// --- 1. Load Source ---
	source := req.Source
	switch {
	case req.URL != "":
		var err error
		source, err = newPageLoader(cfg).load(ctx, logger, req.URL)
		if err != nil {
			return nil, err
		}
	case len(source) == 0:
		return nil, ErrEmptyRequest
	}

	if req.Markdown {
		var err error
		source, err = markup.FromMarkdown(source, req.Title)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to convert Markdown", slog.Any("error", err))
			return nil, err
		}
	}

	doc, err := htmldom.Parse(bytes.NewReader(source))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to parse HTML document", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	// The diff is taken against the parsed input, so parser normalization
	// does not show up as a change.
	before, err := htmldom.Snapshot(doc)
	if err != nil {
		return nil, err
	}

	out := &Output{}
	if out.Title, err = findTitle(doc); err != nil {
		return nil, err
	}
	if out.Headings, err = countHeadings(ctx, logger, doc); err != nil {
		return nil, err
	}

	// --- 2. Apply Navigation Fixes ---
	engine := navigation.New(doc, cfg, logger, navigation.WithUserAgent(req.UserAgent))
	out.Result, err = engine.ProcessDocument(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Navigation processing failed", slog.Any("error", err))
		return nil, err
	}

	// --- 3. Serialize ---
	out.HTML, err = htmldom.Snapshot(doc)
	if err != nil {
		return nil, err
	}
	out.Diff, err = report.Diff("original", "processed", before, out.HTML, report.DefaultContext)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Page processing complete",
		slog.Group("results",
			slog.String("title", out.Title),
			slog.Bool("outline", out.Result.Outline != nil),
			slog.Int("skip_links", out.Result.SkipLinks),
			slog.Int("shortcuts", out.Result.Shortcuts),
			slog.Int("long_descriptions", out.Result.LongDescriptions),
			slog.Int("bytes", len(out.HTML)),
		),
	)

	return out, nil
}
