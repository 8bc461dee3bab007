// Package navigation injects navigation aids into a parsed HTML document:
// skip links, a heading outline, a shortcut legend and long-description
// links. It works only through the dom interfaces.
package navigation

import (
	"context"
	"log/slog"

	"web-a11y/internal/config"
	"web-a11y/internal/dom"
)

type Option func(*Engine)

// WithDescriber replaces the element describer used by the shortcut legend.
func WithDescriber(d Describer) Option {
	return func(e *Engine) {
		e.describer = d
	}
}

// WithUserAgent picks the legend's modifier prefix for the given browser.
func WithUserAgent(userAgent string) Option {
	return func(e *Engine) {
		e.userAgent = userAgent
	}
}

// Engine runs the navigation fixes over one document. It assumes exclusive
// access to the document and must not be shared between goroutines.
type Engine struct {
	doc       dom.Document
	cfg       config.Config
	logger    *slog.Logger
	userAgent string
	describer Describer

	ids              *IDService
	anchors          *AnchorFactory
	keys             *ShortcutResolver
	skippers         *SkipLinkRegistry
	outline          *OutlineBuilder
	legend           *ShortcutLegend
	longDescriptions *LongDescriptions
}

func New(doc dom.Document, cfg config.Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		doc:    doc,
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.describer == nil {
		e.describer = AttributeDescriber{Doc: doc}
	}

	e.ids = NewIDService(doc, cfg.IDPrefix)
	e.anchors = NewAnchorFactory(doc, e.ids, logger)
	e.keys = NewShortcutResolver(doc, logger)
	e.skippers = NewSkipLinkRegistry(doc, e.anchors, e.keys, e.ids, logger, cfg.TextSkippers)
	e.outline = NewOutlineBuilder(doc, e.anchors, logger, cfg.TextHeading)
	e.legend = NewShortcutLegend(doc, e.describer, logger, cfg.TextShortcuts, ShortcutPrefix(e.userAgent, cfg.StandardShortcutPrefix))
	e.longDescriptions = NewLongDescriptions(doc, e.ids, logger, cfg.LongDescriptionPrefix, cfg.LongDescriptionSuffix)
	return e
}

// ProcessDocument applies every fix to the whole document. Running it again
// on its own output changes nothing.
func (e *Engine) ProcessDocument(ctx context.Context) (*Result, error) {
	e.logger.DebugContext(ctx, "Starting navigation processing")

	outline, err := e.ProvideNavigationByAllHeadings(ctx)
	if err != nil {
		return nil, err
	}

	// The legend container must exist before the skippers run so that a
	// skipper can target it.
	needLegend, err := e.needsLegend()
	if err != nil {
		return nil, err
	}
	if needLegend {
		if _, err := e.legend.Ensure(ctx); err != nil {
			return nil, err
		}
	}

	skipLinks, err := e.ProvideNavigationByAllSkippers(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := e.ProvideNavigationByAllShortcuts(ctx); err != nil {
		return nil, err
	}

	longDescriptions, err := e.ProvideNavigationToAllLongDescriptions(ctx)
	if err != nil {
		return nil, err
	}

	shortcuts, err := e.doc.Find("#" + idContainerShortcuts + " [" + attrShortcutDescriptionFor + "]")
	if err != nil {
		return nil, err
	}

	result := &Result{
		Outline:          outline,
		SkipLinks:        skipLinks,
		Shortcuts:        len(shortcuts),
		LongDescriptions: longDescriptions,
	}

	e.logger.InfoContext(ctx, "Navigation processing complete",
		slog.Group("results",
			slog.Bool("outline", outline != nil),
			slog.Int("skip_links", result.SkipLinks),
			slog.Int("shortcuts", result.Shortcuts),
			slog.Int("long_descriptions", result.LongDescriptions),
		),
	)
	return result, nil
}

func (e *Engine) needsLegend() (bool, error) {
	keyed, err := e.doc.Find("[accesskey]")
	if err != nil {
		return false, err
	}
	if len(withoutIgnored(keyed)) > 0 {
		return true, nil
	}
	for _, skipper := range e.cfg.Skippers {
		if len(skipper.Shortcuts) == 0 {
			continue
		}
		matches, err := e.skippers.Matches(skipper)
		if err != nil {
			return false, err
		}
		if len(matches) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// ProvideNavigationByAllHeadings builds the heading outline. A nil outline
// means the headings were missing or not in a valid order.
func (e *Engine) ProvideNavigationByAllHeadings(ctx context.Context) (*Outline, error) {
	headings, err := e.outline.Headings(ctx)
	if err != nil {
		return nil, err
	}
	return e.outline.Build(ctx, headings)
}

// ProvideNavigationByHeading adds one heading to the outline.
func (e *Engine) ProvideNavigationByHeading(ctx context.Context, heading dom.Element) (*OutlineEntry, error) {
	return e.outline.Add(ctx, heading)
}

// ProvideNavigationByAllSkippers registers every configured skipper and
// returns the number of linked elements.
func (e *Engine) ProvideNavigationByAllSkippers(ctx context.Context) (int, error) {
	total := 0
	for _, skipper := range e.cfg.Skippers {
		n, err := e.skippers.Register(ctx, skipper)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ProvideNavigationBySkipper links element from the skip list once for each
// configured skipper that matches it.
func (e *Engine) ProvideNavigationBySkipper(ctx context.Context, element dom.Element) ([]dom.Element, error) {
	if isIgnored(element) {
		return nil, nil
	}
	var links []dom.Element
	for _, skipper := range e.cfg.Skippers {
		matches, err := e.skippers.Matches(skipper)
		if err != nil {
			return links, err
		}
		if !dom.Contains(matches, element) {
			continue
		}
		var key string
		if n := len(skipper.Shortcuts); n > 0 {
			key = skipper.Shortcuts[n-1]
		}
		link, err := e.skippers.Apply(ctx, element, skipper.Label, key)
		if err != nil {
			return links, err
		}
		if link != nil {
			links = append(links, link)
		}
	}
	return links, nil
}

// ProvideNavigationByAllShortcuts describes every accesskey of the page in
// the legend and returns the number of new entries.
func (e *Engine) ProvideNavigationByAllShortcuts(ctx context.Context) (int, error) {
	elements, err := e.doc.Find("[accesskey]")
	if err != nil {
		return 0, err
	}
	total := 0
	for _, el := range withoutIgnored(elements) {
		n, err := e.legend.Describe(ctx, el)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ProvideNavigationByShortcut describes one element's accesskey in the legend.
func (e *Engine) ProvideNavigationByShortcut(ctx context.Context, element dom.Element) (int, error) {
	return e.legend.Describe(ctx, element)
}

// ProvideNavigationToAllLongDescriptions links every described image to its
// long description and returns how many images are linked.
func (e *Engine) ProvideNavigationToAllLongDescriptions(ctx context.Context) (int, error) {
	images, err := e.doc.Find("img[longdesc]")
	if err != nil {
		return 0, err
	}
	linked := 0
	for _, img := range images {
		link, err := e.longDescriptions.Provide(ctx, img)
		if err != nil {
			return linked, err
		}
		if link != nil {
			linked++
		}
	}
	return linked, nil
}

// ProvideNavigationToLongDescription links a single image.
func (e *Engine) ProvideNavigationToLongDescription(ctx context.Context, image dom.Element) (dom.Element, error) {
	return e.longDescriptions.Provide(ctx, image)
}

// FreeShortcut exposes the conflict resolver for callers assigning their own keys.
func (e *Engine) FreeShortcut(ctx context.Context, proposed string, requester dom.Element) (string, error) {
	return e.keys.FreeKey(ctx, proposed, requester)
}
