package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"web-a11y/internal/config"
	"web-a11y/internal/dom"
)

// SkipLinkRegistry maintains the "skip to X" list at the top of the body.
type SkipLinkRegistry struct {
	doc     dom.Document
	anchors *AnchorFactory
	keys    *ShortcutResolver
	ids     *IDService
	logger  *slog.Logger
	layout  containerLayout
}

func NewSkipLinkRegistry(doc dom.Document, anchors *AnchorFactory, keys *ShortcutResolver, ids *IDService, logger *slog.Logger, label string) *SkipLinkRegistry {
	return &SkipLinkRegistry{
		doc:     doc,
		anchors: anchors,
		keys:    keys,
		ids:     ids,
		logger:  logger,
		layout: containerLayout{
			id:        idContainerSkippers,
			textID:    idTextSkippers,
			text:      label,
			listTag:   "ul",
			placement: placeFirst,
		},
	}
}

// Matches returns the elements skipper applies to, minus ignored ones.
func (r *SkipLinkRegistry) Matches(skipper config.Skipper) ([]dom.Element, error) {
	elements, err := r.doc.Find(skipper.Selector)
	if err != nil {
		return nil, err
	}
	return withoutIgnored(elements), nil
}

// Register adds a skip link for every element matching skipper. Labels are
// numbered when more than one element matches, and each link takes the next
// key from the end of the skipper's shortcut list.
func (r *SkipLinkRegistry) Register(ctx context.Context, skipper config.Skipper) (int, error) {
	logger := r.logger.With(slog.String("selector", skipper.Selector))

	elements, err := r.Matches(skipper)
	if err != nil {
		return 0, fmt.Errorf("skipper %q: %w", skipper.Selector, err)
	}
	logger.DebugContext(ctx, "Registering skipper", slog.Int("matches", len(elements)))

	shortcuts := slices.Clone(skipper.Shortcuts)
	linked := 0
	for i, el := range elements {
		label := skipper.Label
		if len(elements) > 1 {
			label = fmt.Sprintf("%s %d", skipper.Label, i+1)
		}

		var key string
		if n := len(shortcuts); n > 0 {
			key = shortcuts[n-1]
			shortcuts = shortcuts[:n-1]
		}

		link, err := r.Apply(ctx, el, label, key)
		if err != nil {
			return linked, err
		}
		if link != nil {
			linked++
		}
	}
	return linked, nil
}

// Apply links el from the skip list. An entry already pointing at el's
// anchor is returned as is.
func (r *SkipLinkRegistry) Apply(ctx context.Context, el dom.Element, label, key string) (dom.Element, error) {
	anchor, err := r.anchors.AnchorFor(ctx, el, attrAnchorFor, classSkipperAnchor)
	if err != nil || anchor == nil {
		return nil, err
	}

	list, err := ensureList(ctx, r.doc, r.logger, r.layout)
	if err != nil || list == nil {
		return nil, err
	}

	href := anchorHref(anchor)
	if item := findItem(list, href); item != nil {
		r.logger.DebugContext(ctx, "Skip link already present", slog.String("href", href))
		return item.FirstElementChild(), nil
	}

	item, link := newLinkItem(r.doc, href, label)
	if key != "" {
		free, err := r.keys.FreeKey(ctx, key, link)
		if err != nil {
			return nil, err
		}
		link.SetAttr("accesskey", free)
	}
	if _, err := r.ids.EnsureID(link); err != nil {
		return nil, err
	}
	list.AppendChild(item)

	r.logger.InfoContext(ctx, "Added skip link",
		slog.String("label", label),
		slog.String("href", href),
		slog.String("accesskey", link.Attr("accesskey")),
	)
	return link, nil
}
