package navigation

import (
	"context"
	"log/slog"

	"web-a11y/internal/dom"
)

// AnchorFactory creates in-page link targets, at most one per
// (element, link attribute) pair.
type AnchorFactory struct {
	doc    dom.Document
	ids    *IDService
	logger *slog.Logger
}

func NewAnchorFactory(doc dom.Document, ids *IDService, logger *slog.Logger) *AnchorFactory {
	return &AnchorFactory{doc: doc, ids: ids, logger: logger}
}

// AnchorFor returns the anchor pointing at el through linkAttr. An existing
// anchor is reused, links are their own anchor, and anything else gets an
// empty <a> inserted right before it. A nil anchor means the document cannot
// hold one.
func (f *AnchorFactory) AnchorFor(ctx context.Context, el dom.Element, linkAttr, class string) (dom.Element, error) {
	body, err := f.doc.FindFirst("body")
	if err != nil {
		return nil, err
	}
	if body == nil || el.Parent() == nil {
		f.logger.DebugContext(ctx, "No insertion point for anchor", slog.String("tag", el.TagName()))
		return nil, nil
	}

	id, err := f.ids.EnsureID(el)
	if err != nil {
		return nil, err
	}

	existing, err := f.doc.FindFirst(dom.AttrEquals(linkAttr, id))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		f.logger.DebugContext(ctx, "Reusing anchor", slog.String("target", id), slog.String("attribute", linkAttr))
		return existing, nil
	}

	anchor := el
	if el.TagName() != "a" {
		anchor = f.doc.CreateElement("a")
		anchor.SetAttr("class", class)
		el.InsertBefore(anchor)
	}

	anchorID, err := f.ids.EnsureID(anchor)
	if err != nil {
		return nil, err
	}
	if !anchor.HasAttr("name") {
		anchor.SetAttr("name", anchorID)
	}
	anchor.SetAttr(linkAttr, id)

	f.logger.DebugContext(ctx, "Created anchor",
		slog.String("target", id),
		slog.String("anchor", anchorID),
		slog.String("attribute", linkAttr),
	)
	return anchor, nil
}

// anchorHref is the fragment link to anchor.
func anchorHref(anchor dom.Element) string {
	if name := anchor.Attr("name"); name != "" {
		return "#" + name
	}
	return "#" + anchor.Attr("id")
}
