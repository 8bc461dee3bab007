package navigation

import (
	"context"
	"log/slog"

	"web-a11y/internal/dom"
)

// LongDescriptions exposes the longdesc of images as a visible link.
type LongDescriptions struct {
	doc    dom.Document
	ids    *IDService
	logger *slog.Logger
	prefix string
	suffix string
}

func NewLongDescriptions(doc dom.Document, ids *IDService, logger *slog.Logger, prefix, suffix string) *LongDescriptions {
	return &LongDescriptions{doc: doc, ids: ids, logger: logger, prefix: prefix, suffix: suffix}
}

// Provide inserts the link after img and returns it. Images without both
// longdesc and alt are left alone.
func (d *LongDescriptions) Provide(ctx context.Context, img dom.Element) (dom.Element, error) {
	if !img.HasAttr("longdesc") || !img.HasAttr("alt") || isIgnored(img) || img.Parent() == nil {
		return nil, nil
	}

	id, err := d.ids.EnsureID(img)
	if err != nil {
		return nil, err
	}
	existing, err := d.doc.FindFirst(dom.AttrEquals(attrLongDescriptionOf, id))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	link := d.doc.CreateElement("a")
	link.SetAttr("href", img.Attr("longdesc"))
	link.SetAttr("target", "_blank")
	link.SetAttr(attrLongDescriptionOf, id)
	link.AppendText(" (" + d.prefix + img.Attr("alt") + d.suffix + ")")
	img.InsertAfter(link)

	d.logger.DebugContext(ctx, "Added long description link", slog.String("image", id))
	return link, nil
}
