package navigation

import (
	"context"
	"log/slog"

	"web-a11y/internal/dom"
)

type placement int

const (
	placeFirst placement = iota
	placeLast
)

// containerLayout describes one of the generated lists:
// div#id > span#textID + <listTag>.
type containerLayout struct {
	id        string
	textID    string
	text      string
	listTag   string
	placement placement
}

// ensureList finds or creates the container and its list. It returns nil
// when the document has no body.
func ensureList(ctx context.Context, doc dom.Document, logger *slog.Logger, layout containerLayout) (dom.Element, error) {
	container, err := doc.FindFirst("#" + layout.id)
	if err != nil {
		return nil, err
	}
	if container == nil {
		body, err := doc.FindFirst("body")
		if err != nil {
			return nil, err
		}
		if body == nil {
			logger.WarnContext(ctx, "Document has no body, container not created", slog.String("container", layout.id))
			return nil, nil
		}

		container = doc.CreateElement("div")
		container.SetAttr("id", layout.id)

		label := doc.CreateElement("span")
		label.SetAttr("id", layout.textID)
		label.AppendText(layout.text)
		container.AppendChild(label)

		first := body.FirstElementChild()
		if layout.placement == placeFirst && first != nil {
			first.InsertBefore(container)
		} else {
			body.AppendChild(container)
		}
		logger.DebugContext(ctx, "Created container", slog.String("container", layout.id))
	}

	return childList(doc, container, layout.listTag), nil
}

// childList returns the first direct child of parent with the given tag,
// appending an empty one when missing.
func childList(doc dom.Document, parent dom.Element, tag string) dom.Element {
	for _, child := range parent.Children() {
		if child.TagName() == tag {
			return child
		}
	}
	list := doc.CreateElement(tag)
	parent.AppendChild(list)
	return list
}

// findItem returns the <li> of list whose link points at href.
func findItem(list dom.Element, href string) dom.Element {
	for _, item := range list.Children() {
		if item.TagName() != "li" {
			continue
		}
		for _, link := range item.Children() {
			if link.TagName() == "a" && link.Attr("href") == href {
				return item
			}
		}
	}
	return nil
}

func newLinkItem(doc dom.Document, href, text string) (item, link dom.Element) {
	item = doc.CreateElement("li")
	link = doc.CreateElement("a")
	link.SetAttr("href", href)
	link.AppendText(text)
	item.AppendChild(link)
	return item, link
}
