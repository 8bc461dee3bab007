package navigation

import (
	"context"
	"strings"

	"web-a11y/internal/dom"
)

// Describer turns an element into the text announced for it.
type Describer interface {
	Describe(ctx context.Context, el dom.Element) (string, error)
}

// AttributeDescriber describes elements from their labelling attributes,
// falling back to the text content.
type AttributeDescriber struct {
	Doc dom.Document
}

func (d AttributeDescriber) Describe(ctx context.Context, el dom.Element) (string, error) {
	for _, attr := range []string{"title", "aria-label", "alt", "label"} {
		if el.HasAttr(attr) {
			return collapseSpace(el.Attr(attr)), nil
		}
	}

	for _, attr := range []string{"aria-labelledby", "aria-describedby"} {
		if !el.HasAttr(attr) {
			continue
		}
		for _, id := range strings.Fields(el.Attr(attr)) {
			ref, err := d.Doc.FindFirst(dom.AttrEquals("id", id))
			if err != nil {
				return "", err
			}
			if ref != nil {
				return collapseSpace(ref.Text()), nil
			}
		}
		break
	}

	if el.TagName() == "input" {
		switch strings.ToLower(el.Attr("type")) {
		case "button", "submit", "reset":
			if el.HasAttr("value") {
				return collapseSpace(el.Attr("value")), nil
			}
		}
	}

	return collapseSpace(el.Text()), nil
}
