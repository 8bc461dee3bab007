package navigation

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"web-a11y/internal/dom"
)

// OutlineBuilder turns the page headings into a nested list of links.
type OutlineBuilder struct {
	doc     dom.Document
	anchors *AnchorFactory
	logger  *slog.Logger
	layout  containerLayout

	validated bool
	valid     bool
}

func NewOutlineBuilder(doc dom.Document, anchors *AnchorFactory, logger *slog.Logger, label string) *OutlineBuilder {
	return &OutlineBuilder{
		doc:     doc,
		anchors: anchors,
		logger:  logger,
		layout: containerLayout{
			id:        idContainerHeading,
			textID:    idTextHeading,
			text:      label,
			listTag:   "ol",
			placement: placeFirst,
		},
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// Headings returns the headings of the document in order, skipping ignored ones.
func (b *OutlineBuilder) Headings(ctx context.Context) ([]Heading, error) {
	elements, err := b.doc.Find(headingSelector)
	if err != nil {
		return nil, err
	}
	headings := make([]Heading, 0, len(elements))
	for _, el := range withoutIgnored(elements) {
		headings = append(headings, Heading{
			Level:   headingLevel(el.TagName()),
			Element: el,
			Index:   len(headings),
		})
	}
	b.logger.DebugContext(ctx, "Collected headings", slog.Int("count", len(headings)))
	return headings, nil
}

// Validate reports whether headings form a usable outline: at most one
// level-1 heading and no adjacent pair going more than one level deeper.
func Validate(headings []Heading) bool {
	if len(headings) == 0 {
		return true
	}
	lastLevel := headings[0].Level
	mainHeadings := 0
	for _, h := range headings {
		if h.Level == 1 {
			mainHeadings++
			if mainHeadings > 1 {
				return false
			}
		}
		if h.Level-lastLevel > 1 {
			return false
		}
		lastLevel = h.Level
	}
	return true
}

// Build attaches the outline of headings to the document. It returns nil
// without touching the document when the sequence is invalid or empty.
func (b *OutlineBuilder) Build(ctx context.Context, headings []Heading) (*Outline, error) {
	if !Validate(headings) {
		b.logger.WarnContext(ctx, "Heading structure is invalid, outline skipped", slog.Int("headings", len(headings)))
		return nil, nil
	}
	if len(headings) == 0 {
		return nil, nil
	}

	root, err := ensureList(ctx, b.doc, b.logger, b.layout)
	if err != nil || root == nil {
		return nil, err
	}

	type stackEntry struct {
		level int
		entry *OutlineEntry
	}

	outline := &Outline{Container: root.Parent()}
	var stack []stackEntry

	for _, h := range headings {
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		list := root
		var parent *OutlineEntry
		if len(stack) > 0 {
			parent = stack[len(stack)-1].entry
			list = childList(b.doc, parent.Item, "ol")
		}

		entry, err := b.attach(ctx, list, h)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}

		if parent == nil {
			outline.Entries = append(outline.Entries, entry)
		} else {
			parent.Children = append(parent.Children, entry)
		}
		stack = append(stack, stackEntry{level: h.Level, entry: entry})
	}

	b.logger.InfoContext(ctx, "Built heading outline", slog.Int("headings", len(headings)))
	return outline, nil
}

// Add places a single heading under the item of the nearest preceding
// heading with a lower level, or in the root list when there is none. This is
// the parent Build picks for the same heading.
func (b *OutlineBuilder) Add(ctx context.Context, el dom.Element) (*OutlineEntry, error) {
	if isIgnored(el) {
		return nil, nil
	}
	level := headingLevel(el.TagName())
	if level == 0 {
		return nil, nil
	}

	valid, err := b.documentValid(ctx)
	if err != nil || !valid {
		return nil, err
	}

	headings, err := b.Headings(ctx)
	if err != nil {
		return nil, err
	}
	var parent dom.Element
	for i := slices.IndexFunc(headings, func(h Heading) bool { return h.Element.Same(el) }) - 1; i >= 0; i-- {
		if headings[i].Level < level {
			parent = headings[i].Element
			break
		}
	}

	var list dom.Element
	if parent == nil {
		list, err = ensureList(ctx, b.doc, b.logger, b.layout)
		if err != nil {
			return nil, err
		}
	} else {
		item, err := b.itemFor(parent)
		if err != nil {
			return nil, err
		}
		if item != nil {
			list = childList(b.doc, item, "ol")
		}
	}
	if list == nil {
		b.logger.DebugContext(ctx, "No parent outline item for heading", slog.Int("level", level))
		return nil, nil
	}

	return b.attach(ctx, list, Heading{Level: level, Element: el})
}

// itemFor returns the outline item linking to heading, if it was placed.
func (b *OutlineBuilder) itemFor(heading dom.Element) (dom.Element, error) {
	id := heading.Attr("id")
	if id == "" {
		return nil, nil
	}
	anchor, err := b.doc.FindFirst(dom.AttrEquals(attrHeadingAnchorFor, id))
	if err != nil || anchor == nil {
		return nil, err
	}
	container, err := b.doc.FindFirst("#" + idContainerHeading)
	if err != nil || container == nil {
		return nil, err
	}
	links, err := b.doc.FindWithin(container, "li > "+dom.AttrEquals("href", anchorHref(anchor)))
	if err != nil || len(links) == 0 {
		return nil, err
	}
	return links[0].Parent(), nil
}

func (b *OutlineBuilder) documentValid(ctx context.Context) (bool, error) {
	if b.validated {
		return b.valid, nil
	}
	headings, err := b.Headings(ctx)
	if err != nil {
		return false, err
	}
	b.valid = Validate(headings)
	b.validated = true
	if !b.valid {
		b.logger.WarnContext(ctx, "Heading structure is invalid, outline skipped", slog.Int("headings", len(headings)))
	}
	return b.valid, nil
}

// attach links h from list, reusing an item that already points at its anchor.
func (b *OutlineBuilder) attach(ctx context.Context, list dom.Element, h Heading) (*OutlineEntry, error) {
	anchor, err := b.anchors.AnchorFor(ctx, h.Element, attrHeadingAnchorFor, classHeadingAnchor)
	if err != nil || anchor == nil {
		return nil, err
	}

	href := anchorHref(anchor)
	item := findItem(list, href)
	if item == nil {
		item, _ = newLinkItem(b.doc, href, collapseSpace(h.Element.Text()))
		item.SetAttr(attrHeadingLevel, strconv.Itoa(h.Level))
		list.AppendChild(item)
	}

	return &OutlineEntry{Level: h.Level, Anchor: anchor, Item: item}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
