package navigation

import "web-a11y/internal/dom"

// Container identifiers, classes and marker attributes written into processed
// documents. Later runs find their own output through these names, so they
// must not change.
const (
	idContainerSkippers  = "container-skippers"
	idTextSkippers       = "text-skippers"
	idContainerHeading   = "container-heading"
	idTextHeading        = "text-heading"
	idContainerShortcuts = "container-shortcuts"
	idTextShortcuts      = "text-shortcuts"

	classSkipperAnchor = "skipper-anchor"
	classHeadingAnchor = "heading-anchor"

	attrAnchorFor              = "data-anchorfor"
	attrHeadingAnchorFor       = "data-headinganchorfor"
	attrHeadingLevel           = "data-headinglevel"
	attrShortcutDescriptionFor = "data-shortcutdescriptionfor"
	attrIgnore                 = "data-ignoreaccessibilityfix"
	attrLongDescriptionOf      = "data-attributelongdescriptionof"

	headingSelector = "h1,h2,h3,h4,h5,h6"
)

// Heading is a heading element paired with its level and position among the
// processed headings.
type Heading struct {
	Level   int
	Element dom.Element
	Index   int
}

// OutlineEntry is one item of the heading outline.
type OutlineEntry struct {
	Level    int
	Anchor   dom.Element
	Item     dom.Element
	Children []*OutlineEntry
}

// Outline is the result of one outline build. The engine does not keep it.
type Outline struct {
	Container dom.Element
	Entries   []*OutlineEntry
}

// Levels returns the pre-order level sequence of the outline.
func (o *Outline) Levels() []int {
	if o == nil {
		return nil
	}
	var levels []int
	var walk func([]*OutlineEntry)
	walk = func(entries []*OutlineEntry) {
		for _, e := range entries {
			levels = append(levels, e.Level)
			walk(e.Children)
		}
	}
	walk(o.Entries)
	return levels
}

// Result summarizes what a full document run left in the document.
type Result struct {
	Outline          *Outline
	SkipLinks        int
	Shortcuts        int
	LongDescriptions int
}

func isIgnored(el dom.Element) bool {
	return el.HasAttr(attrIgnore)
}

func withoutIgnored(elements []dom.Element) []dom.Element {
	kept := elements[:0:0]
	for _, el := range elements {
		if !isIgnored(el) {
			kept = append(kept, el)
		}
	}
	return kept
}
