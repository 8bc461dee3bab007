package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"web-a11y/internal/dom"
)

// ShortcutLegend lists the page accesskeys at the end of the body.
type ShortcutLegend struct {
	doc       dom.Document
	describer Describer
	logger    *slog.Logger
	prefix    string
	layout    containerLayout
}

func NewShortcutLegend(doc dom.Document, describer Describer, logger *slog.Logger, label, prefix string) *ShortcutLegend {
	return &ShortcutLegend{
		doc:       doc,
		describer: describer,
		logger:    logger,
		prefix:    prefix,
		layout: containerLayout{
			id:        idContainerShortcuts,
			textID:    idTextShortcuts,
			text:      label,
			listTag:   "ul",
			placement: placeLast,
		},
	}
}

// Ensure creates the legend container if it does not exist yet.
func (l *ShortcutLegend) Ensure(ctx context.Context) (dom.Element, error) {
	return ensureList(ctx, l.doc, l.logger, l.layout)
}

// Describe adds one legend entry per key of el's accesskey and gives el a
// title when it has none.
func (l *ShortcutLegend) Describe(ctx context.Context, el dom.Element) (int, error) {
	if !el.HasAttr("accesskey") || isIgnored(el) {
		return 0, nil
	}

	description, err := l.describer.Describe(ctx, el)
	if err != nil {
		return 0, err
	}
	if !el.HasAttr("title") {
		el.SetAttr("title", description)
	}

	list, err := l.Ensure(ctx)
	if err != nil || list == nil {
		return 0, err
	}

	added := 0
	for _, key := range strings.Fields(el.Attr("accesskey")) {
		key = strings.ToUpper(key)
		existing, err := l.doc.FindWithin(list, dom.AttrEquals(attrShortcutDescriptionFor, key))
		if err != nil {
			return added, err
		}
		if len(existing) > 0 {
			continue
		}

		item := l.doc.CreateElement("li")
		item.SetAttr(attrShortcutDescriptionFor, key)
		item.AppendText(fmt.Sprintf("%s + %s: %s", l.prefix, key, description))
		list.AppendChild(item)
		added++

		l.logger.DebugContext(ctx, "Added shortcut to legend", slog.String("key", key), slog.String("description", description))
	}
	return added, nil
}

var firefoxAgent = regexp.MustCompile(`firefox/[2-9]|minefield/3`)

// ShortcutPrefix returns the modifier keys a browser uses to trigger accesskeys.
// Unknown or empty user agents get standard.
func ShortcutPrefix(userAgent, standard string) string {
	if userAgent == "" {
		return standard
	}
	ua := strings.ToLower(userAgent)
	opera := strings.Contains(ua, "opera")
	mac := strings.Contains(ua, "mac")
	konqueror := strings.Contains(ua, "konqueror")
	spoofer := strings.Contains(ua, "spoofer")
	safari := strings.Contains(ua, "applewebkit")
	windows := strings.Contains(ua, "windows")
	chrome := strings.Contains(ua, "chrome")
	firefox := firefoxAgent.MatchString(ua)
	ie := strings.Contains(ua, "msie") || strings.Contains(ua, "trident")

	switch {
	case opera:
		return "SHIFT + ESC"
	case chrome && mac && !spoofer:
		return "CTRL + OPTION"
	case safari && !windows && !spoofer:
		return "CTRL + ALT"
	case !windows && (safari || mac || konqueror):
		return "CTRL"
	case firefox:
		return "ALT + SHIFT"
	case chrome || ie:
		return "ALT"
	}
	return standard
}
