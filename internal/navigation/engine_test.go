package navigation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"web-a11y/internal/config"
	"web-a11y/internal/dom"
	"web-a11y/internal/dom/htmldom"
)

const fullPage = `<!DOCTYPE html>
<html>
  <head><title>Navigation</title></head>
  <body>
    <header><a href="/" accesskey="h">Home</a></header>
    <main>
      <h1>Guide</h1>
      <h2>Install</h2>
      <h2>Configure</h2>
      <h3>Environment</h3>
      <h2>Run</h2>
      <img src="diagram.png" alt="Diagram" longdesc="diagram.html">
    </main>
  </body>
</html>`

func TestProvideNavigationByAllSkippers(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<!DOCTYPE html>
      <html>
        <head><title>Tests</title></head>
        <body>
          <main>Main content</main>
          <div id="container-shortcuts-after">Container of shortcuts</div>
          <div id="container-heading-after" data-ignoreaccessibilityfix="true">Container of headings</div>
        </body>
      </html>`)
	cfg := newTestConfig()
	cfg.Skippers = []config.Skipper{
		{Selector: "main", Label: "Skip to content", Shortcuts: []string{"1"}},
		{Selector: "#container-shortcuts-after", Label: "Skip to shortcuts", Shortcuts: []string{"9"}},
		{Selector: "#container-heading-after", Label: "Skip to headings", Shortcuts: []string{"8"}},
	}
	engine := New(doc, cfg, newTestLogger())

	n, err := engine.ProvideNavigationByAllSkippers(ctx)
	if err != nil {
		t.Fatalf("ProvideNavigationByAllSkippers() error = %v", err)
	}
	if n != 2 {
		t.Errorf("linked %d elements, want 2", n)
	}

	body := mustFindFirst(t, doc, "body")
	main := mustFindFirst(t, doc, "main")
	mainAnchor := mustFindFirst(t, doc, dom.AttrEquals(attrAnchorFor, main.Attr("id")))
	mustFindFirst(t, doc, "#"+idContainerSkippers+" "+dom.AttrEquals("href", "#"+mainAnchor.Attr("id")))

	shortcuts := mustFindFirst(t, doc, "#container-shortcuts-after")
	shortcutsAnchor := mustFindFirst(t, doc, dom.AttrEquals(attrAnchorFor, "container-shortcuts-after"))
	mustFindFirst(t, doc, "#"+idContainerSkippers+" "+dom.AttrEquals("href", "#"+shortcutsAnchor.Attr("id")))

	if ignored, _ := doc.FindFirst(dom.AttrEquals(attrAnchorFor, "container-heading-after")); ignored != nil {
		t.Errorf("ignored element must not get an anchor")
	}

	children := body.Children()
	if indexOf(children, main) != indexOf(children, mainAnchor)+1 {
		t.Errorf("main anchor must precede main")
	}
	if indexOf(children, shortcuts) != indexOf(children, shortcutsAnchor)+1 {
		t.Errorf("shortcuts anchor must precede its target")
	}
}

func TestProcessDocument(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, fullPage)
	engine := New(doc, newTestConfig(), newTestLogger())

	result, err := engine.ProcessDocument(ctx)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if result.Outline == nil {
		t.Fatal("Expected an outline")
	}
	if got := result.Outline.Levels(); len(got) != 5 {
		t.Errorf("outline levels = %v", got)
	}
	// main, #container-heading and #container-shortcuts.
	if result.SkipLinks != 3 {
		t.Errorf("SkipLinks = %d, want 3", result.SkipLinks)
	}
	// h plus the three skip link keys.
	if result.Shortcuts != 4 {
		t.Errorf("Shortcuts = %d, want 4", result.Shortcuts)
	}
	if result.LongDescriptions != 1 {
		t.Errorf("LongDescriptions = %d, want 1", result.LongDescriptions)
	}

	body := mustFindFirst(t, doc, "body")
	if first := body.FirstElementChild(); first.Attr("id") != idContainerSkippers {
		t.Errorf("first body child = %q, want the skip links", first.Attr("id"))
	}
	if last := body.LastElementChild(); last.Attr("id") != idContainerShortcuts {
		t.Errorf("last body child = %q, want the shortcut legend", last.Attr("id"))
	}

	var keys []string
	for _, link := range mustFind(t, doc, "#"+idContainerSkippers+" a") {
		keys = append(keys, link.Attr("accesskey"))
	}
	if strings.Join(keys, ",") != "1,2,3" {
		t.Errorf("skip link keys = %v", keys)
	}

	item := mustFindFirst(t, doc, dom.AttrEquals(attrShortcutDescriptionFor, "1"))
	if item.Text() != "ALT + 1: Skip to content" {
		t.Errorf("legend entry = %q", item.Text())
	}
}

func TestProcessDocumentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, fullPage)

	if _, err := New(doc, newTestConfig(), newTestLogger()).ProcessDocument(ctx); err != nil {
		t.Fatalf("first ProcessDocument() error = %v", err)
	}
	first := snapshot(t, doc)

	result, err := New(doc, newTestConfig(), newTestLogger()).ProcessDocument(ctx)
	if err != nil {
		t.Fatalf("second ProcessDocument() error = %v", err)
	}
	second := snapshot(t, doc)

	if first != second {
		t.Errorf("second run changed the document\nfirst:  %s\nsecond: %s", first, second)
	}
	if result.Outline == nil || len(result.Outline.Levels()) != 5 {
		t.Errorf("second run must still report the outline")
	}
	for _, id := range []string{idContainerSkippers, idContainerHeading, idContainerShortcuts} {
		if n := len(mustFind(t, doc, "#"+id)); n != 1 {
			t.Errorf("container %s present %d times", id, n)
		}
	}
}

func TestProcessDocumentWithInvalidHeadings(t *testing.T) {
	doc := parseHTML(t, `<html><body><main><h1>A</h1><h3>B</h3></main></body></html>`)

	result, err := New(doc, newTestConfig(), newTestLogger()).ProcessDocument(context.Background())
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if result.Outline != nil {
		t.Errorf("Expected no outline for invalid headings")
	}
	if len(mustFind(t, doc, "#"+idContainerHeading)) != 0 {
		t.Errorf("Outline container must not exist")
	}
	// Skip links still work: main and the legend.
	if result.SkipLinks != 2 {
		t.Errorf("SkipLinks = %d, want 2", result.SkipLinks)
	}
}

func TestProcessDocumentWithUserAgent(t *testing.T) {
	doc := parseHTML(t, `<html><body><a href="/" accesskey="h">Home</a></body></html>`)
	cfg := newTestConfig()
	cfg.Skippers = nil
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:52.0) Gecko/20100101 Firefox/52.0"

	if _, err := New(doc, cfg, newTestLogger(), WithUserAgent(ua)).ProcessDocument(context.Background()); err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	item := mustFindFirst(t, doc, dom.AttrEquals(attrShortcutDescriptionFor, "H"))
	if item.Text() != "ALT + SHIFT + H: Home" {
		t.Errorf("legend entry = %q", item.Text())
	}
}

type fixedDescriber string

func (d fixedDescriber) Describe(ctx context.Context, el dom.Element) (string, error) {
	return string(d), nil
}

func TestProcessDocumentWithDescriber(t *testing.T) {
	doc := parseHTML(t, `<html><body><a href="/" accesskey="h">Home</a></body></html>`)
	cfg := newTestConfig()
	cfg.Skippers = nil

	if _, err := New(doc, cfg, newTestLogger(), WithDescriber(fixedDescriber("Start"))).ProcessDocument(context.Background()); err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	item := mustFindFirst(t, doc, dom.AttrEquals(attrShortcutDescriptionFor, "H"))
	if item.Text() != "ALT + H: Start" {
		t.Errorf("legend entry = %q", item.Text())
	}
}

func TestProcessDocumentPropagatesSelectorErrors(t *testing.T) {
	doc := parseHTML(t, `<html><body><main>x</main></body></html>`)
	cfg := newTestConfig()
	cfg.Skippers = []config.Skipper{{Selector: "main[", Label: "broken", Shortcuts: []string{"1"}}}

	_, err := New(doc, cfg, newTestLogger()).ProcessDocument(context.Background())
	var selErr *dom.SelectorError
	if !errors.As(err, &selErr) {
		t.Fatalf("Expected a SelectorError, got %v", err)
	}
}

func TestProcessDocumentWithoutBody(t *testing.T) {
	root := &html.Node{Type: html.DocumentNode}
	main := &html.Node{Type: html.ElementNode, Data: "main", DataAtom: atom.Main}
	heading := &html.Node{Type: html.ElementNode, Data: "h1", DataAtom: atom.H1}
	heading.AppendChild(&html.Node{Type: html.TextNode, Data: "Title"})
	root.AppendChild(main)
	main.AppendChild(heading)
	doc := htmldom.FromNode(root)

	result, err := New(doc, newTestConfig(), newTestLogger()).ProcessDocument(context.Background())
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if result.Outline != nil || result.SkipLinks != 0 || result.Shortcuts != 0 {
		t.Errorf("Expected nothing to be added, got %+v", result)
	}
	if n := len(mustFind(t, doc, "a")); n != 0 {
		t.Errorf("Expected no anchors, got %d", n)
	}
}

func TestProvideNavigationBySkipper(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body><main>x</main><nav>n</nav></body></html>`)
	engine := New(doc, newTestConfig(), newTestLogger())

	links, err := engine.ProvideNavigationBySkipper(ctx, mustFindFirst(t, doc, "main"))
	if err != nil {
		t.Fatalf("ProvideNavigationBySkipper() error = %v", err)
	}
	if len(links) != 1 || links[0].Text() != "Skip to content" || links[0].Attr("accesskey") != "1" {
		t.Fatalf("unexpected links %v", links)
	}

	none, err := engine.ProvideNavigationBySkipper(ctx, mustFindFirst(t, doc, "nav"))
	if err != nil {
		t.Fatalf("ProvideNavigationBySkipper() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("nav matches no skipper, got %d links", len(none))
	}
}

func TestFreeShortcut(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body><a id="a" href="#">A</a><a id="b" href="#">B</a></body></html>`)
	engine := New(doc, newTestConfig(), newTestLogger())

	first, _ := engine.FreeShortcut(ctx, "s", mustFindFirst(t, doc, "#a"))
	second, _ := engine.FreeShortcut(ctx, "s", mustFindFirst(t, doc, "#b"))
	if first != "s" || second != "0" {
		t.Errorf("FreeShortcut() = %q, %q; want s, 0", first, second)
	}
}
