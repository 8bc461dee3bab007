// Package htmldom adapts goquery and golang.org/x/net/html to the dom
// capability interfaces.
package htmldom

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"web-a11y/internal/dom"
)

// Document is a goquery-backed dom.Document. It is not safe for concurrent use.
type Document struct {
	doc       *goquery.Document
	selectors map[string]cascadia.Selector
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return newDocument(doc), nil
}

// FromNode wraps an already parsed tree rooted at root.
func FromNode(root *html.Node) *Document {
	return newDocument(goquery.NewDocumentFromNode(root))
}

func newDocument(doc *goquery.Document) *Document {
	return &Document{
		doc:       doc,
		selectors: make(map[string]cascadia.Selector),
	}
}

// Root returns the underlying document node.
func (d *Document) Root() *html.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}

func (d *Document) compile(selector string) (cascadia.Selector, error) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &dom.SelectorError{Selector: selector, Err: err}
	}
	d.selectors[selector] = sel
	return sel, nil
}

func (d *Document) Find(selector string) ([]dom.Element, error) {
	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	return wrapAll(d.doc.FindMatcher(sel).Nodes), nil
}

func (d *Document) FindFirst(selector string) (dom.Element, error) {
	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	root := d.Root()
	if root == nil {
		return nil, nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := sel.MatchFirst(c); n != nil {
			return wrap(n), nil
		}
	}
	return nil, nil
}

func (d *Document) FindWithin(root dom.Element, selector string) ([]dom.Element, error) {
	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	n := unwrap(root)
	if n == nil {
		return nil, nil
	}
	var matches []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		matches = append(matches, sel.MatchAll(c)...)
	}
	return wrapAll(matches), nil
}

func (d *Document) CreateElement(tag string) dom.Element {
	return wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

func wrapAll(nodes []*html.Node) []dom.Element {
	elements := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elements = append(elements, element{node: n})
		}
	}
	return elements
}
