package htmldom

import (
	"strings"

	"golang.org/x/net/html"

	"web-a11y/internal/dom"
)

type element struct {
	node *html.Node
}

func wrap(n *html.Node) dom.Element {
	if n == nil {
		return nil
	}
	return element{node: n}
}

func unwrap(e dom.Element) *html.Node {
	if el, ok := e.(element); ok {
		return el.node
	}
	return nil
}

// Node exposes the x/net/html node behind e, or nil when e is not from this backend.
func Node(e dom.Element) *html.Node {
	return unwrap(e)
}

func (e element) TagName() string {
	return strings.ToLower(e.node.Data)
}

func (e element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name && a.Namespace == "" {
			return a.Val
		}
	}
	return ""
}

func (e element) HasAttr(name string) bool {
	for _, a := range e.node.Attr {
		if a.Key == name && a.Namespace == "" {
			return true
		}
	}
	return false
}

func (e element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name && a.Namespace == "" {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key == name && a.Namespace == "" {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

func (e element) Children() []dom.Element {
	var children []dom.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, element{node: c})
		}
	}
	return children
}

func (e element) Parent() dom.Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return element{node: p}
}

func (e element) FirstElementChild() dom.Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return element{node: c}
		}
	}
	return nil
}

func (e element) LastElementChild() dom.Element {
	for c := e.node.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return element{node: c}
		}
	}
	return nil
}

func (e element) Text() string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(e.node)
	return buf.String()
}

func (e element) AppendText(text string) {
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e element) AppendChild(child dom.Element) {
	c := detach(child)
	if c == nil {
		return
	}
	e.node.AppendChild(c)
}

func (e element) InsertBefore(sibling dom.Element) {
	if e.node.Parent == nil {
		return
	}
	s := detach(sibling)
	if s == nil {
		return
	}
	e.node.Parent.InsertBefore(s, e.node)
}

func (e element) InsertAfter(sibling dom.Element) {
	if e.node.Parent == nil {
		return
	}
	s := detach(sibling)
	if s == nil {
		return
	}
	e.node.Parent.InsertBefore(s, e.node.NextSibling)
}

func (e element) Same(other dom.Element) bool {
	return other != nil && unwrap(other) == e.node
}

// detach removes n from its current parent so x/net/html accepts the move.
func detach(e dom.Element) *html.Node {
	n := unwrap(e)
	if n == nil {
		return nil
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return n
}
