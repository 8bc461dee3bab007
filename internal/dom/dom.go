// Package dom defines the document tree capabilities the navigation engine
// works against. Backends adapt a concrete HTML library to these interfaces.
package dom

import (
	"fmt"
	"strings"
)

// Element is a single element node of a live document tree.
// Implementations must make two Elements wrapping the same node compare equal with Same.
type Element interface {
	// TagName returns the lower-case tag name.
	TagName() string
	Attr(name string) string
	HasAttr(name string) bool
	SetAttr(name, value string)
	RemoveAttr(name string)

	// Children returns the element children in document order.
	Children() []Element
	Parent() Element
	FirstElementChild() Element
	LastElementChild() Element

	Text() string
	AppendText(text string)

	// AppendChild moves child to the end of the receiver's children.
	AppendChild(child Element)
	// InsertBefore places sibling immediately before the receiver.
	InsertBefore(sibling Element)
	// InsertAfter places sibling immediately after the receiver.
	InsertAfter(sibling Element)

	Same(other Element) bool
}

// Document is the query and construction surface of a parsed page.
type Document interface {
	// Find returns every element matching selector in document order.
	Find(selector string) ([]Element, error)
	// FindFirst returns the first match, or nil when nothing matches.
	FindFirst(selector string) (Element, error)
	// FindWithin returns the descendants of root matching selector.
	FindWithin(root Element, selector string) ([]Element, error)
	// CreateElement builds a detached element.
	CreateElement(tag string) Element
}

// SelectorError reports a selector the backend could not compile.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q: %v", e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}

var attrValueReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// AttrEquals builds an attribute selector matching name="value" exactly.
func AttrEquals(name, value string) string {
	return fmt.Sprintf(`[%s="%s"]`, name, attrValueReplacer.Replace(value))
}

// Contains reports whether list holds an element equal to el.
func Contains(list []Element, el Element) bool {
	for _, candidate := range list {
		if candidate.Same(el) {
			return true
		}
	}
	return false
}
