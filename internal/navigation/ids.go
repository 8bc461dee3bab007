package navigation

import (
	"strconv"

	"web-a11y/internal/dom"
)

// IDService hands out element identifiers unique within one document.
type IDService struct {
	doc    dom.Document
	prefix string
	next   int
}

func NewIDService(doc dom.Document, prefix string) *IDService {
	return &IDService{doc: doc, prefix: prefix, next: 1}
}

// EnsureID returns the element's id, assigning prefix+counter when it has none.
// Candidates already used by a live element are skipped.
func (s *IDService) EnsureID(el dom.Element) (string, error) {
	if id := el.Attr("id"); id != "" {
		return id, nil
	}
	for {
		candidate := s.prefix + strconv.Itoa(s.next)
		s.next++
		existing, err := s.doc.FindFirst(dom.AttrEquals("id", candidate))
		if err != nil {
			return "", err
		}
		if existing == nil {
			el.SetAttr("id", candidate)
			return candidate, nil
		}
	}
}
