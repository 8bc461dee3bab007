package processor

import "web-a11y/internal/navigation"

// Request describes one document to process. Either URL or Source is set.
type Request struct {
	URL       string
	Source    []byte
	Markdown  bool
	Title     string
	UserAgent string
}

// Output is a processed document together with what the run did to it.
type Output struct {
	HTML     []byte
	Diff     string
	Title    string
	Headings map[string]int
	Result   *navigation.Result
}
