package htmldom

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Render serializes the tree rooted at root. It only reads the tree.
func Render(w io.Writer, root *html.Node) error {
	if root == nil {
		return nil
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// Snapshot returns the serialized form of d at this moment.
func Snapshot(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d.Root()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
