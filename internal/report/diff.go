// Package report renders human-readable summaries of a navigation run: a
// unified diff of the document and a plain-text heading outline.
package report

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// Diff returns a unified patch from before to after. Markup is broken at tag
// boundaries first, so elements inserted into a long line show up as their own
// hunk lines. An empty string means the documents are identical.
func Diff(beforeName, afterName string, before, after []byte, context int) (string, error) {
	if context <= 0 {
		context = DefaultContext
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(breakTags(string(before))),
		B:        splitLinesKeepNL(breakTags(string(after))),
		FromFile: beforeName,
		ToFile:   afterName,
		Context:  context,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("unified diff: %w", err)
	}
	return s, nil
}

func breakTags(s string) string {
	return strings.ReplaceAll(s, "><", ">\n<")
}

// splitLinesKeepNL splits into lines and keeps the newline characters.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
