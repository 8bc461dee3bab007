package navigation

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestFreeKey(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		htmlContent string
		proposed    string
		want        string
	}{
		{
			name:        "Free key is returned unchanged",
			htmlContent: `<html><body><a accesskey="x" href="#">X</a></body></html>`,
			proposed:    "s",
			want:        "s",
		},
		{
			name:        "Taken key falls back to first free charset entry",
			htmlContent: `<html><body><a accesskey="s" href="#">S</a></body></html>`,
			proposed:    "s",
			want:        "0",
		},
		{
			name:        "Lookup is case insensitive",
			htmlContent: `<html><body><a accesskey="S" href="#">S</a></body></html>`,
			proposed:    "s",
			want:        "0",
		},
		{
			name:        "Multi key values are split",
			htmlContent: `<html><body><a accesskey="0 1" href="#">A</a><a accesskey="s" href="#">S</a></body></html>`,
			proposed:    "s",
			want:        "2",
		},
		{
			name:        "Empty proposal is passed through",
			htmlContent: `<html><body></body></html>`,
			proposed:    "",
			want:        "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseHTML(t, tc.htmlContent)
			resolver := NewShortcutResolver(doc, newTestLogger())
			requester := doc.CreateElement("a")

			got, err := resolver.FreeKey(ctx, tc.proposed, requester)
			if err != nil {
				t.Fatalf("FreeKey() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("FreeKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFreeKeyTwoRequesters(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body></body></html>`)
	resolver := NewShortcutResolver(doc, newTestLogger())
	first := doc.CreateElement("a")
	second := doc.CreateElement("a")

	got1, _ := resolver.FreeKey(ctx, "s", first)
	got2, _ := resolver.FreeKey(ctx, "s", second)

	if got1 != "s" {
		t.Errorf("first requester got %q, want s", got1)
	}
	if got2 != "0" {
		t.Errorf("second requester got %q, want 0", got2)
	}

	owner, err := resolver.Owner(ctx, "0")
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if !owner.Same(second) {
		t.Errorf("key 0 should be recorded for the second requester")
	}
}

func TestFreeKeyOwnKeyIsFree(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body><a id="self" accesskey="s" href="#">S</a></body></html>`)
	resolver := NewShortcutResolver(doc, newTestLogger())
	self := mustFindFirst(t, doc, "#self")

	got, err := resolver.FreeKey(ctx, "s", self)
	if err != nil {
		t.Fatalf("FreeKey() error = %v", err)
	}
	if got != "s" {
		t.Errorf("FreeKey() = %q, want s for the owner itself", got)
	}
}

func TestFreeKeyDoesNotRelabelOwner(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body><a id="owner" accesskey="s" href="#">S</a></body></html>`)
	resolver := NewShortcutResolver(doc, newTestLogger())

	if _, err := resolver.FreeKey(ctx, "s", doc.CreateElement("a")); err != nil {
		t.Fatalf("FreeKey() error = %v", err)
	}

	owner := mustFindFirst(t, doc, "#owner")
	if owner.Attr("accesskey") != "s" {
		t.Errorf("existing owner was relabelled to %q", owner.Attr("accesskey"))
	}
}

func TestFreeKeyExhausted(t *testing.T) {
	ctx := context.Background()
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, key := range shortcutCharset {
		fmt.Fprintf(&b, `<a accesskey="%c" href="#">%c</a>`, key, key)
	}
	b.WriteString("</body></html>")

	doc := parseHTML(t, b.String())
	resolver := NewShortcutResolver(doc, newTestLogger())

	got, err := resolver.FreeKey(ctx, "a", doc.CreateElement("a"))
	if err != nil {
		t.Fatalf("FreeKey() error = %v", err)
	}
	if got != "a" {
		t.Errorf("FreeKey() = %q, want the proposal back when all keys are used", got)
	}
}

func TestFreeKeyNeverReturnsForeignKey(t *testing.T) {
	ctx := context.Background()
	doc := parseHTML(t, `<html><body><a accesskey="0" href="#">0</a><a accesskey="1" href="#">1</a><a accesskey="s" href="#">s</a></body></html>`)
	resolver := NewShortcutResolver(doc, newTestLogger())

	seen := map[string]bool{"0": true, "1": true, "s": true}
	for i := 0; i < 10; i++ {
		got, err := resolver.FreeKey(ctx, "s", doc.CreateElement("a"))
		if err != nil {
			t.Fatalf("FreeKey() error = %v", err)
		}
		if seen[got] {
			t.Fatalf("FreeKey() returned %q which is already owned", got)
		}
		seen[got] = true
	}
}
