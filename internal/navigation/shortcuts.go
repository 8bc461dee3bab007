package navigation

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"web-a11y/internal/dom"
)

const shortcutCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// ShortcutResolver tracks which element owns each accesskey. It only steers
// new requests away from taken keys and never rewrites an existing owner.
type ShortcutResolver struct {
	doc     dom.Document
	logger  *slog.Logger
	owners  map[rune]dom.Element
	scanned bool
}

func NewShortcutResolver(doc dom.Document, logger *slog.Logger) *ShortcutResolver {
	return &ShortcutResolver{
		doc:    doc,
		logger: logger,
		owners: make(map[rune]dom.Element),
	}
}

func (r *ShortcutResolver) scan(ctx context.Context) error {
	if r.scanned {
		return nil
	}
	elements, err := r.doc.Find("[accesskey]")
	if err != nil {
		return err
	}
	for _, el := range elements {
		for _, key := range shortcutKeys(el.Attr("accesskey")) {
			if _, taken := r.owners[key]; !taken {
				r.owners[key] = el
			}
		}
	}
	r.scanned = true
	r.logger.DebugContext(ctx, "Scanned document shortcuts",
		slog.Int("elements", len(elements)),
		slog.Int("keys", len(r.owners)),
	)
	return nil
}

// FreeKey returns proposed when no element other than requester owns it,
// otherwise the first unowned key of 0-9a-z. When every key is owned the
// proposal comes back unchanged. The returned key is recorded for requester.
func (r *ShortcutResolver) FreeKey(ctx context.Context, proposed string, requester dom.Element) (string, error) {
	if err := r.scan(ctx); err != nil {
		return "", err
	}
	key, ok := normalizeKey(proposed)
	if !ok {
		return proposed, nil
	}
	if !r.ownedByOther(key, requester) {
		r.owners[key] = requester
		return proposed, nil
	}
	for _, candidate := range shortcutCharset {
		if !r.ownedByOther(candidate, requester) {
			r.owners[candidate] = requester
			r.logger.InfoContext(ctx, "Shortcut taken, assigned a free key",
				slog.String("proposed", proposed),
				slog.String("assigned", string(candidate)),
			)
			return string(candidate), nil
		}
	}
	r.logger.WarnContext(ctx, "No free shortcut left", slog.String("proposed", proposed))
	return proposed, nil
}

// Claim records owner as the holder of key.
func (r *ShortcutResolver) Claim(key string, owner dom.Element) {
	if k, ok := normalizeKey(key); ok {
		r.owners[k] = owner
	}
}

// Owner returns the element currently holding key.
func (r *ShortcutResolver) Owner(ctx context.Context, key string) (dom.Element, error) {
	if err := r.scan(ctx); err != nil {
		return nil, err
	}
	k, ok := normalizeKey(key)
	if !ok {
		return nil, nil
	}
	return r.owners[k], nil
}

func (r *ShortcutResolver) ownedByOther(key rune, requester dom.Element) bool {
	owner, taken := r.owners[key]
	if !taken {
		return false
	}
	return owner == nil || requester == nil || !owner.Same(requester)
}

func normalizeKey(key string) (rune, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r, true
}

// shortcutKeys splits an accesskey value into its single-character keys.
func shortcutKeys(value string) []rune {
	var keys []rune
	for _, token := range strings.Fields(value) {
		if k, ok := normalizeKey(token); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
