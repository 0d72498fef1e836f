// Package markdown holds the pure text utilities the engine is built on:
// reference extraction and rewriting, tokenization, keyword extraction,
// heading scanning, content metrics, and line-based diff statistics.
package markdown

import (
	"regexp"
	"strings"
)

// Recognized reference forms:
//
//	[text](slug)  [text](slug#anchor)  [[slug]]  [[text|slug]]
var (
	inlineLinkRe = regexp.MustCompile(`(!?)\[[^\]]*\]\(([^)\s]+)\)`)
	wikiLinkRe   = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]+?))?\]\]`)
)

// NormalizeReference canonicalizes a raw link target to a slug: anchors and
// a leading slash are stripped. External targets (anything with a scheme)
// and pure in-page anchors normalize to "".
func NormalizeReference(target string) string {
	target = strings.TrimSpace(target)
	// Anything with a scheme (https://, mailto:, ...) is not a slug.
	if target == "" || strings.ContainsRune(target, ':') {
		return ""
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimPrefix(target, "/")
	return strings.TrimSpace(target)
}

// ExtractReferences returns the de-duplicated slugs referenced by content,
// in order of first appearance. Image embeds and external targets are
// ignored.
func ExtractReferences(content string) []string {
	var refs []string
	seen := make(map[string]struct{})
	add := func(target string) {
		slug := NormalizeReference(target)
		if slug == "" {
			return
		}
		if _, ok := seen[slug]; ok {
			return
		}
		seen[slug] = struct{}{}
		refs = append(refs, slug)
	}

	for _, m := range inlineLinkRe.FindAllStringSubmatch(content, -1) {
		if m[1] == "!" {
			continue
		}
		add(m[2])
	}
	for _, m := range wikiLinkRe.FindAllStringSubmatch(content, -1) {
		if m[2] != "" {
			add(m[2])
		} else {
			add(m[1])
		}
	}
	return refs
}

// RewriteReferences replaces every reference to oldSlug with newSlug across
// all recognized forms, preserving link text, anchors and any leading slash.
// It returns the rewritten content and the number of references replaced.
func RewriteReferences(content, oldSlug, newSlug string) (string, int) {
	old := regexp.QuoteMeta(oldSlug)
	count := 0

	inline := regexp.MustCompile(`(\[[^\]]*\]\(/?)` + old + `((?:#[^)\s]*)?\))`)
	content = inline.ReplaceAllStringFunc(content, func(s string) string {
		count++
		return inline.ReplaceAllString(s, "${1}"+newSlug+"${2}")
	})

	wikiBare := regexp.MustCompile(`(\[\[\s*/?)` + old + `(\s*\]\])`)
	content = wikiBare.ReplaceAllStringFunc(content, func(s string) string {
		count++
		return wikiBare.ReplaceAllString(s, "${1}"+newSlug+"${2}")
	})

	wikiPiped := regexp.MustCompile(`(\[\[[^\[\]|]*\|\s*/?)` + old + `(\s*\]\])`)
	content = wikiPiped.ReplaceAllStringFunc(content, func(s string) string {
		count++
		return wikiPiped.ReplaceAllString(s, "${1}"+newSlug+"${2}")
	})

	return content, count
}
