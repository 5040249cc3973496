package texts

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

var (
	// Bare URL, host in the first group. The markdown-link exclusion
	// (original used a lookbehind) is handled in AutoLinkURLs since RE2
	// has no lookarounds.
	urlPattern = regexp.MustCompile(
		`(?i)\b(?:https?|ftp)://((?:[a-z0-9-]+\.)*[a-z0-9-]+(?::\d+)?)[^\s]*`)

	mentionPattern = regexp.MustCompile("`@(\\w+)`")
)

// Markdown renders markdown source to sanitized HTML.
func Markdown(source string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(source), p, renderer)
	return strings.TrimSpace(string(ugcPolicy.SanitizeBytes(rendered)))
}

// Slugify turns free text into a URL-safe token. Deterministic but not
// globally unique; canonical decklist names disambiguate by appending the
// version number.
func Slugify(text string) string {
	return slug.Make(text)
}

// AutoLinkURLs wraps bare http/https/ftp URLs in markdown link syntax,
// [host](url), leaving URLs already inside a markdown link untouched.
func AutoLinkURLs(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range urlPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		// preceded by '(' means it is already inside a markdown link
		if start > 0 && text[start-1] == '(' {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteByte('[')
		b.WriteString(text[m[2]:m[3]])
		b.WriteString("](")
		b.WriteString(text[start:end])
		b.WriteByte(')')
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// ExtractMentions collects the deduplicated usernames mentioned in
// inline-code form (`@username`), in order of first appearance.
func ExtractMentions(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
