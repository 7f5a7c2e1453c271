package link

import (
	"regexp"
	"strings"
)

var (
	crossRefRe  = regexp.MustCompile(`\[[^\]]*\]\(doc:([A-Za-z0-9_.-]+)(?:#[^)]*)?\)`)
	inlineURLRe = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)
	bareURLRe   = regexp.MustCompile(`(?:^|[\s<])(https?://[^\s<>"')\]]+)`)
	mailtoRe    = regexp.MustCompile(`mailto:([^\s<>"')\]]+)`)
)

// Extract scans content line by line and returns every link occurrence in
// source order, each tagged with its 1-based line number.
func Extract(pagePath, content string) []Link {
	var out []Link
	for i, line := range strings.Split(content, "\n") {
		n := i + 1

		for _, m := range crossRefRe.FindAllStringSubmatch(line, -1) {
			out = append(out, NewCrossReference(pagePath, m[1], n))
		}

		seen := make(map[string]struct{})
		for _, m := range inlineURLRe.FindAllStringSubmatch(line, -1) {
			href := trimTrailingPunct(m[1])
			seen[href] = struct{}{}
			out = append(out, NewURL(pagePath, href, n))
		}
		for _, m := range bareURLRe.FindAllStringSubmatch(line, -1) {
			href := trimTrailingPunct(m[1])
			// Inline matches already cover URLs in link syntax.
			if _, dup := seen[href]; dup {
				continue
			}
			out = append(out, NewURL(pagePath, href, n))
		}

		for _, m := range mailtoRe.FindAllStringSubmatch(line, -1) {
			out = append(out, NewMailto(pagePath, m[1], n))
		}
	}
	return out
}

// trimTrailingPunct strips sentence punctuation that bare-URL matching
// tends to swallow ("see https://x.test." → "https://x.test").
func trimTrailingPunct(href string) string {
	return strings.TrimRight(href, ".,;:!?")
}
