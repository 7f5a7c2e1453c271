// Package markdownize rewrites the hosting platform's proprietary widget
// markup ([block:TYPE] ... [/block]) into standard Markdown.
package markdownize

import (
	"fmt"
	"regexp"
)

// Options controls transform behavior. Report, when Verbose is set, is
// called once per widget type with the number of rewritten occurrences.
type Options struct {
	Verbose bool
	Report  func(widget string, count int)
}

// rewrite turns one widget's JSON payload into Markdown. ok is false when
// the payload does not parse; the occurrence is then left untouched.
type rewrite func(payload string) (out string, ok bool)

type widget struct {
	name    string
	pattern *regexp.Regexp
	rewrite rewrite
}

// registry is the fixed set of supported widget types, applied in order.
var registry = []widget{
	{name: "code", pattern: blockPattern("code"), rewrite: rewriteCode},
	{name: "callout", pattern: blockPattern("callout"), rewrite: rewriteCallout},
	{name: "image", pattern: blockPattern("image"), rewrite: rewriteImage},
	{name: "html", pattern: blockPattern("html"), rewrite: rewriteHTML},
}

func blockPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)\[block:` + name + `\]\s*(\{.*?\})\s*\[/block\]`)
}

// Widgets returns the names of all registered widget types.
func Widgets() []string {
	out := make([]string, len(registry))
	for i, w := range registry {
		out[i] = w.name
	}
	return out
}

// IsWidget reports whether name is a registered widget type.
func IsWidget(name string) bool {
	for _, w := range registry {
		if w.name == name {
			return true
		}
	}
	return false
}

// Markdownize rewrites every occurrence of the enabled widget types in
// content into standard Markdown and returns the new content. Pure and
// idempotent: converted output contains no widget markers, so a second
// pass is a no-op. Unknown names in enabled are ignored.
func Markdownize(content string, enabled []string, opts Options) string {
	want := make(map[string]struct{}, len(enabled))
	for _, name := range enabled {
		want[name] = struct{}{}
	}

	for _, w := range registry {
		if _, ok := want[w.name]; !ok {
			continue
		}
		count := 0
		content = w.pattern.ReplaceAllStringFunc(content, func(m string) string {
			payload := w.pattern.FindStringSubmatch(m)[1]
			out, ok := w.rewrite(payload)
			if !ok {
				return m
			}
			count++
			return out
		})
		if opts.Verbose && opts.Report != nil && count > 0 {
			opts.Report(w.name, count)
		}
	}
	return content
}

// ValidateWidgets checks a user-supplied widget selection against the
// registry.
func ValidateWidgets(names []string) error {
	for _, name := range names {
		if !IsWidget(name) {
			return fmt.Errorf("markdownize: unknown widget type %q (known: %v)", name, Widgets())
		}
	}
	return nil
}
