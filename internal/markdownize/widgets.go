package markdownize

import (
	"encoding/json"
	"strings"
)

// rewriteCode turns a code widget into fenced code blocks with language
// annotation. Multiple tabs in one widget become consecutive blocks.
func rewriteCode(payload string) (string, bool) {
	var p struct {
		Codes []struct {
			Code     string `json:"code"`
			Language string `json:"language"`
			Name     string `json:"name"`
		} `json:"codes"`
	}
	if err := json.Unmarshal([]byte(payload), &p); err != nil || len(p.Codes) == 0 {
		return "", false
	}

	blocks := make([]string, 0, len(p.Codes))
	for _, c := range p.Codes {
		var b strings.Builder
		if c.Name != "" {
			b.WriteString("**" + c.Name + "**\n\n")
		}
		b.WriteString("```" + c.Language + "\n")
		b.WriteString(strings.TrimRight(c.Code, "\n"))
		b.WriteString("\n```")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n"), true
}

// calloutMarkers maps callout types to their blockquote marker.
var calloutMarkers = map[string]string{
	"info":    "📘",
	"warning": "🚧",
	"danger":  "❗",
	"success": "👍",
}

// rewriteCallout turns a callout widget into a blockquote with a marker
// and bold title line.
func rewriteCallout(payload string) (string, bool) {
	var p struct {
		Type  string `json:"type"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", false
	}

	marker, ok := calloutMarkers[p.Type]
	if !ok {
		marker = calloutMarkers["info"]
	}

	var b strings.Builder
	b.WriteString("> " + marker)
	if p.Title != "" {
		b.WriteString(" **" + p.Title + "**")
	}
	if p.Body != "" {
		b.WriteString("\n>")
		for _, line := range strings.Split(strings.TrimRight(p.Body, "\n"), "\n") {
			b.WriteString("\n> " + line)
		}
	}
	return b.String(), true
}

// rewriteImage turns an image widget into standard image syntax. The
// widget's image field is [url, name, ...]; the caption (or name) becomes
// the alt text.
func rewriteImage(payload string) (string, bool) {
	var p struct {
		Images []struct {
			Image   []any  `json:"image"`
			Caption string `json:"caption"`
		} `json:"images"`
	}
	if err := json.Unmarshal([]byte(payload), &p); err != nil || len(p.Images) == 0 {
		return "", false
	}

	var out []string
	for _, img := range p.Images {
		if len(img.Image) == 0 {
			continue
		}
		url, ok := img.Image[0].(string)
		if !ok || url == "" {
			continue
		}
		alt := img.Caption
		if alt == "" && len(img.Image) > 1 {
			if name, ok := img.Image[1].(string); ok {
				alt = name
			}
		}
		out = append(out, "!["+alt+"]("+url+")")
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, "\n\n"), true
}

// rewriteHTML unwraps an html widget to its literal HTML.
func rewriteHTML(payload string) (string, bool) {
	var p struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal([]byte(payload), &p); err != nil || p.HTML == "" {
		return "", false
	}
	return strings.TrimRight(p.HTML, "\n"), true
}
