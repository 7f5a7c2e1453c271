// Package page models one documentation file: front-matter headers, body
// content, the derived content hash, and the links found in the body.
package page

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mdsync/mdsync/internal/checksum"
	"github.com/mdsync/mdsync/internal/link"
	"github.com/mdsync/mdsync/internal/storage"
)

// Page is one documentation page. Category/ParentSlug/Slug derive the
// on-disk path; Headers and Content feed the stable hash.
type Page struct {
	Category   string
	ParentSlug string
	Slug       string
	Headers    *Headers
	Content    string

	links       []link.Link
	linksParsed bool
}

// FromFile parses a front-matter block plus body from raw file bytes.
// relPath is the file location relative to the docs root
// (category[/parentSlug]/slug.md) and determines the hierarchy fields.
// Malformed front-matter YAML is an error.
func FromFile(relPath string, data []byte) (*Page, error) {
	category, parent, slug, err := splitPath(relPath)
	if err != nil {
		return nil, err
	}
	headers, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", relPath, err)
	}
	return &Page{
		Category:   category,
		ParentSlug: parent,
		Slug:       slug,
		Headers:    headers,
		Content:    body,
	}, nil
}

// Path returns the docs-root-relative location derived from the
// category/parent/slug hierarchy.
func (p *Page) Path() string {
	if p.ParentSlug != "" {
		return path.Join(p.Category, p.ParentSlug, p.Slug+".md")
	}
	return path.Join(p.Category, p.Slug+".md")
}

// Hash returns the stable digest over canonicalized headers + content.
// Identical (headers, content) pairs hash identically regardless of header
// insertion order. Hash equality is the sole sameness criterion for push.
func (p *Page) Hash() string {
	return checksum.Canonical(p.Headers.Map(), p.Content)
}

// Links parses the content for cross-reference, URL, and mailto links.
// Parsed lazily and cached until the content changes.
func (p *Page) Links() []link.Link {
	if !p.linksParsed {
		p.links = link.Extract(p.Path(), p.Content)
		p.linksParsed = true
	}
	return p.links
}

// SetContent replaces the body and invalidates the link cache.
func (p *Page) SetContent(content string) {
	p.Content = content
	p.links = nil
	p.linksParsed = false
}

// Marshal serializes the headers as a front-matter block followed by the
// content. Pages without headers serialize as bare content, unless the
// content itself opens with a --- delimiter (a horizontal rule at the top
// of a fetched body); then an empty front-matter fence keeps the next
// FromFile from reading the body as an unterminated header block.
func (p *Page) Marshal() ([]byte, error) {
	if p.Headers == nil || p.Headers.Len() == 0 {
		if strings.HasPrefix(strings.TrimLeft(p.Content, "\n\r"), "---") {
			return []byte("---\n---\n\n" + p.Content), nil
		}
		return []byte(p.Content), nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range p.Headers.Keys() {
		v, _ := p.Headers.Get(k)
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v},
		)
	}
	block, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("page %s: marshal front matter: %w", p.Path(), err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(block)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}

// WriteTo serializes the page and writes it through the storage provider
// to the derived path, creating directories as needed. Returns the
// written path.
func (p *Page) WriteTo(store storage.Provider) (string, error) {
	data, err := p.Marshal()
	if err != nil {
		return "", err
	}
	rel := p.Path()
	if err := store.Write(rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

// splitPath derives (category, parentSlug, slug) from a docs-root-relative
// file path.
func splitPath(relPath string) (category, parent, slug string, err error) {
	clean := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	if !strings.HasSuffix(clean, ".md") {
		return "", "", "", fmt.Errorf("page: not a markdown file: %s", relPath)
	}
	parts := strings.Split(clean, "/")
	slug = strings.TrimSuffix(parts[len(parts)-1], ".md")
	if slug == "" {
		return "", "", "", fmt.Errorf("page: empty slug: %s", relPath)
	}
	switch {
	case len(parts) == 1:
		// Top-level file outside any category.
	case len(parts) == 2:
		category = parts[0]
	case len(parts) == 3:
		category = parts[0]
		parent = parts[1]
	default:
		// Path() could not reproduce the file's location.
		return "", "", "", fmt.Errorf("page: path deeper than category/parent/slug: %s", relPath)
	}
	return category, parent, slug, nil
}

// splitFrontMatter separates the YAML front-matter block (between leading
// --- delimiters) from the body. A file without front matter is all body;
// a front-matter block that is not valid YAML, or not a flat mapping of
// scalars, is an error.
func splitFrontMatter(data []byte) (*Headers, string, error) {
	const delim = "---"
	headers := NewHeaders()

	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return headers, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("front matter: missing closing delimiter")
	}
	block := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, "", fmt.Errorf("front matter: %w", err)
	}
	if len(doc.Content) == 0 {
		return headers, body, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("front matter: not a key/value mapping")
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k, v := mapping.Content[i], mapping.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, "", fmt.Errorf("front matter: header %q is not a scalar", k.Value)
		}
		headers.Set(k.Value, v.Value)
	}
	return headers, body, nil
}
