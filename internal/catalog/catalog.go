// Package catalog holds the full set of pages loaded from a docs
// directory and provides the lookup context for link resolution.
package catalog

import (
	"fmt"
	"log/slog"

	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/storage"
)

// Catalog is the immutable collection of pages discovered under the docs
// root. It is built once per command invocation; individual page content
// may still be rewritten, but the set of pages never changes.
type Catalog struct {
	pages  []*page.Page
	byPath map[string]*page.Page
	bySlug map[string]*page.Page
}

// Build scans the docs root for Markdown files and parses each into a
// Page. A file that cannot be parsed is logged and skipped; it never
// aborts the whole run.
func Build(store storage.Provider, logger *slog.Logger) (*Catalog, error) {
	infos, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	c := &Catalog{
		byPath: make(map[string]*page.Page, len(infos)),
		bySlug: make(map[string]*page.Page, len(infos)),
	}
	for _, info := range infos {
		data, err := store.Read(info.Path)
		if err != nil {
			logger.Warn("catalog: read failed", slog.String("path", info.Path), slog.String("error", err.Error()))
			continue
		}
		p, err := page.FromFile(info.Path, data)
		if err != nil {
			logger.Warn("catalog: parse failed", slog.String("path", info.Path), slog.String("error", err.Error()))
			continue
		}
		c.pages = append(c.pages, p)
		c.byPath[info.Path] = p
		c.bySlug[p.Slug] = p
	}
	return c, nil
}

// Pages returns all pages in catalog order.
func (c *Catalog) Pages() []*page.Page {
	return c.pages
}

// FindPageByPath returns the page stored at exactly path, or nil.
// Paths are unique by construction (category/parent/slug).
func (c *Catalog) FindPageByPath(path string) *page.Page {
	return c.byPath[path]
}

// FindPageBySlug returns the page with the given slug, or nil.
func (c *Catalog) FindPageBySlug(slug string) *page.Page {
	return c.bySlug[slug]
}

// FindPagesInCategories returns all pages whose category is in the given
// set, preserving catalog order.
func (c *Catalog) FindPagesInCategories(categories []string) []*page.Page {
	want := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		want[cat] = struct{}{}
	}
	var out []*page.Page
	for _, p := range c.pages {
		if _, ok := want[p.Category]; ok {
			out = append(out, p)
		}
	}
	return out
}

// HasSlug reports whether a page with the given slug exists. Satisfies
// the link resolution index.
func (c *Catalog) HasSlug(slug string) bool {
	_, ok := c.bySlug[slug]
	return ok
}

// Len returns the number of pages.
func (c *Catalog) Len() int { return len(c.pages) }
