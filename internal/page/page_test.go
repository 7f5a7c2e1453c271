package page

import (
	"strings"
	"testing"

	"github.com/mdsync/mdsync/internal/link"
	"github.com/mdsync/mdsync/internal/storage"
)

func TestFromFile_FrontMatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Getting Started\nexcerpt: The basics\n---\n# Getting Started\nBody text.\n")
	p, err := FromFile("guides/getting-started.md", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Category != "guides" || p.ParentSlug != "" || p.Slug != "getting-started" {
		t.Errorf("hierarchy = %q/%q/%q", p.Category, p.ParentSlug, p.Slug)
	}
	if title, _ := p.Headers.Get("title"); title != "Getting Started" {
		t.Errorf("title = %q", title)
	}
	if p.Content != "# Getting Started\nBody text.\n" {
		t.Errorf("content = %q", p.Content)
	}
}

func TestFromFile_NestedPath(t *testing.T) {
	p, err := FromFile("guides/setup/install.md", []byte("body"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Category != "guides" || p.ParentSlug != "setup" || p.Slug != "install" {
		t.Errorf("hierarchy = %q/%q/%q", p.Category, p.ParentSlug, p.Slug)
	}
	if p.Path() != "guides/setup/install.md" {
		t.Errorf("path = %q", p.Path())
	}
}

func TestFromFile_NoFrontMatter(t *testing.T) {
	p, err := FromFile("guides/plain.md", []byte("# Plain\nNo headers.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Headers.Len() != 0 {
		t.Errorf("expected no headers, got %v", p.Headers.Keys())
	}
	if !strings.HasPrefix(p.Content, "# Plain") {
		t.Errorf("content = %q", p.Content)
	}
}

func TestFromFile_MalformedYAML(t *testing.T) {
	input := []byte("---\n: bad: yaml: {{{\n---\nbody\n")
	if _, err := FromFile("guides/bad.md", input); err == nil {
		t.Fatal("malformed front matter should be an error")
	}
}

func TestFromFile_MissingClosingDelimiter(t *testing.T) {
	input := []byte("---\ntitle: Oops\nno closing fence\n")
	if _, err := FromFile("guides/open.md", input); err == nil {
		t.Fatal("unterminated front matter should be an error")
	}
}

func TestFromFile_RejectsPathDeeperThanHierarchy(t *testing.T) {
	if _, err := FromFile("guides/setup/linux/install.md", []byte("body")); err == nil {
		t.Fatal("path deeper than category/parent/slug should be an error")
	}
}

func TestHash_HeaderOrderInsensitive(t *testing.T) {
	a, err := FromFile("g/a.md", []byte("---\ntitle: T\nexcerpt: E\n---\nbody\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromFile("g/a.md", []byte("---\nexcerpt: E\ntitle: T\n---\nbody\n"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash() != b.Hash() {
		t.Error("hash depends on header order")
	}
}

func TestHash_ChangesWithContent(t *testing.T) {
	p, _ := FromFile("g/a.md", []byte("---\ntitle: T\n---\nbody\n"))
	before := p.Hash()
	p.SetContent("other body")
	if p.Hash() == before {
		t.Error("hash did not change with content")
	}
}

func TestWriteTo_RoundTrip(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	orig, err := FromFile("guides/setup/install.md",
		[]byte("---\ntitle: Install\nexcerpt: \"How to: install\"\nhidden: \"true\"\n---\n# Install\n\nRun the thing.\n"))
	if err != nil {
		t.Fatal(err)
	}

	written, err := orig.WriteTo(store)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if written != "guides/setup/install.md" {
		t.Errorf("written path = %q", written)
	}

	data, err := store.Read(written)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	got, err := FromFile(written, data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if got.Hash() != orig.Hash() {
		t.Error("round trip changed the hash")
	}
	if got.Content != orig.Content {
		t.Errorf("content = %q, want %q", got.Content, orig.Content)
	}
	for _, k := range orig.Headers.Keys() {
		want, _ := orig.Headers.Get(k)
		if v, ok := got.Headers.Get(k); !ok || v != want {
			t.Errorf("header %s = %q, want %q", k, v, want)
		}
	}
}

func TestWriteTo_BareContentOpeningWithRule(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// No headers, body opening with a horizontal rule: bare serialization
	// would re-parse as an unterminated front-matter block.
	orig := FromRemote(RemoteDoc{Slug: "rule", Category: "g", Body: "---\n\nrule at top\n"})

	written, err := orig.WriteTo(store)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	data, err := store.Read(written)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromFile(written, data)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if got.Content != orig.Content {
		t.Errorf("content = %q, want %q", got.Content, orig.Content)
	}
	if got.Headers.Len() != 0 {
		t.Errorf("headers = %v, want none", got.Headers.Keys())
	}
	if got.Hash() != orig.Hash() {
		t.Error("round trip changed the hash")
	}
}

func TestFromRemote_HeaderWhitelist(t *testing.T) {
	p := FromRemote(RemoteDoc{
		Slug:            "install",
		Title:           "Install",
		Excerpt:         "How to install",
		Body:            "content",
		Hidden:          true,
		Category:        "guides",
		ParentDoc:       "setup",
		LastUpdatedHash: "abc",
	})
	if p.Path() != "guides/setup/install.md" {
		t.Errorf("path = %q", p.Path())
	}
	keys := p.Headers.Keys()
	if len(keys) != 3 {
		t.Fatalf("headers = %v, want title/excerpt/hidden only", keys)
	}
	if v, _ := p.Headers.Get("hidden"); v != "true" {
		t.Errorf("hidden = %q", v)
	}
}

func TestFromRemote_OmitsEmptyAndVisible(t *testing.T) {
	p := FromRemote(RemoteDoc{Slug: "a", Title: "A", Category: "g"})
	if p.Headers.Len() != 1 {
		t.Errorf("headers = %v, want only title", p.Headers.Keys())
	}
}

func TestLinks_CachedUntilContentChanges(t *testing.T) {
	p, _ := FromFile("g/a.md", []byte("see [x](doc:other)\n"))
	first := p.Links()
	if len(first) != 1 || first[0].Kind() != link.KindCrossReference {
		t.Fatalf("links = %v", first)
	}
	p.SetContent("no links here")
	if len(p.Links()) != 0 {
		t.Error("link cache not invalidated on SetContent")
	}
}
