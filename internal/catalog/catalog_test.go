package catalog

import (
	"log/slog"
	"os"
	"testing"

	"github.com/mdsync/mdsync/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func buildCatalog(t *testing.T, files map[string]string) *Catalog {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for path, content := range files {
		if err := store.Write(path, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	c, err := Build(store, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestBuild_LoadsPages(t *testing.T) {
	c := buildCatalog(t, map[string]string{
		"guides/a.md":    "---\ntitle: A\n---\nbody a\n",
		"guides/b.md":    "---\ntitle: B\n---\nbody b\n",
		"reference/c.md": "body c\n",
	})
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
}

func TestBuild_SkipsUnparseableFile(t *testing.T) {
	c := buildCatalog(t, map[string]string{
		"guides/good.md": "---\ntitle: Good\n---\nok\n",
		"guides/bad.md":  "---\n: bad: yaml: {{{\n---\nbody\n",
	})
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1 (bad file skipped)", c.Len())
	}
	if c.FindPageByPath("guides/bad.md") != nil {
		t.Error("unparseable page should not be in the catalog")
	}
}

func TestFindPageByPath(t *testing.T) {
	c := buildCatalog(t, map[string]string{"guides/a.md": "body\n"})
	if p := c.FindPageByPath("guides/a.md"); p == nil || p.Slug != "a" {
		t.Errorf("FindPageByPath = %+v", p)
	}
	if c.FindPageByPath("guides/missing.md") != nil {
		t.Error("expected nil for unknown path")
	}
}

func TestFindPagesInCategories_PreservesOrder(t *testing.T) {
	c := buildCatalog(t, map[string]string{
		"guides/a.md":    "a\n",
		"guides/b.md":    "b\n",
		"reference/c.md": "c\n",
		"faq/d.md":       "d\n",
	})
	got := c.FindPagesInCategories([]string{"guides", "faq"})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Catalog order follows the walk, which is lexicographic by path.
	for i := 1; i < len(got); i++ {
		if got[i-1].Path() > got[i].Path() {
			t.Errorf("order not preserved: %s before %s", got[i-1].Path(), got[i].Path())
		}
	}
	for _, p := range got {
		if p.Category == "reference" {
			t.Error("reference should be filtered out")
		}
	}
}

func TestHasSlug(t *testing.T) {
	c := buildCatalog(t, map[string]string{"guides/a.md": "a\n"})
	if !c.HasSlug("a") {
		t.Error("HasSlug(a) = false")
	}
	if c.HasSlug("z") {
		t.Error("HasSlug(z) = true")
	}
	if p := c.FindPageBySlug("a"); p == nil || p.Path() != "guides/a.md" {
		t.Errorf("FindPageBySlug = %+v", p)
	}
}
