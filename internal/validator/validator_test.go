package validator_test

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/mdsync/mdsync/internal/catalog"
	"github.com/mdsync/mdsync/internal/link"
	"github.com/mdsync/mdsync/internal/storage"
	"github.com/mdsync/mdsync/internal/validator"
)

type okProber struct{}

func (okProber) Probe(context.Context, string) error { return nil }

func testCatalog(t *testing.T, files map[string]string) *catalog.Catalog {
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
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cat, err := catalog.Build(store, logger)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestValidatePages_CrossReferences(t *testing.T) {
	cat := testCatalog(t, map[string]string{
		"guides/a.md": "see [b](doc:b) and [gone](doc:c)\n",
		"guides/b.md": "content\n",
	})

	// Report runs under the validator's mutex, so plain append is safe.
	var failures []validator.Failure
	v := &validator.Validator{
		Resolver: &link.Resolver{Index: cat, Prober: okProber{}},
		Report:   func(f validator.Failure) { failures = append(failures, f) },
	}

	n, err := v.ValidatePages(context.Background(), cat.Pages())
	if err != nil {
		t.Fatalf("ValidatePages: %v", err)
	}
	if n != 1 {
		t.Fatalf("failures = %d, want 1", n)
	}
	f := failures[0]
	if f.Page != "guides/a.md" || f.Href != "c" || f.Line != 1 {
		t.Errorf("failure = %+v", f)
	}
	if !strings.Contains(f.Reason, "target not found") {
		t.Errorf("reason = %q", f.Reason)
	}
}

func TestValidatePages_MixedVariants(t *testing.T) {
	cat := testCatalog(t, map[string]string{
		"guides/a.md": "mailto:user@example.com\nmailto:not-an-email\nhttps://up.test/ok\n",
	})

	var failures []validator.Failure
	v := &validator.Validator{
		Resolver:    &link.Resolver{Index: cat, Prober: okProber{}},
		Report:      func(f validator.Failure) { failures = append(failures, f) },
		Concurrency: 1,
	}

	n, err := v.ValidatePages(context.Background(), cat.Pages())
	if err != nil {
		t.Fatalf("ValidatePages: %v", err)
	}
	if n != 1 {
		t.Fatalf("failures = %d, want 1: %+v", n, failures)
	}
	if failures[0].Kind != link.KindMailto || failures[0].Line != 2 {
		t.Errorf("failure = %+v", failures[0])
	}
}

func TestValidatePages_AllFailuresReported(t *testing.T) {
	cat := testCatalog(t, map[string]string{
		"guides/a.md": "[x](doc:gone1)\n[y](doc:gone2)\n[z](doc:gone3)\n",
	})

	var failures []validator.Failure
	v := &validator.Validator{
		Resolver:    &link.Resolver{Index: cat},
		Report:      func(f validator.Failure) { failures = append(failures, f) },
		Concurrency: 1,
	}

	n, err := v.ValidatePages(context.Background(), cat.Pages())
	if err != nil {
		t.Fatalf("ValidatePages: %v", err)
	}
	if n != 3 || len(failures) != 3 {
		t.Fatalf("failures = %d (%d reported), want 3", n, len(failures))
	}
	// Reporting order is not guaranteed.
	hrefs := []string{failures[0].Href, failures[1].Href, failures[2].Href}
	sort.Strings(hrefs)
	if hrefs[0] != "gone1" || hrefs[2] != "gone3" {
		t.Errorf("hrefs = %v", hrefs)
	}
}
