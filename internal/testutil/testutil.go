// Package testutil provides shared test helpers: temp docs directories,
// temp sync-state databases, and a fake remote documentation API.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/state"
	"github.com/mdsync/mdsync/internal/storage"
)

// TestState creates a temporary sync-state database that is automatically
// cleaned up.
func TestState(t *testing.T) *state.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "mdsync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := state.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDocs creates a temporary docs directory with a storage.Provider.
func TestDocs(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// FakeRemote is an in-memory documentation API served over httptest.
// Concurrent pushes hit the docs map, so access is mutex-guarded.
type FakeRemote struct {
	mu sync.Mutex
	// Docs maps slug to the remote document state.
	Docs map[string]*page.RemoteDoc
	// Categories maps category slug to its doc slugs, in listing order.
	Categories map[string][]string
	// Puts records the slugs updated, in order.
	Puts []string

	Server *httptest.Server
}

// NewFakeRemote starts the fake API on a chi router. The server is shut
// down with the test.
func NewFakeRemote(t *testing.T) *FakeRemote {
	t.Helper()
	f := &FakeRemote{
		Docs:       make(map[string]*page.RemoteDoc),
		Categories: make(map[string][]string),
	}

	r := chi.NewRouter()
	r.Get("/categories/{slug}/docs", f.listCategoryDocs)
	r.Get("/docs/{slug}", f.getDoc)
	r.Put("/docs/{slug}", f.updateDoc)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// AddDoc registers a document under a category.
func (f *FakeRemote) AddDoc(category string, doc *page.RemoteDoc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc.Category = category
	f.Docs[doc.Slug] = doc
	f.Categories[category] = append(f.Categories[category], doc.Slug)
}

func (f *FakeRemote) listCategoryDocs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type summary struct {
		Slug   string `json:"slug"`
		Title  string `json:"title"`
		Hidden bool   `json:"hidden"`
	}
	var out []summary
	for _, slug := range f.Categories[chi.URLParam(r, "slug")] {
		d := f.Docs[slug]
		out = append(out, summary{Slug: d.Slug, Title: d.Title, Hidden: d.Hidden})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeRemote) getDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.Docs[chi.URLParam(r, "slug")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (f *FakeRemote) updateDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slug := chi.URLParam(r, "slug")
	d, ok := f.Docs[slug]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req struct {
		Title           string `json:"title"`
		Excerpt         string `json:"excerpt"`
		Body            string `json:"body"`
		Hidden          bool   `json:"hidden"`
		LastUpdatedHash string `json:"lastUpdatedHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Conflict signaling: the client's last-synced hash must match what
	// the remote currently carries.
	if d.LastUpdatedHash != "" && req.LastUpdatedHash != d.LastUpdatedHash {
		w.WriteHeader(http.StatusConflict)
		return
	}

	d.Title = req.Title
	d.Excerpt = req.Excerpt
	d.Body = req.Body
	d.Hidden = req.Hidden
	f.Puts = append(f.Puts, slug)
	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
