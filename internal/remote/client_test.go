package remote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdsync/mdsync/internal/apperr"
	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/remote"
	"github.com/mdsync/mdsync/internal/testutil"
)

func testClient(t *testing.T) (*remote.Client, *testutil.FakeRemote) {
	t.Helper()
	fake := testutil.NewFakeRemote(t)
	return remote.NewClient(fake.Server.URL, "test-key", 2*time.Second), fake
}

func TestGetDoc(t *testing.T) {
	c, fake := testClient(t)
	fake.AddDoc("guides", &page.RemoteDoc{
		Slug: "install", Title: "Install", Body: "run it", LastUpdatedHash: "h1",
	})

	doc, err := c.GetDoc(context.Background(), "install")
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if doc.Title != "Install" || doc.Body != "run it" || doc.Category != "guides" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.LastUpdatedHash != "h1" {
		t.Errorf("lastUpdatedHash = %q", doc.LastUpdatedHash)
	}
}

func TestGetDoc_NotFound(t *testing.T) {
	c, _ := testClient(t)
	_, err := c.GetDoc(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListCategoryDocs(t *testing.T) {
	c, fake := testClient(t)
	fake.AddDoc("guides", &page.RemoteDoc{Slug: "a", Title: "A"})
	fake.AddDoc("guides", &page.RemoteDoc{Slug: "b", Title: "B"})

	docs, err := c.ListCategoryDocs(context.Background(), "guides")
	if err != nil {
		t.Fatalf("ListCategoryDocs: %v", err)
	}
	if len(docs) != 2 || docs[0].Slug != "a" || docs[1].Slug != "b" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestUpdateDoc(t *testing.T) {
	c, fake := testClient(t)
	fake.AddDoc("guides", &page.RemoteDoc{Slug: "a", Title: "A", LastUpdatedHash: "h1"})

	err := c.UpdateDoc(context.Background(), "a", remote.UpdateDocRequest{
		Title: "A2", Body: "new", LastUpdatedHash: "h1",
	})
	if err != nil {
		t.Fatalf("UpdateDoc: %v", err)
	}
	if fake.Docs["a"].Body != "new" || fake.Docs["a"].Title != "A2" {
		t.Errorf("remote doc = %+v", fake.Docs["a"])
	}
}

func TestUpdateDoc_Conflict(t *testing.T) {
	c, fake := testClient(t)
	fake.AddDoc("guides", &page.RemoteDoc{Slug: "a", Title: "A", LastUpdatedHash: "remote-moved-on"})

	err := c.UpdateDoc(context.Background(), "a", remote.UpdateDocRequest{
		Title: "A2", Body: "new", LastUpdatedHash: "stale",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}
