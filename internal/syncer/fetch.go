package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mdsync/mdsync/internal/catalog"
	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/remote"
)

// Fetch mirrors the given remote categories into the docs directory.
// Every doc (including children) is fetched, written to its derived path,
// and recorded in the sync state. Per-doc failures are logged and skipped.
// When prune is set, local pages in those categories whose slug no longer
// exists remotely are deleted along with their sync-state entry.
func (s *Syncer) Fetch(ctx context.Context, categories []string, prune bool) error {
	seen := make(map[string]struct{})
	for _, category := range categories {
		summaries, err := s.Remote.ListCategoryDocs(ctx, category)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		s.fetchDocs(ctx, category, summaries, seen)
	}
	if prune {
		return s.prune(categories, seen)
	}
	return nil
}

func (s *Syncer) fetchDocs(ctx context.Context, category string, summaries []remote.DocSummary, seen map[string]struct{}) {
	for _, sum := range summaries {
		seen[sum.Slug] = struct{}{}
		if err := s.fetchOne(ctx, category, sum.Slug); err != nil {
			s.Logger.Warn("fetch: doc failed",
				slog.String("slug", sum.Slug),
				slog.String("error", err.Error()))
		}
		s.fetchDocs(ctx, category, sum.Children, seen)
	}
}

func (s *Syncer) fetchOne(ctx context.Context, category, slug string) error {
	doc, err := s.Remote.GetDoc(ctx, slug)
	if err != nil {
		return err
	}
	if doc.Category == "" {
		doc.Category = category
	}
	p := page.FromRemote(*doc)

	if s.DryRun {
		s.Logger.Info("fetch: would write",
			slog.String("slug", slug),
			slog.String("path", p.Path()))
		return nil
	}

	written, err := p.WriteTo(s.Store)
	if err != nil {
		return err
	}
	if err := s.State.Put(slug, p.Hash()); err != nil {
		return err
	}
	s.Logger.Info("fetch: written",
		slog.String("slug", slug),
		slog.String("path", written))
	return nil
}

// prune removes local pages in the fetched categories whose slug was not
// part of the remote listing.
func (s *Syncer) prune(categories []string, seen map[string]struct{}) error {
	cat, err := catalog.Build(s.Store, s.Logger)
	if err != nil {
		return fmt.Errorf("fetch: prune: %w", err)
	}
	for _, p := range cat.FindPagesInCategories(categories) {
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		if s.DryRun {
			s.Logger.Info("fetch: would delete", slog.String("path", p.Path()))
			continue
		}
		if err := s.Store.Delete(p.Path()); err != nil {
			return fmt.Errorf("fetch: prune %s: %w", p.Path(), err)
		}
		if err := s.State.Delete(p.Slug); err != nil {
			return fmt.Errorf("fetch: prune state %s: %w", p.Slug, err)
		}
		s.Logger.Info("fetch: deleted", slog.String("path", p.Path()))
	}
	return nil
}
