package syncer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mdsync/mdsync/internal/apperr"
	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/remote"
)

// PushStats summarizes one push pass.
type PushStats struct {
	Pushed    int
	Skipped   int
	Conflicts int
}

// Push uploads each page whose hash differs from the last synced hash.
// Unchanged pages are skipped; remote hash conflicts are reported and
// skipped, never auto-merged. The last synced hash rides along as
// lastUpdatedHash so the remote can signal concurrent edits — a
// best-effort optimistic check, not a correctness guarantee.
func (s *Syncer) Push(ctx context.Context, pages []*page.Page) (PushStats, error) {
	var stats PushStats
	for _, p := range pages {
		hash := p.Hash()

		last, err := s.State.Get(p.Slug)
		if err != nil {
			return stats, err
		}
		if hash == last {
			stats.Skipped++
			s.Logger.Debug("push: unchanged, skipping", slog.String("slug", p.Slug))
			continue
		}

		if s.DryRun {
			stats.Pushed++
			s.Logger.Info("push: would push",
				slog.String("slug", p.Slug),
				slog.String("path", p.Path()))
			continue
		}

		title, _ := p.Headers.Get("title")
		excerpt, _ := p.Headers.Get("excerpt")
		hidden, _ := p.Headers.Get("hidden")
		req := remote.UpdateDocRequest{
			Title:           title,
			Excerpt:         excerpt,
			Body:            p.Content,
			Hidden:          hidden == "true",
			LastUpdatedHash: last,
		}
		if err := s.Remote.UpdateDoc(ctx, p.Slug, req); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				stats.Conflicts++
				s.Logger.Warn("push: remote changed since last sync, skipping",
					slog.String("slug", p.Slug),
					slog.String("path", p.Path()))
				continue
			}
			return stats, err
		}

		if err := s.State.Put(p.Slug, hash); err != nil {
			return stats, err
		}
		stats.Pushed++
		s.Logger.Info("push: pushed", slog.String("slug", p.Slug))
	}
	return stats, nil
}
