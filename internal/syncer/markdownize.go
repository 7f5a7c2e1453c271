package syncer

import (
	"log/slog"

	"github.com/mdsync/mdsync/internal/markdownize"
	"github.com/mdsync/mdsync/internal/page"
)

// Markdownize rewrites proprietary widget markup in the given pages and
// writes back the ones whose content changed. Returns the number of pages
// rewritten. Dry-run reports without writing.
func (s *Syncer) Markdownize(pages []*page.Page, widgets []string, verbose bool) (int, error) {
	opts := markdownize.Options{Verbose: verbose}
	changed := 0
	for _, p := range pages {
		if verbose {
			path := p.Path()
			opts.Report = func(widget string, count int) {
				s.Logger.Info("markdownize: rewrote",
					slog.String("path", path),
					slog.String("widget", widget),
					slog.Int("count", count))
			}
		}

		out := markdownize.Markdownize(p.Content, widgets, opts)
		if out == p.Content {
			continue
		}
		changed++

		if s.DryRun {
			s.Logger.Info("markdownize: would rewrite", slog.String("path", p.Path()))
			continue
		}
		p.SetContent(out)
		written, err := p.WriteTo(s.Store)
		if err != nil {
			return changed, err
		}
		s.Logger.Info("markdownize: rewritten", slog.String("path", written))
	}
	return changed, nil
}
