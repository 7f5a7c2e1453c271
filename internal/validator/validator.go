// Package validator runs link resolution over catalog pages and reports
// failures without aborting the pass.
package validator

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mdsync/mdsync/internal/link"
	"github.com/mdsync/mdsync/internal/page"
)

// Failure describes one link that did not resolve.
type Failure struct {
	Page   string
	Line   int
	Href   string
	Kind   link.Kind
	Reason string
}

// ReportFunc receives each failure as it happens. Order is not
// guaranteed; resolutions run concurrently.
type ReportFunc func(Failure)

// Validator resolves every link of the pages it is given. Failures are
// reported, never fatal: the pass continues across all links and pages.
type Validator struct {
	Resolver    *link.Resolver
	Report      ReportFunc
	Concurrency int
}

// ValidatePages extracts and resolves all links of the given pages, one
// attempt per link. Link resolutions share only the read-only catalog, so
// they run concurrently. Returns the number of failures.
func (v *Validator) ValidatePages(ctx context.Context, pages []*page.Page) (int, error) {
	limit := v.Concurrency
	if limit <= 0 {
		limit = 8
	}

	var mu sync.Mutex
	failures := 0

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, p := range pages {
		for _, l := range p.Links() {
			l := l
			g.Go(func() error {
				if err := l.Resolve(gCtx, v.Resolver); err != nil {
					mu.Lock()
					failures++
					if v.Report != nil {
						v.Report(Failure{
							Page:   l.PagePath(),
							Line:   l.Line(),
							Href:   l.Href(),
							Kind:   l.Kind(),
							Reason: l.Reason(),
						})
					}
					mu.Unlock()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return failures, err
	}
	return failures, nil
}
