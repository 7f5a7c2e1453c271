// Package link models the cross-reference, URL, and mailto links found in
// page content, and their resolution against a catalog or the network.
package link

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Kind identifies a link variant.
type Kind string

const (
	KindCrossReference Kind = "crossref"
	KindURL            Kind = "url"
	KindMailto         Kind = "mailto"
)

// Status tracks a link through a validation pass. Each link gets a single
// resolution attempt per pass; there are no retries.
type Status string

const (
	StatusUnresolved Status = "unresolved"
	StatusResolving  Status = "resolving"
	StatusResolved   Status = "resolved"
	StatusFailed     Status = "failed"
)

// SlugIndex is the read-only catalog view that cross-references resolve
// against. It is never mutated by resolution.
type SlugIndex interface {
	HasSlug(slug string) bool
}

// Prober checks that an external URL is reachable.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// Resolver carries the shared resolution context for all link variants.
type Resolver struct {
	Index  SlugIndex
	Prober Prober
}

// Link is one occurrence of a link inside a page's content.
type Link interface {
	Kind() Kind
	// Href is the raw target: a slug for cross-references, a URL, or a
	// mailto address.
	Href() string
	// Line is the 1-based line number of the occurrence, for diagnostics.
	Line() int
	// PagePath identifies the owning page.
	PagePath() string
	Status() Status
	// Reason describes the failure after a failed resolution.
	Reason() string
	// Resolve attempts resolution exactly once and records the outcome.
	Resolve(ctx context.Context, r *Resolver) error
}

type base struct {
	href     string
	line     int
	pagePath string
	status   Status
	reason   string
}

func (b *base) Href() string     { return b.href }
func (b *base) Line() int        { return b.line }
func (b *base) PagePath() string { return b.pagePath }
func (b *base) Status() Status   { return b.status }
func (b *base) Reason() string   { return b.reason }

func (b *base) resolved() error {
	b.status = StatusResolved
	b.reason = ""
	return nil
}

func (b *base) failed(reason string) error {
	b.status = StatusFailed
	b.reason = reason
	return fmt.Errorf("link: %s", reason)
}

// CrossReference is an internal link to another page by slug.
type CrossReference struct{ base }

// NewCrossReference creates an unresolved cross-reference link.
func NewCrossReference(pagePath, slug string, line int) *CrossReference {
	return &CrossReference{base{href: slug, line: line, pagePath: pagePath, status: StatusUnresolved}}
}

func (l *CrossReference) Kind() Kind { return KindCrossReference }

// Resolve succeeds iff the catalog contains a page with the target slug.
func (l *CrossReference) Resolve(_ context.Context, r *Resolver) error {
	l.status = StatusResolving
	if r == nil || r.Index == nil || !r.Index.HasSlug(l.href) {
		return l.failed(fmt.Sprintf("target not found: %s", l.href))
	}
	return l.resolved()
}

// URL is an external http(s) link.
type URL struct{ base }

// NewURL creates an unresolved external link.
func NewURL(pagePath, href string, line int) *URL {
	return &URL{base{href: href, line: line, pagePath: pagePath, status: StatusUnresolved}}
}

func (l *URL) Kind() Kind { return KindURL }

// Resolve probes the target over the network. Best-effort: the outcome
// depends on remote availability, so tests inject a fake Prober.
func (l *URL) Resolve(ctx context.Context, r *Resolver) error {
	l.status = StatusResolving
	if r == nil || r.Prober == nil {
		return l.failed("no prober configured")
	}
	if err := r.Prober.Probe(ctx, l.href); err != nil {
		return l.failed(err.Error())
	}
	return l.resolved()
}

// Mailto is a mailto: link. Resolution is purely syntactic.
type Mailto struct{ base }

// NewMailto creates an unresolved mailto link. href is the address without
// the mailto: scheme.
func NewMailto(pagePath, addr string, line int) *Mailto {
	return &Mailto{base{href: addr, line: line, pagePath: pagePath, status: StatusUnresolved}}
}

func (l *Mailto) Kind() Kind { return KindMailto }

// Resolve succeeds iff the target is a well-formed email address.
func (l *Mailto) Resolve(_ context.Context, _ *Resolver) error {
	l.status = StatusResolving
	if err := validation.Validate(l.href, validation.Required, is.Email); err != nil {
		return l.failed(fmt.Sprintf("malformed address: %s", l.href))
	}
	return l.resolved()
}
