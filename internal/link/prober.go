package link

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPProber probes external URLs with a HEAD request, falling back to GET
// for servers that reject HEAD. A response in the 2xx/3xx range counts as
// reachable.
type HTTPProber struct {
	Client *http.Client
}

// NewHTTPProber returns a prober with the given per-request timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: timeout}}
}

// Probe performs the network check. One HEAD attempt, one GET fallback,
// no retries.
func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	if err := p.attempt(ctx, http.MethodHead, url); err == nil {
		return nil
	}
	return p.attempt(ctx, http.MethodGet, url)
}

func (p *HTTPProber) attempt(ctx context.Context, method, url string) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	return fmt.Errorf("probe %s: status %s", url, resp.Status)
}
