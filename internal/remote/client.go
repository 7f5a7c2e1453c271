// Package remote is the thin HTTP client for the documentation hosting
// API. No retries, backoff, or rate limiting.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mdsync/mdsync/internal/apperr"
	"github.com/mdsync/mdsync/internal/page"
)

// DocSummary is one entry of a category listing, with nested child docs.
type DocSummary struct {
	Slug     string       `json:"slug"`
	Title    string       `json:"title"`
	Hidden   bool         `json:"hidden"`
	Children []DocSummary `json:"children,omitempty"`
}

// UpdateDocRequest is the push payload. LastUpdatedHash carries the hash
// the client last synced; the remote answers 409 when it has moved on.
type UpdateDocRequest struct {
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt,omitempty"`
	Body            string `json:"body"`
	Hidden          bool   `json:"hidden"`
	LastUpdatedHash string `json:"lastUpdatedHash,omitempty"`
}

// API is the remote surface the sync commands depend on.
type API interface {
	ListCategoryDocs(ctx context.Context, category string) ([]DocSummary, error)
	GetDoc(ctx context.Context, slug string) (*page.RemoteDoc, error)
	UpdateDoc(ctx context.Context, slug string, req UpdateDocRequest) error
}

// Client talks to the hosting API over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Verify *Client satisfies API at compile time.
var _ API = (*Client)(nil)

// NewClient creates a client for the API at baseURL authenticating with
// apiKey.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListCategoryDocs returns the doc summaries of a category, including
// nested children.
func (c *Client) ListCategoryDocs(ctx context.Context, category string) ([]DocSummary, error) {
	var out []DocSummary
	if err := c.do(ctx, http.MethodGet, "/categories/"+category+"/docs", nil, &out); err != nil {
		return nil, fmt.Errorf("remote: list category %s: %w", category, err)
	}
	return out, nil
}

// GetDoc fetches one document by slug.
func (c *Client) GetDoc(ctx context.Context, slug string) (*page.RemoteDoc, error) {
	var out page.RemoteDoc
	if err := c.do(ctx, http.MethodGet, "/docs/"+slug, nil, &out); err != nil {
		return nil, fmt.Errorf("remote: get doc %s: %w", slug, err)
	}
	return &out, nil
}

// UpdateDoc pushes new content for slug. A remote hash conflict surfaces
// as apperr.ErrConflict.
func (c *Client) UpdateDoc(ctx context.Context, slug string, req UpdateDocRequest) error {
	if err := c.do(ctx, http.MethodPut, "/docs/"+slug, req, nil); err != nil {
		return fmt.Errorf("remote: update doc %s: %w", slug, err)
	}
	return nil
}

// do performs one request, encoding body as JSON when non-nil and
// decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.apiKey+":")))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return apperr.ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
