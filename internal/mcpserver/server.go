// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only catalog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mdsync/mdsync/internal/catalog"
	"github.com/mdsync/mdsync/internal/storage"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp   *server.MCPServer
	cat   *catalog.Catalog
	store storage.Provider
}

// New creates an MCP server with all catalog tools registered.
func New(cat *catalog.Catalog, store storage.Provider) *Server {
	s := &Server{cat: cat, store: store}

	s.mcp = server.NewMCPServer(
		"mdsync",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List documentation pages, optionally filtered by category slug."),
		mcp.WithString("category", mcp.Description("Optional category slug (empty for all pages)")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read the raw Markdown of a documentation page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path relative to the docs root (e.g. category/page.md)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("page_links",
		mcp.WithDescription("List the cross-reference, URL, and mailto links found in a page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path relative to the docs root")),
	), s.pageLinks)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages := s.cat.Pages()
	if category, err := req.RequireString("category"); err == nil && category != "" {
		pages = s.cat.FindPagesInCategories([]string{category})
	}

	var paths []string
	for _, p := range pages {
		paths = append(paths, p.Path())
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no pages found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.cat.FindPageByPath(path) == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) pageLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p := s.cat.FindPageByPath(path)
	if p == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	type entry struct {
		Kind string `json:"kind"`
		Href string `json:"href"`
		Line int    `json:"line"`
	}
	var entries []entry
	for _, l := range p.Links() {
		entries = append(entries, entry{Kind: string(l.Kind()), Href: l.Href(), Line: l.Line()})
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no links found"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
