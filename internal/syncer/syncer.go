// Package syncer coordinates the fetch, push, and markdownize commands
// across the catalog, the remote API, and the local sync-state store.
package syncer

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mdsync/mdsync/internal/catalog"
	"github.com/mdsync/mdsync/internal/page"
	"github.com/mdsync/mdsync/internal/remote"
	"github.com/mdsync/mdsync/internal/state"
	"github.com/mdsync/mdsync/internal/storage"
)

// Syncer holds the collaborators shared by all sync operations.
type Syncer struct {
	Store  storage.Provider
	Remote remote.API
	State  state.Store
	Logger *slog.Logger
	DryRun bool
}

// Selection narrows which local pages a command operates on.
type Selection struct {
	// Categories is the comma-delimited category slug list, already split.
	// Empty means all categories.
	Categories []string
	// File restricts the selection to a single docs-root-relative path.
	File string
	// StagedOnly keeps only pages whose files are staged in git.
	StagedOnly bool
}

// SelectPages applies sel to the catalog, preserving catalog order.
func (s *Syncer) SelectPages(cat *catalog.Catalog, sel Selection) ([]*page.Page, error) {
	var pages []*page.Page
	switch {
	case sel.File != "":
		p := cat.FindPageByPath(sel.File)
		if p == nil {
			return nil, fmt.Errorf("syncer: no page at %s", sel.File)
		}
		pages = []*page.Page{p}
	case len(sel.Categories) > 0:
		pages = cat.FindPagesInCategories(sel.Categories)
	default:
		pages = cat.Pages()
	}

	if sel.StagedOnly {
		staged, err := stagedPaths(s.Store.Root())
		if err != nil {
			return nil, err
		}
		var kept []*page.Page
		for _, p := range pages {
			if _, ok := staged[p.Path()]; ok {
				kept = append(kept, p)
			}
		}
		pages = kept
	}
	return pages, nil
}

// stagedPaths returns the docs-root-relative paths of files currently
// staged in git. Files outside a work tree never match.
func stagedPaths(root string) (map[string]struct{}, error) {
	cmd := exec.Command("git", "diff", "--cached", "--name-only", "--relative")
	cmd.Dir = root
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("syncer: git staged list: %w", err)
	}
	paths := make(map[string]struct{})
	for _, line := range strings.Split(out.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths[line] = struct{}{}
		}
	}
	return paths, nil
}
