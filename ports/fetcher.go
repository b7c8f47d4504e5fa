package ports

import (
	"context"
)

// Fetcher retrieves a remote document's raw bytes by path. Any non-success
// from the remote side (not found, forbidden, transient) surfaces as an
// error; the run orchestrator records it as a fetch failure for that binding.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath string) ([]byte, error)
}

// FolderEntry describes one child of a remote folder
type FolderEntry struct {
	Name string
	Size int64
}

// FolderLister enumerates a remote folder's children. Used only by the
// preflight check mode, never by the import path.
type FolderLister interface {
	ListFolder(ctx context.Context, folderPath string) ([]FolderEntry, error)
}
