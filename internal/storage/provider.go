// Package storage defines the docs-directory file-system abstraction.
package storage

// FileInfo is a lightweight listing entry for a Markdown file.
type FileInfo struct {
	Path     string // relative to the docs root, forward slashes
	Checksum string // hex SHA-256 of the raw bytes
}

// Provider is the interface for docs-directory file operations.
type Provider interface {
	// Root returns the absolute path of the docs root.
	Root() string
	// List returns every .md file under dir (relative to the docs root).
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the docs root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the docs root),
	// creating intermediate directories.
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the docs root).
	Delete(path string) error
}
