// Package dataset defines the read-only dataset directory abstraction
// used by ingestion.
package dataset

// FileMeta describes one dataset file on disk.
type FileMeta struct {
	Path     string // relative to the data root
	Checksum string
}

// Provider is the interface for dataset file access. The graph is never
// written back to the dataset, so there are no write operations.
type Provider interface {
	// List returns metadata for every .csv file under the data root.
	List() ([]FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the data root).
	Read(path string) ([]byte, error)
}
