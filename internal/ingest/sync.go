package ingest

import (
	"log/slog"

	"github.com/starford/raido/internal/dataset"
	"github.com/starford/raido/internal/graph"
)

// Sync walks the data directory and loads every new or changed dataset
// file into the graph, skipping files whose recorded checksum is
// unchanged. It returns the paths that were loaded.
func Sync(db *graph.DB, store dataset.Provider, logger *slog.Logger) ([]string, error) {
	metas, err := store.List()
	if err != nil {
		return nil, err
	}

	checksums, err := db.AllFileChecksums()
	if err != nil {
		return nil, err
	}

	var loaded []string
	for _, m := range metas {
		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := LoadFile(db, m.Path, data); err != nil {
			logger.Warn("sync: load failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := db.SetFileChecksum(m.Path, m.Checksum); err != nil {
			logger.Warn("sync: record checksum failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: loaded", slog.String("path", m.Path))
		loaded = append(loaded, m.Path)
	}

	return loaded, nil
}
