package main

import (
	"fmt"
	"os"

	"github.com/revelaction/morphrob/storage"
	"github.com/revelaction/morphrob/storage/filesystem"
	"github.com/revelaction/morphrob/storage/sqlite/zombiezen"
)

// NewRepository opens the annotated corpus at path: a directory is served
// by the artifact filesystem store, a regular file by the SQLite store.
func NewRepository(p *Pool, path string) (storage.Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewStore(pool), nil
}
