package tiledb

import (
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Repository knows how to look up databases by name.
type Repository interface {
	Lookup(name string) (*Database, error)
}

// MemoryRepository is a simple in-memory implementation useful during tests or
// when the caller preloads a fixed set of databases.
type MemoryRepository struct {
	mu  sync.RWMutex
	dbs map[string]*Database
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{dbs: make(map[string]*Database)}
}

// Add registers a database under its name.
func (r *MemoryRepository) Add(db *Database) error {
	if db == nil || db.Name == "" {
		return errors.New("tiledb: invalid database")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.dbs[db.Name]; dup {
		return errors.Errorf("tiledb: database %s already loaded", db.Name)
	}
	r.dbs[db.Name] = db
	return nil
}

// Lookup implements the Repository interface.
func (r *MemoryRepository) Lookup(name string) (*Database, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if db, ok := r.dbs[name]; ok {
		return db, nil
	}
	return nil, errors.Errorf("tiledb: no database %s", name)
}

// Names returns the loaded database names, sorted.
func (r *MemoryRepository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.dbs))
	for n := range r.dbs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFiles loads the provided database files.
func (r *MemoryRepository) LoadFiles(paths ...string) error {
	for _, path := range paths {
		db, err := Load(path)
		if err != nil {
			return err
		}
		if err := r.Add(db); err != nil {
			return errors.Wrapf(err, "tiledb: add %s", path)
		}
	}
	return nil
}

// LoadDir recursively loads all .json/.yaml/.yml/.sexp files from the
// provided directory.
func (r *MemoryRepository) LoadDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsDatabaseFile(path) {
			return nil
		}
		db, err := Load(path)
		if err != nil {
			return err
		}
		if err := r.Add(db); err != nil {
			return errors.Wrapf(err, "tiledb: add %s", path)
		}
		return nil
	})
}
