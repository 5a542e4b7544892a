// Package memory keeps campaign saves in memory and exports each one to a
// JSON file, optionally gzipped.
package memory

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/internal/storage"
)

// Backend stores snapshots in memory and exports them to OutputDir.
// An empty OutputDir keeps everything in memory.
type Backend struct {
	cfg   config.MemoryConfig
	saves map[string]*savegame.Snapshot
	// export path per save id
	paths map[string]string

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		saves: make(map[string]*savegame.Snapshot),
		paths: make(map[string]string),
	}
}

// Init creates the output directory and indexes the saves already in it.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	found, err := scanDir(b.cfg.OutputDir)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, path := range found {
		if _, ok := b.paths[id]; !ok {
			b.paths[id] = path
		}
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Save keeps s and writes its export file.
func (b *Backend) Save(s *savegame.Snapshot) error {
	if s == nil || s.ID == "" {
		return errors.New("memory: save without id")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.saves[s.ID] = s
	if b.cfg.OutputDir == "" {
		return nil
	}
	path, err := b.export(s)
	if err != nil {
		return err
	}
	b.paths[s.ID] = path
	b.lastExportPath = path
	return nil
}

// Load returns the save with the given id, reading its export file when it
// is not in memory.
func (b *Backend) Load(id string) (*savegame.Snapshot, error) {
	b.mu.RLock()
	s, ok := b.saves[id]
	path, onDisk := b.paths[id]
	b.mu.RUnlock()

	if ok {
		return s, nil
	}
	if !onDisk {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	s, err := readFile(path)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.saves[id] = s
	b.mu.Unlock()
	return s, nil
}

// List describes every known save, oldest campaign date first.
func (b *Backend) List() ([]storage.Entry, error) {
	b.mu.RLock()
	ids := make([]string, 0, len(b.paths)+len(b.saves))
	seen := make(map[string]bool)
	for id := range b.saves {
		ids, seen[id] = append(ids, id), true
	}
	for id := range b.paths {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	b.mu.RUnlock()

	entries := make([]storage.Entry, 0, len(ids))
	for _, id := range ids {
		s, err := b.Load(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, storage.EntryFor(s))
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[j].Date.After(entries[i].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// GetExportedFilePath returns the path of the last export file.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
