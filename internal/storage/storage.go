// Package storage defines where campaign saves go.
package storage

import (
	"errors"
	"time"

	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/pkg/core"
)

// ErrNotFound is returned when a save id is unknown to the backend.
var ErrNotFound = errors.New("save not found")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Save stores a snapshot under its id.
	Save(s *savegame.Snapshot) error
}

// Archive is an optional interface for backends that can hand saves back.
type Archive interface {
	Load(id string) (*savegame.Snapshot, error)
	List() ([]Entry, error)
}

// StatusRecorder is an optional interface for backends that keep the
// daily campaign status.
type StatusRecorder interface {
	RecordStatus(seed int64, s geoscape.Status) error
}

// Entry describes a stored save without loading it.
type Entry struct {
	ID       string    `json:"id"`
	SavedAt  time.Time `json:"savedAt"`
	Date     core.Date `json:"date"`
	Missions int       `json:"missions"`
}

// EntryFor describes s.
func EntryFor(s *savegame.Snapshot) Entry {
	return Entry{ID: s.ID, SavedAt: s.SavedAt, Date: s.Date, Missions: len(s.Missions)}
}
