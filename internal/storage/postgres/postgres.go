// Package postgres stores campaign saves in PostgreSQL. It wraps the GORM
// backend and owns the connection and the PostGIS extension.
package postgres

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ufoai/geoscape/internal/database"
	gormstorage "github.com/ufoai/geoscape/internal/storage/gorm"
)

// Dependencies holds all dependencies for the PostgreSQL backend. A nil DB
// makes Init connect with the db.* config keys.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
	// FallbackPath is the SQLite file used when Postgres is unreachable.
	// Empty makes Init fail instead.
	FallbackPath string
	DBLogger     zerolog.Logger
}

// Backend implements storage.Backend and storage.Archive on PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	deps    Dependencies
	log     *slog.Logger
	manager *database.Manager
}

// New creates a new PostgreSQL backend. Nothing is connected until Init.
func New(deps Dependencies) *Backend {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Backend{deps: deps, log: log.With("component", "storage", "backend", "postgres")}
}

// Init connects if no DB was injected, enables PostGIS and starts the
// embedded GORM backend.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		if err := b.connect(); err != nil {
			return err
		}
	}

	if b.deps.DB.Name() == "postgres" {
		if err := b.deps.DB.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
		b.log.Info("PostGIS extension ready")
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:            b.deps.DB,
		Logger:        b.deps.Logger,
		FlushInterval: b.deps.FlushInterval,
	})
	return b.Backend.Init()
}

func (b *Backend) connect() error {
	if b.deps.FallbackPath != "" {
		if err := os.MkdirAll(filepath.Dir(b.deps.FallbackPath), 0755); err != nil {
			return fmt.Errorf("create fallback dir: %w", err)
		}
	}
	m := database.NewManager(b.deps.DBLogger)
	m.SqliteFilePath = b.deps.FallbackPath
	if err := m.Connect(); err != nil {
		return err
	}
	if m.ShouldSaveLocal && b.deps.FallbackPath == "" {
		_ = m.Close()
		return errors.New("postgres unreachable and no fallback file configured")
	}
	if m.ShouldSaveLocal {
		b.log.Warn("Postgres unreachable, saving to local SQLite", "path", b.deps.FallbackPath)
	}
	b.manager = m
	b.deps.DB = m.DB
	return nil
}

// Local reports whether saves go to the SQLite fallback file.
func (b *Backend) Local() bool {
	return b.manager != nil && b.manager.ShouldSaveLocal
}

// Close stops the writer and flushes. It is a no-op before Init.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	err := b.Backend.Close()
	if b.manager != nil {
		err = errors.Join(err, b.manager.Close())
	}
	return err
}
