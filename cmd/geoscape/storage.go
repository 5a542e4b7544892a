package main

import (
	"fmt"
	"strings"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/database"
	"github.com/ufoai/geoscape/internal/logging"
	"github.com/ufoai/geoscape/internal/storage"
	gormstorage "github.com/ufoai/geoscape/internal/storage/gorm"
	"github.com/ufoai/geoscape/internal/storage/memory"
	pgstorage "github.com/ufoai/geoscape/internal/storage/postgres"
	sqlitestorage "github.com/ufoai/geoscape/internal/storage/sqlite"
	wsstorage "github.com/ufoai/geoscape/internal/storage/websocket"
)

func createStorageBackend(storageCfg config.StorageConfig, seed int64) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		Logger.Info("Postgres storage backend selected")
		return pgstorage.New(pgstorage.Dependencies{
			Logger:       Logger,
			DBLogger:     ZLogger.With().Str("component", "database").Logger(),
			FallbackPath: logging.SessionFile(storageCfg.Memory.OutputDir, AppName, SessionStartTime, ".db"),
		}), nil

	case "sqlite":
		dumpPath := storageCfg.SQLite.DumpPath
		if dumpPath == "" {
			dumpPath = logging.SessionFile(storageCfg.Memory.OutputDir, AppName, SessionStartTime, ".db")
		}
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     dumpPath,
		}, Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend selected", "dump", dumpPath)
		return backend, nil

	case "websocket":
		wsURL := httpToWS(storageCfg.WebSocket.URL)
		Logger.Info("WebSocket storage backend selected", "url", wsURL)
		return wsstorage.New(wsstorage.Config{
			URL:    wsURL,
			Secret: storageCfg.WebSocket.Secret,
			Seed:   seed,
		}, Logger), nil

	case "memory", "":
		Logger.Info("Memory storage backend selected", "dir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

// openArchive creates and initializes the configured backend, which must be
// able to read saves back.
// SQLite saves are read from the dump file.
func openArchive(storageCfg config.StorageConfig) (storage.Backend, storage.Archive, error) {
	var backend storage.Backend
	if storageCfg.Type == "sqlite" {
		if storageCfg.SQLite.DumpPath == "" {
			return nil, nil, fmt.Errorf("storage.sqlite.dumpPath is required to read sqlite saves")
		}
		db, err := database.GetSqliteDB(storageCfg.SQLite.DumpPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite dump: %w", err)
		}
		backend = gormstorage.New(gormstorage.Dependencies{DB: db, Logger: Logger, FlushInterval: -1})
	} else {
		var err error
		if backend, err = createStorageBackend(storageCfg, 0); err != nil {
			return nil, nil, err
		}
	}
	archive, ok := backend.(storage.Archive)
	if !ok {
		return nil, nil, fmt.Errorf("storage type %q cannot read saves back", storageCfg.Type)
	}
	if err := backend.Init(); err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	return backend, archive, nil
}

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}
