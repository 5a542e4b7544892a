package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/database"
	"github.com/ufoai/geoscape/internal/storage"
	gormstorage "github.com/ufoai/geoscape/internal/storage/gorm"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy saves from SQLite dump files into the configured storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := migrateDir
		if dir == "" {
			dir = config.GetStorageConfig().Memory.OutputDir
		}
		target, err := createStorageBackend(config.GetStorageConfig(), 0)
		if err != nil {
			return err
		}
		if err := target.Init(); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer target.Close()

		migrated, err := migrateBackups(dir, target)
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d saves\n", migrated)
		return err
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "directory of the .db files (default storage.memory.outputDir)")
}

// migrateBackups saves every campaign found in the .db files of dir into
// target. A file whose saves all made it is renamed to .migrated.
func migrateBackups(dir string, target storage.Backend) (int, error) {
	paths, err := database.GetBackupDBPaths(dir)
	if err != nil {
		return 0, fmt.Errorf("error getting backup database paths: %w", err)
	}

	total := 0
	for _, path := range paths {
		n, err := migrateBackup(path, target)
		total += n
		if err != nil {
			return total, fmt.Errorf("error migrating %s: %w", path, err)
		}
		if err := os.Rename(path, path+".migrated"); err != nil {
			return total, fmt.Errorf("error renaming %s: %w", path, err)
		}
		Logger.Info("Backup migrated", "path", path, "saves", n)
	}
	return total, nil
}

func migrateBackup(path string, target storage.Backend) (int, error) {
	db, err := database.GetSqliteDB(path)
	if err != nil {
		return 0, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	source := gormstorage.New(gormstorage.Dependencies{DB: db, Logger: Logger, FlushInterval: -1})
	if err := source.Init(); err != nil {
		return 0, err
	}
	defer source.Close()

	entries, err := source.List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		snap, err := source.Load(e.ID)
		if err != nil {
			return n, err
		}
		if err := target.Save(snap); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
