package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/model"
)

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "db.internal")
	viper.Set("db.port", "5433")
	viper.Set("db.username", "ufo")
	viper.Set("db.password", "xvi")
	viper.Set("db.database", "campaign")

	assert.Equal(t, "host=db.internal port=5433 user=ufo password=xvi dbname=campaign sslmode=disable", PostgresDSN())
}

func TestSetup_MigratesAndRecordsVersion(t *testing.T) {
	db, err := GetSqliteDB(filepath.Join(t.TempDir(), "setup.db"))
	require.NoError(t, err)

	require.NoError(t, Setup(db))
	// a second run keeps the single info row
	require.NoError(t, Setup(db))

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m))
	}
	var infos []model.GeoscapeInfo
	require.NoError(t, db.Find(&infos).Error)
	require.Len(t, infos, 1)
	assert.Equal(t, SchemaVersion, infos[0].SchemaVersion)
}

func TestManager_FallsBackToSqlite(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "127.0.0.1")
	viper.Set("db.port", "1")

	path := filepath.Join(t.TempDir(), "fallback.db")
	m := NewManager(zerolog.Nop())
	m.SqliteFilePath = path
	require.NoError(t, m.Connect())
	defer m.Close()

	assert.True(t, m.IsValid)
	assert.True(t, m.ShouldSaveLocal)
	assert.Equal(t, "sqlite", m.DB.Name())
	require.NoError(t, Setup(m.DB))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestManager_CloseWithoutConnect(t *testing.T) {
	assert.NoError(t, NewManager(zerolog.Nop()).Close())
}

func TestDumpMemoryDBToDisk_ReplacesDump(t *testing.T) {
	dir := t.TempDir()
	db, err := GetSqliteDB("")
	require.NoError(t, err)
	require.NoError(t, Setup(db))

	dump := filepath.Join(dir, "dump.db")
	require.NoError(t, DumpMemoryDBToDisk(db, dump))
	require.NoError(t, DumpMemoryDBToDisk(db, dump), "an existing dump is replaced")

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{dump}, paths)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	db, err := GetSqliteDB(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.Error(t, DumpMemoryDBToDisk(db, ""))
}
