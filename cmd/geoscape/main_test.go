package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/campaign"
	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/database"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/storage"
	gormstorage "github.com/ufoai/geoscape/internal/storage/gorm"
	"github.com/ufoai/geoscape/internal/storage/memory"
	pgstorage "github.com/ufoai/geoscape/internal/storage/postgres"
	sqlitestorage "github.com/ufoai/geoscape/internal/storage/sqlite"
	wsstorage "github.com/ufoai/geoscape/internal/storage/websocket"
	"github.com/ufoai/geoscape/pkg/core"
)

func TestHttpToWS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:5000/api/saves", "ws://localhost:5000/api/saves"},
		{"https://example.com/api/saves/", "wss://example.com/api/saves"},
		{"ws://already", "ws://already"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, httpToWS(tt.in), tt.in)
	}
}

func TestCreateStorageBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		typ  string
		want any
	}{
		{"", &memory.Backend{}},
		{"memory", &memory.Backend{}},
		{"sqlite", &sqlitestorage.Backend{}},
		{"postgres", &pgstorage.Backend{}},
		{"websocket", &wsstorage.Backend{}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			cfg := config.StorageConfig{Type: tt.typ}
			cfg.Memory.OutputDir = dir
			b, err := createStorageBackend(cfg, 7)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestCreateStorageBackend_Unknown(t *testing.T) {
	_, err := createStorageBackend(config.StorageConfig{Type: "tape"}, 0)
	assert.ErrorContains(t, err, `unknown storage type "tape"`)
}

func TestOpenArchive_SqliteNeedsDumpPath(t *testing.T) {
	_, _, err := openArchive(config.StorageConfig{Type: "sqlite"})
	assert.Error(t, err)
}

func newCampaign(t *testing.T) *campaign.Campaign {
	t.Helper()
	c, err := campaign.New(campaign.Options{Seed: 11})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	c.Engine.NewCampaign()
	return c
}

type fakeRecorder struct {
	mu   sync.Mutex
	days []core.Date
	err  error
}

func (r *fakeRecorder) RecordStatus(seed int64, s geoscape.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = append(r.days, s.Date)
	return r.err
}

func TestSimulation_AutosaveAndFinalSave(t *testing.T) {
	c := newCampaign(t)
	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())

	rec := &fakeRecorder{}
	var statuses int
	var out bytes.Buffer
	sim := &simulation{
		campaign:  c,
		backend:   backend,
		recorders: []storage.StatusRecorder{rec},
		onStatus:  func(geoscape.Status) { statuses++ },
		tick:      3600,
		autosave:  2,
		out:       &out,
	}
	start := c.Engine.Now()

	require.NoError(t, sim.run(context.Background(), 4))

	assert.Equal(t, start.Seconds()+4*core.SecondsPerDay, c.Engine.Now().Seconds())
	assert.Equal(t, 4, statuses)
	assert.Len(t, rec.days, 4)

	entries, err := backend.List()
	require.NoError(t, err)
	assert.Len(t, entries, 3, "days 2 and 4 plus the final save")
	assert.Contains(t, out.String(), "saved ")

	d := campaignDate.Load()
	require.NotNil(t, d)
	assert.Equal(t, c.Engine.Now(), *d)
}

func TestSimulation_StopsOnCancel(t *testing.T) {
	c := newCampaign(t)
	backend := memory.New(config.MemoryConfig{})
	require.NoError(t, backend.Init())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := &simulation{campaign: c, backend: backend, out: &bytes.Buffer{}}
	start := c.Engine.Now()
	require.NoError(t, sim.run(ctx, 10))

	assert.Equal(t, start, c.Engine.Now())
	entries, err := backend.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "an interrupted run still saves")
}

func TestReportStatus_JoinsErrors(t *testing.T) {
	ok := &fakeRecorder{}
	bad := &fakeRecorder{err: errors.New("down")}
	err := reportStatus(context.Background(), 1, geoscape.Status{}, []storage.StatusRecorder{ok, bad})
	assert.EqualError(t, err, "down")
	assert.Len(t, ok.days, 1)
}

func TestRunConsole_PrintsResult(t *testing.T) {
	c := newCampaign(t)
	var out bytes.Buffer
	require.NoError(t, runConsole(c.Console, "debug_missionadd recon", &out))
	assert.Equal(t, 1, c.Engine.Missions().Count())

	assert.Error(t, runConsole(c.Console, "no_such_command", &out))
	assert.Error(t, runConsole(c.Console, "   ", &out))
}

func TestPrintEntries(t *testing.T) {
	var out bytes.Buffer
	err := printEntries(&out, []storage.Entry{{
		ID:       "abc",
		SavedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Date:     core.Date{Day: 12, Sec: 3600},
		Missions: 3,
	}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "MISSIONS")
	assert.Contains(t, out.String(), "abc")
	assert.Contains(t, out.String(), "day 12 01:00:00")
	assert.Contains(t, out.String(), "2026-01-02 03:04:05")
}

func TestSaveReport_Formats(t *testing.T) {
	c := newCampaign(t)
	require.NoError(t, c.Console.Execute("debug_missionadd recon"))
	r := newSaveReport("id-1", c.Engine)
	require.Len(t, r.Summary, 1)
	assert.Equal(t, "recon", r.Summary[0]["category"])

	var yamlOut, jsonOut bytes.Buffer
	require.NoError(t, writeReport(&yamlOut, "yaml", r))
	require.NoError(t, writeReport(&jsonOut, "json", r))
	assert.Contains(t, yamlOut.String(), "category: recon")
	assert.Contains(t, jsonOut.String(), `"category": "recon"`)
	assert.Error(t, writeReport(&jsonOut, "xml", r))
}

func TestMigrateBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.db")

	db, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	source := gormstorage.New(gormstorage.Dependencies{DB: db, FlushInterval: -1})
	require.NoError(t, source.Init())
	c := newCampaign(t)
	snap := c.Save()
	require.NoError(t, source.Save(snap))
	require.NoError(t, source.Close())
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	target := memory.New(config.MemoryConfig{})
	require.NoError(t, target.Init())

	n, err := migrateBackups(dir, target)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := target.Load(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Date, got.Date)

	_, err = os.Stat(path + ".migrated")
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
