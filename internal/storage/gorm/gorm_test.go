package gormstorage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/database"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/model"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/internal/storage"
	"github.com/ufoai/geoscape/pkg/core"
)

// Compile-time interface checks
var (
	_ storage.Backend        = (*Backend)(nil)
	_ storage.Archive        = (*Backend)(nil)
	_ storage.StatusRecorder = (*Backend)(nil)
)

// newTestBackend creates a Backend on a fresh sqlite file with the writer
// disabled, so tests decide when rows are written.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: -1})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func placed(b bool) *bool { return &b }

func snapshot(id string, day int) *savegame.Snapshot {
	return &savegame.Snapshot{
		ID:       id,
		Version:  savegame.Version,
		SavedAt:  time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Date:     core.Date{Day: day, Sec: 120},
		Interest: interest.State{Overall: 44, Individual: map[string]int{"recon": 30}},
		Engine:   geoscape.State{NextIdx: 3},
		Missions: []savegame.MissionRecord{
			{Idx: 3, ID: "catxvi_interest44_0", Category: core.CategoryXVI, Stage: core.StageSpreadXVI,
				Map: "village", Pos: core.Position{Lon: 20, Lat: 0}, PosAssigned: placed(true), UFO: -1},
			{Idx: 1, ID: "catrecon_interest20_0", Category: core.CategoryRecon, Stage: core.StageReconAir,
				PosAssigned: placed(false), UFO: 0},
		},
	}
}

func TestNew_WithoutDB(t *testing.T) {
	b := New(Dependencies{})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestSave_QueuesUntilFlush(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.Save(snapshot("s1", 4)))
	assert.Equal(t, 1, b.queues.Saves.Len())

	var count int64
	require.NoError(t, b.DB().Model(&model.CampaignSave{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, b.Flush())
	assert.True(t, b.queues.Saves.Empty())
	require.NoError(t, b.DB().Model(&model.MissionRecord{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestLoad_RoundTrip(t *testing.T) {
	b := newTestBackend(t)
	want := snapshot("s1", 4)
	require.NoError(t, b.Save(want))

	got, err := b.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Date, got.Date)
	assert.Equal(t, want.Interest, got.Interest)
	assert.Equal(t, want.Engine, got.Engine)
	assert.Equal(t, want.Missions, got.Missions, "registry order survives")
	assert.True(t, want.SavedAt.Equal(got.SavedAt))
}

func TestSave_ReplacesSameID(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Save(snapshot("s1", 4)))
	require.NoError(t, b.Flush())

	second := snapshot("s1", 9)
	second.Missions = second.Missions[:1]
	require.NoError(t, b.Save(second))

	got, err := b.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Date.Day)
	assert.Len(t, got.Missions, 1)
}

func TestLoad_NotFound(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Load("missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestList_OrderedByCampaignDate(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Save(snapshot("late", 30)))
	early := snapshot("early", 2)
	early.Missions = nil
	require.NoError(t, b.Save(early))

	entries, err := b.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].ID)
	assert.Equal(t, 0, entries[0].Missions)
	assert.Equal(t, "late", entries[1].ID)
	assert.Equal(t, 2, entries[1].Missions)
	assert.Equal(t, core.Date{Day: 30, Sec: 120}, entries[1].Date)
}

func TestRecordStatus(t *testing.T) {
	b := newTestBackend(t)
	for day := 1; day <= 3; day++ {
		require.NoError(t, b.RecordStatus(7, geoscape.Status{
			Date:     core.Date{Day: day},
			Interest: geoscape.InterestSummary{Overall: 20 + day},
			Missions: day,
		}))
	}
	require.NoError(t, b.RecordStatus(8, geoscape.Status{Date: core.Date{Day: 1}}))

	days, err := b.Days(7)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, 23, days[2].Overall)
	assert.Equal(t, 3, days[2].Missions)
}

func TestWriter_FlushesInBackground(t *testing.T) {
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "bg.db"))
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: 10 * time.Millisecond})
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.Save(snapshot("bg", 1)))
	assert.Eventually(t, func() bool {
		var count int64
		return db.Model(&model.CampaignSave{}).Count(&count).Error == nil && count == 1
	}, time.Second, 10*time.Millisecond)
}

func TestClose_WritesQueuedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.db")
	db, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: -1})
	require.NoError(t, b.Init())

	require.NoError(t, b.Save(snapshot("c", 1)))
	require.NoError(t, b.Close())

	var count int64
	require.NoError(t, db.Model(&model.CampaignSave{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
