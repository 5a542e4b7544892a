// Package gormstorage stores campaign saves through GORM. Writes are queued
// and drained by a background writer; reads flush the queues first.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ufoai/geoscape/internal/database"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/model"
	"github.com/ufoai/geoscape/internal/model/convert"
	"github.com/ufoai/geoscape/internal/queue"
	"github.com/ufoai/geoscape/internal/savegame"
	"github.com/ufoai/geoscape/internal/storage"
	"github.com/ufoai/geoscape/pkg/core"
)

// DefaultFlushInterval is the writer period when none is configured.
const DefaultFlushInterval = 2 * time.Second

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
	// FlushInterval is the writer period. Negative disables the writer;
	// queued rows are then written by Flush, Load, List and Close.
	FlushInterval time.Duration
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Saves *queue.Queue[model.CampaignSave]
	Days  *queue.Queue[model.CampaignDay]
}

func newQueues() *queues {
	return &queues{
		Saves: queue.New[model.CampaignSave](),
		Days:  queue.New[model.CampaignDay](),
	}
}

// Backend implements storage.Backend and storage.Archive on a gorm.DB.
type Backend struct {
	deps     Dependencies
	log      *slog.Logger
	queues   *queues
	stopChan chan struct{}
	wg       sync.WaitGroup
	// serializes flushes
	flushMu sync.Mutex
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.FlushInterval == 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	return &Backend{deps: deps, log: log.With("component", "storage", "backend", "gorm")}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init creates the internal queues, migrates the schema and starts the DB
// writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm storage: no database")
	}
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if err := database.Setup(b.deps.DB); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.log.Info("database schema ready", "dialect", b.deps.DB.Dialector.Name())

	if b.deps.FlushInterval > 0 {
		b.wg.Add(1)
		go b.writer()
	}
	return nil
}

// Close stops the DB writer goroutine and writes what is still queued.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	close(b.stopChan)
	b.wg.Wait()
	b.stopChan = nil
	return b.Flush()
}

// Save converts s and queues it. A save with an existing id replaces it.
func (b *Backend) Save(s *savegame.Snapshot) error {
	row, err := convert.SnapshotToSave(s)
	if err != nil {
		return err
	}
	b.queues.Saves.Push(row)
	return nil
}

// RecordStatus queues the daily campaign status.
func (b *Backend) RecordStatus(seed int64, s geoscape.Status) error {
	b.queues.Days.Push(convert.StatusToDay(seed, s))
	return nil
}

// Flush writes every queued row now. Rows that fail stay queued.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	var errs []error
	for _, s := range b.queues.Saves.GetAndEmpty() {
		if err := b.writeSave(s); err != nil {
			b.log.Error("failed to write save", "id", s.ID, "error", err)
			b.queues.Saves.Push(s)
			errs = append(errs, err)
		}
	}
	if err := writeQueue(b.deps.DB, b.queues.Days, "campaign days", b.log); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b *Backend) writeSave(s model.CampaignSave) error {
	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("save_id = ?", s.ID).Delete(&model.MissionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("id = ?", s.ID).Delete(&model.CampaignSave{}).Error; err != nil {
			return err
		}
		return tx.Create(&s).Error
	})
}

// writeQueue writes all items from a queue to the database in a transaction.
// On failure the items go back to the queue.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) error {
	if q.Empty() {
		return nil
	}

	items := q.GetAndEmpty()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Error("failed to write queue", "queue", name, "count", len(items), "error", err)
		q.Push(items...)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// writer periodically drains the queues into the DB.
func (b *Backend) writer() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.log.Warn("db writer: rows kept for retry", "error", err)
			}
		}
	}
}

// Load reads a stored save.
func (b *Backend) Load(id string) (*savegame.Snapshot, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}
	var row model.CampaignSave
	err := b.deps.DB.Preload("Missions").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save %s: %w", id, err)
	}
	return convert.SaveToSnapshot(row)
}

// List describes every stored save, oldest campaign date first.
func (b *Backend) List() ([]storage.Entry, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}

	var saves []model.CampaignSave
	if err := b.deps.DB.Order("day, sec, id").Find(&saves).Error; err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	var counts []struct {
		SaveID string
		N      int
	}
	err := b.deps.DB.Model(&model.MissionRecord{}).
		Select("save_id, COUNT(*) AS n").
		Group("save_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count missions: %w", err)
	}
	perSave := make(map[string]int, len(counts))
	for _, c := range counts {
		perSave[c.SaveID] = c.N
	}

	entries := make([]storage.Entry, 0, len(saves))
	for _, s := range saves {
		entries = append(entries, storage.Entry{
			ID:       s.ID,
			SavedAt:  s.SavedAt,
			Date:     core.Date{Day: s.Day, Sec: s.Sec},
			Missions: perSave[s.ID],
		})
	}
	return entries, nil
}

// Days returns the recorded daily status of the campaign with this seed.
func (b *Backend) Days(seed int64) ([]model.CampaignDay, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}
	var days []model.CampaignDay
	err := b.deps.DB.Where("seed = ?", seed).Order("day").Find(&days).Error
	return days, err
}
