// Package monitor keeps a status file describing the running campaign up to
// date.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ufoai/geoscape/internal/geoscape"
)

// FileName is the status file written in the output directory.
const FileName = "status.json"

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger    *slog.Logger
	OutputDir string
	Interval  time.Duration
	// Seed identifies the campaign in the report.
	Seed int64
}

// Report is the status file content.
type Report struct {
	Seed      int64           `json:"seed"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Status    geoscape.Status `json:"status"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}

	status  geoscape.Status
	updated time.Time
	written time.Time
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Path returns the status file path.
func (s *Service) Path() string {
	return filepath.Join(s.deps.OutputDir, FileName)
}

// Update replaces the reported status.
func (s *Service) Update(st geoscape.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
	s.updated = time.Now()
}

// GetProgramStatus returns the report as indented JSON lines: the whole
// report, then the interest and the mission counts alone.
func (s *Service) GetProgramStatus() (output []string, report Report) {
	s.mu.RLock()
	report = Report{Seed: s.deps.Seed, UpdatedAt: s.updated, Status: s.status}
	s.mu.RUnlock()

	for _, v := range []any{report, report.Status.Interest, report.Status.ByCategory} {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			raw = []byte(fmt.Sprintf(`{"error": %q}`, err))
		}
		output = append(output, string(raw))
	}
	return output, report
}

// WriteStatus writes the report to the status file when it changed since the
// last write.
func (s *Service) WriteStatus() error {
	s.mu.RLock()
	stale := s.updated.IsZero() || !s.updated.After(s.written)
	s.mu.RUnlock()
	if stale {
		return nil
	}

	_, report := s.GetProgramStatus()
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}

	s.mu.Lock()
	s.written = report.UpdatedAt
	s.mu.Unlock()
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if err := os.MkdirAll(s.deps.OutputDir, 0o755); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create status dir: %w", err)
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		logger := s.deps.Logger
		logger.Debug("Starting status monitor goroutine", "path", s.Path())

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				if err := s.WriteStatus(); err != nil {
					logger.Error("Error writing status file", "error", err)
				}
				return
			case <-ticker.C:
				if err := s.WriteStatus(); err != nil {
					logger.Error("Error writing status file", "error", err)
				}
			}
		}
	}()
	return nil
}

// Stop stops the status monitor after a last write.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
