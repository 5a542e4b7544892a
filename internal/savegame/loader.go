package savegame

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

// ErrLoadOrder is returned when a load phase runs out of order.
var ErrLoadOrder = errors.New("savegame: load phase out of order")

// LoadError reports a mission record that cannot be loaded. It aborts the
// whole load.
type LoadError struct {
	Mission string
	Field   string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load mission %s: %s: %v", e.Mission, e.Field, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var (
	errUnresolved = errors.New("unresolved reference")
	errInvalid    = errors.New("invalid value")
)

// Resolver looks up the entities missions reference. They must be loaded
// before the missions.
type Resolver interface {
	Base(idx int) (*core.Base, bool)
	Installation(idx int) (*core.Installation, bool)
	Aircraft(idx int) (*core.Aircraft, bool)
	AlienBase(idx int) (*core.AlienBase, bool)
}

// DateSetter receives the saved campaign date.
type DateSetter interface {
	Set(d core.Date)
}

type phase int

const (
	phaseMissions phase = iota
	phaseUFOs
	phaseCommit
	phaseDone
)

// Loader restores a snapshot in three passes: Missions once every
// referenced entity is loaded, LinkUFOs once the fleet is loaded, and
// Commit to install the result in the engine.
type Loader struct {
	snap   *Snapshot
	engine *geoscape.Engine
	log    *slog.Logger
	phase  phase

	missions []*mission.Mission
	// ufo offset per entry of missions
	offsets []int
}

// NewLoader prepares loading snap into e.
func NewLoader(snap *Snapshot, e *geoscape.Engine, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{snap: snap, engine: e, log: log.With("component", "savegame")}
}

func (l *Loader) advance(from phase) error {
	if l.phase != from {
		return ErrLoadOrder
	}
	l.phase++
	return nil
}

// Missions rebuilds the mission records. Records pointing at a missing map
// are dropped; any other bad record aborts the load.
func (l *Loader) Missions(r Resolver) error {
	if err := l.advance(phaseMissions); err != nil {
		return err
	}
	if l.snap.Version > Version {
		return fmt.Errorf("savegame: version %d is newer than %d", l.snap.Version, Version)
	}
	// Commit must not fail halfway, so what it installs is checked here.
	if err := interest.NewTracker(0).Restore(l.snap.Interest); err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	seen := make(map[string]bool, len(l.snap.Missions))
	for _, rec := range l.snap.Missions {
		if seen[rec.ID] {
			l.missions, l.offsets = nil, nil
			return &LoadError{Mission: rec.ID, Field: "id", Err: fmt.Errorf("%w: duplicate", errInvalid)}
		}
		seen[rec.ID] = true

		m, err := l.mission(rec, r)
		if err != nil {
			l.missions, l.offsets = nil, nil
			return err
		}
		if m == nil {
			continue
		}
		l.missions = append(l.missions, m)
		l.offsets = append(l.offsets, rec.UFO)
	}
	return nil
}

func (l *Loader) mission(rec MissionRecord, r Resolver) (*mission.Mission, error) {
	fail := func(field string, err error) error {
		return &LoadError{Mission: rec.ID, Field: field, Err: err}
	}
	if rec.Idx <= 0 {
		return nil, fail("idx", fmt.Errorf("%w: %d", errInvalid, rec.Idx))
	}
	if !rec.Category.Valid() {
		return nil, fail("category", fmt.Errorf("%w: %s", errInvalid, rec.Category))
	}
	if !l.engine.ValidStage(rec.Category, rec.Stage) {
		return nil, fail("stage", fmt.Errorf("%w: %s for %s", errInvalid, rec.Stage, rec.Category))
	}

	m := &mission.Mission{
		Idx:                       rec.Idx,
		ID:                        rec.ID,
		Category:                  rec.Category,
		Stage:                     rec.Stage,
		Location:                  rec.Location,
		InitialOverallInterest:    rec.InitialOverallInterest,
		InitialIndividualInterest: rec.InitialIndividualInterest,
		StartDate:                 rec.StartDate,
		FinalDate:                 rec.FinalDate,
		Pos:                       rec.Pos,
		Active:                    rec.Active,
		OnGeoscape:                rec.OnGeoscape,
		Crashed:                   rec.Crashed,
		OnWin:                     rec.OnWin,
		OnLose:                    rec.OnLose,
	}
	if rec.PosAssigned != nil {
		m.PosAssigned = *rec.PosAssigned
	} else {
		m.PosAssigned = rec.Pos.Length() > 0
	}

	if rec.Map != "" {
		md, ok := l.engine.Tables().Map(rec.Map)
		if !ok {
			l.log.Warn("mission dropped: unknown map", "mission", rec.ID, "map", rec.Map)
			return nil, nil
		}
		m.MapDef = md
	}

	target, field, err := resolveTarget(rec, r)
	if err != nil {
		return nil, fail(field, err)
	}
	if !target.IsZero() {
		if err := m.SetTarget(target); err != nil {
			return nil, fail(field, err)
		}
	}
	if l.engine.TargetRequired(m.Category, m.Stage) && m.Target.IsZero() {
		return nil, fail("target", fmt.Errorf("%w: %s missions need a target in stage %s", errUnresolved, m.Category, m.Stage))
	}
	return m, nil
}

func resolveTarget(rec MissionRecord, r Resolver) (mission.Target, string, error) {
	switch {
	case rec.Base != 0:
		b, ok := r.Base(rec.Base)
		if !ok {
			return mission.Target{}, "base", fmt.Errorf("%w: base %d", errUnresolved, rec.Base)
		}
		return mission.BaseTarget(b), "base", nil
	case rec.Installation != 0:
		i, ok := r.Installation(rec.Installation)
		if !ok {
			return mission.Target{}, "installation", fmt.Errorf("%w: installation %d", errUnresolved, rec.Installation)
		}
		return mission.InstallationTarget(i), "installation", nil
	case rec.AlienBase != 0:
		ab, ok := r.AlienBase(rec.AlienBase)
		if !ok {
			return mission.Target{}, "alienBase", fmt.Errorf("%w: alien base %d", errUnresolved, rec.AlienBase)
		}
		return mission.AlienBaseTarget(ab), "alienBase", nil
	case rec.Aircraft != 0:
		a, ok := r.Aircraft(rec.Aircraft)
		if !ok {
			return mission.Target{}, "aircraft", fmt.Errorf("%w: aircraft %d", errUnresolved, rec.Aircraft)
		}
		return mission.AircraftTarget(a), "aircraft", nil
	}
	return mission.Target{}, "", nil
}

// LinkUFOs reattaches the missions to their UFOs. A dead offset is logged
// and the mission continues without UFO.
func (l *Loader) LinkUFOs(f Fleet) error {
	if err := l.advance(phaseUFOs); err != nil {
		return err
	}
	linked := make(map[*core.UFO]string)
	for k, m := range l.missions {
		off := l.offsets[k]
		if off == noUFO {
			continue
		}
		u, ok := f.At(off)
		if !ok {
			l.log.Warn("mission ufo not found", "mission", m.ID, "offset", off)
			continue
		}
		if other, dup := linked[u]; dup {
			l.log.Warn("ufo already linked", "mission", m.ID, "ufo", u.ID, "owner", other)
			continue
		}
		linked[u] = m.ID
		m.UFO = u
	}
	return nil
}

// Commit installs the loaded missions, counters, interest and date.
func (l *Loader) Commit(clock DateSetter) error {
	if err := l.advance(phaseCommit); err != nil {
		return err
	}
	if err := l.engine.Interest().Restore(l.snap.Interest); err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	if err := l.engine.Restore(l.snap.Engine, l.missions); err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	clock.Set(l.snap.Date)
	l.log.Info("savegame loaded", "id", l.snap.ID, "missions", len(l.missions), "date", l.snap.Date.String())
	return nil
}

// Loaded returns the missions read so far.
func (l *Loader) Loaded() []*mission.Mission {
	return l.missions
}
