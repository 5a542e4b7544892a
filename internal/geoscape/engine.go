// Package geoscape runs the alien side of a campaign: it spawns missions,
// walks them through their stages and decides what the player can see.
package geoscape

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// Stats are the campaign battle statistics.
type Stats struct {
	MissionsWon  int `json:"missionsWon"`
	MissionsLost int `json:"missionsLost"`
}

// Dependencies wires an engine to the rest of the campaign.
type Dependencies struct {
	Tables   *content.Tables
	Interest *interest.Tracker
	Rand     rng.Source
	Logger   *slog.Logger

	Clock         Clock
	Bases         Bases
	Installations Installations
	Aircraft      Aircraft
	AlienBases    AlienBases
	UFOs          Fleet
	Radar         Radar
	XVI           XVI
	Geography     Geography
	Messages      Messages
	Commands      CommandRunner

	// Listeners receive removal notifications.
	Listeners []Notifier
}

func (d Dependencies) validate() error {
	var errs []error
	check := func(ok bool, name string) {
		if !ok {
			errs = append(errs, fmt.Errorf("missing %s", name))
		}
	}
	check(d.Tables != nil, "content tables")
	check(d.Rand != nil, "random source")
	check(d.Clock != nil, "clock")
	check(d.Bases != nil, "bases")
	check(d.Installations != nil, "installations")
	check(d.Aircraft != nil, "aircraft")
	check(d.AlienBases != nil, "alien bases")
	check(d.UFOs != nil, "ufo fleet")
	check(d.Radar != nil, "radar")
	check(d.XVI != nil, "xvi")
	check(d.Geography != nil, "geography")
	check(d.Messages != nil, "messages")
	check(d.Commands != nil, "command runner")
	return errors.Join(errs...)
}

// Engine is the campaign state context for the mission subsystem. It is not
// safe for concurrent use: the host drives it from a single goroutine.
type Engine struct {
	deps     Dependencies
	tables   *content.Tables
	interest *interest.Tracker
	rand     rng.Source
	log      *slog.Logger

	missions   *mission.Registry
	strategies [core.CategoryMax]*strategy
	battle     BattleParameters

	nextIdx        int
	lastSpawnDelay int
	stats          Stats
	// seconds elapsed in the current detection interval
	timer int

	metrics *metrics
}

// New creates an engine. Call NewCampaign before running it.
func New(deps Dependencies) (*Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("geoscape: %w", err)
	}
	if deps.Interest == nil {
		deps.Interest = interest.NewTracker(0)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	e := &Engine{
		deps:       deps,
		tables:     deps.Tables,
		interest:   deps.Interest,
		rand:       deps.Rand,
		log:        deps.Logger.With("component", "geoscape"),
		missions:   mission.NewRegistry(),
		strategies: strategyTable(),
	}

	m, err := newMetrics(e)
	if err != nil {
		return nil, err
	}
	e.metrics = m
	return e, nil
}

// NewCampaign resets the engine to the start of a campaign and kicks off
// the first spawn cycle.
func (e *Engine) NewCampaign() {
	e.clear()
	e.interest.Reset()
	e.InitializeSpawningDelay()
}

// Shutdown removes every mission and releases the engine's metric
// registrations. The engine must not be used afterwards.
func (e *Engine) Shutdown() error {
	e.clear()
	return e.metrics.close()
}

func (e *Engine) clear() {
	e.missions.Each(func(m *mission.Mission) bool {
		e.Remove(m)
		return true
	})
	e.missions.Clear()
	e.battle.reset()
	e.nextIdx = 0
	e.lastSpawnDelay = 0
	e.stats = Stats{}
	e.timer = 0
}

// Missions exposes the live mission registry.
func (e *Engine) Missions() *mission.Registry {
	return e.missions
}

// Interest exposes the interest tracker.
func (e *Engine) Interest() *interest.Tracker {
	return e.interest
}

// Tables returns the static content tables.
func (e *Engine) Tables() *content.Tables {
	return e.tables
}

// Stats returns the campaign battle statistics.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Battle returns the battle parameter slot.
func (e *Engine) Battle() *BattleParameters {
	return &e.battle
}

// Now returns the current campaign date.
func (e *Engine) Now() core.Date {
	return e.deps.Clock.Now()
}

// State is the engine bookkeeping persisted next to the missions.
type State struct {
	NextIdx        int   `json:"nextIdx"`
	LastSpawnDelay int   `json:"lastSpawnDelay"`
	Stats          Stats `json:"stats"`
}

// State returns the engine bookkeeping.
func (e *Engine) State() State {
	return State{NextIdx: e.nextIdx, LastSpawnDelay: e.lastSpawnDelay, Stats: e.stats}
}

// Restore replaces the registry and bookkeeping with loaded values.
// Missions are installed in order.
func (e *Engine) Restore(st State, missions []*mission.Mission) error {
	e.missions.Clear()
	e.battle.reset()
	for _, m := range missions {
		if err := e.missions.Add(m); err != nil {
			e.missions.Clear()
			return fmt.Errorf("restore missions: %w", err)
		}
		if m.Idx > st.NextIdx {
			st.NextIdx = m.Idx
		}
	}
	e.nextIdx = st.NextIdx
	e.lastSpawnDelay = st.LastSpawnDelay
	e.stats = st.Stats
	e.timer = 0
	return nil
}

// randomDelay returns a duration uniformly drawn between lo and hi.
func (e *Engine) randomDelay(lo, hi core.Date) core.Date {
	span := hi.Seconds() - lo.Seconds()
	s := lo.Seconds() + int64(e.rand.Float64()*float64(span))
	return core.NewDate(0, int(s))
}

// in returns the date a random delay between lo and hi from now.
func (e *Engine) in(lo, hi core.Date) core.Date {
	return e.Now().Add(e.randomDelay(lo, hi))
}

func (e *Engine) notifyMissionRemoved(m *mission.Mission) {
	for _, l := range e.deps.Listeners {
		l.NotifyMissionRemoved(m)
	}
}

func (e *Engine) notifyUFORemoved(u *core.UFO, destroyed bool) {
	for _, l := range e.deps.Listeners {
		l.NotifyUFORemoved(u, destroyed)
	}
}

func (e *Engine) notifyAircraftRemoved(a *core.Aircraft) {
	for _, l := range e.deps.Listeners {
		l.NotifyAircraftRemoved(a)
	}
}
