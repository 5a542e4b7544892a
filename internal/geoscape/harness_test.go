package geoscape

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/internal/world"
	"github.com/ufoai/geoscape/pkg/core"
)

// recordingRunner stands in for the console.
type recordingRunner struct {
	lines []string
	err   error
}

func (r *recordingRunner) Execute(line string) error {
	r.lines = append(r.lines, line)
	return r.err
}

// removals records every notification the engine sends.
type removals struct {
	missions []*mission.Mission
	ufos     []*core.UFO
	aircraft []*core.Aircraft
}

func (r *removals) NotifyMissionRemoved(m *mission.Mission) { r.missions = append(r.missions, m) }
func (r *removals) NotifyUFORemoved(u *core.UFO, _ bool)     { r.ufos = append(r.ufos, u) }
func (r *removals) NotifyAircraftRemoved(a *core.Aircraft)   { r.aircraft = append(r.aircraft, a) }

type harness struct {
	*world.World
	engine   *Engine
	commands *recordingRunner
	removals *removals
}

// newHarness wires an engine drawing from r to the default world. The
// world flies its UFOs with its own fixed source so scripted draws only
// feed engine decisions.
func newHarness(t *testing.T, r rng.Source) *harness {
	t.Helper()
	tables, err := content.Default()
	require.NoError(t, err)
	scn, err := world.DefaultScenario()
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := world.New(scn, tables, rng.New(1), log)
	require.NoError(t, err)

	h := &harness{World: w, commands: &recordingRunner{}, removals: &removals{}}
	h.engine, err = New(Dependencies{
		Tables:        tables,
		Rand:          r,
		Logger:        log,
		Clock:         w.Clock,
		Bases:         w.Bases,
		Installations: w.Installations,
		Aircraft:      w.Aircraft,
		AlienBases:    w.AlienBases,
		UFOs:          w.Fleet,
		Radar:         w.Radar,
		XVI:           w.XVI,
		Geography:     w.Geography,
		Messages:      w.Messages,
		Commands:      h.commands,
		Listeners:     []Notifier{w.Selection, h.removals},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.engine.Shutdown() })
	return h
}

// begun creates a mission of category c and begins it.
func (h *harness) begun(t *testing.T, c core.Category) *mission.Mission {
	t.Helper()
	m := h.engine.CreateMission(c, true)
	require.NotNil(t, m)
	require.True(t, h.engine.Begin(m))
	return m
}

func (h *harness) hq(t *testing.T) *core.Base {
	t.Helper()
	bases := h.Bases.All()
	require.NotEmpty(t, bases)
	return bases[0]
}

// checkInvariants asserts what must hold for every live mission after any
// engine operation returns.
func (h *harness) checkInvariants(t *testing.T) {
	t.Helper()
	e := h.engine
	e.Missions().Each(func(m *mission.Mission) bool {
		require.False(t, m.Removed(), "mission %s", m.ID)
		require.True(t, e.ValidStage(m.Category, m.Stage), "mission %s in stage %s", m.ID, m.Stage)
		if e.TargetRequired(m.Category, m.Stage) {
			require.False(t, m.Target.IsZero(), "mission %s in stage %s lost its target", m.ID, m.Stage)
		}
		if m.OnGeoscape {
			require.True(t, m.PosAssigned, "mission %s visible without position", m.ID)
		}
		return true
	})
	for _, u := range h.Fleet.All() {
		require.NotNil(t, e.Missions().ByUFO(u), "ufo %s without mission", u.ID)
	}
}

var errScripted = errors.New("scripted failure")
