package geoscape

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/dispatcher"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

func newConsole(t *testing.T, h *harness) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h.engine.RegisterCommands(d)
	return d
}

func TestCommands_MissionAddAndList(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	d := newConsole(t, h)

	id, err := d.Dispatch(dispatcher.Event{Command: CmdMissionAdd, Args: []string{"recon", "2"}})
	require.NoError(t, err)

	out, err := d.Dispatch(dispatcher.Event{Command: CmdMissionList})
	require.NoError(t, err)
	list := out.([]MissionSummary)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, core.StageMissionGoto, list[0].Stage)
	assert.Equal(t, "farm_landing", list[0].Map)
	assert.NotEmpty(t, list[0].UFO)
}

func TestCommands_MissionAddErrors(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	d := newConsole(t, h)

	_, err := d.Dispatch(dispatcher.Event{Command: CmdMissionAdd})
	assert.Error(t, err)
	_, err = d.Dispatch(dispatcher.Event{Command: CmdMissionAdd, Args: []string{"picnic"}})
	assert.Error(t, err)
	_, err = d.Dispatch(dispatcher.Event{Command: CmdMissionAdd, Args: []string{"recon", "x"}})
	assert.Error(t, err)

	// the mission exists even though the forced flow is unknown
	id, err := d.Dispatch(dispatcher.Event{Command: CmdMissionAdd, Args: []string{"harvest", "3"}})
	assert.Error(t, err)
	assert.NotEmpty(t, id)
}

func TestCommands_SetMapAndDeleteAll(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	d := newConsole(t, h)
	m := h.engine.CreateMission(core.CategoryTerrorAttack, true)
	h.engine.CreateMission(core.CategoryRecon, true)

	require.NoError(t, d.Execute(CmdMissionSetMap+" "+m.ID+" city"))
	assert.Equal(t, "city", m.MapDef.ID)
	assert.Error(t, d.Execute(CmdMissionSetMap+" "+m.ID+" moon"))
	assert.Error(t, d.Execute(CmdMissionSetMap+" nope city"))

	n, err := d.Dispatch(dispatcher.Event{Command: CmdMissionDeleteAll})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, h.engine.Missions().Count())
}

func TestCommands_InterestList(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	d := newConsole(t, h)

	out, err := d.Dispatch(dispatcher.Event{Command: CmdInterestList})
	require.NoError(t, err)
	sum := out.(InterestSummary)
	assert.Equal(t, 20, sum.Overall)
	assert.Equal(t, 20, sum.Individual["recon"])
}
