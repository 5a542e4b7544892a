package geoscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// southAtlantic is outside every nation and every radar.
var southAtlantic = core.Position{Lon: -30, Lat: -50}

// placed creates a mission frozen in stage at pos.
func placed(h *harness, t *testing.T, c core.Category, stage core.Stage, pos core.Position) *mission.Mission {
	t.Helper()
	m := h.engine.CreateMission(c, true)
	require.NotNil(t, m)
	m.Stage = stage
	m.DisableTimeLimit()
	h.engine.place(m, pos)
	return m
}

func TestClassify(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	hq := h.hq(t).Pos
	e := h.engine

	unplaced := e.CreateMission(core.CategoryTerrorAttack, true)
	unplaced.Stage = core.StageTerrorMission
	assert.Equal(t, core.CantBeDetected, e.Classify(unplaced))

	assert.Equal(t, core.AlwaysDetected, e.Classify(placed(h, t, core.CategoryTerrorAttack, core.StageTerrorMission, southAtlantic)))
	assert.Equal(t, core.MayBeDetected, e.Classify(placed(h, t, core.CategoryRecon, core.StageReconGround, hq)))
	assert.Equal(t, core.CantBeDetected, e.Classify(placed(h, t, core.CategoryRecon, core.StageReconGround, southAtlantic)))
	assert.Equal(t, core.CantBeDetected, e.Classify(placed(h, t, core.CategoryRecon, core.StageMissionGoto, hq)))

	crashed := placed(h, t, core.CategoryRecon, core.StageReconAir, southAtlantic)
	crashed.Crashed = true
	assert.Equal(t, core.AlwaysDetected, e.Classify(crashed))

	landed := placed(h, t, core.CategoryHarvest, core.StageMissionGoto, southAtlantic)
	landed.UFO = &core.UFO{Detected: true, Landed: true}
	assert.Equal(t, core.AlwaysDetected, e.Classify(landed))
}

func TestSweep_AlwaysDetectedShowsUp(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.99))
	m := placed(h, t, core.CategoryTerrorAttack, core.StageTerrorMission, southAtlantic)
	require.False(t, m.OnGeoscape)

	h.engine.Sweep()
	assert.True(t, m.OnGeoscape)
	assert.True(t, h.Clock.Stopped())
	require.Equal(t, 1, h.Messages.Len())
	assert.Equal(t, m.ID, h.Messages.Recent()[0].MissionID)
}

func TestSweep_CantBeDetectedNeverShows(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0))
	m := placed(h, t, core.CategoryRecon, core.StageReconGround, southAtlantic)
	hidden := h.engine.CreateMission(core.CategoryTerrorAttack, true)
	hidden.Stage = core.StageTerrorMission

	for range 10 {
		h.engine.Sweep()
	}
	assert.False(t, m.OnGeoscape)
	assert.False(t, hidden.OnGeoscape)
	assert.False(t, h.Clock.Stopped())
}

func TestDetectNewMissions_Probability(t *testing.T) {
	h := newHarness(t, rng.NewSequence(MissionDetectionProbability+0.01, MissionDetectionProbability))
	m := placed(h, t, core.CategoryRecon, core.StageReconGround, h.hq(t).Pos)

	assert.False(t, h.engine.DetectNewMissions())
	assert.False(t, m.OnGeoscape)

	assert.True(t, h.engine.DetectNewMissions(), "a draw equal to the probability detects")
	assert.True(t, m.OnGeoscape)

	assert.False(t, h.engine.DetectNewMissions(), "missions on the geoscape are not detected again")
}

func TestDetectNewMissions_TracksUFO(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5, 0))
	m := h.begun(t, core.CategoryRecon)
	m.Stage = core.StageReconGround
	h.engine.place(m, h.hq(t).Pos)
	m.UFO.Detected = false

	require.True(t, h.engine.DetectNewMissions())
	assert.True(t, m.UFO.Detected)
}

func TestDetectNewMissions_SpottedUFOSurvivesRadarRefresh(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5, 0))
	m := h.begun(t, core.CategoryRecon)
	m.Stage = core.StageReconGround
	h.engine.place(m, h.hq(t).Pos)
	m.UFO.Detected = false
	require.True(t, h.engine.DetectNewMissions())

	h.Fleet.Land(m.UFO)
	m.UFO.Pos = southAtlantic
	m.UFO.Destination = southAtlantic
	h.Fleet.Run(1)
	assert.True(t, m.UFO.Detected, "radar refresh keeps a spotted UFO")
	assert.Equal(t, core.AlwaysDetected, h.engine.Classify(m))

	h.Fleet.TakeOff(m.UFO)
	h.Fleet.Run(1)
	assert.False(t, m.UFO.Detected, "out of range once airborne")
}

func TestUpdateMissionVisibility_DropsLostMissions(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := placed(h, t, core.CategoryRecon, core.StageReconGround, h.hq(t).Pos)
	h.engine.AddToGeoscape(m, true)
	require.True(t, m.OnGeoscape)

	m.Stage = core.StageReturnToOrbit
	h.engine.UpdateMissionVisibility()
	assert.False(t, m.OnGeoscape)
	assert.Contains(t, h.removals.missions, m)
}

func TestAddToGeoscape_MayNeedsForceOrTrackedUFO(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := placed(h, t, core.CategoryRecon, core.StageReconGround, h.hq(t).Pos)

	h.engine.AddToGeoscape(m, false)
	assert.False(t, m.OnGeoscape)

	m.UFO = &core.UFO{Detected: true}
	h.engine.AddToGeoscape(m, false)
	assert.True(t, m.OnGeoscape)
	m.UFO = nil
}

func TestRemoveFromGeoscape_ReleasesAttackedBase(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	hq := h.hq(t)
	m := h.begun(t, core.CategoryBaseAttack)
	h.engine.StageEnd(m)
	h.engine.UFOReachedDestination(m.UFO)
	require.True(t, hq.UnderAttack)
	require.False(t, m.OnGeoscape)

	h.engine.RemoveFromGeoscape(m)
	assert.False(t, hq.UnderAttack)
}
