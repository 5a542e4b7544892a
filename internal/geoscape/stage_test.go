package geoscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

func TestNew_ReportsEveryMissingDependency(t *testing.T) {
	_, err := New(Dependencies{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing clock")
	assert.Contains(t, err.Error(), "missing command runner")
}

func TestCreateMission(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	start := h.Clock.Now()

	m := h.engine.CreateMission(core.CategoryRecon, false)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Idx)
	assert.Equal(t, core.StageNotActive, m.Stage)
	assert.Equal(t, interest.InitialOverall, m.InitialOverallInterest)
	assert.Equal(t, 20, m.InitialIndividualInterest)
	assert.Equal(t, start.Add(core.NewDate(1, 12*core.SecondsPerHour)), m.StartDate)
	assert.Equal(t, m.StartDate, m.FinalDate)
	assert.NotEmpty(t, m.ID)

	now := h.engine.CreateMission(core.CategoryRecon, true)
	assert.Equal(t, start, now.StartDate)
	assert.NotEqual(t, m.ID, now.ID)
	assert.Equal(t, 2, h.engine.Missions().Count())

	assert.Nil(t, h.engine.CreateMission(core.CategoryNone, true))
	assert.Nil(t, h.engine.CreateMission(core.CategoryMax, true))
}

func TestCreateMission_SpawnInterest(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	h.engine.Interest().Set(core.CategoryTerrorAttack, 100)

	h.engine.CreateMission(core.CategoryTerrorAttack, true)
	assert.Less(t, h.engine.Interest().Of(core.CategoryTerrorAttack), 100)
}

func TestBegin_FromGround(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.05))
	m := h.begun(t, core.CategoryRecon)

	assert.Equal(t, core.StageComeFromOrbit, m.Stage)
	assert.Nil(t, m.UFO)
	assert.Equal(t, h.Clock.Now(), m.FinalDate)
	assert.Equal(t, 0, h.Fleet.Len())
}

func TestBegin_WithUFO(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryRecon)

	require.NotNil(t, m.UFO)
	assert.Equal(t, "scout", m.UFO.Type)
	assert.False(t, m.LimitedInTime())
	assert.Same(t, m, h.engine.Missions().ByUFO(m.UFO))
}

func TestBegin_RemovesMissionWithoutUFO(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.engine.CreateMission(core.CategoryRescue, true)
	require.NotNil(t, m)

	assert.False(t, h.engine.Begin(m))
	assert.True(t, m.Removed())
	assert.Equal(t, 0, h.engine.Missions().Count())
}

func TestRemove(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryRecon)
	u := m.UFO

	assert.True(t, h.engine.Remove(m))
	assert.True(t, m.Removed())
	assert.Nil(t, m.UFO)
	assert.False(t, u.OnGeoscape)
	assert.Equal(t, 0, h.Fleet.Len())
	assert.Equal(t, []*core.UFO{u}, h.removals.ufos)
	assert.Contains(t, h.removals.missions, m)

	assert.False(t, h.engine.Remove(m), "second removal is a logged no-op")
	assert.False(t, h.engine.Remove(nil))
}

func TestRemove_ClearsBattleSlot(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryRecon)
	h.engine.place(m, core.Position{Lon: 8, Lat: 47})
	require.True(t, h.engine.chooseMap(m, ""))
	_, err := h.engine.CreateBattleParameters(m, nil)
	require.NoError(t, err)

	h.engine.Remove(m)
	assert.Nil(t, h.engine.Battle().Mission)
}

func TestStageEnd_BaseAttackWithoutBase(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryBaseAttack)
	// no base left to attack
	h.Bases.Destroy(h.hq(t))

	h.engine.StageEnd(m)
	assert.True(t, m.Removed())
	h.checkInvariants(t)
}

func TestStageEnd_UnexpectedStage(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryRecon)
	m.Stage = core.StageBuildBase

	h.engine.StageEnd(m)
	assert.True(t, m.Removed())
}

func TestIsOver_PointOfNoReturn(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))

	h.engine.Interest().Set(core.CategoryRecon, 5)
	early := h.begun(t, core.CategoryRecon)
	early.Stage = core.StageReconAir
	before := h.engine.Interest().Of(core.CategoryRecon)
	h.engine.IsOver(early)
	assert.True(t, early.Removed())
	assert.Greater(t, h.engine.Interest().Of(core.CategoryRecon), before, "failure raises recon interest")

	late := h.begun(t, core.CategoryRecon)
	late.Stage = core.StageReturnToOrbit
	before = h.engine.Interest().Of(core.CategoryRecon)
	h.engine.IsOver(late)
	assert.True(t, late.Removed())
	assert.Less(t, h.engine.Interest().Of(core.CategoryRecon), before, "success lowers recon interest")
}

func TestReconGround_FullFlow(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m, err := h.engine.AddMission(core.CategoryRecon, 2)
	require.NoError(t, err)
	require.NotNil(t, m.UFO)
	assert.Equal(t, core.StageMissionGoto, m.Stage)
	assert.True(t, m.PosAssigned)
	assert.Equal(t, "north_america", m.Location)
	require.NotNil(t, m.MapDef)
	assert.Equal(t, "farm_landing", m.MapDef.ID)
	h.checkInvariants(t)

	h.engine.UFOReachedDestination(m.UFO)
	assert.Equal(t, core.StageReconGround, m.Stage)
	assert.True(t, m.UFO.Landed)
	assert.True(t, m.LimitedInTime())

	h.engine.StageEnd(m)
	assert.Equal(t, core.StageReturnToOrbit, m.Stage)
	assert.False(t, m.UFO.Landed)
	assert.False(t, m.OnGeoscape)

	assert.True(t, h.engine.UFOReachedDestination(m.UFO), "the ufo leaves with its mission")
	assert.True(t, m.Removed())
	assert.Equal(t, 0, h.Fleet.Len())
}

func TestUFOReachedDestination_RoamsInFlight(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryIntercept)
	h.engine.interceptAircraft(m)
	m.UFO.Destination = m.UFO.Pos

	assert.False(t, h.engine.UFOReachedDestination(m.UFO))
	assert.Equal(t, core.StageIntercept, m.Stage)
	assert.NotEqual(t, m.UFO.Pos, m.UFO.Destination, "a new destination is picked")

	stray := &core.UFO{ID: "stray"}
	assert.False(t, h.engine.UFOReachedDestination(stray))
}

func TestCheckMissionEnd(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.engine.CreateMission(core.CategoryRecon, true)

	h.engine.CheckMissionEnd()
	assert.Equal(t, core.StageNotActive, m.Stage, "FinalDate must be strictly passed")

	h.Clock.Advance(1)
	h.engine.CheckMissionEnd()
	assert.Equal(t, core.StageComeFromOrbit, m.Stage)
}

func TestBaseAttack_Defended(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	hq := h.hq(t)
	m := h.begun(t, core.CategoryBaseAttack)
	require.NotNil(t, m.UFO)

	h.engine.StageEnd(m)
	require.Equal(t, core.StageMissionGoto, m.Stage)
	target, ok := m.Target.Base()
	require.True(t, ok)
	assert.Same(t, hq, target)
	assert.Equal(t, hq.Pos, m.UFO.Destination)

	h.engine.UFOReachedDestination(m.UFO)
	require.Equal(t, core.StageBaseAttack, m.Stage)
	assert.True(t, hq.UnderAttack)
	assert.True(t, h.Clock.Stopped())

	dropship := h.Aircraft.All()[0]
	require.NoError(t, h.engine.ResolveBattle(m, dropship, true))
	assert.False(t, hq.UnderAttack)
	assert.True(t, m.Removed())
	assert.Equal(t, 1, h.Bases.Dumps)
	assert.Equal(t, Stats{MissionsWon: 1}, h.engine.Stats())
	assert.Len(t, h.Bases.All(), 1)

	assert.Error(t, h.engine.ResolveBattle(m, dropship, true), "battle on a removed mission")
}

func TestBaseAttack_Lost(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryBaseAttack)
	h.engine.StageEnd(m)
	h.engine.UFOReachedDestination(m.UFO)
	m.OnLose = "base_lost"

	fleet := h.Aircraft.All()
	require.NoError(t, h.engine.ResolveBattle(m, nil, false))
	assert.Empty(t, h.Bases.All())
	assert.Empty(t, h.Aircraft.All(), "the aircraft are lost with their base")
	assert.ElementsMatch(t, fleet, h.removals.aircraft)
	assert.True(t, m.Removed())
	assert.Equal(t, Stats{MissionsLost: 1}, h.engine.Stats())
	assert.Equal(t, []string{"base_lost"}, h.commands.lines)
	h.checkInvariants(t)
}

func TestBaseAttack_Undefended(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryBaseAttack)
	h.engine.StageEnd(m)
	h.engine.UFOReachedDestination(m.UFO)

	h.Clock.Start()
	h.Clock.Advance(2 * core.SecondsPerDay)
	h.engine.CheckMissionEnd()
	assert.Empty(t, h.Bases.All())
	assert.True(t, m.Removed())
}

func TestBaseAttack_TargetDestroyedWhileApproaching(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryBaseAttack)
	h.engine.StageEnd(m)
	require.Equal(t, core.StageMissionGoto, m.Stage)

	hq := h.hq(t)
	h.Bases.Destroy(hq)
	h.engine.NotifyBaseDestroyed(hq)
	assert.True(t, m.Removed())
	assert.Equal(t, 0, h.Fleet.Len())
}

func TestResolveBattle_TriggerFailureIsLogged(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	h.commands.err = errScripted
	m := h.begun(t, core.CategoryRecon)
	m.Stage = core.StageReconGround
	m.OnWin = "cp_uforecovery_init ufo-1 1.0"

	require.NoError(t, h.engine.ResolveBattle(m, nil, true))
	assert.True(t, m.Removed())
	assert.Equal(t, []string{"cp_uforecovery_init ufo-1 1.0"}, h.commands.lines)
}

func TestDropshipArrived(t *testing.T) {
	h := newHarness(t, rng.NewSequence(0.5))
	m := h.begun(t, core.CategoryRecon)
	h.engine.DropshipArrived(m)
	assert.True(t, m.Active)
}
