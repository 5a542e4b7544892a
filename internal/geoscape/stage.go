package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/selection"
	"github.com/ufoai/geoscape/pkg/core"
)

// newMissionMaxDelay bounds the random delay before a spawned mission begins.
var newMissionMaxDelay = core.Days(3)

// CreateMission adds a not yet begun mission of category c. Unless beginNow
// is set the mission starts at a random date within the next three days.
// It returns nil for invalid categories.
func (e *Engine) CreateMission(c core.Category, beginNow bool) *mission.Mission {
	st := e.strategy(c)
	if st == nil {
		e.log.Warn("create mission: invalid category", "category", int(c))
		return nil
	}

	e.nextIdx++
	m := &mission.Mission{
		Idx:                       e.nextIdx,
		Category:                  c,
		Stage:                     core.StageNotActive,
		InitialOverallInterest:    e.interest.Overall(),
		InitialIndividualInterest: e.interest.Of(c),
	}
	m.ID = e.missions.UniqueID(c, m.InitialOverallInterest)

	if beginNow {
		m.StartDate = e.Now()
	} else {
		m.StartDate = e.in(core.Date{}, newMissionMaxDelay)
	}
	m.FinalDate = m.StartDate

	if err := e.missions.Add(m); err != nil {
		e.log.Warn("create mission", "error", err)
		return nil
	}

	if st.spawnInterest != 0 {
		e.applyInterest([]interestChange{{category: c, pct: st.spawnInterest}})
	}

	e.metrics.missionSpawned(c)
	e.log.Debug("mission created", "mission", m.ID, "start", m.StartDate.String())
	return m
}

// Begin starts m: the aliens pick a UFO, or none when the mission starts
// from the ground. A ground mission reaches its next stage on the following
// tick. It returns false if m had to be removed.
func (e *Engine) Begin(m *mission.Mission) bool {
	m.Stage = core.StageComeFromOrbit

	ufoType, err := selection.ChooseUFO(e.tables, m.Category, m.InitialOverallInterest, e.deps.XVI.AverageRate(), e.rand)
	if err != nil {
		e.log.Error("begin mission", "mission", m.ID, "error", err)
		e.Remove(m)
		return false
	}

	if ufoType == "" {
		m.FinalDate = e.Now()
		return true
	}

	u, err := e.deps.UFOs.Create(ufoType)
	if err != nil {
		e.log.Warn("begin mission: could not add ufo", "mission", m.ID, "ufo", ufoType, "error", err)
		e.Remove(m)
		return false
	}
	m.UFO = u
	e.deps.UFOs.Roam(u)
	m.DisableTimeLimit()
	return true
}

// StageEnd advances m past its current stage.
func (e *Engine) StageEnd(m *mission.Mission) {
	// aliens left or died at the crash site
	if m.Crashed {
		e.IsOver(m)
		return
	}

	st := e.strategy(m.Category)
	if st == nil || st.nextStage == nil {
		e.log.Error("stage end: unknown mission category", "mission", m.ID, "category", int(m.Category))
		e.Remove(m)
		return
	}

	st.nextStage(e, m)

	if e.missions.Contains(m) && !e.consistent(m) {
		e.log.Error("stage end: inconsistent mission", "mission", m.ID, "category", m.Category.String(), "stage", m.Stage.String())
		e.Remove(m)
	}
}

// IsOver resolves m. Missions that did not get past their category's point
// of no return failed.
func (e *Engine) IsOver(m *mission.Mission) {
	st := e.strategy(m.Category)
	if st == nil {
		e.log.Error("mission over: unknown mission category", "mission", m.ID, "category", int(m.Category))
		e.Remove(m)
		return
	}
	if m.Stage <= st.pointOfNoReturn {
		e.failure(m)
	} else {
		e.success(m)
	}
}

// Remove destroys the UFO of m, detaches it from the geoscape, notifies the
// listeners and drops it from the registry. Removing an unknown mission is
// logged and returns false.
func (e *Engine) Remove(m *mission.Mission) bool {
	if m == nil || !e.missions.Contains(m) {
		id := "<nil>"
		if m != nil {
			id = m.ID
		}
		e.log.Warn("remove mission: not found", "mission", id)
		return false
	}

	if m.UFO != nil {
		e.ufoRemoveFromGeoscape(m, true)
	}
	if e.battle.Mission == m {
		e.battle.reset()
	}
	e.detach(m)
	e.missions.Remove(m)

	e.metrics.missionRemoved(m.Category)
	e.log.Debug("mission removed", "mission", m.ID, "stage", m.Stage.String())
	return true
}

// EndActions cleans up after a battle on m fought with aircraft a.
func (e *Engine) EndActions(m *mission.Mission, a *core.Aircraft, won bool) {
	if m.Stage == core.StageBaseAttack {
		if won {
			if a != nil {
				e.deps.Bases.DumpAircraft(a)
			}
			if b, ok := m.Target.Base(); ok {
				e.deps.Messages.Add("Notice", fmt.Sprintf("Defence of base: %s successful!", b.Name), m)
			}
			e.failure(m)
		} else {
			e.destroyAttackedBase(m)
		}
		return
	}

	if m.Category == core.CategoryRescue {
		e.endRescue(m, won)
	}

	if a != nil {
		e.deps.Aircraft.ReturnToBase(a)
	}
	if won && e.missions.Contains(m) {
		e.IsOver(m)
	}
}

// ResolveBattle is called once the battle on m is decided.
func (e *Engine) ResolveBattle(m *mission.Mission, a *core.Aircraft, won bool) error {
	if !e.missions.Contains(m) {
		return fmt.Errorf("resolve battle: mission %s is not live", m.ID)
	}
	if won {
		e.stats.MissionsWon++
	} else {
		e.stats.MissionsLost++
	}
	e.executeTrigger(m, won)
	e.EndActions(m, a, won)
	return nil
}

func (e *Engine) executeTrigger(m *mission.Mission, won bool) {
	cmd := m.OnLose
	if won {
		cmd = m.OnWin
	}
	if cmd == "" {
		return
	}
	if err := e.deps.Commands.Execute(cmd); err != nil {
		e.log.Warn("mission trigger failed", "mission", m.ID, "command", cmd, "error", err)
	}
}

// DropshipArrived marks m as active: the player's troops reached the site.
func (e *Engine) DropshipArrived(m *mission.Mission) {
	m.Active = true
}

// UFOReachedDestination is called by the fleet when u arrives. It returns
// true if u was removed from the fleet.
func (e *Engine) UFOReachedDestination(u *core.UFO) bool {
	m := e.missions.ByUFO(u)
	if m == nil {
		e.log.Warn("ufo reached destination without mission", "ufo", u.ID)
		return false
	}

	switch m.Stage {
	case core.StageComeFromOrbit, core.StageMissionGoto:
		e.StageEnd(m)
		return false
	case core.StageReturnToOrbit:
		e.StageEnd(m)
		return m.UFO == nil
	case core.StageReconAir, core.StageIntercept:
		e.deps.UFOs.Roam(u)
	}
	return false
}

// CheckMissionEnd ends the stage of every mission whose time limit passed.
func (e *Engine) CheckMissionEnd() {
	now := e.Now()
	e.missions.Each(func(m *mission.Mission) bool {
		if m.LimitedInTime() && now.After(m.FinalDate) {
			e.StageEnd(m)
		}
		return true
	})
}

// ufoRemoveFromGeoscape lands the UFO of m, or destroys it.
func (e *Engine) ufoRemoveFromGeoscape(m *mission.Mission, destroyed bool) {
	u := m.UFO
	if u == nil {
		return
	}
	u.Landed = true
	e.notifyUFORemoved(u, destroyed)
	if destroyed {
		e.deps.UFOs.Destroy(u)
		m.UFO = nil
		return
	}
	e.deps.UFOs.Land(u)
}
