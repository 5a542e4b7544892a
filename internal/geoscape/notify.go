package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minCrashDelay = core.Days(7)
	maxCrashDelay = core.Days(14)
)

// NotifyBaseDestroyed removes every mission targeting b. The aircraft
// stationed at b are lost with it.
func (e *Engine) NotifyBaseDestroyed(b *core.Base) {
	e.missions.Each(func(m *mission.Mission) bool {
		if tb, ok := m.Target.Base(); ok && tb == b {
			e.Remove(m)
		}
		return true
	})
	for _, a := range e.deps.Aircraft.HomedAt(b) {
		e.aircraftLost(a)
	}
}

// aircraftLost destroys a. A rescue still heading for its wreck has
// nothing left to do and leaves.
func (e *Engine) aircraftLost(a *core.Aircraft) {
	e.missions.Each(func(m *mission.Mission) bool {
		ta, ok := m.Target.Aircraft()
		if !ok || ta != a {
			return true
		}
		m.Target = mission.Target{}
		if m.Stage == core.StageMissionGoto {
			e.returnToOrbit(m)
		}
		return true
	})
	e.deps.Aircraft.Destroy(a)
	e.notifyAircraftRemoved(a)
}

// NotifyInstallationDestroyed makes the missions attacking i leave.
func (e *Engine) NotifyInstallationDestroyed(i *core.Installation) {
	e.missions.Each(func(m *mission.Mission) bool {
		ti, ok := m.Target.Installation()
		if !ok || ti != i {
			return true
		}
		m.Target = mission.Target{}
		if m.Stage == core.StageMissionGoto || m.Stage == core.StageIntercept {
			e.returnToOrbit(m)
		}
		return true
	})
}

// NotifyAlienBaseDestroyed drops every reference to ab. Missions building or
// supplying it leave; the assault mission on it is removed.
func (e *Engine) NotifyAlienBaseDestroyed(ab *core.AlienBase) {
	e.missions.Each(func(m *mission.Mission) bool {
		tb, ok := m.Target.AlienBase()
		if !ok || tb != ab {
			return true
		}
		if m.Category == core.CategoryAlienBase {
			e.Remove(m)
			return true
		}
		m.Target = mission.Target{}
		switch m.Stage {
		case core.StageMissionGoto, core.StageBuildBase, core.StageSupply:
			e.returnToOrbit(m)
		}
		return true
	})
}

// NotifyAlienBaseDiscovered opens an assault mission on ab.
func (e *Engine) NotifyAlienBaseDiscovered(ab *core.AlienBase) *mission.Mission {
	ab.Discovered = true
	m := e.CreateMission(core.CategoryAlienBase, true)
	if m == nil {
		return nil
	}
	if err := m.SetTarget(mission.AlienBaseTarget(ab)); err != nil {
		e.log.Error("alien base discovered", "mission", m.ID, "error", err)
		e.Remove(m)
		return nil
	}
	e.alienBaseDiscovered(m)
	if !e.missions.Contains(m) {
		return nil
	}
	return m
}

// NotifyUFODestroyed turns the mission of a shot down UFO into a crash site
// the player can visit for one to two weeks.
func (e *Engine) NotifyUFODestroyed(u *core.UFO) *mission.Mission {
	m := e.missions.ByUFO(u)
	if m == nil {
		e.log.Warn("crash site: ufo has no mission", "ufo", u.ID)
		return nil
	}

	m.Crashed = true
	m.MapDef = nil
	if !e.chooseMap(m, u.Type) {
		e.Remove(m)
		return nil
	}
	e.place(m, u.Pos)
	m.FinalDate = e.in(minCrashDelay, maxCrashDelay)

	// the UFO stays in the fleet: recovery needs it
	e.ufoRemoveFromGeoscape(m, false)
	e.AddToGeoscape(m, false)
	return m
}

// NotifyAircraftCrashed spawns a rescue mission for a player aircraft shot
// down by u. The UFO drops its current mission and heads for the wreck.
// u is nil when the UFO did not survive the fight.
func (e *Engine) NotifyAircraftCrashed(a *core.Aircraft, u *core.UFO) *mission.Mission {
	a.Crashed = true
	if u == nil {
		e.log.Info("rescue: ufo was destroyed too", "aircraft", a.Name)
		return nil
	}

	m := e.CreateMission(core.CategoryRescue, true)
	if m == nil {
		return nil
	}
	if !e.chooseMap(m, "") {
		e.Remove(m)
		return nil
	}
	if err := m.SetTarget(mission.AircraftTarget(a)); err != nil {
		e.log.Error("rescue", "mission", m.ID, "error", err)
		e.Remove(m)
		return nil
	}

	if old := e.missions.ByUFO(u); old != nil {
		old.UFO = nil
		e.Remove(old)
	}

	m.UFO = u
	m.Stage = core.StageMissionGoto
	e.place(m, a.Pos)
	m.Location = fmt.Sprintf("Crashed %s", a.Name)
	e.deps.UFOs.SendTo(u, a.Pos)
	m.DisableTimeLimit()
	e.AddToGeoscape(m, false)
	return m
}
