package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/selection"
	"github.com/ufoai/geoscape/pkg/core"
)

// place assigns the mission position and the display name of the place.
func (e *Engine) place(m *mission.Mission, pos core.Position) {
	m.Pos = pos
	m.PosAssigned = true
	if nation := e.deps.Geography.Nation(pos); nation != "" {
		m.Location = nation
	} else {
		m.Location = "No nation"
	}
}

// chooseMap sets the battle map of m unless one is already set. ufoType is
// the UFO sitting on the battlefield, "" for none.
func (e *Engine) chooseMap(m *mission.Mission, ufoType string) bool {
	if m.MapDef != nil {
		return true
	}
	md, err := selection.ChooseMap(e.tables, m.Category, ufoType, e.rand)
	if err != nil {
		e.log.Error("choose map", "mission", m.ID, "error", err)
		return false
	}
	m.MapDef = md
	return true
}

// randomPosition picks a spot for m. m is removed when there is none.
func (e *Engine) randomPosition(m *mission.Mission) (core.Position, bool) {
	pos, ok := e.deps.Geography.RandomPosition(m.Category, e.rand)
	if !ok {
		e.log.Warn("no position found for mission", "mission", m.ID)
		e.Remove(m)
	}
	return pos, ok
}

// missionGoto sends m to pos. With a UFO the stage ends when it arrives;
// ground missions move on at the next tick. landing tells whether the UFO
// will sit on the battlefield. It returns false if m was removed.
func (e *Engine) missionGoto(m *mission.Mission, pos core.Position, landing bool) bool {
	m.Stage = core.StageMissionGoto
	e.place(m, pos)

	ufoType := ""
	if m.UFO != nil && landing {
		ufoType = m.UFO.Type
	}
	if !e.chooseMap(m, ufoType) {
		e.Remove(m)
		return false
	}

	if m.UFO != nil {
		e.deps.UFOs.SendTo(m.UFO, pos)
		m.DisableTimeLimit()
	} else {
		m.FinalDate = e.Now()
	}
	return true
}

// groundStage starts a timed stage at the mission position. The UFO lands
// and the mission shows up on the geoscape if it can be seen.
func (e *Engine) groundStage(m *mission.Mission, stage core.Stage, lo, hi core.Date) {
	m.Stage = stage
	m.FinalDate = e.in(lo, hi)
	if m.UFO != nil {
		e.ufoRemoveFromGeoscape(m, false)
	}
	e.AddToGeoscape(m, false)
}

// returnToOrbit makes m leave. A UFO takes off and the stage ends when it
// is gone; without a UFO the mission ends on the next tick.
func (e *Engine) returnToOrbit(m *mission.Mission) {
	m.Stage = core.StageReturnToOrbit
	e.RemoveFromGeoscape(m)
	if m.UFO != nil {
		e.deps.UFOs.TakeOff(m.UFO)
		e.deps.UFOs.Roam(m.UFO)
		m.DisableTimeLimit()
		return
	}
	m.FinalDate = e.Now()
}

func (e *Engine) unexpectedStage(m *mission.Mission) {
	e.log.Error("unexpected mission stage", "mission", m.ID, "category", m.Category.String(), "stage", m.Stage.String())
	e.Remove(m)
}
