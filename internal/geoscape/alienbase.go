package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

func alienBaseStrategy() *strategy {
	return &strategy{
		stages:          []core.Stage{core.StageNotActive, core.StageBaseDiscovered},
		target:          mission.TargetAlienBase,
		targetStages:    []core.Stage{core.StageBaseDiscovered},
		pointOfNoReturn: core.StageBaseDiscovered,
		failure: []interestChange{
			{core.CategoryBuilding, 0.2},
			{core.CategoryBaseAttack, 0.1},
		},
		nextStage: (*Engine).alienBaseNextStage,
		onFailure: (*Engine).destroyAlienBase,
	}
}

// An alien base mission never ends on its own: only a battle resolves it.
func (e *Engine) alienBaseNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.alienBaseDiscovered(m)
	default:
		e.unexpectedStage(m)
	}
}

func (e *Engine) alienBaseDiscovered(m *mission.Mission) {
	ab, ok := m.Target.AlienBase()
	if !ok {
		e.log.Warn("alien base mission without base", "mission", m.ID)
		e.Remove(m)
		return
	}
	m.Stage = core.StageBaseDiscovered
	e.place(m, ab.Pos)
	if !e.chooseMap(m, "") {
		e.Remove(m)
		return
	}
	m.DisableTimeLimit()
	e.deps.Messages.Add("Alien base discovered", fmt.Sprintf("An alien base has been discovered in %s.", m.Location), m)
	e.AddToGeoscape(m, false)
}

// destroyAlienBase: the player won the assault.
func (e *Engine) destroyAlienBase(m *mission.Mission) {
	ab, ok := m.Target.AlienBase()
	if !ok {
		return
	}
	e.deps.AlienBases.Destroy(ab)
	e.NotifyAlienBaseDestroyed(ab)
}
