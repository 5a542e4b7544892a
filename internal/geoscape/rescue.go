package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

func rescueStrategy() *strategy {
	return &strategy{
		stages:          []core.Stage{core.StageNotActive, core.StageMissionGoto, core.StageReturnToOrbit},
		target:          mission.TargetAircraft,
		targetStages:    []core.Stage{core.StageMissionGoto},
		pointOfNoReturn: core.StageReturnToOrbit,
		nextStage:       (*Engine).rescueNextStage,
	}
}

func (e *Engine) rescueNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageMissionGoto:
		// the UFO reached the crash site before the player did
		if a, ok := m.Target.Aircraft(); ok {
			e.deps.Messages.Add("Notice", fmt.Sprintf("The crew of %s was killed by the aliens.", a.Name), m)
			e.loseAircraft(m, a)
		}
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

func (e *Engine) endRescue(m *mission.Mission, won bool) {
	a, ok := m.Target.Aircraft()
	if !ok {
		return
	}
	if won {
		e.deps.Aircraft.Recover(a)
		m.Target = mission.Target{}
		return
	}
	e.loseAircraft(m, a)
	e.returnToOrbit(m)
}

func (e *Engine) loseAircraft(m *mission.Mission, a *core.Aircraft) {
	m.Target = mission.Target{}
	e.deps.Aircraft.Destroy(a)
	e.notifyAircraftRemoved(a)
}
