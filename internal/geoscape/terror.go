package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minTerrorDelay = core.Days(2)
	maxTerrorDelay = core.Days(3)
)

func terrorStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageTerrorMission, core.StageReturnToOrbit,
		},
		spawnInterest:   -0.2,
		pointOfNoReturn: core.StageTerrorMission,
		success: []interestChange{
			{core.CategoryTerrorAttack, -0.2},
			{core.CategoryBaseAttack, 0.05},
		},
		failure: []interestChange{
			{core.CategoryIntercept, 0.05},
			{core.CategoryBuilding, 0.1},
			{core.CategoryBaseAttack, 0.1},
		},
		nextStage: (*Engine).terrorNextStage,
	}
}

func (e *Engine) terrorNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if pos, ok := e.randomPosition(m); ok {
			e.missionGoto(m, pos, false)
		}
	case core.StageMissionGoto:
		e.groundStage(m, core.StageTerrorMission, minTerrorDelay, maxTerrorDelay)
	case core.StageTerrorMission:
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}
