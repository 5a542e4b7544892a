package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minHarvestDelay = core.Days(3)
	maxHarvestDelay = core.Days(5)
)

func harvestStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageHarvest, core.StageReturnToOrbit,
		},
		pointOfNoReturn: core.StageHarvest,
		success: []interestChange{
			{core.CategoryHarvest, -0.3},
		},
		failure: []interestChange{
			{core.CategoryHarvest, 0.05},
			{core.CategoryIntercept, 0.05},
		},
		nextStage: (*Engine).harvestNextStage,
	}
}

func (e *Engine) harvestNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if pos, ok := e.randomPosition(m); ok {
			e.missionGoto(m, pos, true)
		}
	case core.StageMissionGoto:
		e.groundStage(m, core.StageHarvest, minHarvestDelay, maxHarvestDelay)
	case core.StageHarvest:
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}
