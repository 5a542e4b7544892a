package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minXVIDelay = core.Days(3)
	maxXVIDelay = core.Days(5)
)

func xviStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageSpreadXVI, core.StageReturnToOrbit,
		},
		pointOfNoReturn: core.StageSpreadXVI,
		success: []interestChange{
			{core.CategoryXVI, -0.3},
			{core.CategoryHarvest, 0.05},
		},
		failure: []interestChange{
			{core.CategoryXVI, 0.05},
			{core.CategoryIntercept, 0.05},
		},
		nextStage: (*Engine).xviNextStage,
	}
}

func (e *Engine) xviNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if pos, ok := e.randomPosition(m); ok {
			e.missionGoto(m, pos, true)
		}
	case core.StageMissionGoto:
		e.groundStage(m, core.StageSpreadXVI, minXVIDelay, maxXVIDelay)
	case core.StageSpreadXVI:
		e.deps.XVI.Spread(m.Pos)
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}
