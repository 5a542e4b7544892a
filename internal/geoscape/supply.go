package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minSupplyDelay = core.Days(3)
	maxSupplyDelay = core.Days(10)
)

func supplyStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageSupply, core.StageReturnToOrbit,
		},
		target:          mission.TargetAlienBase,
		targetStages:    []core.Stage{core.StageMissionGoto, core.StageSupply},
		pointOfNoReturn: core.StageSupply,
		success: []interestChange{
			{core.CategorySupply, -0.2},
			{core.CategoryXVI, 0.05},
		},
		failure: []interestChange{
			{core.CategorySupply, 0.1},
			{core.CategoryIntercept, 0.05},
		},
		nextStage: (*Engine).supplyNextStage,
	}
}

func (e *Engine) supplyNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		e.supplyGo(m)
	case core.StageMissionGoto:
		e.groundStage(m, core.StageSupply, minSupplyDelay, maxSupplyDelay)
	case core.StageSupply:
		if ab, ok := m.Target.AlienBase(); ok {
			e.deps.AlienBases.Supply(ab)
		}
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

func (e *Engine) supplyGo(m *mission.Mission) {
	ab := e.deps.AlienBases.Random(e.rand)
	if ab == nil {
		e.log.Info("supply: no alien base to supply", "mission", m.ID)
		e.Remove(m)
		return
	}
	if err := m.SetTarget(mission.AlienBaseTarget(ab)); err != nil {
		e.log.Error("supply", "mission", m.ID, "error", err)
		e.Remove(m)
		return
	}
	e.missionGoto(m, ab.Pos, true)
}
