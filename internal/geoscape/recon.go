package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minReconAirDelay    = core.Days(1)
	maxReconAirDelay    = core.Days(2)
	minReconGroundDelay = core.Days(2)
	maxReconGroundDelay = core.Days(3)
)

const reconAerialChance = 0.5

func reconStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageReconAir,
			core.StageMissionGoto, core.StageReconGround, core.StageReturnToOrbit,
		},
		pointOfNoReturn: core.StageReconGround,
		success: []interestChange{
			{core.CategoryRecon, -0.2},
			{core.CategoryTerrorAttack, 0.1},
			{core.CategoryHarvest, 0.1},
		},
		failure: []interestChange{
			{core.CategoryRecon, 0.05},
			{core.CategoryIntercept, 0.05},
		},
		nextStage: (*Engine).reconNextStage,
		variant:   (*Engine).reconVariant,
	}
}

func (e *Engine) reconNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if m.UFO != nil && e.rand.Float64() < reconAerialChance {
			e.reconAerial(m)
		} else {
			e.reconGroundGo(m)
		}
	case core.StageReconAir:
		if e.rand.Float64() < reconAerialChance {
			e.reconGroundGo(m)
		} else {
			e.returnToOrbit(m)
		}
	case core.StageMissionGoto:
		e.groundStage(m, core.StageReconGround, minReconGroundDelay, maxReconGroundDelay)
	case core.StageReconGround:
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

// reconAerial keeps the UFO flying over the planet for a while.
func (e *Engine) reconAerial(m *mission.Mission) {
	m.Stage = core.StageReconAir
	m.FinalDate = e.in(minReconAirDelay, maxReconAirDelay)
	e.deps.UFOs.Roam(m.UFO)
}

func (e *Engine) reconGroundGo(m *mission.Mission) {
	pos, ok := e.randomPosition(m)
	if !ok {
		return
	}
	e.missionGoto(m, pos, true)
}

// reconVariant: 1 aerial, 2 ground.
func (e *Engine) reconVariant(m *mission.Mission, v int) error {
	if !e.Begin(m) {
		return fmt.Errorf("recon mission %s could not begin", m.ID)
	}
	switch v {
	case 1:
		if m.UFO == nil {
			return fmt.Errorf("recon mission %s spawned without ufo, no aerial flight", m.ID)
		}
		e.reconAerial(m)
	case 2:
		e.reconGroundGo(m)
	default:
		return fmt.Errorf("unknown recon variant %d", v)
	}
	return nil
}
