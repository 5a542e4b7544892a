package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

// StartingBaseBuildInterest is the overall interest from which building
// missions set up alien bases instead of subverting governments.
const StartingBaseBuildInterest = 200

var (
	minSubvertDelay   = core.Days(3)
	maxSubvertDelay   = core.Days(5)
	minBuildBaseDelay = core.Days(5)
	maxBuildBaseDelay = core.Days(10)
)

func buildingStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageBuildBase, core.StageSubvertGov, core.StageReturnToOrbit,
		},
		target:          mission.TargetAlienBase,
		targetStages:    []core.Stage{core.StageBuildBase},
		spawnInterest:   -0.7,
		pointOfNoReturn: core.StageSubvertGov,
		success: []interestChange{
			{core.CategorySupply, 0.3},
			{core.CategoryXVI, 0.1},
		},
		failure: []interestChange{
			{core.CategoryBuilding, 0.1},
			{core.CategoryBaseAttack, 0.05},
		},
		nextStage: (*Engine).buildingNextStage,
		variant:   (*Engine).buildingVariant,
	}
}

func buildsBase(m *mission.Mission) bool {
	return m.InitialOverallInterest >= StartingBaseBuildInterest
}

func (e *Engine) buildingNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if pos, ok := e.randomPosition(m); ok {
			e.missionGoto(m, pos, true)
		}
	case core.StageMissionGoto:
		if buildsBase(m) {
			e.buildBase(m)
		} else {
			e.groundStage(m, core.StageSubvertGov, minSubvertDelay, maxSubvertDelay)
		}
	case core.StageBuildBase, core.StageSubvertGov:
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

func (e *Engine) buildBase(m *mission.Mission) {
	ab, err := e.deps.AlienBases.Build(m.Pos)
	if err != nil {
		e.log.Warn("build alien base", "mission", m.ID, "error", err)
		e.Remove(m)
		return
	}
	if err := m.SetTarget(mission.AlienBaseTarget(ab)); err != nil {
		e.log.Error("build alien base", "mission", m.ID, "error", err)
		e.Remove(m)
		return
	}
	e.groundStage(m, core.StageBuildBase, minBuildBaseDelay, maxBuildBaseDelay)
}

// buildingVariant: 0 subverts a government, 1 builds an alien base.
func (e *Engine) buildingVariant(m *mission.Mission, v int) error {
	switch v {
	case 0:
		if buildsBase(m) {
			m.InitialOverallInterest = StartingBaseBuildInterest - 1
		}
	case 1:
		m.InitialOverallInterest = StartingBaseBuildInterest + 1
	default:
		return fmt.Errorf("unknown building variant %d", v)
	}
	return nil
}
