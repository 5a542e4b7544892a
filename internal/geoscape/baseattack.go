package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minBaseAttackDelay = core.NewDate(0, 12*core.SecondsPerHour)
	maxBaseAttackDelay = core.Days(1)
)

func baseAttackStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageBaseAttack, core.StageReturnToOrbit,
		},
		target:          mission.TargetBase,
		targetStages:    []core.Stage{core.StageMissionGoto, core.StageBaseAttack},
		spawnInterest:   -0.7,
		pointOfNoReturn: core.StageBaseAttack,
		success: []interestChange{
			{core.CategoryBaseAttack, -0.3},
		},
		failure: []interestChange{
			{core.CategoryBaseAttack, 0.05},
			{core.CategoryBuilding, 0.1},
		},
		nextStage: (*Engine).baseAttackNextStage,
		onFailure: (*Engine).releaseAttackedBase,
	}
}

func (e *Engine) baseAttackNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		e.baseAttackGo(m)
	case core.StageMissionGoto:
		e.baseAttackStart(m)
	case core.StageBaseAttack:
		// nobody defended the base in time
		e.destroyAttackedBase(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

func (e *Engine) baseAttackGo(m *mission.Mission) {
	b := e.deps.Bases.ChooseAttackTarget(e.rand)
	if b == nil {
		e.log.Info("base attack: no base to attack", "mission", m.ID)
		e.Remove(m)
		return
	}
	if err := m.SetTarget(mission.BaseTarget(b)); err != nil {
		e.log.Error("base attack", "mission", m.ID, "error", err)
		e.Remove(m)
		return
	}
	e.missionGoto(m, b.Pos, false)
}

func (e *Engine) baseAttackStart(m *mission.Mission) {
	b, ok := m.Target.Base()
	if !ok {
		e.log.Warn("base attack: target lost", "mission", m.ID)
		e.Remove(m)
		return
	}
	m.Stage = core.StageBaseAttack
	m.FinalDate = e.in(minBaseAttackDelay, maxBaseAttackDelay)
	if m.UFO != nil {
		e.ufoRemoveFromGeoscape(m, false)
	}
	e.deps.Bases.SetUnderAttack(b, true)
	e.deps.Messages.Add("Base attack", fmt.Sprintf("Base %s is under attack!", b.Name), m)
	e.deps.Clock.Stop()
}

// destroyAttackedBase: the aliens won the base attack.
func (e *Engine) destroyAttackedBase(m *mission.Mission) {
	b, ok := m.Target.Base()
	if !ok {
		e.Remove(m)
		return
	}
	st := e.strategy(m.Category)
	e.applyInterest(st.success)
	e.deps.Messages.Add("Notice", fmt.Sprintf("Your base: %s has been destroyed! All employees killed and all equipment destroyed.", b.Name), m)
	e.deps.Bases.Destroy(b)
	e.deps.Clock.Stop()
	e.NotifyBaseDestroyed(b)
}

func (e *Engine) releaseAttackedBase(m *mission.Mission) {
	if b, ok := m.Target.Base(); ok && b.UnderAttack {
		e.deps.Bases.SetUnderAttack(b, false)
	}
}
