package geoscape

import (
	"fmt"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

var (
	minInterceptDelay     = core.Days(3)
	maxInterceptDelay     = core.Days(6)
	minInstallationAttack = core.NewDate(0, core.SecondsPerHour)
	maxInstallationAttack = core.NewDate(0, 2*core.SecondsPerHour)
)

const installationAttackChance = 0.5

func interceptStrategy() *strategy {
	return &strategy{
		stages: []core.Stage{
			core.StageNotActive, core.StageComeFromOrbit, core.StageMissionGoto,
			core.StageIntercept, core.StageReturnToOrbit,
		},
		target:          mission.TargetInstallation,
		pointOfNoReturn: core.StageIntercept,
		success: []interestChange{
			{core.CategoryIntercept, -0.3},
		},
		failure: []interestChange{
			{core.CategoryIntercept, 0.1},
			{core.CategoryBaseAttack, 0.05},
		},
		nextStage: (*Engine).interceptNextStage,
		variant:   (*Engine).interceptVariant,
	}
}

func (e *Engine) interceptNextStage(m *mission.Mission) {
	switch m.Stage {
	case core.StageNotActive:
		e.Begin(m)
	case core.StageComeFromOrbit:
		if e.rand.Float64() < installationAttackChance {
			if i := e.deps.Installations.ChooseAttackTarget(e.rand); i != nil {
				e.interceptGoToInstallation(m, i)
				return
			}
		}
		e.interceptAircraft(m)
	case core.StageMissionGoto:
		m.Stage = core.StageIntercept
		m.FinalDate = e.in(minInstallationAttack, maxInstallationAttack)
	case core.StageIntercept:
		if i, ok := m.Target.Installation(); ok && e.deps.Installations.Attack(i) {
			// the notification makes every attacker leave, m included
			e.NotifyInstallationDestroyed(i)
			return
		}
		e.returnToOrbit(m)
	case core.StageReturnToOrbit:
		e.success(m)
	default:
		e.unexpectedStage(m)
	}
}

// interceptAircraft lets the UFO hunt player aircraft for a while.
func (e *Engine) interceptAircraft(m *mission.Mission) {
	m.Stage = core.StageIntercept
	m.FinalDate = e.in(minInterceptDelay, maxInterceptDelay)
	if m.UFO != nil {
		e.deps.UFOs.Roam(m.UFO)
	}
}

func (e *Engine) interceptGoToInstallation(m *mission.Mission, i *core.Installation) {
	if err := m.SetTarget(mission.InstallationTarget(i)); err != nil {
		e.log.Error("intercept", "mission", m.ID, "error", err)
		e.Remove(m)
		return
	}
	e.missionGoto(m, i.Pos, false)
}

// interceptVariant: 0 hunts aircraft, 1 attacks an installation.
func (e *Engine) interceptVariant(m *mission.Mission, v int) error {
	if !e.Begin(m) {
		return fmt.Errorf("intercept mission %s could not begin", m.ID)
	}
	switch v {
	case 0:
		e.interceptAircraft(m)
	case 1:
		i := e.deps.Installations.ChooseAttackTarget(e.rand)
		if i == nil {
			e.Remove(m)
			return fmt.Errorf("no installation to attack")
		}
		e.interceptGoToInstallation(m, i)
	default:
		return fmt.Errorf("unknown intercept variant %d", v)
	}
	return nil
}
