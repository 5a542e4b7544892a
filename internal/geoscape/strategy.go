package geoscape

import (
	"slices"

	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

// interestChange moves the interest of a category by a fraction of the
// overall interest.
type interestChange struct {
	category core.Category
	pct      float64
}

// strategy holds everything the engine needs to know about one mission
// category. Adding a category means adding one entry to strategyTable.
type strategy struct {
	stages []core.Stage
	target mission.TargetKind
	// targetStages are the stages in which the target must be set.
	targetStages []core.Stage

	// spawnInterest is applied to the category when a mission is created.
	spawnInterest float64
	// pointOfNoReturn: a mission resolved at or before this stage failed.
	pointOfNoReturn core.Stage
	success         []interestChange
	failure         []interestChange

	nextStage func(*Engine, *mission.Mission)
	onSuccess func(*Engine, *mission.Mission)
	onFailure func(*Engine, *mission.Mission)
	// variant forces a specific flow (debug_missionadd).
	variant func(*Engine, *mission.Mission, int) error
}

func strategyTable() [core.CategoryMax]*strategy {
	var t [core.CategoryMax]*strategy
	t[core.CategoryRecon] = reconStrategy()
	t[core.CategoryTerrorAttack] = terrorStrategy()
	t[core.CategoryBaseAttack] = baseAttackStrategy()
	t[core.CategoryBuilding] = buildingStrategy()
	t[core.CategorySupply] = supplyStrategy()
	t[core.CategoryXVI] = xviStrategy()
	t[core.CategoryIntercept] = interceptStrategy()
	t[core.CategoryHarvest] = harvestStrategy()
	t[core.CategoryAlienBase] = alienBaseStrategy()
	t[core.CategoryRescue] = rescueStrategy()
	return t
}

func (e *Engine) strategy(c core.Category) *strategy {
	if !c.Valid() {
		return nil
	}
	return e.strategies[c]
}

// ValidStage reports whether s is a legal stage for missions of category c.
func (e *Engine) ValidStage(c core.Category, s core.Stage) bool {
	st := e.strategy(c)
	return st != nil && slices.Contains(st.stages, s)
}

// TargetRequired reports whether missions of category c must carry a
// target while in stage s.
func (e *Engine) TargetRequired(c core.Category, s core.Stage) bool {
	st := e.strategy(c)
	return st != nil && slices.Contains(st.targetStages, s)
}

// consistent checks the stage and target invariants of m.
func (e *Engine) consistent(m *mission.Mission) bool {
	if !e.ValidStage(m.Category, m.Stage) {
		return false
	}
	if e.TargetRequired(m.Category, m.Stage) && m.Target.IsZero() {
		return false
	}
	return true
}

func (e *Engine) applyInterest(changes []interestChange) {
	for _, c := range changes {
		if err := e.interest.ChangeIndividual(c.pct, c.category); err != nil {
			e.log.Warn("interest change failed", "error", err)
		}
	}
}

func (e *Engine) success(m *mission.Mission) {
	st := e.strategy(m.Category)
	if st != nil {
		e.applyInterest(st.success)
		if st.onSuccess != nil {
			st.onSuccess(e, m)
		}
	}
	if e.missions.Contains(m) {
		e.Remove(m)
	}
}

func (e *Engine) failure(m *mission.Mission) {
	st := e.strategy(m.Category)
	if st != nil {
		e.applyInterest(st.failure)
		if st.onFailure != nil {
			st.onFailure(e, m)
		}
	}
	if e.missions.Contains(m) {
		e.Remove(m)
	}
}
