package geoscape

import (
	"errors"
	"fmt"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/selection"
	"github.com/ufoai/geoscape/pkg/core"
)

const (
	minCrashedUFOCondition = 0.2
	maxCrashedUFOCondition = 0.81

	defaultCivilianTeam = "europe"
)

// ErrMissionNotPlaced is returned when a battle is requested for a mission
// without position or map.
var ErrMissionNotPlaced = errors.New("mission has no battlefield yet")

// BattleParameters describe the tactical battle about to be fought.
type BattleParameters struct {
	Mission   *mission.Mission
	Aircraft  *core.Aircraft
	Aliens    int
	Civilians int
	AlienTeam *content.AlienTeamGroup
	Equipment *content.EquipmentDef
	ZoneType  string
	CivTeam   string
	Nation    string
	// UFOCondition is the share of the UFO left intact, 0 without UFO.
	UFOCondition float64
}

func (b *BattleParameters) reset() {
	*b = BattleParameters{}
}

// CreateBattleParameters prepares the battle on m for the dropship a.
func (e *Engine) CreateBattleParameters(m *mission.Mission, a *core.Aircraft) (*BattleParameters, error) {
	if !m.PosAssigned || m.MapDef == nil {
		return nil, fmt.Errorf("battle for %s: %w", m.ID, ErrMissionNotPlaced)
	}
	e.battle.reset()

	maxTeamSize := 0
	if m.UFO != nil {
		maxTeamSize = m.UFO.MaxTeamSize
	}
	aliens := selection.CreateAlienTeam(e.interest.Overall(), maxTeamSize, m.MapDef.MaxAliens, e.rand)

	group, err := selection.SetAlienTeamByInterest(e.tables, m.Category, m.InitialOverallInterest, e.rand)
	if err != nil {
		e.log.Error("battle parameters", "mission", m.ID, "error", err)
		return nil, err
	}
	equipment, err := selection.SetAlienEquipmentByInterest(e.tables, group, m.InitialOverallInterest, e.rand)
	if err != nil {
		e.log.Error("battle parameters", "mission", m.ID, "error", err)
		return nil, err
	}

	geo := e.deps.Geography
	nation := geo.Nation(m.Pos)
	civTeam := m.MapDef.CivTeam
	switch {
	case civTeam != "":
	case nation != "":
		civTeam = nation
	default:
		civTeam = defaultCivilianTeam
	}

	e.battle = BattleParameters{
		Mission:   m,
		Aircraft:  a,
		Aliens:    aliens,
		Civilians: geo.CivilianCount(m.Pos),
		AlienTeam: group,
		Equipment: equipment,
		ZoneType:  geo.Terrain(m.Pos),
		CivTeam:   civTeam,
		Nation:    nation,
	}

	if m.UFO != nil {
		condition := 1.0
		if m.Crashed {
			condition = e.rand.Float64()*(maxCrashedUFOCondition-minCrashedUFOCondition) + minCrashedUFOCondition
		}
		e.battle.UFOCondition = condition
		m.OnWin = fmt.Sprintf("cp_uforecovery_init %s %f", m.UFO.ID, condition)
	}
	return &e.battle, nil
}
