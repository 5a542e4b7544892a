package geoscape

import (
	"fmt"
	"strconv"

	"github.com/ufoai/geoscape/internal/dispatcher"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

// Debug console commands.
const (
	CmdMissionAdd       = "debug_missionadd"
	CmdMissionList      = "debug_missionlist"
	CmdMissionDeleteAll = "debug_missiondeleteall"
	CmdMissionSetMap    = "debug_missionsetmap"
	CmdInterestList     = "debug_interestlist"
)

// MissionSummary is a printable view of a mission.
type MissionSummary struct {
	ID         string        `json:"id"`
	Idx        int           `json:"idx"`
	Category   core.Category `json:"category"`
	Stage      core.Stage    `json:"stage"`
	Map        string        `json:"map,omitempty"`
	Location   string        `json:"location,omitempty"`
	Start      core.Date     `json:"start"`
	End        core.Date     `json:"end"`
	Pos        core.Position `json:"pos"`
	OnGeoscape bool          `json:"onGeoscape"`
	UFO        string        `json:"ufo,omitempty"`
}

// Summarize returns a view of every live mission in registry order.
func (e *Engine) Summarize() []MissionSummary {
	out := make([]MissionSummary, 0, e.missions.Count())
	e.missions.Each(func(m *mission.Mission) bool {
		s := MissionSummary{
			ID:         m.ID,
			Idx:        m.Idx,
			Category:   m.Category,
			Stage:      m.Stage,
			Location:   m.Location,
			Start:      m.StartDate,
			End:        m.FinalDate,
			Pos:        m.Pos,
			OnGeoscape: m.OnGeoscape,
		}
		if m.MapDef != nil {
			s.Map = m.MapDef.ID
		}
		if m.UFO != nil {
			s.UFO = m.UFO.ID
		}
		out = append(out, s)
		return true
	})
	return out
}

// InterestSummary lists the interest values by category name.
type InterestSummary struct {
	Overall    int            `json:"overall"`
	Individual map[string]int `json:"individual"`
}

// AddMission creates and starts a mission of category c at once. variant
// selects a flow for categories that have more than one; -1 lets the
// engine decide.
func (e *Engine) AddMission(c core.Category, variant int) (*mission.Mission, error) {
	st := e.strategy(c)
	if st == nil {
		return nil, fmt.Errorf("add mission: invalid category %s", c)
	}
	m := e.CreateMission(c, true)
	if m == nil {
		return nil, fmt.Errorf("add mission: could not create %s mission", c)
	}
	if variant < 0 {
		return m, nil
	}
	if st.variant == nil {
		return m, fmt.Errorf("variant is not implemented for %s", c)
	}
	if err := st.variant(e, m, variant); err != nil {
		return m, err
	}
	return m, nil
}

// SetMissionMap forces the battle map of a mission.
func (e *Engine) SetMissionMap(id, mapID string) error {
	m := e.missions.ByID(id)
	if m == nil {
		return fmt.Errorf("mission %q not found", id)
	}
	md, ok := e.tables.Map(mapID)
	if !ok {
		return fmt.Errorf("map %q not found", mapID)
	}
	m.MapDef = md
	return nil
}

// DeleteAllMissions removes every mission and returns how many there were.
func (e *Engine) DeleteAllMissions() int {
	n := 0
	e.missions.Each(func(m *mission.Mission) bool {
		if e.Remove(m) {
			n++
		}
		return true
	})
	return n
}

// RegisterCommands installs the debug console commands on d.
func (e *Engine) RegisterCommands(d *dispatcher.Dispatcher) {
	d.Register(CmdMissionAdd, func(ev dispatcher.Event) (any, error) {
		c, err := core.ParseCategory(ev.Args[0])
		if err != nil {
			return nil, err
		}
		variant := -1
		if len(ev.Args) > 1 {
			if variant, err = strconv.Atoi(ev.Args[1]); err != nil {
				return nil, fmt.Errorf("invalid variant %q: %w", ev.Args[1], err)
			}
		}
		m, err := e.AddMission(c, variant)
		if m == nil {
			return nil, err
		}
		return m.ID, err
	}, dispatcher.Usage("<category> [variant]", 1), dispatcher.Logged())

	d.Register(CmdMissionList, func(dispatcher.Event) (any, error) {
		return e.Summarize(), nil
	})

	d.Register(CmdMissionDeleteAll, func(dispatcher.Event) (any, error) {
		return e.DeleteAllMissions(), nil
	}, dispatcher.Logged())

	d.Register(CmdMissionSetMap, func(ev dispatcher.Event) (any, error) {
		return nil, e.SetMissionMap(ev.Args[0], ev.Args[1])
	}, dispatcher.Usage("<missionid> <mapdef>", 2), dispatcher.Logged())

	d.Register(CmdInterestList, func(dispatcher.Event) (any, error) {
		st := e.interest.Snapshot()
		return InterestSummary{Overall: st.Overall, Individual: st.Individual}, nil
	})
}
