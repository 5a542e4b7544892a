// Package savegame converts the mission engine to and from its persisted
// form. Enumerations are stored by symbolic name and entity references by
// index, so a save survives reordering of the in-memory tables.
package savegame

import (
	"time"

	"github.com/google/uuid"

	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/internal/interest"
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/world"
	"github.com/ufoai/geoscape/pkg/core"
)

// Version of the snapshot layout.
const Version = 1

// noUFO marks a mission record without UFO.
const noUFO = -1

// Snapshot is a complete campaign save.
type Snapshot struct {
	ID       string          `json:"id"`
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"savedAt"`
	Date     core.Date       `json:"date"`
	Interest interest.State  `json:"interest"`
	Engine   geoscape.State  `json:"engine"`
	World    world.State     `json:"world"`
	Missions []MissionRecord `json:"missions"`
}

// MissionRecord is the persisted form of one mission.
type MissionRecord struct {
	Idx      int           `json:"idx"`
	ID       string        `json:"id"`
	Category core.Category `json:"category"`
	Stage    core.Stage    `json:"stage"`
	Map      string        `json:"map,omitempty"`
	Location string        `json:"location,omitempty"`

	InitialOverallInterest    int `json:"initialOverallInterest"`
	InitialIndividualInterest int `json:"initialIndividualInterest"`

	StartDate core.Date     `json:"startDate"`
	FinalDate core.Date     `json:"finalDate"`
	Pos       core.Position `json:"pos"`
	// PosAssigned is missing from old saves.
	PosAssigned *bool `json:"posAssigned,omitempty"`

	Active     bool   `json:"active,omitempty"`
	OnGeoscape bool   `json:"onGeoscape,omitempty"`
	Crashed    bool   `json:"crashed,omitempty"`
	OnWin      string `json:"onWin,omitempty"`
	OnLose     string `json:"onLose,omitempty"`

	// Target references, by index. Zero means unset.
	Base         int `json:"base,omitempty"`
	Installation int `json:"installation,omitempty"`
	AlienBase    int `json:"alienBase,omitempty"`
	Aircraft     int `json:"aircraft,omitempty"`

	// UFO is the offset of the mission's UFO in the fleet, -1 for none.
	UFO int `json:"ufo"`
}

// Fleet locates UFOs by offset in the fleet array.
type Fleet interface {
	Offset(u *core.UFO) (int, bool)
	At(offset int) (*core.UFO, bool)
}

// Save captures the engine. The world part is left for the caller, who
// owns the collaborators.
func Save(e *geoscape.Engine, fleet Fleet) *Snapshot {
	s := &Snapshot{
		ID:       uuid.NewString(),
		Version:  Version,
		SavedAt:  time.Now().UTC(),
		Date:     e.Now(),
		Interest: e.Interest().Snapshot(),
		Engine:   e.State(),
	}
	e.Missions().Each(func(m *mission.Mission) bool {
		s.Missions = append(s.Missions, record(m, fleet))
		return true
	})
	return s
}

func record(m *mission.Mission, fleet Fleet) MissionRecord {
	assigned := m.PosAssigned
	r := MissionRecord{
		Idx:                       m.Idx,
		ID:                        m.ID,
		Category:                  m.Category,
		Stage:                     m.Stage,
		Location:                  m.Location,
		InitialOverallInterest:    m.InitialOverallInterest,
		InitialIndividualInterest: m.InitialIndividualInterest,
		StartDate:                 m.StartDate,
		FinalDate:                 m.FinalDate,
		Pos:                       m.Pos,
		PosAssigned:               &assigned,
		Active:                    m.Active,
		OnGeoscape:                m.OnGeoscape,
		Crashed:                   m.Crashed,
		OnWin:                     m.OnWin,
		OnLose:                    m.OnLose,
		UFO:                       noUFO,
	}
	if m.MapDef != nil {
		r.Map = m.MapDef.ID
	}
	if b, ok := m.Target.Base(); ok {
		r.Base = b.Idx
	}
	if i, ok := m.Target.Installation(); ok {
		r.Installation = i.Idx
	}
	if ab, ok := m.Target.AlienBase(); ok {
		r.AlienBase = ab.Idx
	}
	if a, ok := m.Target.Aircraft(); ok {
		r.Aircraft = a.Idx
	}
	if m.UFO != nil {
		if off, ok := fleet.Offset(m.UFO); ok {
			r.UFO = off
		}
	}
	return r
}
