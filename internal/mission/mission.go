// Package mission holds the mission entity and the ordered registry of live
// missions.
package mission

import (
	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/pkg/core"
)

// Mission is a scheduled piece of alien activity on the geoscape.
//
// UFO and the Target payload point into arenas owned by other subsystems.
// A mission never frees what it references; it is told about removals
// through the engine's notification hooks.
type Mission struct {
	Idx      int
	ID       string
	Category core.Category
	Stage    core.Stage

	MapDef   *content.MapDef
	Location string

	InitialOverallInterest    int
	InitialIndividualInterest int

	StartDate core.Date
	// FinalDate with Day == 0 disables the time limit.
	FinalDate core.Date

	Pos         core.Position
	PosAssigned bool

	UFO    *core.UFO
	Target Target

	// Active is set once the player's dropship reached the mission site.
	Active     bool
	OnGeoscape bool
	Crashed    bool

	OnWin  string
	OnLose string

	removed bool
}

// DisableTimeLimit makes the current stage end only on an external event
// (typically the UFO reaching its destination).
func (m *Mission) DisableTimeLimit() {
	m.FinalDate.Day = 0
}

// LimitedInTime reports whether the current stage ends at FinalDate.
func (m *Mission) LimitedInTime() bool {
	return m.FinalDate.Day != 0
}

// SetTarget stores the category-specific payload.
func (m *Mission) SetTarget(t Target) error {
	if err := t.check(m.Category); err != nil {
		return err
	}
	m.Target = t
	return nil
}

// Removed reports whether the mission was taken out of its registry.
func (m *Mission) Removed() bool {
	return m.removed
}

// Begun reports whether the mission left its not-active stage and is not over.
func (m *Mission) Begun() bool {
	return m.Stage != core.StageNotActive && m.Stage != core.StageOver
}
