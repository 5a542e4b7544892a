package geoscape

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// Clock is the campaign world clock.
type Clock interface {
	Now() core.Date
	Advance(seconds int) core.Date
	// Stop halts game time so the player can react to an event.
	Stop()
	Stopped() bool
}

// Bases is the registry of player bases.
type Bases interface {
	Base(idx int) (*core.Base, bool)
	// ChooseAttackTarget returns nil when no base can be attacked.
	ChooseAttackTarget(r rng.Source) *core.Base
	SetUnderAttack(b *core.Base, underAttack bool)
	Destroy(b *core.Base)
	// DumpAircraft unloads a dropship into its home base storage.
	DumpAircraft(a *core.Aircraft)
}

// Installations is the registry of player installations.
type Installations interface {
	Installation(idx int) (*core.Installation, bool)
	ChooseAttackTarget(r rng.Source) *core.Installation
	// Attack damages the installation and reports whether it was destroyed.
	Attack(i *core.Installation) (destroyed bool)
}

// Aircraft is the player's air fleet.
type Aircraft interface {
	Aircraft(idx int) (*core.Aircraft, bool)
	ReturnToBase(a *core.Aircraft)
	// Recover brings a crashed aircraft and its crew back into service.
	Recover(a *core.Aircraft)
	Destroy(a *core.Aircraft)
	// HomedAt lists the aircraft stationed at b, crashed ones included.
	HomedAt(b *core.Base) []*core.Aircraft
}

// AlienBases is the registry of alien bases.
type AlienBases interface {
	AlienBase(idx int) (*core.AlienBase, bool)
	Build(pos core.Position) (*core.AlienBase, error)
	Destroy(b *core.AlienBase)
	// Random returns nil when there is no alien base.
	Random(r rng.Source) *core.AlienBase
	Count() int
	Supply(b *core.AlienBase)
}

// Fleet is the UFO subsystem. It owns flight simulation; the engine owns
// the pairing between UFOs and missions.
type Fleet interface {
	Create(ufoType string) (*core.UFO, error)
	Destroy(u *core.UFO)
	SendTo(u *core.UFO, pos core.Position)
	// Roam gives the UFO a random destination.
	Roam(u *core.UFO)
	Land(u *core.UFO)
	TakeOff(u *core.UFO)
	// Spot marks u detected until it takes off.
	Spot(u *core.UFO)
	// Offset is the position of u within the fleet array.
	Offset(u *core.UFO) (int, bool)
	At(offset int) (*core.UFO, bool)
	// Run moves every UFO by dt seconds and returns those that reached
	// their destination.
	Run(dt int) []*core.UFO
}

// Radar answers point-in-coverage queries.
type Radar interface {
	Covers(pos core.Position) bool
}

// XVI is the alien infection spread model.
type XVI interface {
	AverageRate() float64
	Spread(pos core.Position)
}

// Geography answers questions about places on the globe.
type Geography interface {
	// RandomPosition returns false when no suitable spot exists.
	RandomPosition(c core.Category, r rng.Source) (core.Position, bool)
	// Nation returns "" for positions outside any nation.
	Nation(pos core.Position) string
	CivilianCount(pos core.Position) int
	Terrain(pos core.Position) string
}

// Messages is the player message log.
type Messages interface {
	Add(title, text string, m *mission.Mission)
}

// CommandRunner executes mission trigger commands.
type CommandRunner interface {
	Execute(line string) error
}

// Notifier is told when the engine drops something other subsystems may
// still reference.
type Notifier interface {
	NotifyMissionRemoved(m *mission.Mission)
	// NotifyUFORemoved is called with destroyed == false when the UFO only
	// disappears from the geoscape.
	NotifyUFORemoved(u *core.UFO, destroyed bool)
	NotifyAircraftRemoved(a *core.Aircraft)
}
