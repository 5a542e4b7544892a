package world

import (
	"fmt"

	"github.com/ufoai/geoscape/pkg/core"
)

// State is the serialisable part of a world. Nations come from the
// scenario and are not saved.
type State struct {
	Date          core.Date           `json:"date"`
	ClockStopped  bool                `json:"clockStopped,omitempty"`
	Bases         []BaseState         `json:"bases"`
	Installations []InstallationState `json:"installations"`
	Aircraft      []AircraftState     `json:"aircraft"`
	AlienBases    []core.AlienBase    `json:"alienBases"`
	UFOs          []core.UFO          `json:"ufos"`
	XVI           map[string]float64  `json:"xvi,omitempty"`
}

type BaseState struct {
	core.Base
	Radar float64 `json:"radar,omitempty"`
}

type InstallationState struct {
	core.Installation
	HP    int     `json:"hp"`
	Radar float64 `json:"radar,omitempty"`
}

type AircraftState struct {
	Idx      int           `json:"idx"`
	Name     string        `json:"name"`
	Pos      core.Position `json:"pos"`
	HomeBase int           `json:"homeBase,omitempty"`
	Crashed  bool          `json:"crashed,omitempty"`
}

// State captures the world. UFOs are listed in fleet order so offsets
// survive a round trip.
func (w *World) State() State {
	st := State{
		Date:         w.Clock.Now(),
		ClockStopped: w.Clock.Stopped(),
		XVI:          w.XVI.Levels(),
	}
	for _, b := range w.Bases.bases {
		st.Bases = append(st.Bases, BaseState{Base: *b, Radar: w.Bases.ranges[b]})
	}
	for _, i := range w.Installations.installations {
		st.Installations = append(st.Installations, InstallationState{Installation: *i.Installation, HP: i.hp, Radar: i.radarRange})
	}
	for _, a := range w.Aircraft.aircraft {
		as := AircraftState{Idx: a.Idx, Name: a.Name, Pos: a.Pos, Crashed: a.Crashed}
		if a.HomeBase != nil {
			as.HomeBase = a.HomeBase.Idx
		}
		st.Aircraft = append(st.Aircraft, as)
	}
	for _, ab := range w.AlienBases.bases {
		st.AlienBases = append(st.AlienBases, *ab)
	}
	for _, u := range w.Fleet.ufos {
		st.UFOs = append(st.UFOs, *u)
	}
	return st
}

// Restore replaces every registry's contents with the saved ones. The
// registries keep their identity; entity pointers held from before the
// call are stale afterwards. Nothing changes when st does not restore.
func (w *World) Restore(st State) error {
	staged, err := w.Stage(st)
	if err != nil {
		return err
	}
	staged.Apply()
	return nil
}

// Staged is a saved world rebuilt next to the live one. Its Lookup and
// Fleet resolve saved references until Apply installs it.
type Staged struct {
	target *World
	state  State
	world  *World
}

// Stage rebuilds the registries of st without touching w.
func (w *World) Stage(st State) (*Staged, error) {
	radar := NewRadar()
	s := &World{
		Radar:         radar,
		Bases:         NewBases(radar),
		Installations: NewInstallations(radar),
		Aircraft:      NewAircraft(),
		AlienBases:    NewAlienBases(),
		Fleet:         NewFleet(w.Fleet.tables, w.Fleet.rand, radar),
	}

	for _, bs := range st.Bases {
		b := bs.Base
		if err := s.Bases.insert(&b, bs.Radar); err != nil {
			return nil, err
		}
	}
	for _, is := range st.Installations {
		i := is.Installation
		if err := s.Installations.insert(&i, is.HP, is.Radar); err != nil {
			return nil, err
		}
	}
	for _, as := range st.Aircraft {
		a := &core.Aircraft{Idx: as.Idx, Name: as.Name, Pos: as.Pos, Crashed: as.Crashed}
		if as.HomeBase != 0 {
			home, ok := s.Bases.Base(as.HomeBase)
			if !ok {
				return nil, fmt.Errorf("aircraft %d: unknown home base %d", as.Idx, as.HomeBase)
			}
			a.HomeBase = home
		}
		s.Aircraft.insert(a)
	}
	for _, abs := range st.AlienBases {
		ab := abs
		s.AlienBases.insert(&ab)
	}
	for _, us := range st.UFOs {
		u := us
		s.Fleet.insert(&u)
	}
	return &Staged{target: w, state: st, world: s}, nil
}

func (s *Staged) Lookup() Lookup {
	return s.world.Lookup()
}

func (s *Staged) Fleet() *Fleet {
	return s.world.Fleet
}

// Apply installs the staged registries into the live world.
func (s *Staged) Apply() {
	w, src := s.target, s.world

	w.Clock.Set(s.state.Date)
	if s.state.ClockStopped {
		w.Clock.Stop()
	} else {
		w.Clock.Start()
	}

	*w.Radar = *src.Radar
	*w.Bases = *src.Bases
	*w.Installations = *src.Installations
	*w.Aircraft = *src.Aircraft
	*w.AlienBases = *src.AlienBases
	w.Bases.radar, w.Installations.radar = w.Radar, w.Radar
	w.Fleet.ufos, w.Fleet.next = src.Fleet.ufos, src.Fleet.next
	*w.Selection = *NewSelection()
	w.XVI.restore(s.state.XVI)
}
