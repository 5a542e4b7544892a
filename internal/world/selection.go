package world

import (
	"github.com/ufoai/geoscape/internal/mission"
	"github.com/ufoai/geoscape/pkg/core"
)

// Selection is what the player has picked on the map. It listens for
// removals so it never holds a pointer the engine has dropped.
type Selection struct {
	Mission  *mission.Mission
	UFO      *core.UFO
	Aircraft *core.Aircraft
	// Interceptors maps aircraft to the UFO they chase.
	Interceptors map[*core.Aircraft]*core.UFO
}

func NewSelection() *Selection {
	return &Selection{Interceptors: map[*core.Aircraft]*core.UFO{}}
}

// Intercept sends a into pursuit of u.
func (s *Selection) Intercept(a *core.Aircraft, u *core.UFO) {
	s.Interceptors[a] = u
}

func (s *Selection) NotifyMissionRemoved(m *mission.Mission) {
	if s.Mission == m {
		s.Mission = nil
	}
}

// NotifyUFORemoved drops the UFO from the selection and, when it is gone
// for good, calls off every interceptor chasing it. A UFO that only
// leaves the map stays a valid pursuit target.
func (s *Selection) NotifyUFORemoved(u *core.UFO, destroyed bool) {
	if s.UFO == u {
		s.UFO = nil
	}
	if !destroyed {
		return
	}
	for a, target := range s.Interceptors {
		if target == u {
			delete(s.Interceptors, a)
		}
	}
}

func (s *Selection) NotifyAircraftRemoved(a *core.Aircraft) {
	if s.Aircraft == a {
		s.Aircraft = nil
	}
	delete(s.Interceptors, a)
}
