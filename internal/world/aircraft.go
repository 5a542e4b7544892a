package world

import (
	"slices"

	"github.com/ufoai/geoscape/pkg/core"
)

// Aircraft is the player's air fleet.
type Aircraft struct {
	aircraft []*core.Aircraft
	next     int
}

func NewAircraft() *Aircraft {
	return &Aircraft{}
}

// Add stations a new aircraft at home.
func (f *Aircraft) Add(name string, home *core.Base) *core.Aircraft {
	f.next++
	a := &core.Aircraft{Idx: f.next, Name: name, HomeBase: home}
	if home != nil {
		a.Pos = home.Pos
	}
	f.insert(a)
	return a
}

func (f *Aircraft) insert(a *core.Aircraft) {
	f.aircraft = append(f.aircraft, a)
	if a.Idx > f.next {
		f.next = a.Idx
	}
}

func (f *Aircraft) Aircraft(idx int) (*core.Aircraft, bool) {
	for _, a := range f.aircraft {
		if a.Idx == idx {
			return a, true
		}
	}
	return nil, false
}

func (f *Aircraft) HomedAt(b *core.Base) []*core.Aircraft {
	var out []*core.Aircraft
	for _, a := range f.aircraft {
		if a.HomeBase == b {
			out = append(out, a)
		}
	}
	return out
}

func (f *Aircraft) All() []*core.Aircraft {
	return slices.Clone(f.aircraft)
}

// Crash brings the aircraft down at pos.
func (f *Aircraft) Crash(a *core.Aircraft, pos core.Position) {
	a.Crashed = true
	a.Pos = pos
}

func (f *Aircraft) ReturnToBase(a *core.Aircraft) {
	if a.HomeBase != nil {
		a.Pos = a.HomeBase.Pos
	}
}

func (f *Aircraft) Recover(a *core.Aircraft) {
	a.Crashed = false
	f.ReturnToBase(a)
}

func (f *Aircraft) Destroy(a *core.Aircraft) {
	f.aircraft = slices.DeleteFunc(f.aircraft, func(x *core.Aircraft) bool { return x == a })
}
