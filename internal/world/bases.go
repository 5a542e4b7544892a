package world

import (
	"fmt"
	"slices"

	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// Bases is the registry of player bases.
type Bases struct {
	radar  *Radar
	bases  []*core.Base
	ranges map[*core.Base]float64
	next   int

	// Dumps counts dropships unloaded after a base defence.
	Dumps int
}

// NewBases returns an empty registry whose bases feed radar.
func NewBases(radar *Radar) *Bases {
	return &Bases{radar: radar, ranges: map[*core.Base]float64{}}
}

// Add builds a base with a radar of the given range (degrees, 0 for none).
func (b *Bases) Add(name string, pos core.Position, radarRange float64) (*core.Base, error) {
	base := &core.Base{Idx: b.next + 1, Name: name, Pos: pos}
	if err := b.insert(base, radarRange); err != nil {
		return nil, err
	}
	return base, nil
}

func (b *Bases) insert(base *core.Base, radarRange float64) error {
	if radarRange > 0 {
		if err := b.radar.Add(base, base.Pos, radarRange); err != nil {
			return fmt.Errorf("base %s: %w", base.Name, err)
		}
	}
	b.bases = append(b.bases, base)
	b.ranges[base] = radarRange
	if base.Idx > b.next {
		b.next = base.Idx
	}
	return nil
}

func (b *Bases) Base(idx int) (*core.Base, bool) {
	for _, base := range b.bases {
		if base.Idx == idx {
			return base, true
		}
	}
	return nil, false
}

// All returns the bases in creation order.
func (b *Bases) All() []*core.Base {
	return slices.Clone(b.bases)
}

// ChooseAttackTarget picks a base that is not already under attack.
func (b *Bases) ChooseAttackTarget(r rng.Source) *core.Base {
	var candidates []*core.Base
	for _, base := range b.bases {
		if !base.UnderAttack {
			candidates = append(candidates, base)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[r.Intn(len(candidates))]
}

func (b *Bases) SetUnderAttack(base *core.Base, underAttack bool) {
	base.UnderAttack = underAttack
}

// Destroy removes the base and its radar.
func (b *Bases) Destroy(base *core.Base) {
	b.bases = slices.DeleteFunc(b.bases, func(x *core.Base) bool { return x == base })
	delete(b.ranges, base)
	b.radar.Remove(base)
}

func (b *Bases) DumpAircraft(*core.Aircraft) {
	b.Dumps++
}

// Installations is the registry of player installations.
type Installations struct {
	radar         *Radar
	installations []*installation
	next          int
}

type installation struct {
	*core.Installation
	hp         int
	radarRange float64
}

// NewInstallations returns an empty registry whose installations feed radar.
func NewInstallations(radar *Radar) *Installations {
	return &Installations{radar: radar}
}

// Add builds an installation that survives hp attacks minus one.
func (in *Installations) Add(name string, pos core.Position, hp int, radarRange float64) (*core.Installation, error) {
	i := &core.Installation{Idx: in.next + 1, Name: name, Pos: pos}
	if err := in.insert(i, hp, radarRange); err != nil {
		return nil, err
	}
	return i, nil
}

func (in *Installations) insert(i *core.Installation, hp int, radarRange float64) error {
	if radarRange > 0 {
		if err := in.radar.Add(i, i.Pos, radarRange); err != nil {
			return fmt.Errorf("installation %s: %w", i.Name, err)
		}
	}
	in.installations = append(in.installations, &installation{Installation: i, hp: max(hp, 1), radarRange: radarRange})
	if i.Idx > in.next {
		in.next = i.Idx
	}
	return nil
}

func (in *Installations) Installation(idx int) (*core.Installation, bool) {
	for _, i := range in.installations {
		if i.Idx == idx {
			return i.Installation, true
		}
	}
	return nil, false
}

// All returns the installations in creation order.
func (in *Installations) All() []*core.Installation {
	out := make([]*core.Installation, len(in.installations))
	for k, i := range in.installations {
		out[k] = i.Installation
	}
	return out
}

func (in *Installations) ChooseAttackTarget(r rng.Source) *core.Installation {
	if len(in.installations) == 0 {
		return nil
	}
	return in.installations[r.Intn(len(in.installations))].Installation
}

// Attack costs the installation one hit point. At zero it is destroyed.
func (in *Installations) Attack(target *core.Installation) bool {
	for k, i := range in.installations {
		if i.Installation != target {
			continue
		}
		i.hp--
		if i.hp > 0 {
			return false
		}
		in.installations = slices.Delete(in.installations, k, k+1)
		in.radar.Remove(target)
		return true
	}
	return false
}
