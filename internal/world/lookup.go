package world

import "github.com/ufoai/geoscape/pkg/core"

// Lookup resolves entity indices across the registries of a world.
type Lookup struct {
	w *World
}

func (w *World) Lookup() Lookup {
	return Lookup{w: w}
}

func (l Lookup) Base(idx int) (*core.Base, bool) {
	return l.w.Bases.Base(idx)
}

func (l Lookup) Installation(idx int) (*core.Installation, bool) {
	return l.w.Installations.Installation(idx)
}

func (l Lookup) Aircraft(idx int) (*core.Aircraft, bool) {
	return l.w.Aircraft.Aircraft(idx)
}

func (l Lookup) AlienBase(idx int) (*core.AlienBase, bool) {
	return l.w.AlienBases.AlienBase(idx)
}
