package world

import (
	"errors"
	"math"
	"slices"

	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

// minAlienBaseDistance keeps alien bases from stacking (degrees).
const minAlienBaseDistance = 2.0

var ErrAlienBaseTooClose = errors.New("an alien base already exists nearby")

// AlienBases is the registry of alien bases.
type AlienBases struct {
	bases []*core.AlienBase
	next  int
}

func NewAlienBases() *AlienBases {
	return &AlienBases{}
}

func (ab *AlienBases) AlienBase(idx int) (*core.AlienBase, bool) {
	for _, b := range ab.bases {
		if b.Idx == idx {
			return b, true
		}
	}
	return nil, false
}

func (ab *AlienBases) Build(pos core.Position) (*core.AlienBase, error) {
	for _, b := range ab.bases {
		if math.Hypot(b.Pos.Lon-pos.Lon, b.Pos.Lat-pos.Lat) < minAlienBaseDistance {
			return nil, ErrAlienBaseTooClose
		}
	}
	ab.next++
	b := &core.AlienBase{Idx: ab.next, Pos: pos}
	ab.insert(b)
	return b, nil
}

func (ab *AlienBases) insert(b *core.AlienBase) {
	ab.bases = append(ab.bases, b)
	if b.Idx > ab.next {
		ab.next = b.Idx
	}
}

func (ab *AlienBases) Destroy(b *core.AlienBase) {
	ab.bases = slices.DeleteFunc(ab.bases, func(x *core.AlienBase) bool { return x == b })
}

func (ab *AlienBases) Random(r rng.Source) *core.AlienBase {
	if len(ab.bases) == 0 {
		return nil
	}
	return ab.bases[r.Intn(len(ab.bases))]
}

func (ab *AlienBases) Count() int {
	return len(ab.bases)
}

func (ab *AlienBases) Supply(b *core.AlienBase) {
	b.Supply++
}

func (ab *AlienBases) All() []*core.AlienBase {
	return slices.Clone(ab.bases)
}
