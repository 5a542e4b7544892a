package world

import (
	"fmt"
	"math"
	"slices"

	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

const (
	// UFOSpeed is the cruise speed of every UFO in degrees per second.
	UFOSpeed = 0.004

	roamMaxLat = 60.0
)

// Fleet owns the UFOs. The array is compacted when a UFO is destroyed, so
// offsets are only stable between destructions.
type Fleet struct {
	tables *content.Tables
	rand   rng.Source
	radar  *Radar
	ufos   []*core.UFO
	next   int
}

func NewFleet(tables *content.Tables, r rng.Source, radar *Radar) *Fleet {
	return &Fleet{tables: tables, rand: r, radar: radar}
}

// Create launches a UFO of the given type from a random point in orbit.
func (f *Fleet) Create(ufoType string) (*core.UFO, error) {
	def, ok := f.tables.UFO(ufoType)
	if !ok {
		return nil, fmt.Errorf("unknown ufo type %q", ufoType)
	}
	f.next++
	u := &core.UFO{
		Idx:         f.next,
		ID:          fmt.Sprintf("ufo-%d", f.next),
		Type:        def.ID,
		MaxTeamSize: def.MaxTeamSize,
		OnGeoscape:  true,
		Pos:         f.randomPosition(),
	}
	u.Destination = u.Pos
	u.Detected = f.radar.Covers(u.Pos)
	f.insert(u)
	return u, nil
}

func (f *Fleet) insert(u *core.UFO) {
	f.ufos = append(f.ufos, u)
	if u.Idx > f.next {
		f.next = u.Idx
	}
}

func (f *Fleet) randomPosition() core.Position {
	return core.Position{
		Lon: -180 + 360*f.rand.Float64(),
		Lat: -roamMaxLat + 2*roamMaxLat*f.rand.Float64(),
	}
}

func (f *Fleet) Destroy(u *core.UFO) {
	f.ufos = slices.DeleteFunc(f.ufos, func(x *core.UFO) bool { return x == u })
	u.OnGeoscape = false
}

func (f *Fleet) SendTo(u *core.UFO, pos core.Position) {
	u.Destination = pos
}

func (f *Fleet) Roam(u *core.UFO) {
	u.Destination = f.randomPosition()
}

func (f *Fleet) Land(u *core.UFO) {
	u.Landed = true
}

func (f *Fleet) TakeOff(u *core.UFO) {
	u.Landed = false
	u.Spotted = false
}

func (f *Fleet) Spot(u *core.UFO) {
	u.Spotted = true
	u.Detected = true
}

func (f *Fleet) Offset(u *core.UFO) (int, bool) {
	i := slices.Index(f.ufos, u)
	return i, i >= 0
}

func (f *Fleet) At(offset int) (*core.UFO, bool) {
	if offset < 0 || offset >= len(f.ufos) {
		return nil, false
	}
	return f.ufos[offset], true
}

func (f *Fleet) All() []*core.UFO {
	return slices.Clone(f.ufos)
}

func (f *Fleet) Len() int {
	return len(f.ufos)
}

// Run flies every airborne UFO for dt seconds, refreshes radar detection
// and returns the UFOs that reached their destination.
func (f *Fleet) Run(dt int) []*core.UFO {
	var arrived []*core.UFO
	step := UFOSpeed * float64(dt)
	for _, u := range f.ufos {
		if !u.Landed && u.Pos != u.Destination {
			dx := u.Destination.Lon - u.Pos.Lon
			dy := u.Destination.Lat - u.Pos.Lat
			dist := math.Hypot(dx, dy)
			if dist <= step {
				u.Pos = u.Destination
				arrived = append(arrived, u)
			} else {
				u.Pos.Lon += dx / dist * step
				u.Pos.Lat += dy / dist * step
			}
		}
		u.Detected = u.Spotted || u.OnGeoscape && f.radar.Covers(u.Pos)
	}
	return arrived
}
