package world

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/internal/rng"
	"github.com/ufoai/geoscape/pkg/core"
)

const (
	randomPositionTries = 32
	defaultTerrain      = "grass"
	defaultCivilians    = 4
)

// Nation is a named polygon on the globe.
type Nation struct {
	ID        string
	Name      string
	Terrain   string
	Civilians int
	Area      geom.Polygon

	minX, minY, maxX, maxY float64
}

// NewNation validates the outline and caches its bounding box.
func NewNation(id, name, terrain string, civilians int, area geom.Polygon) (*Nation, error) {
	minX, minY, maxX, maxY, ok := geo.Bounds(area)
	if !ok {
		return nil, fmt.Errorf("nation %s: empty outline", id)
	}
	return &Nation{
		ID: id, Name: name, Terrain: terrain, Civilians: civilians, Area: area,
		minX: minX, minY: minY, maxX: maxX, maxY: maxY,
	}, nil
}

func (n *Nation) contains(pos core.Position) bool {
	if pos.Lon < n.minX || pos.Lon > n.maxX || pos.Lat < n.minY || pos.Lat > n.maxY {
		return false
	}
	return geo.Contains(n.Area.AsGeometry(), pos)
}

// Geography answers where things are on the globe.
type Geography struct {
	nations []*Nation
}

func NewGeography(nations ...*Nation) *Geography {
	return &Geography{nations: nations}
}

func (g *Geography) Nations() []*Nation {
	return g.nations
}

func (g *Geography) nationAt(pos core.Position) *Nation {
	for _, n := range g.nations {
		if n.contains(pos) {
			return n
		}
	}
	return nil
}

// RandomPosition picks a nation at random, then samples its bounding box
// until the point falls inside the outline.
func (g *Geography) RandomPosition(_ core.Category, r rng.Source) (core.Position, bool) {
	if len(g.nations) == 0 {
		return core.Position{}, false
	}
	n := g.nations[r.Intn(len(g.nations))]
	for range randomPositionTries {
		pos := core.Position{
			Lon: n.minX + r.Float64()*(n.maxX-n.minX),
			Lat: n.minY + r.Float64()*(n.maxY-n.minY),
		}
		if n.contains(pos) {
			return pos, true
		}
	}
	return core.Position{}, false
}

func (g *Geography) Nation(pos core.Position) string {
	if n := g.nationAt(pos); n != nil {
		return n.ID
	}
	return ""
}

func (g *Geography) CivilianCount(pos core.Position) int {
	if n := g.nationAt(pos); n != nil && n.Civilians > 0 {
		return n.Civilians
	}
	return defaultCivilians
}

func (g *Geography) Terrain(pos core.Position) string {
	if n := g.nationAt(pos); n != nil && n.Terrain != "" {
		return n.Terrain
	}
	return defaultTerrain
}
