package world

import (
	"fmt"
	"slices"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/ufoai/geoscape/internal/geo"
	"github.com/ufoai/geoscape/pkg/core"
)

const radarSegments = 32

// Radar is the union of the coverage discs of bases and installations.
type Radar struct {
	areas []coverage
}

type coverage struct {
	owner any
	area  geom.Polygon
}

func NewRadar() *Radar {
	return &Radar{}
}

// Add registers a coverage disc for owner. A second Add for the same owner
// replaces the first.
func (r *Radar) Add(owner any, center core.Position, radius float64) error {
	area, err := geo.Circle(center, radius, radarSegments)
	if err != nil {
		return fmt.Errorf("radar coverage: %w", err)
	}
	r.Remove(owner)
	r.areas = append(r.areas, coverage{owner: owner, area: area})
	return nil
}

func (r *Radar) Remove(owner any) {
	r.areas = slices.DeleteFunc(r.areas, func(c coverage) bool { return c.owner == owner })
}

func (r *Radar) Covers(pos core.Position) bool {
	for _, c := range r.areas {
		if geo.Contains(c.area.AsGeometry(), pos) {
			return true
		}
	}
	return false
}

// Len is the number of coverage discs.
func (r *Radar) Len() int {
	return len(r.areas)
}
