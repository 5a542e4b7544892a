package core

import (
	"fmt"
	"math"
)

// Position is a point on the geoscape in degrees.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Length is the distance of the position vector from (0,0). Saves written
// before the assigned flag existed use it to tell a real position from an
// empty one.
func (p Position) Length() float64 {
	return math.Hypot(p.Lon, p.Lat)
}

func (p Position) String() string {
	return fmt.Sprintf("%.2f,%.2f", p.Lon, p.Lat)
}
