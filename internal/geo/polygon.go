package geo

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ParsePolygon parses a JSON array of [long,lat] pairs into a polygon. The
// ring is closed if the last point differs from the first.
// Input format: "[[x1,y1],[x2,y2],...]"
func ParsePolygon(input string) (geom.Polygon, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return geom.Polygon{}, fmt.Errorf("failed to parse polygon JSON: %w", err)
	}
	return PolygonFromPairs(coords)
}

// PolygonFromPairs builds a polygon from [long,lat] pairs.
func PolygonFromPairs(coords [][]float64) (geom.Polygon, error) {
	if len(coords) < 3 {
		return geom.Polygon{}, fmt.Errorf("polygon must have at least 3 points, got %d", len(coords))
	}

	flat := make([]float64, 0, len(coords)*2+2)
	for i, coord := range coords {
		if len(coord) < 2 {
			return geom.Polygon{}, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		flat = append(flat, coord[0], coord[1])
	}
	first, last := coords[0], coords[len(coords)-1]
	if first[0] != last[0] || first[1] != last[1] {
		flat = append(flat, first[0], first[1])
	}

	ring, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("invalid polygon ring: %w", err)
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("invalid polygon: %w", err)
	}
	return poly, nil
}

// Bounds returns the bounding box of the polygon as min and max corners.
func Bounds(p geom.Polygon) (minX, minY, maxX, maxY float64, ok bool) {
	env := p.Envelope()
	lo, hi, ok := env.MinMaxXYs()
	if !ok {
		return 0, 0, 0, 0, false
	}
	return lo.X, lo.Y, hi.X, hi.Y, true
}
