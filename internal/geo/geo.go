package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/ufoai/geoscape/pkg/core"
)

// GEO POINTS
// Campaign positions are longitude/latitude in EPSG:4326. Persisted points
// are stored in EPSG:3857 as WKB, so the SQL backends can read them without
// spatial extensions.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// PositionFromString parses a "long,lat" string.
func PositionFromString(coords string) (core.Position, error) {
	split := strings.Split(coords, ",")
	if len(split) != 2 {
		return core.Position{}, ErrInvalidCoordinates
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(split[0]), 64)
	if err != nil {
		return core.Position{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(split[1]), 64)
	if err != nil {
		return core.Position{}, ErrInvalidCoordinates
	}
	if !Valid(core.Position{Lon: long, Lat: lat}) {
		return core.Position{}, ErrInvalidCoordinates
	}
	return core.Position{Lon: long, Lat: lat}, nil
}

// Valid reports whether p lies on the globe.
func Valid(p core.Position) bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// Point returns p as a 4326 point.
func Point(p core.Position) (geom.Point, error) {
	point, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.Lon, Y: p.Lat}})
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
	}
	return point, nil
}

// Coords3857From4326 creates a web mercator point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	if !Valid(core.Position{Lon: longitude, Lat: latitude}) {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
	}
	// mercator is undefined at the poles
	latitude = math.Max(-85.0511, math.Min(85.0511, latitude))
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	point, err = geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
	}
	return point, nil
}

// PositionFrom3857 converts a web mercator point back to a campaign position.
func PositionFrom3857(point geom.Point) (core.Position, error) {
	c, ok := point.Coordinates()
	if !ok {
		return core.Position{}, ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	lon, lat, _ := f(c.X, c.Y, 0)
	return core.Position{Lon: lon, Lat: lat}, nil
}

// Circle approximates the disc of the given radius (in degrees) around
// center with a regular polygon. A degenerate radius is an error.
func Circle(center core.Position, radius float64, segments int) (geom.Polygon, error) {
	if segments < 3 {
		segments = 3
	}
	coords := make([]float64, 0, 2*(segments+1))
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		coords = append(coords, center.Lon+radius*math.Cos(a), center.Lat+radius*math.Sin(a))
	}
	coords = append(coords, coords[0], coords[1])
	ring, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("circle of radius %v: %w", radius, err)
	}
	disc, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("circle of radius %v: %w", radius, err)
	}
	return disc, nil
}

// Contains reports whether the area contains p. Invalid positions are
// never contained.
func Contains(area geom.Geometry, p core.Position) bool {
	pt, err := Point(p)
	if err != nil {
		return false
	}
	return geom.Intersects(area, pt.AsGeometry())
}
