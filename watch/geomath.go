package watch

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/maptile"
)

// TileZoom is the zoom level of the integer tile coordinate system used by
// the map index. At zoom 31 one tile unit is a few centimeters wide.
const TileZoom maptile.Zoom = 31

// Axis selects a tile coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b LocationSample) float64 {
	return geo.DistanceHaversine(a.point(), b.point())
}

// equatorTileUnit is the length in meters of one tile unit on the equator.
var equatorTileUnit = 2 * math.Pi * orb.EarthRadius / math.Exp2(float64(TileZoom))

// MetersPerTileUnit returns how many meters one 31-bit tile unit spans along
// the given axis at the reference latitude. Web Mercator is conformal, so the
// Y axis shrinks with cos(lat) exactly like the X axis.
func MetersPerTileUnit(axis Axis, lat float64) float64 {
	return equatorTileUnit * math.Cos(lat*math.Pi/180)
}

// TileX returns the 31-bit tile X coordinate of a longitude.
func TileX(lon float64) int64 {
	f := maptile.Fraction(orb.Point{lon, 0}, TileZoom)
	return int64(f[0])
}

// TileY returns the 31-bit tile Y coordinate of a latitude.
func TileY(lat float64) int64 {
	f := maptile.Fraction(orb.Point{0, lat}, TileZoom)
	return int64(f[1])
}

func (l LocationSample) point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}
