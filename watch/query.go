package watch

import "math"

// DefaultSearchZoom is the zoom level passed to the map index.
const DefaultSearchZoom = 15

// SpatialQueryBuilder turns a center and radius into a tile bounding box.
type SpatialQueryBuilder struct {
	Zoom int
}

// Build returns a box centered on center extending radius meters along
// each axis. The half-widths are rounded up to whole tile units.
func (b SpatialQueryBuilder) Build(center LocationSample, radius float64) BoundingBox {
	zoom := b.Zoom
	if zoom == 0 {
		zoom = DefaultSearchZoom
	}

	dx := int64(math.Ceil(radius / MetersPerTileUnit(AxisX, center.Lat)))
	dy := int64(math.Ceil(radius / MetersPerTileUnit(AxisY, center.Lat)))
	cx := TileX(center.Lon)
	cy := TileY(center.Lat)

	return BoundingBox{
		MinX: cx - dx,
		MaxX: cx + dx,
		MinY: cy - dy,
		MaxY: cy + dy,
		Zoom: zoom,
	}
}
