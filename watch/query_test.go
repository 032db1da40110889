package watch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpatialQueryBuilderBuild(t *testing.T) {
	for _, center := range []LocationSample{
		{Lat: 0, Lon: 0},
		{Lat: 47.2237, Lon: 8.8175},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 64.1466, Lon: -21.9426},
	} {
		box := SpatialQueryBuilder{}.Build(center, 250)
		cx, cy := TileX(center.Lon), TileY(center.Lat)
		dx := int64(math.Ceil(250 / MetersPerTileUnit(AxisX, center.Lat)))
		dy := int64(math.Ceil(250 / MetersPerTileUnit(AxisY, center.Lat)))

		assert.Equal(t, DefaultSearchZoom, box.Zoom)
		assert.Equal(t, dx, box.MaxX-cx)
		assert.Equal(t, dx, cx-box.MinX)
		assert.Equal(t, dy, box.MaxY-cy)
		assert.Equal(t, dy, cy-box.MinY)
	}
}

func TestSpatialQueryBuilderGrowsWithLatitude(t *testing.T) {
	b := SpatialQueryBuilder{Zoom: 15}
	equator := b.Build(LocationSample{Lat: 0}, 100)
	north := b.Build(LocationSample{Lat: 60}, 100)

	assert.Greater(t, north.MaxX-north.MinX, equator.MaxX-equator.MinX)
	assert.Equal(t, 15, north.Zoom)
}
