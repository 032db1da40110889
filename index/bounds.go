package index

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/nwah/naviwatch-bridge/watch"
)

const maxTileUnit = 1<<31 - 1

func clampTileUnit(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > maxTileUnit {
		return maxTileUnit
	}
	return uint32(v)
}

// lonLatBound converts a tile-unit box into the lon/lat rectangle covering
// it. Tile Y grows southwards, so MinY gives the northern edge.
func lonLatBound(box watch.BoundingBox) orb.Bound {
	nw := maptile.New(clampTileUnit(box.MinX), clampTileUnit(box.MinY), watch.TileZoom).Bound()
	se := maptile.New(clampTileUnit(box.MaxX), clampTileUnit(box.MaxY), watch.TileZoom).Bound()
	return orb.Bound{
		Min: orb.Point{nw.Min.Lon(), se.Min.Lat()},
		Max: orb.Point{se.Max.Lon(), nw.Max.Lat()},
	}
}
