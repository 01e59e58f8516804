package binning

import (
	"fmt"
	"math"
	"sort"

	"github.com/skypies/geo"

	"github.com/skypies/lorarange/reception"
)

// TileKey is a tile's position, counted in tiles north (Row) and east (Col) of the grid's
// south-west corner.
type TileKey struct {
	Row, Col int
}

// Grid lays fixed-size rectangular tiles over a bounded map.
type Grid struct {
	Bounds   geo.LatlongBox
	Origin   geo.Latlong // SW corner
	TileLat  float64     // degrees
	TileLong float64     // degrees

	Tiles   map[TileKey]*Stats
	Outside int // records that fell outside Bounds
}

func NewGrid(sw, ne geo.Latlong, tileLat, tileLong float64) *Grid {
	return &Grid{
		Bounds:   geo.NewLatlongBox(sw, ne),
		Origin:   sw,
		TileLat:  tileLat,
		TileLong: tileLong,
		Tiles:    map[TileKey]*Stats{},
	}
}

// {{{ g.Key

func (g *Grid) Key(pos geo.Latlong) TileKey {
	return TileKey{
		Row: int(math.Floor((pos.Lat - g.Origin.Lat) / g.TileLat)),
		Col: int(math.Floor((pos.Long - g.Origin.Long) / g.TileLong)),
	}
}

// }}}
// {{{ g.Tile

// Tile returns the SW and NE corners of a tile.
func (g *Grid) Tile(k TileKey) (sw, ne geo.Latlong) {
	sw = geo.Latlong{
		Lat:  g.Origin.Lat + float64(k.Row)*g.TileLat,
		Long: g.Origin.Long + float64(k.Col)*g.TileLong,
	}
	ne = geo.Latlong{Lat: sw.Lat + g.TileLat, Long: sw.Long + g.TileLong}
	return
}

// Center is the midpoint of a tile.
func (g *Grid) Center(k TileKey) geo.Latlong {
	sw, ne := g.Tile(k)
	return geo.Latlong{Lat: (sw.Lat + ne.Lat) / 2, Long: (sw.Long + ne.Long) / 2}
}

// }}}
// {{{ g.Add

func (g *Grid) Add(recs ...reception.Record) {
	for _, r := range recs {
		if !g.Bounds.Contains(r.Pos) {
			g.Outside++
			continue
		}
		k := g.Key(r.Pos)
		if _, exists := g.Tiles[k]; !exists {
			g.Tiles[k] = &Stats{}
		}
		g.Tiles[k].Add(r)
	}
}

// }}}

// Keys returns the occupied tiles, south to north then west to east.
func (g *Grid) Keys() []TileKey {
	keys := []TileKey{}
	for k := range g.Tiles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}

// {{{ g.String

func (g Grid) String() string {
	str := ""
	for _, k := range g.Keys() {
		c := g.Center(k)
		str += fmt.Sprintf(" [%3d,%3d] (%.5f,%.5f) : %s\n", k.Row, k.Col, c.Lat, c.Long, g.Tiles[k])
	}
	if g.Outside > 0 {
		str += fmt.Sprintf(" (%d records outside the grid)\n", g.Outside)
	}
	return str
}

// }}}
